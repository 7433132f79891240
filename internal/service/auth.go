package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"transferdesk/internal/model"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

type AuthService struct {
	users  *UserService
	secret string
}

func NewAuthService(users *UserService, secret string) *AuthService {
	return &AuthService{users: users, secret: secret}
}

type AuthResponse struct {
	AccessToken  string     `json:"access_token"`
	RefreshToken string     `json:"refresh_token"`
	User         model.User `json:"user"`
}

func (s *AuthService) Login(ctx context.Context, phone, password string) (*AuthResponse, error) {
	user, err := s.users.FindByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	return s.BuildAuthResponse(user)
}

// Refresh verifies a refresh token and issues a fresh token pair.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := s.ParseToken(refreshToken)
	if err != nil {
		return nil, err
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return nil, ErrInvalidToken
	}
	user, err := s.users.FindByID(ctx, sub)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	return s.BuildAuthResponse(user)
}

// BuildAuthResponse issues the access/refresh token pair for user.
func (s *AuthService) BuildAuthResponse(user *model.User) (*AuthResponse, error) {
	access, err := s.signToken(user, accessTokenTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.signToken(user, refreshTokenTTL)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{AccessToken: access, RefreshToken: refresh, User: *user}, nil
}

func (s *AuthService) signToken(user *model.User, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  user.ID,
		"role": string(user.Role),
		"exp":  jwt.NewNumericDate(time.Now().Add(ttl)),
		"iat":  jwt.NewNumericDate(time.Now()),
	})
	signed, err := token.SignedString([]byte(s.secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

func (s *AuthService) ParseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.secret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

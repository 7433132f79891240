package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"transferdesk/internal/model"
)

type UserService struct {
	db *sql.DB
}

func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db}
}

const userColumns = `id, username, phone, password_hash, role, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.Phone, &u.PasswordHash, &u.Role,
		&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *UserService) Create(ctx context.Context, username, phone, password string, role model.Role) (*model.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	if role == "" {
		role = model.RoleUser
	}

	query := `INSERT INTO users (id, username, phone, password_hash, role)
		VALUES ($1, $2, $3, $4, $5) RETURNING ` + userColumns
	user, err := scanUser(s.db.QueryRowContext(ctx, query,
		uuid.NewString(), username, phone, string(hash), role))
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return user, nil
}

func (s *UserService) FindByID(ctx context.Context, id string) (*model.User, error) {
	user, err := scanUser(s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *UserService) FindByPhone(ctx context.Context, phone string) (*model.User, error) {
	user, err := scanUser(s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE phone = $1`, phone))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *user)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}
	return users, nil
}

type UpdateUserInput struct {
	Username *string     `json:"username"`
	Phone    *string     `json:"phone"`
	Password *string     `json:"password"`
	Role     *model.Role `json:"role" validate:"omitempty,oneof=user admin"`
}

func (s *UserService) Update(ctx context.Context, id string, in UpdateUserInput) (*model.User, error) {
	user, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Username != nil {
		user.Username = *in.Username
	}
	if in.Phone != nil {
		user.Phone = *in.Phone
	}
	if in.Role != nil {
		user.Role = *in.Role
	}
	if in.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}

	query := `UPDATE users SET username = $1, phone = $2, password_hash = $3,
		role = $4, updated_at = NOW() WHERE id = $5 RETURNING ` + userColumns
	updated, err := scanUser(s.db.QueryRowContext(ctx, query,
		user.Username, user.Phone, user.PasswordHash, user.Role, id))
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return updated, nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

package handler

import (
	"context"
	"net/http"

	"transferdesk/internal/model"
	"transferdesk/internal/mw"
	"transferdesk/internal/service"
)

type AuthProvider interface {
	Login(ctx context.Context, phone, password string) (*service.AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*service.AuthResponse, error)
	BuildAuthResponse(user *model.User) (*service.AuthResponse, error)
}

type loginRequest struct {
	Phone    string `json:"phone" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func LoginHandler(authSvc AuthProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		resp, err := authSvc.Login(r.Context(), req.Phone, req.Password)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

func RefreshHandler(authSvc AuthProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req refreshRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		resp, err := authSvc.Refresh(r.Context(), req.RefreshToken)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func MeHandler(userSvc UserProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := r.Context().Value(mw.UserCtxKey).(string)
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		user, err := userSvc.FindByID(r.Context(), userID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}

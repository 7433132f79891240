package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"transferdesk/internal/model"
	"transferdesk/internal/service"
)

type UserProvider interface {
	Create(ctx context.Context, username, phone, password string, role model.Role) (*model.User, error)
	FindByID(ctx context.Context, id string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
	Update(ctx context.Context, id string, in service.UpdateUserInput) (*model.User, error)
	Delete(ctx context.Context, id string) error
}

type SecretVerifier interface {
	VerifyRegistrationSecret(ctx context.Context, candidate string) error
	UpdateRegistrationSecret(ctx context.Context, newSecret string) error
}

type registerRequest struct {
	SecretKey string     `json:"secretKey" validate:"required"`
	Username  string     `json:"username" validate:"required"`
	Phone     string     `json:"phone" validate:"required"`
	Password  string     `json:"password" validate:"required,min=6"`
	Role      model.Role `json:"role" validate:"omitempty,oneof=user admin"`
}

// RegisterHandler creates a user after checking the shared registration
// secret and answers with a ready-to-use token pair.
func RegisterHandler(userSvc UserProvider, settingsSvc SecretVerifier, authSvc AuthProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		if err := settingsSvc.VerifyRegistrationSecret(r.Context(), req.SecretKey); err != nil {
			writeError(w, err)
			return
		}

		user, err := userSvc.Create(r.Context(), req.Username, req.Phone, req.Password, req.Role)
		if err != nil {
			writeError(w, err)
			return
		}

		resp, err := authSvc.BuildAuthResponse(user)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, resp)
	}
}

func ListUsersHandler(userSvc UserProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := userSvc.List(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, users)
	}
}

func GetUserHandler(userSvc UserProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := userSvc.FindByID(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}

func UpdateUserHandler(userSvc UserProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req service.UpdateUserInput
		if !decodeAndValidate(w, r, &req) {
			return
		}

		user, err := userSvc.Update(r.Context(), chi.URLParam(r, "id"), req)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, user)
	}
}

func DeleteUserHandler(userSvc UserProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := userSvc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
	}
}

type updateSecretRequest struct {
	Secret string `json:"secret" validate:"required,min=6"`
}

func UpdateRegistrationSecretHandler(settingsSvc SecretVerifier) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req updateSecretRequest
		if !decodeAndValidate(w, r, &req) {
			return
		}

		if err := settingsSvc.UpdateRegistrationSecret(r.Context(), req.Secret); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"updated": true})
	}
}

package handler

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"transferdesk/internal/model"
	"transferdesk/internal/service"
)

type mockAuthService struct {
	loginFn   func(phone, password string) (*service.AuthResponse, error)
	refreshFn func(token string) (*service.AuthResponse, error)
	buildFn   func(user *model.User) (*service.AuthResponse, error)
}

func (m *mockAuthService) Login(_ context.Context, phone, password string) (*service.AuthResponse, error) {
	if m.loginFn != nil {
		return m.loginFn(phone, password)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockAuthService) Refresh(_ context.Context, token string) (*service.AuthResponse, error) {
	if m.refreshFn != nil {
		return m.refreshFn(token)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockAuthService) BuildAuthResponse(user *model.User) (*service.AuthResponse, error) {
	if m.buildFn != nil {
		return m.buildFn(user)
	}
	return &service.AuthResponse{AccessToken: "at", RefreshToken: "rt", User: *user}, nil
}

type mockUserService struct {
	createFn func(username, phone, password string, role model.Role) (*model.User, error)
	findFn   func(id string) (*model.User, error)
}

func (m *mockUserService) Create(_ context.Context, username, phone, password string, role model.Role) (*model.User, error) {
	if m.createFn != nil {
		return m.createFn(username, phone, password, role)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockUserService) FindByID(_ context.Context, id string) (*model.User, error) {
	if m.findFn != nil {
		return m.findFn(id)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockUserService) List(context.Context) ([]model.User, error) {
	return nil, fmt.Errorf("not configured")
}

func (m *mockUserService) Update(context.Context, string, service.UpdateUserInput) (*model.User, error) {
	return nil, fmt.Errorf("not configured")
}

func (m *mockUserService) Delete(context.Context, string) error {
	return fmt.Errorf("not configured")
}

type mockSettingsService struct {
	verifyFn func(candidate string) error
	updateFn func(newSecret string) error
}

func (m *mockSettingsService) VerifyRegistrationSecret(_ context.Context, candidate string) error {
	if m.verifyFn != nil {
		return m.verifyFn(candidate)
	}
	return fmt.Errorf("not configured")
}

func (m *mockSettingsService) UpdateRegistrationSecret(_ context.Context, newSecret string) error {
	if m.updateFn != nil {
		return m.updateFn(newSecret)
	}
	return fmt.Errorf("not configured")
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name           string
		body           map[string]any
		loginFn        func(phone, password string) (*service.AuthResponse, error)
		expectedStatus int
	}{
		{
			name: "success",
			body: map[string]any{"phone": "+998901234567", "password": "hunter22"},
			loginFn: func(phone, password string) (*service.AuthResponse, error) {
				return &service.AuthResponse{
					AccessToken:  "at",
					RefreshToken: "rt",
					User:         model.User{ID: "usr-1", Phone: phone},
				}, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "bad credentials",
			body: map[string]any{"phone": "+998901234567", "password": "wrong"},
			loginFn: func(string, string) (*service.AuthResponse, error) {
				return nil, service.ErrInvalidCredentials
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "missing password",
			body:           map[string]any{"phone": "+998901234567"},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := LoginHandler(&mockAuthService{loginFn: tt.loginFn})
			w := doRequest(h, http.MethodPost, "/api/auth/login", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d (body: %s)", w.Code, tt.expectedStatus, w.Body.String())
			}
		})
	}
}

func TestRefresh(t *testing.T) {
	h := RefreshHandler(&mockAuthService{
		refreshFn: func(token string) (*service.AuthResponse, error) {
			if token != "valid-rt" {
				return nil, service.ErrInvalidToken
			}
			return &service.AuthResponse{AccessToken: "new-at", RefreshToken: "new-rt"}, nil
		},
	})

	w := doRequest(h, http.MethodPost, "/api/auth/refresh", map[string]any{"refresh_token": "valid-rt"})
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	w = doRequest(h, http.MethodPost, "/api/auth/refresh", map[string]any{"refresh_token": "expired"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestRegister(t *testing.T) {
	tests := []struct {
		name           string
		body           map[string]any
		verifyFn       func(string) error
		createFn       func(username, phone, password string, role model.Role) (*model.User, error)
		expectedStatus int
	}{
		{
			name: "success",
			body: map[string]any{
				"secretKey": "letmein", "username": "karim",
				"phone": "+998901234567", "password": "hunter22",
			},
			verifyFn: func(string) error { return nil },
			createFn: func(username, phone, password string, role model.Role) (*model.User, error) {
				if role != "" {
					t.Errorf("role = %q, want empty (service defaults it)", role)
				}
				return &model.User{ID: "usr-1", Username: username, Phone: phone, Role: model.RoleUser}, nil
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "invalid secret",
			body: map[string]any{
				"secretKey": "wrong", "username": "karim",
				"phone": "+998901234567", "password": "hunter22",
			},
			verifyFn:       func(string) error { return service.ErrInvalidSecret },
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "duplicate user",
			body: map[string]any{
				"secretKey": "letmein", "username": "karim",
				"phone": "+998901234567", "password": "hunter22",
			},
			verifyFn: func(string) error { return nil },
			createFn: func(string, string, string, model.Role) (*model.User, error) {
				return nil, service.ErrUserExists
			},
			expectedStatus: http.StatusConflict,
		},
		{
			// First registration on a fresh deployment without a configured
			// default secret: the seeding error comes back to the caller.
			name: "secret bootstrap failure",
			body: map[string]any{
				"secretKey": "letmein", "username": "karim",
				"phone": "+998901234567", "password": "hunter22",
			},
			verifyFn:       func(string) error { return fmt.Errorf("registration secret default is not set") },
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name:           "missing secret",
			body:           map[string]any{"username": "karim", "phone": "+998901234567", "password": "hunter22"},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := RegisterHandler(
				&mockUserService{createFn: tt.createFn},
				&mockSettingsService{verifyFn: tt.verifyFn},
				&mockAuthService{},
			)
			w := doRequest(h, http.MethodPost, "/api/users/register", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("status = %d, want %d (body: %s)", w.Code, tt.expectedStatus, w.Body.String())
			}
		})
	}
}

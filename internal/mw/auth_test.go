package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestAuthMiddleware(t *testing.T) {
	validClaims := jwt.MapClaims{
		"sub":  "usr-1",
		"role": "admin",
		"exp":  jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}

	tests := []struct {
		name           string
		header         string
		expectedStatus int
	}{
		{
			name:           "valid token",
			header:         "Bearer " + signToken(t, testSecret, validClaims),
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing header",
			header:         "",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "not bearer",
			header:         "Basic abc",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "wrong secret",
			header:         "Bearer " + signToken(t, "other-secret", validClaims),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "expired token",
			header: "Bearer " + signToken(t, testSecret, jwt.MapClaims{
				"sub": "usr-1",
				"exp": jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			}),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "missing subject",
			header: "Bearer " + signToken(t, testSecret, jwt.MapClaims{
				"exp": jwt.NewNumericDate(time.Now().Add(time.Hour)),
			}),
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUser, gotRole any
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUser = r.Context().Value(UserCtxKey)
				gotRole = r.Context().Value(RoleCtxKey)
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			AuthMiddleware(testSecret)(next).ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.expectedStatus)
			}
			if tt.expectedStatus == http.StatusOK {
				if gotUser != "usr-1" {
					t.Errorf("user in context = %v, want usr-1", gotUser)
				}
				if gotRole != "admin" {
					t.Errorf("role in context = %v, want admin", gotRole)
				}
			}
		})
	}
}

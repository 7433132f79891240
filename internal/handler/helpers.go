package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"transferdesk/internal/service"
)

var validate = validator.New()

type validationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type validationErrorResponse struct {
	Message string            `json:"message"`
	Details []validationError `json:"details"`
}

func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return false
	}

	if err := validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			http.Error(w, "invalid request", http.StatusBadRequest)
			return false
		}
		resp := validationErrorResponse{Message: "validation failed"}
		for _, fe := range verrs {
			resp.Details = append(resp.Details, validationError{
				Field:   fe.Field(),
				Message: fe.Tag(),
			})
		}
		writeJSON(w, http.StatusBadRequest, resp)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrRegionNotFound),
		errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrUserNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, service.ErrRegionNameTaken),
		errors.Is(err, service.ErrUserExists):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrInvalidToken):
		http.Error(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, service.ErrInvalidSecret):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		slog.Error("request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"transferdesk/internal/service"
)

type CleanupRunner interface {
	Run(ctx context.Context, daysOld int) (*service.CleanupResult, error)
}

type cleanupResponse struct {
	service.CleanupResult
	Message string `json:"message"`
}

func CleanupOrdersHandler(cleanupSvc CleanupRunner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// days=0 is legal: purge everything created before now.
		days := service.DefaultRetentionDays
		if raw := r.URL.Query().Get("days"); raw != "" {
			if n, err := strconv.Atoi(raw); err == nil && n >= 0 {
				days = n
			}
		}

		result, err := cleanupSvc.Run(r.Context(), days)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, cleanupResponse{
			CleanupResult: *result,
			Message: fmt.Sprintf("Successfully deleted %d orders older than %d days and updated %d regions",
				result.Deleted, days, result.AffectedRegions),
		})
	}
}

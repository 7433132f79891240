package handler

import (
	"context"
	"net/http"

	"transferdesk/internal/model"
)

type AnalyticsProvider interface {
	GlobalStats(ctx context.Context) (*model.GlobalStats, error)
	RegionStats(ctx context.Context) (*model.RegionStats, error)
}

func GlobalStatsHandler(analyticsSvc AnalyticsProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := analyticsSvc.GlobalStats(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

func RegionStatsHandler(analyticsSvc AnalyticsProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := analyticsSvc.RegionStats(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

package worker

import (
	"context"
	"log/slog"
	"time"

	"transferdesk/internal/service"
)

// CleanupWorker purges expired orders once a day. A failed run is logged and
// the worker waits for the next slot; it never takes the process down.
type CleanupWorker struct {
	cleanupSvc *service.CleanupService
	runAtHour  int
}

func NewCleanupWorker(cleanupSvc *service.CleanupService) *CleanupWorker {
	return &CleanupWorker{
		cleanupSvc: cleanupSvc,
		runAtHour:  2,
	}
}

func (w *CleanupWorker) Start(ctx context.Context) {
	slog.Info("starting cleanup worker", "hour", w.runAtHour)

	for {
		timer := time.NewTimer(time.Until(w.nextRun(time.Now())))
		select {
		case <-ctx.Done():
			timer.Stop()
			slog.Info("cleanup worker stopped")
			return
		case <-timer.C:
			w.runOnce(ctx)
		}
	}
}

func (w *CleanupWorker) runOnce(ctx context.Context) {
	slog.Info("starting scheduled cleanup", "retention_days", service.DefaultRetentionDays)

	result, err := w.cleanupSvc.Run(ctx, service.DefaultRetentionDays)
	if err != nil {
		slog.Error("scheduled cleanup failed", "error", err)
		return
	}

	slog.Info("scheduled cleanup completed",
		"deleted", result.Deleted, "affected_regions", result.AffectedRegions)
}

// nextRun returns the next occurrence of the configured hour after now.
func (w *CleanupWorker) nextRun(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), w.runAtHour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

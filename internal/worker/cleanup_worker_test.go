package worker

import (
	"testing"
	"time"
)

func TestNextRun(t *testing.T) {
	w := NewCleanupWorker(nil)

	tests := []struct {
		name string
		now  string
		want string
	}{
		{"before slot", "2026-08-31T01:30:00", "2026-08-31T02:00:00"},
		{"exactly at slot", "2026-08-31T02:00:00", "2026-09-01T02:00:00"},
		{"after slot", "2026-08-31T14:45:00", "2026-09-01T02:00:00"},
		{"end of month", "2026-08-31T23:59:59", "2026-09-01T02:00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			now, err := time.ParseInLocation("2006-01-02T15:04:05", tt.now, time.UTC)
			if err != nil {
				t.Fatalf("parse now: %v", err)
			}
			want, _ := time.ParseInLocation("2006-01-02T15:04:05", tt.want, time.UTC)

			if got := w.nextRun(now); !got.Equal(want) {
				t.Errorf("nextRun(%s) = %s, want %s", now, got, want)
			}
		})
	}
}

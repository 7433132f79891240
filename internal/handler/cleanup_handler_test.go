package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"transferdesk/internal/service"
)

type mockCleanupService struct {
	runFn func(daysOld int) (*service.CleanupResult, error)
}

func (m *mockCleanupService) Run(_ context.Context, daysOld int) (*service.CleanupResult, error) {
	return m.runFn(daysOld)
}

func TestCleanupOrders(t *testing.T) {
	tests := []struct {
		name         string
		url          string
		wantDays     int
		result       *service.CleanupResult
		err          error
		expectedCode int
	}{
		{
			name:         "default threshold",
			url:          "/api/cleanup/orders",
			wantDays:     30,
			result:       &service.CleanupResult{Deleted: 4, AffectedRegions: 2},
			expectedCode: http.StatusOK,
		},
		{
			name:         "explicit threshold",
			url:          "/api/cleanup/orders?days=7",
			wantDays:     7,
			result:       &service.CleanupResult{Deleted: 1, AffectedRegions: 2},
			expectedCode: http.StatusOK,
		},
		{
			name:         "zero threshold purges everything",
			url:          "/api/cleanup/orders?days=0",
			wantDays:     0,
			result:       &service.CleanupResult{},
			expectedCode: http.StatusOK,
		},
		{
			name:         "negative threshold falls back to default",
			url:          "/api/cleanup/orders?days=-3",
			wantDays:     30,
			result:       &service.CleanupResult{},
			expectedCode: http.StatusOK,
		},
		{
			name:         "service failure propagates",
			url:          "/api/cleanup/orders",
			wantDays:     30,
			err:          errors.New("db down"),
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotDays int
			svc := &mockCleanupService{
				runFn: func(daysOld int) (*service.CleanupResult, error) {
					gotDays = daysOld
					return tt.result, tt.err
				},
			}

			w := doRequest(CleanupOrdersHandler(svc), http.MethodPost, tt.url, nil)
			if w.Code != tt.expectedCode {
				t.Fatalf("status = %d, want %d", w.Code, tt.expectedCode)
			}
			if gotDays != tt.wantDays {
				t.Errorf("days = %d, want %d", gotDays, tt.wantDays)
			}

			if tt.err == nil {
				var resp struct {
					Deleted         int    `json:"deleted"`
					AffectedRegions int    `json:"affectedRegions"`
					Message         string `json:"message"`
				}
				if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
					t.Fatalf("unmarshal: %v", err)
				}
				if resp.Deleted != tt.result.Deleted || resp.AffectedRegions != tt.result.AffectedRegions {
					t.Errorf("response = %+v, want %+v", resp, tt.result)
				}
				if resp.Message == "" {
					t.Error("message is empty")
				}
			}
		})
	}
}

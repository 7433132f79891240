package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"transferdesk/internal/model"
)

type mockAnalyticsService struct {
	globalFn  func() (*model.GlobalStats, error)
	regionsFn func() (*model.RegionStats, error)
}

func (m *mockAnalyticsService) GlobalStats(context.Context) (*model.GlobalStats, error) {
	if m.globalFn != nil {
		return m.globalFn()
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockAnalyticsService) RegionStats(context.Context) (*model.RegionStats, error) {
	if m.regionsFn != nil {
		return m.regionsFn()
	}
	return nil, fmt.Errorf("not configured")
}

func TestGlobalStatsEndpoint(t *testing.T) {
	h := GlobalStatsHandler(&mockAnalyticsService{
		globalFn: func() (*model.GlobalStats, error) {
			return &model.GlobalStats{
				TotalIncomeUzs:  decimal.NewFromInt(100),
				TotalExpenseUzs: decimal.NewFromInt(40),
				TotalBalanceUzs: decimal.NewFromInt(60),
			}, nil
		},
	})

	w := doRequest(h, http.MethodGet, "/api/analytics/global", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), `"totalBalanceUzs":"60"`) {
		t.Errorf("body lacks derived balance: %s", w.Body.String())
	}
}

func TestGlobalStatsEndpointError(t *testing.T) {
	h := GlobalStatsHandler(&mockAnalyticsService{
		globalFn: func() (*model.GlobalStats, error) {
			return nil, fmt.Errorf("db down")
		},
	})

	w := doRequest(h, http.MethodGet, "/api/analytics/global", nil)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}

func TestRegionStatsEndpoint(t *testing.T) {
	h := RegionStatsHandler(&mockAnalyticsService{
		regionsFn: func() (*model.RegionStats, error) {
			return &model.RegionStats{
				Regions: []model.Region{
					{ID: fromRegionID, Name: "Tashkent", TotalBalanceUzs: decimal.NewFromInt(25)},
					{ID: toRegionID, Name: "Samarkand", TotalBalanceUzs: decimal.NewFromInt(75)},
				},
				TotalBalanceUzs: decimal.NewFromInt(100),
			}, nil
		},
	})

	w := doRequest(h, http.MethodGet, "/api/analytics/regions", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body: %s)", w.Code, w.Body.String())
	}
	for _, want := range []string{`"Tashkent"`, `"Samarkand"`, `"totalBalanceUzs":"100"`} {
		if !strings.Contains(w.Body.String(), want) {
			t.Errorf("body lacks %s: %s", want, w.Body.String())
		}
	}
}

func TestRegionStatsEndpointError(t *testing.T) {
	h := RegionStatsHandler(&mockAnalyticsService{
		regionsFn: func() (*model.RegionStats, error) {
			return nil, fmt.Errorf("db down")
		},
	})

	w := doRequest(h, http.MethodGet, "/api/analytics/regions", nil)
	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}

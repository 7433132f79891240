package service

import (
	"context"
	"database/sql"
	"fmt"

	"transferdesk/internal/cache"
	"transferdesk/internal/model"
)

const globalStatsKey = "analytics:global"

// AnalyticsService serves read-only aggregates. Global stats are the
// order-summing variant: totals come from the non-deleted order rows, not
// from the region ledger. The regions report exposes the ledger view
// separately; the two are not required to agree once balances have been
// overridden by hand.
type AnalyticsService struct {
	db    *sql.DB
	views *cache.ViewCache[model.GlobalStats]
}

func NewAnalyticsService(db *sql.DB, views *cache.ViewCache[model.GlobalStats]) *AnalyticsService {
	return &AnalyticsService{db: db, views: views}
}

// globalStatsQuery sums over order rows, not over region ledger fields:
// manual region-balance overrides never show up in the global figures.
const globalStatsQuery = `
	SELECT COALESCE(SUM(income_uzs), 0), COALESCE(SUM(income_usd), 0),
		COALESCE(SUM(expense_uzs), 0), COALESCE(SUM(expense_usd), 0)
	FROM orders WHERE is_deleted = FALSE
`

func scanGlobalStats(row interface{ Scan(...any) error }) (*model.GlobalStats, error) {
	var stats model.GlobalStats
	err := row.Scan(&stats.TotalIncomeUzs, &stats.TotalIncomeUsd,
		&stats.TotalExpenseUzs, &stats.TotalExpenseUsd)
	if err != nil {
		return nil, fmt.Errorf("sum orders: %w", err)
	}
	stats.TotalBalanceUzs = stats.TotalIncomeUzs.Sub(stats.TotalExpenseUzs)
	stats.TotalBalanceUsd = stats.TotalIncomeUsd.Sub(stats.TotalExpenseUsd)
	return &stats, nil
}

func (s *AnalyticsService) GlobalStats(ctx context.Context) (*model.GlobalStats, error) {
	if stats, ok := s.views.Get(ctx, globalStatsKey); ok {
		return stats, nil
	}

	stats, err := scanGlobalStats(s.db.QueryRowContext(ctx, globalStatsQuery))
	if err != nil {
		return nil, err
	}

	s.views.Set(ctx, globalStatsKey, stats)
	return stats, nil
}

func (s *AnalyticsService) RegionStats(ctx context.Context) (*model.RegionStats, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+regionColumns+` FROM regions ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("query regions: %w", err)
	}
	defer rows.Close()

	stats := &model.RegionStats{Regions: []model.Region{}}
	for rows.Next() {
		region, err := scanRegion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan region: %w", err)
		}
		stats.Regions = append(stats.Regions, *region)
		stats.TotalBalanceUzs = stats.TotalBalanceUzs.Add(region.TotalBalanceUzs)
		stats.TotalBalanceUsd = stats.TotalBalanceUsd.Add(region.TotalBalanceUsd)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}
	return stats, nil
}

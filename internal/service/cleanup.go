package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"transferdesk/internal/ledger"
	"transferdesk/internal/model"
)

// DefaultRetentionDays is the age threshold used when the caller does not
// supply one.
const DefaultRetentionDays = 30

type CleanupService struct {
	db *sql.DB
}

func NewCleanupService(db *sql.DB) *CleanupService {
	return &CleanupService{db: db}
}

type CleanupResult struct {
	Deleted         int `json:"deleted"`
	AffectedRegions int `json:"affectedRegions"`
}

// Run purges every order older than daysOld days, soft-deleted or not.
// Orders that are not yet soft-deleted still carry weight in the region
// ledger, so their amounts are reversed first; already-soft-deleted ones
// were reversed when they were flagged and are just removed. Each touched
// region is updated exactly once regardless of how many expiring orders
// reference it. The whole purge is one transaction.
func (s *CleanupService) Run(ctx context.Context, daysOld int) (*CleanupResult, error) {
	cutoff := time.Now().AddDate(0, 0, -daysOld)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.QueryContext(ctx, `
		SELECT id, from_region_id, to_region_id,
			income_uzs, expense_uzs, income_usd, expense_usd, is_deleted
		FROM orders WHERE created_at < $1
		ORDER BY id FOR UPDATE
	`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("query expired orders: %w", err)
	}

	type expired struct {
		order   model.Order
		deleted bool
	}
	var orders []expired
	for rows.Next() {
		var (
			e      expired
			fromID sql.NullString
			toID   sql.NullString
		)
		err = rows.Scan(&e.order.ID, &fromID, &toID,
			&e.order.IncomeUzs, &e.order.ExpenseUzs,
			&e.order.IncomeUsd, &e.order.ExpenseUsd, &e.deleted)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan expired order: %w", err)
		}
		if fromID.Valid {
			e.order.FromRegionID = &fromID.String
		}
		if toID.Valid {
			e.order.ToRegionID = &toID.String
		}
		orders = append(orders, e)
	}
	rows.Close()
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	if len(orders) == 0 {
		return &CleanupResult{}, nil
	}

	// The region map doubles as the per-region delta accumulator: a region
	// shared by several expiring orders is loaded, adjusted and saved once.
	var ids []*string
	for i := range orders {
		if !orders[i].deleted {
			ids = append(ids, orders[i].order.FromRegionID, orders[i].order.ToRegionID)
		}
	}
	regions, err := lockRegions(ctx, tx, regionIDSet(ids...))
	if err != nil {
		return nil, err
	}

	for i := range orders {
		if orders[i].deleted {
			continue
		}
		o := &orders[i].order
		ledger.Reverse(regionOrNil(regions, o.FromRegionID), regionOrNil(regions, o.ToRegionID), ledger.AmountsOf(o))
	}

	if err = saveRegionBalances(ctx, tx, regions); err != nil {
		return nil, err
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM orders WHERE created_at < $1`, cutoff); err != nil {
		return nil, fmt.Errorf("delete expired orders: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return &CleanupResult{
		Deleted:         len(orders),
		AffectedRegions: len(regions),
	}, nil
}

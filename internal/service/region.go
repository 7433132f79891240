package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"transferdesk/internal/ledger"
	"transferdesk/internal/model"
)

type RegionService struct {
	db *sql.DB
}

func NewRegionService(db *sql.DB) *RegionService {
	return &RegionService{db: db}
}

const regionColumns = `id, name, balance_income_uzs, balance_income_usd,
	balance_expense_uzs, balance_expense_usd, total_balance_uzs,
	total_balance_usd, created_at, updated_at`

func scanRegion(row interface{ Scan(...any) error }) (*model.Region, error) {
	var r model.Region
	err := row.Scan(
		&r.ID, &r.Name,
		&r.BalanceIncomeUzs, &r.BalanceIncomeUsd,
		&r.BalanceExpenseUzs, &r.BalanceExpenseUsd,
		&r.TotalBalanceUzs, &r.TotalBalanceUsd,
		&r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *RegionService) Create(ctx context.Context, name string) (*model.Region, error) {
	query := `INSERT INTO regions (id, name) VALUES ($1, $2) RETURNING ` + regionColumns
	region, err := scanRegion(s.db.QueryRowContext(ctx, query, uuid.NewString(), name))
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return nil, ErrRegionNameTaken
		}
		return nil, fmt.Errorf("insert region: %w", err)
	}
	return region, nil
}

func (s *RegionService) Get(ctx context.Context, id string) (*model.Region, error) {
	query := `SELECT ` + regionColumns + ` FROM regions WHERE id = $1`
	region, err := scanRegion(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRegionNotFound
		}
		return nil, fmt.Errorf("get region: %w", err)
	}
	return region, nil
}

func (s *RegionService) List(ctx context.Context, page, limit int, search string) (*model.RegionPage, error) {
	where := ``
	args := []any{}
	if search != "" {
		where = `WHERE name ILIKE '%' || $1 || '%'`
		args = append(args, search)
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM regions ` + where
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count regions: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM regions %s ORDER BY name ASC LIMIT $%d OFFSET $%d`,
		regionColumns, where, len(args)+1, len(args)+2)
	args = append(args, limit, (page-1)*limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query regions: %w", err)
	}
	defer rows.Close()

	regions := []model.Region{}
	for rows.Next() {
		region, err := scanRegion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan region: %w", err)
		}
		regions = append(regions, *region)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return &model.RegionPage{
		Data:       regions,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages(total, limit),
	}, nil
}

// UpdateRegionInput carries a partial region patch. Balance fields overwrite
// the stored values directly (manual correction); totals are recomputed from
// the income/expense components afterwards unless the caller supplies them
// explicitly, in which case the supplied values win.
type UpdateRegionInput struct {
	Name              *string          `json:"name"`
	BalanceIncomeUzs  *decimal.Decimal `json:"balanceIncomeUzs"`
	BalanceIncomeUsd  *decimal.Decimal `json:"balanceIncomeUsd"`
	BalanceExpenseUzs *decimal.Decimal `json:"balanceExpenseUzs"`
	BalanceExpenseUsd *decimal.Decimal `json:"balanceExpenseUsd"`
	TotalBalanceUzs   *decimal.Decimal `json:"totalBalanceUzs"`
	TotalBalanceUsd   *decimal.Decimal `json:"totalBalanceUsd"`
}

func (s *RegionService) Update(ctx context.Context, id string, in UpdateRegionInput) (*model.Region, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	query := `SELECT ` + regionColumns + ` FROM regions WHERE id = $1 FOR UPDATE`
	region, err := scanRegion(tx.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRegionNotFound
		}
		return nil, fmt.Errorf("get region: %w", err)
	}

	if in.Name != nil {
		region.Name = *in.Name
	}
	if in.BalanceIncomeUzs != nil {
		region.BalanceIncomeUzs = *in.BalanceIncomeUzs
	}
	if in.BalanceIncomeUsd != nil {
		region.BalanceIncomeUsd = *in.BalanceIncomeUsd
	}
	if in.BalanceExpenseUzs != nil {
		region.BalanceExpenseUzs = *in.BalanceExpenseUzs
	}
	if in.BalanceExpenseUsd != nil {
		region.BalanceExpenseUsd = *in.BalanceExpenseUsd
	}

	ledger.RecomputeTotals(region)
	if in.TotalBalanceUzs != nil {
		region.TotalBalanceUzs = *in.TotalBalanceUzs
	}
	if in.TotalBalanceUsd != nil {
		region.TotalBalanceUsd = *in.TotalBalanceUsd
	}
	region.UpdatedAt = time.Now()

	_, err = tx.ExecContext(ctx, `
		UPDATE regions SET name = $1,
			balance_income_uzs = $2, balance_income_usd = $3,
			balance_expense_uzs = $4, balance_expense_usd = $5,
			total_balance_uzs = $6, total_balance_usd = $7,
			updated_at = $8
		WHERE id = $9
	`, region.Name,
		region.BalanceIncomeUzs, region.BalanceIncomeUsd,
		region.BalanceExpenseUzs, region.BalanceExpenseUsd,
		region.TotalBalanceUzs, region.TotalBalanceUsd,
		region.UpdatedAt, region.ID,
	)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return nil, ErrRegionNameTaken
		}
		return nil, fmt.Errorf("update region: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return region, nil
}

// Delete removes a region unconditionally. Orders referencing it keep their
// rows; the foreign key nulls their region reference.
func (s *RegionService) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM regions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete region: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete region: %w", err)
	}
	if affected == 0 {
		return ErrRegionNotFound
	}
	return nil
}

func totalPages(total, limit int) int {
	if limit <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}

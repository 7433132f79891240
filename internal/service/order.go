package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"transferdesk/internal/ledger"
	"transferdesk/internal/model"
)

type OrderService struct {
	db *sql.DB
}

func NewOrderService(db *sql.DB) *OrderService {
	return &OrderService{db: db}
}

// CreateOrderInput is a new transfer between two existing regions.
type CreateOrderInput struct {
	Phone        string          `json:"phone"`
	FromRegionID string          `json:"fromRegionId" validate:"required,uuid4"`
	ToRegionID   string          `json:"toRegionId" validate:"required,uuid4"`
	IncomeUzs    decimal.Decimal `json:"incomeUzs"`
	ExpenseUzs   decimal.Decimal `json:"expenseUzs"`
	IncomeUsd    decimal.Decimal `json:"incomeUsd"`
	ExpenseUsd   decimal.Decimal `json:"expenseUsd"`
}

// UpdateOrderInput is a partial order patch. Amount and region changes are
// ledger-neutral: the old amounts are reversed from the old regions before
// the new amounts hit the new ones.
type UpdateOrderInput struct {
	Phone        *string          `json:"phone"`
	FromRegionID *string          `json:"fromRegionId" validate:"omitempty,uuid4"`
	ToRegionID   *string          `json:"toRegionId" validate:"omitempty,uuid4"`
	IncomeUzs    *decimal.Decimal `json:"incomeUzs"`
	ExpenseUzs   *decimal.Decimal `json:"expenseUzs"`
	IncomeUsd    *decimal.Decimal `json:"incomeUsd"`
	ExpenseUsd   *decimal.Decimal `json:"expenseUsd"`
}

type ListOrdersQuery struct {
	Page     int
	Limit    int
	Search   string
	FromDate *time.Time
	ToDate   *time.Time
}

// Create records the order and its balance effect on both regions in a
// single transaction, with the region rows locked for the duration.
func (s *OrderService) Create(ctx context.Context, in CreateOrderInput) (*model.Order, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	regions, err := lockRegions(ctx, tx, []string{in.FromRegionID, in.ToRegionID})
	if err != nil {
		return nil, err
	}
	fromRegion := regions[in.FromRegionID]
	toRegion := regions[in.ToRegionID]

	amounts := ledger.Amounts{
		IncomeUzs:  in.IncomeUzs,
		ExpenseUzs: in.ExpenseUzs,
		IncomeUsd:  in.IncomeUsd,
		ExpenseUsd: in.ExpenseUsd,
	}
	ledger.Apply(fromRegion, toRegion, amounts)

	if err = saveRegionBalances(ctx, tx, regions); err != nil {
		return nil, err
	}

	order := &model.Order{
		ID:           uuid.NewString(),
		Phone:        in.Phone,
		FromRegionID: &in.FromRegionID,
		ToRegionID:   &in.ToRegionID,
		IncomeUzs:    in.IncomeUzs,
		ExpenseUzs:   in.ExpenseUzs,
		IncomeUsd:    in.IncomeUsd,
		ExpenseUsd:   in.ExpenseUsd,
	}
	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (id, phone, from_region_id, to_region_id,
			income_uzs, expense_uzs, income_usd, expense_usd)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`, order.ID, nullString(order.Phone), order.FromRegionID, order.ToRegionID,
		order.IncomeUzs, order.ExpenseUzs, order.IncomeUsd, order.ExpenseUsd,
	).Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return order, nil
}

const orderViewColumns = `o.id, o.phone, o.from_region_id, o.to_region_id,
	o.income_uzs, o.expense_uzs, o.income_usd, o.expense_usd,
	o.created_at, o.updated_at, o.is_deleted,
	COALESCE(fr.name, ''), COALESCE(tr.name, '')`

const orderViewJoins = `
	LEFT JOIN regions fr ON fr.id = o.from_region_id
	LEFT JOIN regions tr ON tr.id = o.to_region_id`

func scanOrderView(row interface{ Scan(...any) error }) (*model.OrderView, error) {
	var (
		v      model.OrderView
		phone  sql.NullString
		fromID sql.NullString
		toID   sql.NullString
	)
	err := row.Scan(
		&v.ID, &phone, &fromID, &toID,
		&v.IncomeUzs, &v.ExpenseUzs, &v.IncomeUsd, &v.ExpenseUsd,
		&v.CreatedAt, &v.UpdatedAt, &v.IsDeleted,
		&v.FromRegionName, &v.ToRegionName,
	)
	if err != nil {
		return nil, err
	}
	v.Phone = phone.String
	if fromID.Valid {
		v.FromRegionID = &fromID.String
	}
	if toID.Valid {
		v.ToRegionID = &toID.String
	}
	v.FlowBalanceUzs, v.FlowBalanceUsd = ledger.Flow(ledger.AmountsOf(&v.Order))
	return &v, nil
}

func (s *OrderService) Get(ctx context.Context, id string) (*model.OrderView, error) {
	query := `SELECT ` + orderViewColumns + ` FROM orders o` + orderViewJoins + `
		WHERE o.id = $1 AND o.is_deleted = FALSE`
	view, err := scanOrderView(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return view, nil
}

func (s *OrderService) List(ctx context.Context, q ListOrdersQuery) (*model.OrderPage, error) {
	where := `WHERE o.is_deleted = FALSE`
	args := []any{}

	if q.Search != "" {
		args = append(args, q.Search)
		n := len(args)
		where += fmt.Sprintf(` AND (o.phone ILIKE '%%' || $%d || '%%'
			OR fr.name ILIKE '%%' || $%d || '%%'
			OR tr.name ILIKE '%%' || $%d || '%%')`, n, n, n)
	}
	if q.FromDate != nil {
		args = append(args, *q.FromDate)
		where += fmt.Sprintf(` AND o.created_at >= $%d`, len(args))
	}
	if q.ToDate != nil {
		args = append(args, *q.ToDate)
		where += fmt.Sprintf(` AND o.created_at <= $%d`, len(args))
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM orders o` + orderViewJoins + ` ` + where
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM orders o%s %s ORDER BY o.created_at DESC LIMIT $%d OFFSET $%d`,
		orderViewColumns, orderViewJoins, where, len(args)+1, len(args)+2)
	args = append(args, q.Limit, (q.Page-1)*q.Limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer rows.Close()

	views := []model.OrderView{}
	for rows.Next() {
		view, err := scanOrderView(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		views = append(views, *view)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration failed: %w", err)
	}

	return &model.OrderPage{
		Data:       views,
		Total:      total,
		Page:       q.Page,
		Limit:      q.Limit,
		TotalPages: totalPages(total, q.Limit),
	}, nil
}

// Update reverses the order's prior amounts from its prior regions, applies
// the patch, then applies the new amounts to the (possibly different) new
// regions. All touched region rows are locked and saved once.
func (s *OrderService) Update(ctx context.Context, id string, in UpdateOrderInput) (*model.Order, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	order, err := lockOrder(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	newFromID := order.FromRegionID
	if in.FromRegionID != nil {
		newFromID = in.FromRegionID
	}
	newToID := order.ToRegionID
	if in.ToRegionID != nil {
		newToID = in.ToRegionID
	}

	ids := regionIDSet(order.FromRegionID, order.ToRegionID, newFromID, newToID)
	regions, err := lockRegions(ctx, tx, ids)
	if err != nil {
		return nil, err
	}

	ledger.Reverse(regionOrNil(regions, order.FromRegionID), regionOrNil(regions, order.ToRegionID), ledger.AmountsOf(order))

	if in.Phone != nil {
		order.Phone = *in.Phone
	}
	order.FromRegionID = newFromID
	order.ToRegionID = newToID
	if in.IncomeUzs != nil {
		order.IncomeUzs = *in.IncomeUzs
	}
	if in.ExpenseUzs != nil {
		order.ExpenseUzs = *in.ExpenseUzs
	}
	if in.IncomeUsd != nil {
		order.IncomeUsd = *in.IncomeUsd
	}
	if in.ExpenseUsd != nil {
		order.ExpenseUsd = *in.ExpenseUsd
	}

	ledger.Apply(regionOrNil(regions, order.FromRegionID), regionOrNil(regions, order.ToRegionID), ledger.AmountsOf(order))

	if err = saveRegionBalances(ctx, tx, regions); err != nil {
		return nil, err
	}

	order.UpdatedAt = time.Now()
	_, err = tx.ExecContext(ctx, `
		UPDATE orders SET phone = $1, from_region_id = $2, to_region_id = $3,
			income_uzs = $4, expense_uzs = $5, income_usd = $6, expense_usd = $7,
			updated_at = $8
		WHERE id = $9
	`, nullString(order.Phone), order.FromRegionID, order.ToRegionID,
		order.IncomeUzs, order.ExpenseUzs, order.IncomeUsd, order.ExpenseUsd,
		order.UpdatedAt, order.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("update order: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return order, nil
}

// SoftDelete reverses the order's balance contribution and sets the
// is_deleted flag; the row itself stays until cleanup purges it.
func (s *OrderService) SoftDelete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	order, err := lockOrder(ctx, tx, id)
	if err != nil {
		return err
	}

	regions, err := lockRegions(ctx, tx, regionIDSet(order.FromRegionID, order.ToRegionID))
	if err != nil {
		return err
	}

	ledger.Reverse(regionOrNil(regions, order.FromRegionID), regionOrNil(regions, order.ToRegionID), ledger.AmountsOf(order))

	if err = saveRegionBalances(ctx, tx, regions); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE orders SET is_deleted = TRUE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("soft delete order: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func lockOrder(ctx context.Context, tx *sql.Tx, id string) (*model.Order, error) {
	var (
		o      model.Order
		phone  sql.NullString
		fromID sql.NullString
		toID   sql.NullString
	)
	err := tx.QueryRowContext(ctx, `
		SELECT id, phone, from_region_id, to_region_id,
			income_uzs, expense_uzs, income_usd, expense_usd,
			created_at, updated_at, is_deleted
		FROM orders WHERE id = $1 AND is_deleted = FALSE FOR UPDATE
	`, id).Scan(
		&o.ID, &phone, &fromID, &toID,
		&o.IncomeUzs, &o.ExpenseUzs, &o.IncomeUsd, &o.ExpenseUsd,
		&o.CreatedAt, &o.UpdatedAt, &o.IsDeleted,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("lock order: %w", err)
	}
	o.Phone = phone.String
	if fromID.Valid {
		o.FromRegionID = &fromID.String
	}
	if toID.Valid {
		o.ToRegionID = &toID.String
	}
	return &o, nil
}

// lockRegions selects the given regions FOR UPDATE, in id order so that
// concurrent transactions acquire row locks in a consistent sequence.
func lockRegions(ctx context.Context, tx *sql.Tx, ids []string) (map[string]*model.Region, error) {
	sorted := append([]string(nil), ids...)
	sort.Strings(sorted)

	regions := make(map[string]*model.Region, len(sorted))
	for _, id := range sorted {
		if _, ok := regions[id]; ok {
			continue
		}
		query := `SELECT ` + regionColumns + ` FROM regions WHERE id = $1 FOR UPDATE`
		region, err := scanRegion(tx.QueryRowContext(ctx, query, id))
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, fmt.Errorf("region %s: %w", id, ErrRegionNotFound)
			}
			return nil, fmt.Errorf("lock region: %w", err)
		}
		regions[id] = region
	}
	return regions, nil
}

func saveRegionBalances(ctx context.Context, tx *sql.Tx, regions map[string]*model.Region) error {
	for _, r := range regions {
		_, err := tx.ExecContext(ctx, `
			UPDATE regions SET
				balance_income_uzs = $1, balance_income_usd = $2,
				balance_expense_uzs = $3, balance_expense_usd = $4,
				total_balance_uzs = $5, total_balance_usd = $6,
				updated_at = NOW()
			WHERE id = $7
		`, r.BalanceIncomeUzs, r.BalanceIncomeUsd,
			r.BalanceExpenseUzs, r.BalanceExpenseUsd,
			r.TotalBalanceUzs, r.TotalBalanceUsd, r.ID,
		)
		if err != nil {
			return fmt.Errorf("save region balances: %w", err)
		}
	}
	return nil
}

func regionIDSet(ids ...*string) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, id := range ids {
		if id == nil {
			continue
		}
		if _, ok := seen[*id]; ok {
			continue
		}
		seen[*id] = struct{}{}
		out = append(out, *id)
	}
	return out
}

func regionOrNil(regions map[string]*model.Region, id *string) *model.Region {
	if id == nil {
		return nil
	}
	return regions[*id]
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// Package ledger holds the one copy of the region balance arithmetic.
// Order create/update/delete and the cleanup job all go through Apply and
// Reverse so income, expense and total fields cannot drift between call
// sites.
package ledger

import (
	"github.com/shopspring/decimal"

	"transferdesk/internal/model"
)

// Amounts is the monetary payload of a single order.
type Amounts struct {
	IncomeUzs  decimal.Decimal
	ExpenseUzs decimal.Decimal
	IncomeUsd  decimal.Decimal
	ExpenseUsd decimal.Decimal
}

// AmountsOf extracts the ledger-relevant fields of an order.
func AmountsOf(o *model.Order) Amounts {
	return Amounts{
		IncomeUzs:  o.IncomeUzs,
		ExpenseUzs: o.ExpenseUzs,
		IncomeUsd:  o.IncomeUsd,
		ExpenseUsd: o.ExpenseUsd,
	}
}

// Apply records an order on its two regions: expense side on from, income
// side on to. Either region may be nil (reference already nulled by a region
// delete). from and to may point at the same region. Totals of the touched
// regions are recomputed.
func Apply(from, to *model.Region, a Amounts) {
	if from != nil {
		from.BalanceExpenseUzs = from.BalanceExpenseUzs.Add(a.ExpenseUzs)
		from.BalanceExpenseUsd = from.BalanceExpenseUsd.Add(a.ExpenseUsd)
		RecomputeTotals(from)
	}
	if to != nil {
		to.BalanceIncomeUzs = to.BalanceIncomeUzs.Add(a.IncomeUzs)
		to.BalanceIncomeUsd = to.BalanceIncomeUsd.Add(a.IncomeUsd)
		RecomputeTotals(to)
	}
}

// Reverse removes a previously applied order from its regions.
func Reverse(from, to *model.Region, a Amounts) {
	if from != nil {
		from.BalanceExpenseUzs = from.BalanceExpenseUzs.Sub(a.ExpenseUzs)
		from.BalanceExpenseUsd = from.BalanceExpenseUsd.Sub(a.ExpenseUsd)
		RecomputeTotals(from)
	}
	if to != nil {
		to.BalanceIncomeUzs = to.BalanceIncomeUzs.Sub(a.IncomeUzs)
		to.BalanceIncomeUsd = to.BalanceIncomeUsd.Sub(a.IncomeUsd)
		RecomputeTotals(to)
	}
}

// RecomputeTotals restores the totalBalance = income - expense invariant.
func RecomputeTotals(r *model.Region) {
	r.TotalBalanceUzs = r.BalanceIncomeUzs.Sub(r.BalanceExpenseUzs)
	r.TotalBalanceUsd = r.BalanceIncomeUsd.Sub(r.BalanceExpenseUsd)
}

// Flow derives the per-order flow balance: income - expense in whichever
// single currency the order used. Orders touching both currencies (or
// neither) report zero for both.
func Flow(a Amounts) (uzs, usd decimal.Decimal) {
	hasUzs := !a.IncomeUzs.IsZero() || !a.ExpenseUzs.IsZero()
	hasUsd := !a.IncomeUsd.IsZero() || !a.ExpenseUsd.IsZero()

	switch {
	case hasUzs && !hasUsd:
		return a.IncomeUzs.Sub(a.ExpenseUzs), decimal.Zero
	case hasUsd && !hasUzs:
		return decimal.Zero, a.IncomeUsd.Sub(a.ExpenseUsd)
	default:
		return decimal.Zero, decimal.Zero
	}
}


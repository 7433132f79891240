package service

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

type fakeStatsRow struct {
	incomeUzs, incomeUsd, expenseUzs, expenseUsd int64
}

func (r fakeStatsRow) Scan(dest ...any) error {
	vals := []int64{r.incomeUzs, r.incomeUsd, r.expenseUzs, r.expenseUsd}
	for i, d := range dest {
		*(d.(*decimal.Decimal)) = decimal.NewFromInt(vals[i])
	}
	return nil
}

// Global stats are the order-summing variant: balances are derived from the
// summed order amounts, never read off the region ledger fields.
func TestGlobalStatsDerivedFromOrderSums(t *testing.T) {
	stats, err := scanGlobalStats(fakeStatsRow{
		incomeUzs: 100, incomeUsd: 50, expenseUzs: 40, expenseUsd: 10,
	})
	if err != nil {
		t.Fatalf("scanGlobalStats() error = %v", err)
	}

	if !stats.TotalBalanceUzs.Equal(decimal.NewFromInt(60)) {
		t.Errorf("TotalBalanceUzs = %s, want 60 (income - expense)", stats.TotalBalanceUzs)
	}
	if !stats.TotalBalanceUsd.Equal(decimal.NewFromInt(40)) {
		t.Errorf("TotalBalanceUsd = %s, want 40 (income - expense)", stats.TotalBalanceUsd)
	}
	if !stats.TotalIncomeUzs.Equal(decimal.NewFromInt(100)) {
		t.Errorf("TotalIncomeUzs = %s, want 100", stats.TotalIncomeUzs)
	}
	if !stats.TotalExpenseUsd.Equal(decimal.NewFromInt(10)) {
		t.Errorf("TotalExpenseUsd = %s, want 10", stats.TotalExpenseUsd)
	}
}

func TestGlobalStatsQuerySumsNonDeletedOrders(t *testing.T) {
	for _, want := range []string{"FROM orders", "is_deleted = FALSE", "SUM(income_uzs)"} {
		if !strings.Contains(globalStatsQuery, want) {
			t.Errorf("global stats query lacks %q", want)
		}
	}
	if strings.Contains(globalStatsQuery, "regions") {
		t.Error("global stats query must not touch the region ledger")
	}
}

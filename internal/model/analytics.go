package model

import "github.com/shopspring/decimal"

// GlobalStats sums income and expense over all non-deleted orders.
type GlobalStats struct {
	TotalIncomeUzs  decimal.Decimal `json:"totalIncomeUzs"`
	TotalIncomeUsd  decimal.Decimal `json:"totalIncomeUsd"`
	TotalExpenseUzs decimal.Decimal `json:"totalExpenseUzs"`
	TotalExpenseUsd decimal.Decimal `json:"totalExpenseUsd"`
	TotalBalanceUzs decimal.Decimal `json:"totalBalanceUzs"`
	TotalBalanceUsd decimal.Decimal `json:"totalBalanceUsd"`
}

// RegionStats reports each region's maintained ledger balances plus grand
// totals computed from those balances (independent of GlobalStats; the two
// can diverge if region balances were ever overridden manually).
type RegionStats struct {
	Regions         []Region        `json:"regions"`
	TotalBalanceUzs decimal.Decimal `json:"totalBalanceUzs"`
	TotalBalanceUsd decimal.Decimal `json:"totalBalanceUsd"`
}

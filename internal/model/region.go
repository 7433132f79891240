package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Region struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	BalanceIncomeUzs  decimal.Decimal `json:"balanceIncomeUzs"`
	BalanceIncomeUsd  decimal.Decimal `json:"balanceIncomeUsd"`
	BalanceExpenseUzs decimal.Decimal `json:"balanceExpenseUzs"`
	BalanceExpenseUsd decimal.Decimal `json:"balanceExpenseUsd"`
	TotalBalanceUzs   decimal.Decimal `json:"totalBalanceUzs"`
	TotalBalanceUsd   decimal.Decimal `json:"totalBalanceUsd"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

type RegionPage struct {
	Data       []Region `json:"data"`
	Total      int      `json:"total"`
	Page       int      `json:"page"`
	Limit      int      `json:"limit"`
	TotalPages int      `json:"totalPages"`
}

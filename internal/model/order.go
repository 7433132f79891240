package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID           string          `json:"id"`
	Phone        string          `json:"phone,omitempty"`
	FromRegionID *string         `json:"fromRegionId"`
	ToRegionID   *string         `json:"toRegionId"`
	IncomeUzs    decimal.Decimal `json:"incomeUzs"`
	ExpenseUzs   decimal.Decimal `json:"expenseUzs"`
	IncomeUsd    decimal.Decimal `json:"incomeUsd"`
	ExpenseUsd   decimal.Decimal `json:"expenseUsd"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	IsDeleted    bool            `json:"is_deleted"`
}

// OrderView is an Order as returned by read endpoints: region names are
// joined in and the derived flow balances are attached.
type OrderView struct {
	Order
	FromRegionName string          `json:"fromRegionName,omitempty"`
	ToRegionName   string          `json:"toRegionName,omitempty"`
	FlowBalanceUzs decimal.Decimal `json:"flowBalanceUzs"`
	FlowBalanceUsd decimal.Decimal `json:"flowBalanceUsd"`
}

type OrderPage struct {
	Data       []OrderView `json:"data"`
	Total      int         `json:"total"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	TotalPages int         `json:"totalPages"`
}

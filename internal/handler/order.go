package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"transferdesk/internal/model"
	"transferdesk/internal/service"
)

type OrderProvider interface {
	Create(ctx context.Context, in service.CreateOrderInput) (*model.Order, error)
	Get(ctx context.Context, id string) (*model.OrderView, error)
	List(ctx context.Context, q service.ListOrdersQuery) (*model.OrderPage, error)
	Update(ctx context.Context, id string, in service.UpdateOrderInput) (*model.Order, error)
	SoftDelete(ctx context.Context, id string) error
}

func CreateOrderHandler(orderSvc OrderProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req service.CreateOrderInput
		if !decodeAndValidate(w, r, &req) {
			return
		}
		if anyNegative(&req.IncomeUzs, &req.ExpenseUzs, &req.IncomeUsd, &req.ExpenseUsd) {
			http.Error(w, "amounts must be non-negative", http.StatusBadRequest)
			return
		}

		order, err := orderSvc.Create(r.Context(), req)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, order)
	}
}

func ListOrdersHandler(orderSvc OrderProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := service.ListOrdersQuery{
			Page:   queryInt(r, "page", 1),
			Limit:  queryInt(r, "limit", 10),
			Search: r.URL.Query().Get("search"),
		}

		var ok bool
		if q.FromDate, ok = queryDate(w, r, "fromDate"); !ok {
			return
		}
		if q.ToDate, ok = queryDate(w, r, "toDate"); !ok {
			return
		}

		orders, err := orderSvc.List(r.Context(), q)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, orders)
	}
}

func anyNegative(amounts ...*decimal.Decimal) bool {
	for _, a := range amounts {
		if a != nil && a.IsNegative() {
			return true
		}
	}
	return false
}

// queryDate parses an optional YYYY-MM-DD query param. The bool result is
// false only when the value is present and malformed (a 400 has been sent).
func queryDate(w http.ResponseWriter, r *http.Request, key string) (*time.Time, bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		http.Error(w, key+" must be YYYY-MM-DD", http.StatusBadRequest)
		return nil, false
	}
	return &t, true
}

func GetOrderHandler(orderSvc OrderProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		order, err := orderSvc.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, order)
	}
}

func UpdateOrderHandler(orderSvc OrderProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req service.UpdateOrderInput
		if !decodeAndValidate(w, r, &req) {
			return
		}
		if anyNegative(req.IncomeUzs, req.ExpenseUzs, req.IncomeUsd, req.ExpenseUsd) {
			http.Error(w, "amounts must be non-negative", http.StatusBadRequest)
			return
		}

		order, err := orderSvc.Update(r.Context(), chi.URLParam(r, "id"), req)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, order)
	}
}

func DeleteOrderHandler(orderSvc OrderProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := orderSvc.SoftDelete(r.Context(), chi.URLParam(r, "id")); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
	}
}

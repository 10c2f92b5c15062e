package errors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

type ErrorDump struct {
	TopMessage string `json:"top_message"`
	Code       Code   `json:"code,omitempty"`

	Chain []string `json:"chain,omitempty"`

	PGCode       string `json:"pg_code,omitempty"`
	PGConstraint string `json:"pg_constraint,omitempty"`
	PGTable      string `json:"pg_table,omitempty"`
	PGDetail     string `json:"pg_detail,omitempty"`
	PGHint       string `json:"pg_hint,omitempty"`
}

type constraintRule struct {
	code    Code
	message string
}

// constraintRules covers the named constraints of the products, orders and
// order_items tables. Postgres names unnamed CHECK and FK constraints
// <table>_<column>_check and <table>_<column>_fkey.
var constraintRules = map[string]constraintRule{
	"idx_orders_order_number":       {CodeConflict, "order number already issued"},
	"orders_pkey":                   {CodeConflict, "order already exists"},
	"products_pkey":                 {CodeConflict, "product already exists"},
	"products_stock_quantity_check": {CodeConflict, "insufficient stock"},
	"products_price_check":          {CodeValidation, "price must not be negative"},
	"products_category_check":       {CodeValidation, "unknown product category"},
	"products_status_check":         {CodeValidation, "unknown stock status"},
	"orders_order_status_check":     {CodeValidation, "unknown order status"},
	"orders_payment_status_check":   {CodeValidation, "unknown payment status"},
	"orders_payment_method_check":   {CodeValidation, "unknown payment method"},
	"orders_delivery_method_check":  {CodeValidation, "unknown delivery method"},
	"orders_subtotal_check":         {CodeValidation, "subtotal must not be negative"},
	"orders_total_check":            {CodeValidation, "total must not be negative"},
	"orders_shipping_charge_check":  {CodeValidation, "shipping charge must not be negative"},
	"order_items_quantity_check":    {CodeValidation, "item quantity must be positive"},
	"order_items_product_id_fkey":   {CodeNotFound, "product no longer exists"},
	"order_items_order_id_fkey":     {CodeNotFound, "order no longer exists"},
}

type pgFields struct {
	code, constraint, table, detail string
}

func pgFieldsOf(err error) (pgFields, bool) {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgFields{pgxErr.Code, pgxErr.ConstraintName, pgxErr.TableName, pgxErr.Detail}, true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pgFields{string(pqErr.Code), pqErr.Constraint, pqErr.Table, pqErr.Detail}, true
	}
	return pgFields{}, false
}

// FromConstraint maps a violation of a known table constraint to a typed
// error. It returns nil when err is not a postgres error or the constraint
// is not one of ours.
func FromConstraint(err error) *Error {
	pg, ok := pgFieldsOf(err)
	if !ok || pg.constraint == "" {
		return nil
	}
	rule, ok := constraintRules[pg.constraint]
	if !ok {
		return nil
	}
	return Wrap(rule.code, err, rule.message).WithDetails(map[string]any{
		"constraint": pg.constraint,
	})
}

func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{
		TopMessage: err.Error(),
	}

	if te := As(err); te != nil {
		d.Code = te.Code()
	}

	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}

	if pg, ok := pgFieldsOf(err); ok {
		d.PGCode = pg.code
		d.PGConstraint = pg.constraint
		d.PGTable = pg.table
		d.PGDetail = pg.detail
		if rule, known := constraintRules[pg.constraint]; known {
			d.PGHint = rule.message
		}
	}

	return d
}

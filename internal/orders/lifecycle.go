// Package orders owns the order lifecycle: payment requirements at checkout,
// the two independent status axes, and the admin operations that move them.
package orders

import (
	"errors"
	"math"

	"github.com/angelmondragon/bakehouse-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/bakehouse-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidTotal      = errors.New("invalid order total")
	ErrInvalidTransition = errors.New("invalid status transition")
)

var (
	DefaultAdvanceThreshold = decimal.NewFromInt(1000)
	DefaultAdvanceRate      = decimal.RequireFromString("0.5")
)

// PaymentPolicy decides when an order must be part-paid up front.
type PaymentPolicy struct {
	AdvanceThreshold decimal.Decimal
	AdvanceRate      decimal.Decimal
}

// DefaultPaymentPolicy asks for half up front on orders of ₹1000 or more.
func DefaultPaymentPolicy() PaymentPolicy {
	return PaymentPolicy{AdvanceThreshold: DefaultAdvanceThreshold, AdvanceRate: DefaultAdvanceRate}
}

// PaymentPlan is the payment requirement computed at checkout.
type PaymentPlan struct {
	RequiresAdvance bool                `json:"requires_advance"`
	AdvanceAmount   decimal.Decimal     `json:"advance_amount"`
	InitialStatus   enums.PaymentStatus `json:"initial_status"`
}

// RequiresAdvancePayment reports whether total reaches the advance threshold.
func (p PaymentPolicy) RequiresAdvancePayment(total decimal.Decimal) (bool, error) {
	if total.IsNegative() {
		return false, invalidTotal(total)
	}
	return total.GreaterThanOrEqual(p.AdvanceThreshold), nil
}

// AdvancePaymentAmount is total times the advance rate, rounded to paise.
func (p PaymentPolicy) AdvancePaymentAmount(total decimal.Decimal) (decimal.Decimal, error) {
	if total.IsNegative() {
		return decimal.Zero, invalidTotal(total)
	}
	return total.Mul(p.AdvanceRate).Round(2), nil
}

// Plan computes the full payment requirement for an order total.
func (p PaymentPolicy) Plan(total decimal.Decimal) (PaymentPlan, error) {
	required, err := p.RequiresAdvancePayment(total)
	if err != nil {
		return PaymentPlan{}, err
	}
	plan := PaymentPlan{AdvanceAmount: decimal.Zero, InitialStatus: enums.PaymentStatusNotPaid}
	if required {
		amount, err := p.AdvancePaymentAmount(total)
		if err != nil {
			return PaymentPlan{}, err
		}
		plan.RequiresAdvance = true
		plan.AdvanceAmount = amount
	}
	return plan, nil
}

// RequiresAdvancePayment applies the default policy.
func RequiresAdvancePayment(total decimal.Decimal) (bool, error) {
	return DefaultPaymentPolicy().RequiresAdvancePayment(total)
}

// AdvancePaymentAmount applies the default policy.
func AdvancePaymentAmount(total decimal.Decimal) (decimal.Decimal, error) {
	return DefaultPaymentPolicy().AdvancePaymentAmount(total)
}

// ProgressPercent maps an order status onto the customer's tracker.
func ProgressPercent(status enums.OrderStatus) int {
	return status.ProgressPercent()
}

func invalidTotal(total decimal.Decimal) error {
	return pkgerrors.Wrap(pkgerrors.CodeValidation, ErrInvalidTotal, "order total must be a non-negative amount").WithDetails(map[string]any{
		"total": total.String(),
	})
}

// PlanPayment applies the default policy.
func PlanPayment(total decimal.Decimal) (PaymentPlan, error) {
	return DefaultPaymentPolicy().Plan(total)
}

// TotalFromFloat converts a boundary float into a decimal total, rejecting
// NaN and infinities.
func TotalFromFloat(v float64) (decimal.Decimal, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeValidation, ErrInvalidTotal, "order total must be a finite number")
	}
	total := decimal.NewFromFloat(v)
	if total.IsNegative() {
		return decimal.Zero, invalidTotal(total)
	}
	return total, nil
}

package orders

import (
	"github.com/angelmondragon/bakehouse-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/bakehouse-backend/pkg/errors"
)

// CheckOrderTransition allows staying put or stepping to the immediate successor.
func CheckOrderTransition(from, to enums.OrderStatus) error {
	if !to.IsValid() {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, ErrInvalidTransition, "unknown order status")
	}
	if from == to {
		return nil
	}
	if next, ok := from.Next(); ok && next == to {
		return nil
	}
	return transitionConflict("order_status", string(from), string(to))
}

// CheckPaymentTransition guards the payment axis. advance_paid only exists
// for orders that required an advance; full_paid is final.
func CheckPaymentTransition(from, to enums.PaymentStatus, requiresAdvance bool) error {
	if !to.IsValid() {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, ErrInvalidTransition, "unknown payment status")
	}
	if from == to {
		return nil
	}
	switch {
	case from == enums.PaymentStatusNotPaid && to == enums.PaymentStatusAdvancePaid && requiresAdvance:
		return nil
	case from == enums.PaymentStatusNotPaid && to == enums.PaymentStatusFullPaid:
		return nil
	case from == enums.PaymentStatusAdvancePaid && to == enums.PaymentStatusFullPaid:
		return nil
	}
	return transitionConflict("payment_status", string(from), string(to))
}

func transitionConflict(axis, from, to string) error {
	return pkgerrors.Wrap(pkgerrors.CodeStateConflict, ErrInvalidTransition, axis+" cannot move from "+from+" to "+to).WithDetails(map[string]any{
		"axis": axis,
		"from": from,
		"to":   to,
	})
}

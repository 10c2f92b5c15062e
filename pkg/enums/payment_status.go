package enums

import "fmt"

// PaymentStatus is the money axis of an order, independent from OrderStatus.
type PaymentStatus string

const (
	PaymentStatusNotPaid     PaymentStatus = "not_paid"
	PaymentStatusAdvancePaid PaymentStatus = "advance_paid"
	PaymentStatusFullPaid    PaymentStatus = "full_paid"
)

var validPaymentStatuses = []PaymentStatus{
	PaymentStatusNotPaid,
	PaymentStatusAdvancePaid,
	PaymentStatusFullPaid,
}

// String implements fmt.Stringer.
func (p PaymentStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentStatus.
func (p PaymentStatus) IsValid() bool {
	for _, candidate := range validPaymentStatuses {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentStatus converts raw input into a PaymentStatus.
func ParsePaymentStatus(value string) (PaymentStatus, error) {
	for _, candidate := range validPaymentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment status %q", value)
}

package enums

import "fmt"

// OrderStatus is the fulfilment axis of an order. It only moves forward.
type OrderStatus string

const (
	OrderStatusConfirmation OrderStatus = "order_confirmation"
	OrderStatusBaked        OrderStatus = "baked"
	OrderStatusShipped      OrderStatus = "shipped"
	OrderStatusDelivered    OrderStatus = "delivered"
)

// validOrderStatuses is ordered; index+1 is the step number.
var validOrderStatuses = []OrderStatus{
	OrderStatusConfirmation,
	OrderStatusBaked,
	OrderStatusShipped,
	OrderStatusDelivered,
}

// OrderStatuses returns the statuses in lifecycle order.
func OrderStatuses() []OrderStatus {
	out := make([]OrderStatus, len(validOrderStatuses))
	copy(out, validOrderStatuses)
	return out
}

// String implements fmt.Stringer.
func (s OrderStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known OrderStatus.
func (s OrderStatus) IsValid() bool {
	return s.step() >= 0
}

// ProgressPercent maps the status onto the tracker bar: 25, 50, 75, 100.
// Unknown statuses report 0.
func (s OrderStatus) ProgressPercent() int {
	idx := s.step()
	if idx < 0 {
		return 0
	}
	return (idx + 1) * 100 / len(validOrderStatuses)
}

// Next returns the successor status. ok is false for delivered and unknown values.
func (s OrderStatus) Next() (OrderStatus, bool) {
	idx := s.step()
	if idx < 0 || idx+1 >= len(validOrderStatuses) {
		return "", false
	}
	return validOrderStatuses[idx+1], true
}

// IsTerminal reports whether no further fulfilment step exists.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered
}

func (s OrderStatus) step() int {
	for i, candidate := range validOrderStatuses {
		if candidate == s {
			return i
		}
	}
	return -1
}

// ParseOrderStatus converts raw input into an OrderStatus.
func ParseOrderStatus(value string) (OrderStatus, error) {
	for _, candidate := range validOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", value)
}

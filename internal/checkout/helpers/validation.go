package helpers

import (
	"strings"

	"github.com/angelmondragon/bakehouse-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/bakehouse-backend/pkg/errors"
)

// Customer is the contact block captured at checkout.
type Customer struct {
	Email string
	Name  string
	Phone string
}

// Address is the delivery destination. Only delivery orders carry one.
type Address struct {
	Street     string
	City       string
	State      string
	PostalCode string
}

// ValidateCustomer normalizes and checks the customer block.
func ValidateCustomer(c Customer) (Customer, error) {
	out := Customer{
		Email: strings.ToLower(strings.TrimSpace(c.Email)),
		Name:  strings.TrimSpace(c.Name),
		Phone: strings.TrimSpace(c.Phone),
	}
	details := map[string]any{}
	if out.Email == "" {
		details["email"] = "required"
	}
	if out.Name == "" {
		details["name"] = "required"
	}
	if !isPhone(out.Phone) {
		details["phone"] = "must be 10 to 15 digits"
	}
	if len(details) > 0 {
		return Customer{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid customer details").WithDetails(details)
	}
	return out, nil
}

// ValidateDelivery checks that delivery orders carry a full address. Pickup
// orders ignore whatever address was sent and return nil.
func ValidateDelivery(method enums.DeliveryMethod, addr *Address) (*Address, error) {
	if !method.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid delivery method")
	}
	if method == enums.DeliveryMethodPickup {
		return nil, nil
	}
	if addr == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "delivery address is required")
	}
	out := Address{
		Street:     strings.TrimSpace(addr.Street),
		City:       strings.TrimSpace(addr.City),
		State:      strings.TrimSpace(addr.State),
		PostalCode: strings.TrimSpace(addr.PostalCode),
	}
	details := map[string]any{}
	if out.Street == "" {
		details["street"] = "required"
	}
	if out.City == "" {
		details["city"] = "required"
	}
	if out.PostalCode == "" {
		details["postal_code"] = "required"
	}
	if len(details) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid delivery address").WithDetails(details)
	}
	return &out, nil
}

// FormatAddress renders the address as a single line for the order record.
func FormatAddress(addr Address) string {
	parts := make([]string, 0, 3)
	for _, part := range []string{addr.Street, addr.City, addr.State} {
		if part != "" {
			parts = append(parts, part)
		}
	}
	line := strings.Join(parts, ", ")
	if addr.PostalCode != "" {
		line += " - " + addr.PostalCode
	}
	return line
}

func isPhone(v string) bool {
	v = strings.TrimPrefix(v, "+")
	if len(v) < 10 || len(v) > 15 {
		return false
	}
	for _, r := range v {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

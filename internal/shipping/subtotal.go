package shipping

import (
	"errors"
	"strings"

	pkgerrors "github.com/angelmondragon/bakehouse-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

// MaxSubtotal is the largest cart subtotal a quote is computed for.
const MaxSubtotal = 10_000_000

const (
	maxSubtotalInputLen = 32
	minSubtotalExponent = -20
	maxSubtotalExponent = 7
)

var (
	ErrInvalidSubtotal = errors.New("invalid subtotal")

	maxSubtotal = decimal.NewFromInt(MaxSubtotal)
)

// ParseSubtotal reads a non-negative amount no larger than MaxSubtotal.
// Length and exponent are checked before the value is compared.
func ParseSubtotal(raw string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(raw)
	if len(trimmed) > maxSubtotalInputLen {
		return decimal.Zero, subtotalOutOfRange()
	}
	subtotal, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeValidation, ErrInvalidSubtotal, "subtotal must be a non-negative amount")
	}
	if err := checkSubtotal(subtotal); err != nil {
		return decimal.Zero, err
	}
	return subtotal, nil
}

func checkSubtotal(subtotal decimal.Decimal) error {
	if subtotal.Sign() < 0 {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, ErrInvalidSubtotal, "subtotal must be a non-negative amount")
	}
	if subtotal.IsZero() {
		return nil
	}
	exp := subtotal.Exponent()
	if exp < minSubtotalExponent || exp > maxSubtotalExponent || subtotal.GreaterThan(maxSubtotal) {
		return subtotalOutOfRange()
	}
	return nil
}

func subtotalOutOfRange() error {
	return pkgerrors.Wrap(pkgerrors.CodeValidation, ErrInvalidSubtotal, "subtotal must be at most 10000000").WithDetails(map[string]any{
		"max": MaxSubtotal,
	})
}

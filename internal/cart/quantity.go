package cart

import (
	"math"
	"strings"

	"github.com/angelmondragon/bakehouse-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/bakehouse-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxQuantity caps a single cart line.
const MaxQuantity = 1000

const (
	maxQuantityInputLen = 32
	// decimal arithmetic rescales operands to a common exponent, so
	// exponents are bounded before any comparison happens
	minQuantityExponent = -20
	maxQuantityExponent = 3
)

var (
	quarter     = decimal.RequireFromString("0.25")
	four        = decimal.NewFromInt(4)
	one         = decimal.NewFromInt(1)
	maxQuantity = decimal.NewFromInt(MaxQuantity)
)

func withinBounds(quantity decimal.Decimal) bool {
	exp := quantity.Exponent()
	if exp < minQuantityExponent || exp > maxQuantityExponent {
		return false
	}
	return quantity.LessThanOrEqual(maxQuantity)
}

// IsValidQuantity reports whether quantity may sit on a cart line for p.
// Quarter-step products only need to reach 0.25; stepping is NormalizeQuantity's job.
func IsValidQuantity(p Product, quantity decimal.Decimal) bool {
	if !quantity.IsPositive() || !withinBounds(quantity) {
		return false
	}
	switch p.Category.Granularity() {
	case enums.QuantityGranularityFractionalQuarter:
		return quantity.GreaterThanOrEqual(quarter)
	case enums.QuantityGranularityInteger:
		return quantity.IsInteger() && quantity.GreaterThanOrEqual(one)
	default:
		return false
	}
}

// NormalizeQuantity snaps raw onto the grid allowed for p. Quarter-step
// products round half away from zero to the nearest 0.25; everything else
// truncates toward zero. The result may still be invalid (0.1 becomes 0).
func NormalizeQuantity(p Product, raw decimal.Decimal) decimal.Decimal {
	switch p.Category.Granularity() {
	case enums.QuantityGranularityFractionalQuarter:
		return raw.Mul(four).Round(0).Div(four)
	default:
		return raw.Truncate(0)
	}
}

// QuantityFromFloat converts a float quantity, rejecting NaN and infinities.
func QuantityFromFloat(v float64) (decimal.Decimal, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeValidation, ErrInvalidQuantity, "quantity must be a number")
	}
	return decimal.NewFromFloat(v), nil
}

// ParseQuantity converts textual input such as "1.5". Over-long input and
// quantities beyond MaxQuantity are rejected before any arithmetic.
func ParseQuantity(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if len(raw) > maxQuantityInputLen {
		return decimal.Zero, quantityOutOfRange()
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, pkgerrors.Wrap(pkgerrors.CodeValidation, ErrInvalidQuantity, "quantity must be a number")
	}
	if d.IsPositive() && !withinBounds(d) {
		return decimal.Zero, quantityOutOfRange()
	}
	return d, nil
}

func normalizeValid(p Product, raw decimal.Decimal) (decimal.Decimal, error) {
	if raw.IsPositive() && !withinBounds(raw) {
		return decimal.Zero, quantityOutOfRange()
	}
	q := NormalizeQuantity(p, raw)
	if !IsValidQuantity(p, q) {
		return decimal.Zero, invalidQuantity(p, raw)
	}
	return q, nil
}

// AddToCart adds quantity of p. An existing line is summed, then the sum is
// normalized and validated again; if that fails the cart is returned unchanged
// along with the error.
func AddToCart(c Cart, p Product, quantity decimal.Decimal) (Cart, error) {
	q, err := normalizeValid(p, quantity)
	if err != nil {
		return c, err
	}

	next := c.clone()
	if idx := next.indexOf(p.ID); idx >= 0 {
		sum, err := normalizeValid(p, next.Lines[idx].Quantity.Add(q))
		if err != nil {
			return c, err
		}
		next.Lines[idx] = Line{Product: p, Quantity: sum}
		return next, nil
	}

	next.Lines = append(next.Lines, Line{Product: p, Quantity: q})
	return next, nil
}

// UpdateQuantity replaces the quantity of an existing line.
func UpdateQuantity(c Cart, productID uuid.UUID, quantity decimal.Decimal) (Cart, error) {
	idx := c.indexOf(productID)
	if idx < 0 {
		return c, productNotFound(productID)
	}
	q, err := normalizeValid(c.Lines[idx].Product, quantity)
	if err != nil {
		return c, err
	}
	next := c.clone()
	next.Lines[idx].Quantity = q
	return next, nil
}

// RemoveFromCart drops the line for productID if present.
func RemoveFromCart(c Cart, productID uuid.UUID) Cart {
	out := Cart{Lines: make([]Line, 0, len(c.Lines))}
	for _, line := range c.Lines {
		if line.Product.ID != productID {
			out.Lines = append(out.Lines, line)
		}
	}
	return out
}

// ClearCart returns an empty cart.
func ClearCart(Cart) Cart {
	return Cart{Lines: []Line{}}
}

// ComputeSubtotal sums line totals, each rounded to 2 places, rounding the
// running total after every addition.
func ComputeSubtotal(c Cart) decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.Lines {
		total = total.Add(line.Total()).Round(2)
	}
	return total
}

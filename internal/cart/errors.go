package cart

import (
	"errors"

	"github.com/angelmondragon/bakehouse-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/bakehouse-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidQuantity is returned for non-numeric, non-positive, or
	// wrongly stepped quantities.
	ErrInvalidQuantity = errors.New("invalid quantity")
	// ErrProductNotFound is returned when a line is addressed by an id the
	// cart does not hold.
	ErrProductNotFound = errors.New("product not in cart")
)

const (
	msgMinimumQuarter = "minimum quantity is 0.25"
	msgWholeNumber    = "please enter a whole number quantity for this product"
)

func invalidQuantity(p Product, quantity decimal.Decimal) error {
	msg := msgWholeNumber
	if p.Category.Granularity() == enums.QuantityGranularityFractionalQuarter {
		msg = msgMinimumQuarter
	}
	return pkgerrors.Wrap(pkgerrors.CodeValidation, ErrInvalidQuantity, msg).WithDetails(map[string]any{
		"product_id": p.ID.String(),
		"quantity":   quantity.String(),
	})
}

func quantityOutOfRange() error {
	return pkgerrors.Wrap(pkgerrors.CodeValidation, ErrInvalidQuantity, "quantity must be at most 1000").WithDetails(map[string]any{
		"max": MaxQuantity,
	})
}

func productNotFound(productID uuid.UUID) error {
	return pkgerrors.Wrap(pkgerrors.CodeNotFound, ErrProductNotFound, "product is not in the cart").WithDetails(map[string]any{
		"product_id": productID.String(),
	})
}

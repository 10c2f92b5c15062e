package cart

import (
	"bytes"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/bakehouse-backend/internal/cart"
)

// quantityInput accepts 1.5 as well as "1.5" and defers validation to the
// cart rules so the client gets the category-specific message.
type quantityInput string

func (q *quantityInput) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*q = quantityInput(s)
		return nil
	}
	*q = quantityInput(b)
	return nil
}

func (q quantityInput) decimal() (decimal.Decimal, error) {
	return cart.ParseQuantity(string(q))
}

type addItemRequest struct {
	ProductID uuid.UUID     `json:"product_id" validate:"required"`
	Quantity  quantityInput `json:"quantity" validate:"required"`
}

type updateItemRequest struct {
	Quantity quantityInput `json:"quantity" validate:"required"`
}

package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/bakehouse-backend/internal/cart"
	"github.com/angelmondragon/bakehouse-backend/pkg/enums"
)

type cartLine struct {
	ProductID   uuid.UUID                 `json:"product_id"`
	Name        string                    `json:"name"`
	Category    enums.ProductCategory     `json:"category"`
	Granularity enums.QuantityGranularity `json:"quantity_granularity"`
	UnitPrice   decimal.Decimal           `json:"unit_price"`
	Quantity    decimal.Decimal           `json:"quantity"`
	LineTotal   decimal.Decimal           `json:"line_total"`
}

type cartView struct {
	SessionID string          `json:"session_id"`
	Lines     []cartLine      `json:"lines"`
	ItemCount int             `json:"item_count"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

func newCartView(sessionID string, c cart.Cart) cartView {
	lines := make([]cartLine, 0, c.Len())
	for _, l := range c.Lines {
		lines = append(lines, cartLine{
			ProductID:   l.Product.ID,
			Name:        l.Product.Name,
			Category:    l.Product.Category,
			Granularity: l.Product.Category.Granularity(),
			UnitPrice:   l.Product.Price,
			Quantity:    l.Quantity,
			LineTotal:   l.Total(),
		})
	}
	return cartView{
		SessionID: sessionID,
		Lines:     lines,
		ItemCount: len(lines),
		Subtotal:  cart.ComputeSubtotal(c),
	}
}

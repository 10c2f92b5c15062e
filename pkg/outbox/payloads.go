package outbox

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderPlacedEvent is emitted once per successful checkout.
type OrderPlacedEvent struct {
	OrderID         uuid.UUID       `json:"orderId"`
	OrderNumber     string          `json:"orderNumber"`
	CustomerEmail   string          `json:"customerEmail"`
	DeliveryMethod  string          `json:"deliveryMethod"`
	ShippingZone    string          `json:"shippingZone"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	ShippingCharge  decimal.Decimal `json:"shippingCharge"`
	Total           decimal.Decimal `json:"total"`
	RequiresAdvance bool            `json:"requiresAdvance"`
	AdvanceAmount   decimal.Decimal `json:"advanceAmount"`
	ItemCount       int             `json:"itemCount"`
}

// OrderStatusChangedEvent records a fulfilment step.
type OrderStatusChangedEvent struct {
	OrderID         uuid.UUID `json:"orderId"`
	OrderNumber     string    `json:"orderNumber"`
	From            string    `json:"from"`
	To              string    `json:"to"`
	ProgressPercent int       `json:"progressPercent"`
}

// PaymentStatusChangedEvent records a payment step.
type PaymentStatusChangedEvent struct {
	OrderID     uuid.UUID `json:"orderId"`
	OrderNumber string    `json:"orderNumber"`
	From        string    `json:"from"`
	To          string    `json:"to"`
}

// ProductOutOfStockEvent fires when a checkout drains a product.
type ProductOutOfStockEvent struct {
	ProductID uuid.UUID `json:"productId"`
	Name      string    `json:"name"`
}

package orders

import (
	"time"

	"github.com/angelmondragon/bakehouse-backend/pkg/db/models"
	"github.com/angelmondragon/bakehouse-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AdminOrderFilters narrow the admin order list.
type AdminOrderFilters struct {
	OrderStatus   *enums.OrderStatus
	PaymentStatus *enums.PaymentStatus
	CustomerEmail string
}

// OrderItemDTO is one purchased line.
type OrderItemDTO struct {
	ProductID   uuid.UUID             `json:"product_id"`
	ProductName string                `json:"product_name"`
	Category    enums.ProductCategory `json:"category"`
	UnitPrice   decimal.Decimal       `json:"unit_price"`
	Quantity    decimal.Decimal       `json:"quantity"`
	LineTotal   decimal.Decimal       `json:"line_total"`
}

// OrderDTO is the API shape of an order, shared by customer and admin views.
type OrderDTO struct {
	ID              uuid.UUID            `json:"id"`
	OrderNumber     string               `json:"order_number"`
	CustomerEmail   string               `json:"customer_email"`
	CustomerName    string               `json:"customer_name"`
	CustomerPhone   string               `json:"customer_phone"`
	DeliveryMethod  enums.DeliveryMethod `json:"delivery_method"`
	DeliveryAddress *string              `json:"delivery_address,omitempty"`
	PostalCode      *string              `json:"postal_code,omitempty"`
	MapLink         *string              `json:"map_link,omitempty"`
	ShippingZone    string               `json:"shipping_zone"`
	Subtotal        decimal.Decimal      `json:"subtotal"`
	ShippingCharge  decimal.Decimal      `json:"shipping_charge"`
	Total           decimal.Decimal      `json:"total"`
	PaymentMethod   enums.PaymentMethod  `json:"payment_method"`
	OrderStatus     enums.OrderStatus    `json:"order_status"`
	PaymentStatus   enums.PaymentStatus  `json:"payment_status"`
	ProgressPercent int                  `json:"progress_percent"`
	RequiresAdvance bool                 `json:"requires_advance"`
	AdvanceAmount   decimal.Decimal      `json:"advance_amount"`
	Items           []OrderItemDTO       `json:"items,omitempty"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

// OrderList wraps a page of orders plus the next page cursor.
type OrderList struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

// FromModel maps a persisted order. Items are included only when preloaded.
func FromModel(o models.Order) OrderDTO {
	dto := OrderDTO{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		CustomerEmail:   o.CustomerEmail,
		CustomerName:    o.CustomerName,
		CustomerPhone:   o.CustomerPhone,
		DeliveryMethod:  o.DeliveryMethod,
		DeliveryAddress: o.DeliveryAddress,
		PostalCode:      o.PostalCode,
		MapLink:         o.MapLink,
		ShippingZone:    o.ShippingZone,
		Subtotal:        o.Subtotal,
		ShippingCharge:  o.ShippingCharge,
		Total:           o.Total,
		PaymentMethod:   o.PaymentMethod,
		OrderStatus:     o.OrderStatus,
		PaymentStatus:   o.PaymentStatus,
		ProgressPercent: o.OrderStatus.ProgressPercent(),
		RequiresAdvance: o.RequiresAdvance,
		AdvanceAmount:   o.AdvanceAmount,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
	for _, item := range o.Items {
		dto.Items = append(dto.Items, OrderItemDTO{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Category:    item.Category,
			UnitPrice:   item.UnitPrice,
			Quantity:    item.Quantity,
			LineTotal:   item.LineTotal,
		})
	}
	return dto
}

func fromModels(rows []models.Order) []OrderDTO {
	out := make([]OrderDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromModel(row))
	}
	return out
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/bakehouse-backend/pkg/enums"
)

// Order is the persisted result of a checkout. Only OrderStatus and
// PaymentStatus change after creation.
type Order struct {
	ID              uuid.UUID            `gorm:"column:id;type:uuid;primaryKey"`
	OrderNumber     string               `gorm:"column:order_number;not null;uniqueIndex"`
	CustomerEmail   string               `gorm:"column:customer_email;not null;index"`
	CustomerName    string               `gorm:"column:customer_name;not null"`
	CustomerPhone   string               `gorm:"column:customer_phone;not null"`
	DeliveryMethod  enums.DeliveryMethod `gorm:"column:delivery_method;type:text;not null"`
	DeliveryAddress *string              `gorm:"column:delivery_address"`
	PostalCode      *string              `gorm:"column:postal_code"`
	MapLink         *string              `gorm:"column:map_link"`
	ShippingZone    string               `gorm:"column:shipping_zone;not null"`
	Subtotal        decimal.Decimal      `gorm:"column:subtotal;type:numeric(12,2);not null"`
	ShippingCharge  decimal.Decimal      `gorm:"column:shipping_charge;type:numeric(12,2);not null"`
	Total           decimal.Decimal      `gorm:"column:total;type:numeric(12,2);not null"`
	PaymentMethod   enums.PaymentMethod  `gorm:"column:payment_method;type:text;not null;default:'cod'"`
	OrderStatus     enums.OrderStatus    `gorm:"column:order_status;type:text;not null"`
	PaymentStatus   enums.PaymentStatus  `gorm:"column:payment_status;type:text;not null"`
	RequiresAdvance bool                 `gorm:"column:requires_advance;not null;default:false"`
	AdvanceAmount   decimal.Decimal      `gorm:"column:advance_amount;type:numeric(12,2);not null"`
	Items           []OrderItem          `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

func (Order) TableName() string { return "orders" }

func (o *Order) BeforeCreate(*gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// OrderItem snapshots a cart line at checkout time.
type OrderItem struct {
	ID          uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	OrderID     uuid.UUID             `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID   uuid.UUID             `gorm:"column:product_id;type:uuid;not null"`
	ProductName string                `gorm:"column:product_name;not null"`
	Category    enums.ProductCategory `gorm:"column:category;type:text;not null"`
	UnitPrice   decimal.Decimal       `gorm:"column:unit_price;type:numeric(10,2);not null"`
	Quantity    decimal.Decimal       `gorm:"column:quantity;type:numeric(10,2);not null"`
	LineTotal   decimal.Decimal       `gorm:"column:line_total;type:numeric(12,2);not null"`
	CreatedAt   time.Time             `gorm:"column:created_at;autoCreateTime"`
}

func (OrderItem) TableName() string { return "order_items" }

func (i *OrderItem) BeforeCreate(*gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/bakehouse-backend/pkg/enums"
)

// Product is a catalog entry. Status mirrors StockQuantity and is rewritten
// whenever stock changes.
type Product struct {
	ID            uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	Name          string                `gorm:"column:name;not null"`
	Description   string                `gorm:"column:description;not null;default:''"`
	Category      enums.ProductCategory `gorm:"column:category;type:text;not null"`
	Price         decimal.Decimal       `gorm:"column:price;type:numeric(10,2);not null"`
	ImageURL      *string               `gorm:"column:image_url"`
	StockQuantity int                   `gorm:"column:stock_quantity;not null;default:0"`
	Status        enums.ProductStatus   `gorm:"column:status;type:text;not null;default:'out_of_stock'"`
	CreatedAt     time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

func (Product) TableName() string { return "products" }

// BeforeCreate assigns an id and derives status from stock.
func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.Status = enums.ProductStatusForStock(p.StockQuantity)
	return nil
}

package product

import (
	"time"

	"github.com/angelmondragon/bakehouse-backend/pkg/db/models"
	"github.com/angelmondragon/bakehouse-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ListFilters describe the supported filter knobs for the browse endpoint.
type ListFilters struct {
	Category    *enums.ProductCategory `json:"category,omitempty"`
	InStockOnly bool                   `json:"in_stock,omitempty"`
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name          string
	Description   string
	Category      enums.ProductCategory
	Price         decimal.Decimal
	ImageURL      *string
	StockQuantity int
}

// ProductDTO is the API shape of a catalog entry.
type ProductDTO struct {
	ID                  uuid.UUID                 `json:"id"`
	Name                string                    `json:"name"`
	Description         string                    `json:"description"`
	Category            enums.ProductCategory     `json:"category"`
	QuantityGranularity enums.QuantityGranularity `json:"quantity_granularity"`
	Price               decimal.Decimal           `json:"price"`
	ImageURL            *string                   `json:"image_url,omitempty"`
	StockQuantity       int                       `json:"stock_quantity"`
	Status              enums.ProductStatus       `json:"status"`
	CreatedAt           time.Time                 `json:"created_at"`
	UpdatedAt           time.Time                 `json:"updated_at"`
}

// FromModel maps a persisted product.
func FromModel(p models.Product) ProductDTO {
	return ProductDTO{
		ID:                  p.ID,
		Name:                p.Name,
		Description:         p.Description,
		Category:            p.Category,
		QuantityGranularity: p.Category.Granularity(),
		Price:               p.Price,
		ImageURL:            p.ImageURL,
		StockQuantity:       p.StockQuantity,
		Status:              p.Status,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
}

// Package cart holds the quantity rules of the storefront cart and the
// session-scoped service that persists carts between requests.
package cart

import (
	"github.com/angelmondragon/bakehouse-backend/pkg/db/models"
	"github.com/angelmondragon/bakehouse-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is the slice of catalog data the cart needs.
type Product struct {
	ID       uuid.UUID             `json:"id"`
	Name     string                `json:"name"`
	Category enums.ProductCategory `json:"category"`
	Price    decimal.Decimal       `json:"price"`
}

// ProductFromModel projects a catalog row onto the cart view of a product.
func ProductFromModel(p models.Product) Product {
	return Product{
		ID:       p.ID,
		Name:     p.Name,
		Category: p.Category,
		Price:    p.Price,
	}
}

// Line is one product in the cart.
type Line struct {
	Product  Product         `json:"product"`
	Quantity decimal.Decimal `json:"quantity"`
}

// Total is price times quantity rounded to paise.
func (l Line) Total() decimal.Decimal {
	return l.Product.Price.Mul(l.Quantity).Round(2)
}

// Cart is an ordered set of lines with at most one line per product.
// Every operation returns a new Cart and leaves its input untouched.
type Cart struct {
	Lines []Line `json:"lines"`
}

// Len reports the number of lines.
func (c Cart) Len() int {
	return len(c.Lines)
}

// IsEmpty reports whether the cart has no lines.
func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Line returns the line for productID.
func (c Cart) Line(productID uuid.UUID) (Line, bool) {
	if idx := c.indexOf(productID); idx >= 0 {
		return c.Lines[idx], true
	}
	return Line{}, false
}

// Subtotal is ComputeSubtotal(c).
func (c Cart) Subtotal() decimal.Decimal {
	return ComputeSubtotal(c)
}

func (c Cart) indexOf(productID uuid.UUID) int {
	for i, line := range c.Lines {
		if line.Product.ID == productID {
			return i
		}
	}
	return -1
}

func (c Cart) clone() Cart {
	lines := make([]Line, len(c.Lines))
	copy(lines, c.Lines)
	return Cart{Lines: lines}
}

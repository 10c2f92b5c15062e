package helpers

import (
	"github.com/angelmondragon/bakehouse-backend/internal/cart"
	"github.com/angelmondragon/bakehouse-backend/pkg/db/models"
)

// BuildOrderItems snapshots cart lines into order items at current prices.
func BuildOrderItems(c cart.Cart) []models.OrderItem {
	items := make([]models.OrderItem, 0, c.Len())
	for _, line := range c.Lines {
		items = append(items, models.OrderItem{
			ProductID:   line.Product.ID,
			ProductName: line.Product.Name,
			Category:    line.Product.Category,
			UnitPrice:   line.Product.Price,
			Quantity:    line.Quantity,
			LineTotal:   line.Total(),
		})
	}
	return items
}

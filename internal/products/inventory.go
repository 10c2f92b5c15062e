package product

import (
	"context"
	"errors"
	"math"

	"github.com/angelmondragon/bakehouse-backend/pkg/db/models"
	"github.com/angelmondragon/bakehouse-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	// ErrInsufficientStock is returned when a decrement would take stock below zero.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrUnitsOutOfRange is returned for quantities that cannot be counted in stock units.
	ErrUnitsOutOfRange = errors.New("stock units out of range")

	maxStockUnits = decimal.NewFromInt(math.MaxInt32)
)

// StockUnits converts a cart quantity into whole stock units. Fractional
// pastry quantities consume a full unit for any started quarter.
func StockUnits(quantity decimal.Decimal) (int, error) {
	units := quantity.Ceil()
	if !units.IsPositive() || units.GreaterThan(maxStockUnits) {
		return 0, ErrUnitsOutOfRange
	}
	return int(units.IntPart()), nil
}

// DecrementStock removes units from a product inside tx and returns the
// product as it stands afterwards. The guarded update fails instead of
// overselling when concurrent checkouts race.
func (r *Repository) DecrementStock(ctx context.Context, productID uuid.UUID, units int) (*models.Product, error) {
	if units <= 0 {
		return nil, errors.New("decrement units must be positive")
	}
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND stock_quantity >= ?", productID, units).
		Update("stock_quantity", gorm.Expr("stock_quantity - ?", units))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		if _, err := r.GetByID(ctx, productID); err != nil {
			return nil, err
		}
		return nil, ErrInsufficientStock
	}

	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", productID).Error; err != nil {
		return nil, err
	}
	status := enums.ProductStatusForStock(product.StockQuantity)
	if status != product.Status {
		if err := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", productID).Update("status", status).Error; err != nil {
			return nil, err
		}
		product.Status = status
	}
	return &product, nil
}

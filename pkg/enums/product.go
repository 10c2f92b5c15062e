package enums

import "fmt"

// ProductCategory groups catalog items. The category decides how a quantity
// may be expressed in a cart.
type ProductCategory string

const (
	ProductCategoryPastries ProductCategory = "pastries"
	ProductCategoryCakes    ProductCategory = "cakes"
	ProductCategoryBreads   ProductCategory = "breads"
	ProductCategoryCookies  ProductCategory = "cookies"
	ProductCategorySweets   ProductCategory = "sweets"
	ProductCategorySavories ProductCategory = "savories"
)

var validProductCategories = []ProductCategory{
	ProductCategoryPastries,
	ProductCategoryCakes,
	ProductCategoryBreads,
	ProductCategoryCookies,
	ProductCategorySweets,
	ProductCategorySavories,
}

// String implements fmt.Stringer.
func (c ProductCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ProductCategory.
func (c ProductCategory) IsValid() bool {
	for _, candidate := range validProductCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// Granularity resolves the quantity rule for the category. Only pastries are
// sold by weight in quarter steps.
func (c ProductCategory) Granularity() QuantityGranularity {
	if c == ProductCategoryPastries {
		return QuantityGranularityFractionalQuarter
	}
	return QuantityGranularityInteger
}

// ParseProductCategory converts raw input into a ProductCategory.
func ParseProductCategory(value string) (ProductCategory, error) {
	for _, candidate := range validProductCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product category %q", value)
}

// QuantityGranularity describes which quantities a cart line may hold.
type QuantityGranularity string

const (
	QuantityGranularityInteger           QuantityGranularity = "integer"
	QuantityGranularityFractionalQuarter QuantityGranularity = "fractional_quarter"
)

// String implements fmt.Stringer.
func (g QuantityGranularity) String() string {
	return string(g)
}

// ProductStatus is derived from stock on every stock write.
type ProductStatus string

const (
	ProductStatusInStock    ProductStatus = "in_stock"
	ProductStatusOutOfStock ProductStatus = "out_of_stock"
)

var validProductStatuses = []ProductStatus{
	ProductStatusInStock,
	ProductStatusOutOfStock,
}

// String implements fmt.Stringer.
func (s ProductStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ProductStatus.
func (s ProductStatus) IsValid() bool {
	for _, candidate := range validProductStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ProductStatusForStock maps a stock quantity to its status.
func ProductStatusForStock(quantity int) ProductStatus {
	if quantity > 0 {
		return ProductStatusInStock
	}
	return ProductStatusOutOfStock
}

package product

import (
	"context"
	"errors"
	"testing"

	"github.com/angelmondragon/bakehouse-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func TestRepositoryCreateDerivesStatus(t *testing.T) {
	db := newTestDB(t)

	stocked := mustCreateTestProduct(t, db, "Sourdough", enums.ProductCategoryBreads, "120", 4)
	empty := mustCreateTestProduct(t, db, "Black Forest", enums.ProductCategoryCakes, "650", 0)

	if stocked.Status != enums.ProductStatusInStock {
		t.Fatalf("expected in_stock, got %s", stocked.Status)
	}
	if empty.Status != enums.ProductStatusOutOfStock {
		t.Fatalf("expected out_of_stock, got %s", empty.Status)
	}
}

func TestRepositoryListFilters(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	mustCreateTestProduct(t, db, "Croissant", enums.ProductCategoryPastries, "160", 10)
	mustCreateTestProduct(t, db, "Puff", enums.ProductCategoryPastries, "40", 0)
	mustCreateTestProduct(t, db, "Rusk", enums.ProductCategoryBreads, "80", 3)

	all, err := repo.List(ctx, ListFilters{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 products, got %d", len(all))
	}

	pastries := enums.ProductCategoryPastries
	rows, err := repo.List(ctx, ListFilters{Category: &pastries, InStockOnly: true})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 || rows[0].Name != "Croissant" {
		t.Fatalf("unexpected filtered rows %+v", rows)
	}
}

func TestRepositoryListByIDs(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)

	a := mustCreateTestProduct(t, db, "A", enums.ProductCategoryCookies, "10", 1)
	b := mustCreateTestProduct(t, db, "B", enums.ProductCategoryCookies, "10", 1)

	rows, err := repo.ListByIDs(context.Background(), []uuid.UUID{a.ID, b.ID, uuid.New()})
	if err != nil {
		t.Fatalf("list by ids: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
}

func TestRepositorySetStock(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	p := mustCreateTestProduct(t, db, "Laddu", enums.ProductCategorySweets, "15", 5)

	if err := repo.SetStock(ctx, p.ID, 0); err != nil {
		t.Fatalf("set stock: %v", err)
	}
	got, err := repo.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.StockQuantity != 0 || got.Status != enums.ProductStatusOutOfStock {
		t.Fatalf("unexpected product %+v", got)
	}

	if err := repo.SetStock(ctx, uuid.New(), 3); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRepositoryDecrementStock(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	p := mustCreateTestProduct(t, db, "Samosa", enums.ProductCategorySavories, "20", 3)

	after, err := repo.DecrementStock(ctx, p.ID, 2)
	if err != nil {
		t.Fatalf("decrement: %v", err)
	}
	if after.StockQuantity != 1 || after.Status != enums.ProductStatusInStock {
		t.Fatalf("unexpected product %+v", after)
	}

	if _, err := repo.DecrementStock(ctx, p.ID, 2); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock, got %v", err)
	}

	after, err = repo.DecrementStock(ctx, p.ID, 1)
	if err != nil {
		t.Fatalf("decrement: %v", err)
	}
	if after.StockQuantity != 0 || after.Status != enums.ProductStatusOutOfStock {
		t.Fatalf("expected drained product, got %+v", after)
	}

	if _, err := repo.DecrementStock(ctx, uuid.New(), 1); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestStockUnits(t *testing.T) {
	t.Parallel()

	cases := map[string]int{"1": 1, "3": 3, "0.25": 1, "1.5": 2, "2.75": 3}
	for in, want := range cases {
		got, err := StockUnits(decimal.RequireFromString(in))
		if err != nil || got != want {
			t.Fatalf("%s: expected %d, got %d (err %v)", in, want, got, err)
		}
	}
}

func TestStockUnitsRejectsOutOfRange(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"0", "-1", "2147483648", "9223372036854775808", "18446744073709551617"} {
		if got, err := StockUnits(decimal.RequireFromString(in)); !errors.Is(err, ErrUnitsOutOfRange) {
			t.Fatalf("%s: expected out of range, got %d (err %v)", in, got, err)
		}
	}
	if got, err := StockUnits(decimal.RequireFromString("2147483647")); err != nil || got != 2147483647 {
		t.Fatalf("expected max int32 to pass, got %d (err %v)", got, err)
	}
}

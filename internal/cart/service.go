package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/angelmondragon/bakehouse-backend/pkg/db/models"
	"github.com/angelmondragon/bakehouse-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/bakehouse-backend/pkg/errors"
	"github.com/angelmondragon/bakehouse-backend/pkg/logger"
	"github.com/angelmondragon/bakehouse-backend/pkg/metrics"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type catalog interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error)
}

// Service applies the cart rules to session carts.
type Service interface {
	Get(ctx context.Context, sessionID string) (Cart, error)
	AddItem(ctx context.Context, sessionID string, productID uuid.UUID, quantity decimal.Decimal) (Cart, error)
	UpdateItem(ctx context.Context, sessionID string, productID uuid.UUID, quantity decimal.Decimal) (Cart, error)
	RemoveItem(ctx context.Context, sessionID string, productID uuid.UUID) (Cart, error)
	Clear(ctx context.Context, sessionID string) error
}

type service struct {
	store   Store
	catalog catalog
	metrics *metrics.StorefrontMetrics
	logg    *logger.Logger
}

// NewService builds a cart service. m may be nil.
func NewService(store Store, catalog catalog, m *metrics.StorefrontMetrics, logg *logger.Logger) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if catalog == nil {
		return nil, fmt.Errorf("product catalog required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{store: store, catalog: catalog, metrics: m, logg: logg}, nil
}

func (s *service) Get(ctx context.Context, sessionID string) (Cart, error) {
	if sessionID == "" {
		return Cart{}, pkgerrors.New(pkgerrors.CodeValidation, "cart session is required")
	}
	snap, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return Cart{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return s.hydrate(ctx, snap)
}

func (s *service) AddItem(ctx context.Context, sessionID string, productID uuid.UUID, quantity decimal.Decimal) (Cart, error) {
	current, err := s.Get(ctx, sessionID)
	if err != nil {
		return Cart{}, err
	}
	product, err := s.catalog.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Cart{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return Cart{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if product.Status == enums.ProductStatusOutOfStock {
		s.metrics.IncCartRejection("out_of_stock")
		return Cart{}, pkgerrors.New(pkgerrors.CodeConflict, "product is out of stock").WithDetails(map[string]any{
			"product_id": productID.String(),
		})
	}

	next, err := AddToCart(current, ProductFromModel(*product), quantity)
	if err != nil {
		s.reject(ctx, err)
		return Cart{}, err
	}
	return next, s.save(ctx, sessionID, next)
}

func (s *service) UpdateItem(ctx context.Context, sessionID string, productID uuid.UUID, quantity decimal.Decimal) (Cart, error) {
	current, err := s.Get(ctx, sessionID)
	if err != nil {
		return Cart{}, err
	}
	next, err := UpdateQuantity(current, productID, quantity)
	if err != nil {
		s.reject(ctx, err)
		return Cart{}, err
	}
	return next, s.save(ctx, sessionID, next)
}

func (s *service) RemoveItem(ctx context.Context, sessionID string, productID uuid.UUID) (Cart, error) {
	current, err := s.Get(ctx, sessionID)
	if err != nil {
		return Cart{}, err
	}
	next := RemoveFromCart(current, productID)
	if next.Len() == current.Len() {
		return current, nil
	}
	return next, s.save(ctx, sessionID, next)
}

func (s *service) Clear(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart session is required")
	}
	if err := s.store.Delete(ctx, sessionID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

func (s *service) save(ctx context.Context, sessionID string, c Cart) error {
	if err := s.store.Save(ctx, sessionID, SnapshotOf(c)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart")
	}
	return nil
}

func (s *service) reject(ctx context.Context, err error) {
	reason := "invalid_quantity"
	if errors.Is(err, ErrProductNotFound) {
		reason = "not_in_cart"
	}
	s.metrics.IncCartRejection(reason)
	s.logg.Info(s.logg.WithField(ctx, "reason", reason), "cart.rejected")
}

// hydrate rebuilds a Cart from a snapshot using current catalog data.
// Lines whose product no longer exists are dropped.
func (s *service) hydrate(ctx context.Context, snap Snapshot) (Cart, error) {
	if len(snap.Items) == 0 {
		return Cart{Lines: []Line{}}, nil
	}
	ids := make([]uuid.UUID, 0, len(snap.Items))
	for _, item := range snap.Items {
		ids = append(ids, item.ProductID)
	}
	rows, err := s.catalog.ListByIDs(ctx, ids)
	if err != nil {
		return Cart{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart products")
	}
	byID := make(map[uuid.UUID]models.Product, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
	}

	out := Cart{Lines: make([]Line, 0, len(snap.Items))}
	for _, item := range snap.Items {
		row, ok := byID[item.ProductID]
		if !ok {
			s.logg.Warn(s.logg.WithField(ctx, "product_id", item.ProductID.String()), "cart.product_missing")
			continue
		}
		out.Lines = append(out.Lines, Line{Product: ProductFromModel(row), Quantity: item.Quantity})
	}
	return out, nil
}

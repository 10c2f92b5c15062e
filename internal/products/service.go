package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/bakehouse-backend/pkg/db/models"
	"github.com/angelmondragon/bakehouse-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/bakehouse-backend/pkg/errors"
	"github.com/angelmondragon/bakehouse-backend/pkg/logger"
	"github.com/angelmondragon/bakehouse-backend/pkg/outbox"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service exposes catalog reads and the admin catalog operations.
type Service interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	ListProducts(ctx context.Context, filters ListFilters) ([]ProductDTO, error)
	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	SetStock(ctx context.Context, id uuid.UUID, quantity int) (*ProductDTO, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo   *Repository
	tx     txRunner
	outbox outbox.Emitter
	logg   *logger.Logger
}

// NewService constructs a product service instance.
func NewService(repo *Repository, tx txRunner, emitter outbox.Emitter, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if emitter == nil {
		return nil, fmt.Errorf("outbox emitter required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{repo: repo, tx: tx, outbox: emitter, logg: logg}, nil
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, loadError(err)
	}
	dto := FromModel(*row)
	return &dto, nil
}

func (s *service) ListProducts(ctx context.Context, filters ListFilters) ([]ProductDTO, error) {
	rows, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	out := make([]ProductDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromModel(row))
	}
	return out, nil
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}
	row := &models.Product{
		Name:          strings.TrimSpace(input.Name),
		Description:   strings.TrimSpace(input.Description),
		Category:      input.Category,
		Price:         input.Price.Round(2),
		ImageURL:      input.ImageURL,
		StockQuantity: input.StockQuantity,
	}
	created, err := s.repo.Create(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	s.logg.Info(s.logg.WithField(ctx, "product_id", created.ID.String()), "product created")
	dto := FromModel(*created)
	return &dto, nil
}

// SetStock overwrites stock and emits product_out_of_stock when it drops to zero.
func (s *service) SetStock(ctx context.Context, id uuid.UUID, quantity int) (*ProductDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if quantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock quantity must be zero or more")
	}

	var updated *models.Product
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		current, err := repo.GetByID(ctx, id)
		if err != nil {
			return loadError(err)
		}
		if err := repo.SetStock(ctx, id, quantity); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update stock")
		}
		wasInStock := current.Status == enums.ProductStatusInStock
		current.StockQuantity = quantity
		current.Status = enums.ProductStatusForStock(quantity)
		updated = current
		if wasInStock && current.Status == enums.ProductStatusOutOfStock {
			return EmitOutOfStock(ctx, s.outbox, tx, current)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	dto := FromModel(*updated)
	return &dto, nil
}

// EmitOutOfStock queues a product_out_of_stock event inside tx.
func EmitOutOfStock(ctx context.Context, emitter outbox.Emitter, tx *gorm.DB, p *models.Product) error {
	return emitter.Emit(ctx, tx, outbox.DomainEvent{
		EventType:     enums.EventProductOutOfStock,
		AggregateType: enums.AggregateProduct,
		AggregateID:   p.ID,
		Data:          outbox.ProductOutOfStockEvent{ProductID: p.ID, Name: p.Name},
	})
}

func validateCreateInput(input CreateProductInput) error {
	details := map[string]any{}
	if strings.TrimSpace(input.Name) == "" {
		details["name"] = "required"
	}
	if !input.Category.IsValid() {
		details["category"] = "unknown category"
	}
	if input.Price.IsNegative() {
		details["price"] = "must be zero or more"
	}
	if input.StockQuantity < 0 {
		details["stock_quantity"] = "must be zero or more"
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid product").WithDetails(details)
	}
	return nil
}

func loadError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
}

package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/bakehouse-backend/pkg/db/models"
	"github.com/angelmondragon/bakehouse-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/bakehouse-backend/pkg/errors"
	"github.com/angelmondragon/bakehouse-backend/pkg/logger"
	"github.com/angelmondragon/bakehouse-backend/pkg/metrics"
	"github.com/angelmondragon/bakehouse-backend/pkg/outbox"
	"github.com/angelmondragon/bakehouse-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Actor identifies the caller of an order operation.
type Actor struct {
	Email string
	Role  string
}

// Service exposes customer reads and the admin status mutators.
type Service interface {
	GetForCustomer(ctx context.Context, actor Actor, orderID uuid.UUID) (*OrderDTO, error)
	ListForCustomer(ctx context.Context, actor Actor, params pagination.Params) (*OrderList, error)
	AdminGet(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error)
	AdminList(ctx context.Context, filters AdminOrderFilters, params pagination.Params) (*OrderList, error)
	UpdateOrderStatus(ctx context.Context, actor Actor, orderID uuid.UUID, status enums.OrderStatus) (*OrderDTO, error)
	UpdatePaymentStatus(ctx context.Context, actor Actor, orderID uuid.UUID, status enums.PaymentStatus) (*OrderDTO, error)
}

type service struct {
	repo    Repository
	tx      txRunner
	outbox  outbox.Emitter
	metrics *metrics.StorefrontMetrics
	logg    *logger.Logger
}

// NewService builds an order service with the required dependencies.
func NewService(repo Repository, tx txRunner, emitter outbox.Emitter, m *metrics.StorefrontMetrics, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
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
	return &service{repo: repo, tx: tx, outbox: emitter, metrics: m, logg: logg}, nil
}

func (s *service) GetForCustomer(ctx context.Context, actor Actor, orderID uuid.UUID) (*OrderDTO, error) {
	email := normalizeEmail(actor.Email)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "customer identity missing")
	}
	order, err := s.load(ctx, s.repo, orderID)
	if err != nil {
		return nil, err
	}
	// other customers' orders are reported as missing
	if normalizeEmail(order.CustomerEmail) != email {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	dto := FromModel(*order)
	return &dto, nil
}

func (s *service) ListForCustomer(ctx context.Context, actor Actor, params pagination.Params) (*OrderList, error) {
	email := normalizeEmail(actor.Email)
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "customer identity missing")
	}
	rows, next, err := s.repo.ListByCustomerEmail(ctx, email, params)
	if err != nil {
		return nil, listError(err)
	}
	return &OrderList{Orders: fromModels(rows), NextCursor: next}, nil
}

func (s *service) AdminGet(ctx context.Context, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.load(ctx, s.repo, orderID)
	if err != nil {
		return nil, err
	}
	dto := FromModel(*order)
	return &dto, nil
}

func (s *service) AdminList(ctx context.Context, filters AdminOrderFilters, params pagination.Params) (*OrderList, error) {
	filters.CustomerEmail = normalizeEmail(filters.CustomerEmail)
	rows, next, err := s.repo.ListAdmin(ctx, filters, params)
	if err != nil {
		return nil, listError(err)
	}
	return &OrderList{Orders: fromModels(rows), NextCursor: next}, nil
}

func (s *service) UpdateOrderStatus(ctx context.Context, actor Actor, orderID uuid.UUID, status enums.OrderStatus) (*OrderDTO, error) {
	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := s.load(ctx, repo, orderID)
		if err != nil {
			return err
		}
		if err := CheckOrderTransition(order.OrderStatus, status); err != nil {
			return err
		}
		updated = order
		if order.OrderStatus == status {
			return nil
		}
		if err := repo.UpdateOrderStatus(ctx, order.ID, order.OrderStatus, status); err != nil {
			return updateError(err, "update order status")
		}
		from := order.OrderStatus
		order.OrderStatus = status
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderStatusChanged,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Actor:         actorRef(actor),
			Data: outbox.OrderStatusChangedEvent{
				OrderID:         order.ID,
				OrderNumber:     order.OrderNumber,
				From:            string(from),
				To:              string(status),
				ProgressPercent: status.ProgressPercent(),
			},
		})
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncStatusTransition("order", string(status))
	s.logg.Info(s.logg.WithFields(s.logg.WithOrderID(ctx, orderID.String()), map[string]any{
		"order_status": status,
	}), "order status updated")
	dto := FromModel(*updated)
	return &dto, nil
}

func (s *service) UpdatePaymentStatus(ctx context.Context, actor Actor, orderID uuid.UUID, status enums.PaymentStatus) (*OrderDTO, error) {
	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := s.load(ctx, repo, orderID)
		if err != nil {
			return err
		}
		if err := CheckPaymentTransition(order.PaymentStatus, status, order.RequiresAdvance); err != nil {
			return err
		}
		updated = order
		if order.PaymentStatus == status {
			return nil
		}
		if err := repo.UpdatePaymentStatus(ctx, order.ID, order.PaymentStatus, status); err != nil {
			return updateError(err, "update payment status")
		}
		from := order.PaymentStatus
		order.PaymentStatus = status
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventPaymentStatusChanged,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Actor:         actorRef(actor),
			Data: outbox.PaymentStatusChangedEvent{
				OrderID:     order.ID,
				OrderNumber: order.OrderNumber,
				From:        string(from),
				To:          string(status),
			},
		})
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncStatusTransition("payment", string(status))
	s.logg.Info(s.logg.WithFields(s.logg.WithOrderID(ctx, orderID.String()), map[string]any{
		"payment_status": status,
	}), "payment status updated")
	dto := FromModel(*updated)
	return &dto, nil
}

func (s *service) load(ctx context.Context, repo Repository, orderID uuid.UUID) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func updateError(err error, msg string) error {
	switch {
	case errors.Is(err, ErrStaleStatus):
		return pkgerrors.Wrap(pkgerrors.CodeStateConflict, err, "order was updated by someone else, reload and retry")
	case errors.Is(err, gorm.ErrRecordNotFound):
		return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, msg)
}

func listError(err error) error {
	if errors.Is(err, pagination.ErrInvalidCursor) {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
}

func actorRef(actor Actor) *outbox.ActorRef {
	if actor.Email == "" && actor.Role == "" {
		return nil
	}
	return &outbox.ActorRef{Email: normalizeEmail(actor.Email), Role: actor.Role}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Package checkout turns a cart session into a persisted order.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/bakehouse-backend/internal/cart"
	"github.com/angelmondragon/bakehouse-backend/internal/checkout/helpers"
	"github.com/angelmondragon/bakehouse-backend/internal/orders"
	product "github.com/angelmondragon/bakehouse-backend/internal/products"
	"github.com/angelmondragon/bakehouse-backend/internal/shipping"
	"github.com/angelmondragon/bakehouse-backend/pkg/db"
	"github.com/angelmondragon/bakehouse-backend/pkg/db/models"
	"github.com/angelmondragon/bakehouse-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/bakehouse-backend/pkg/errors"
	"github.com/angelmondragon/bakehouse-backend/pkg/logger"
	"github.com/angelmondragon/bakehouse-backend/pkg/metrics"
	"github.com/angelmondragon/bakehouse-backend/pkg/outbox"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type cartSession interface {
	Get(ctx context.Context, sessionID string) (cart.Cart, error)
	Clear(ctx context.Context, sessionID string) error
}

type shippingQuoter interface {
	CalculateShippingCharge(postalCode string, subtotal decimal.Decimal, method enums.DeliveryMethod) (shipping.Quote, error)
}

// Service executes checkout orchestration.
type Service interface {
	PlaceOrder(ctx context.Context, input PlaceOrderInput) (*orders.OrderDTO, error)
}

// PlaceOrderInput captures everything the customer submits at checkout.
type PlaceOrderInput struct {
	SessionID      string
	Customer       helpers.Customer
	DeliveryMethod enums.DeliveryMethod
	PaymentMethod  enums.PaymentMethod
	Address        *helpers.Address
	MapLink        *string
}

// Deps groups the collaborators of the checkout service.
type Deps struct {
	Tx         txRunner
	Carts      cartSession
	Shipping   shippingQuoter
	Products   *product.Repository
	Orders     orders.Repository
	Outbox     outbox.Emitter
	Policy     orders.PaymentPolicy
	Metrics    *metrics.StorefrontMetrics
	Logger     *logger.Logger
	Clock      func() time.Time
	NewOrderNo func(time.Time) string
}

type service struct {
	deps Deps
}

// NewService builds the checkout service.
func NewService(deps Deps) (Service, error) {
	if deps.Tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if deps.Carts == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if deps.Shipping == nil {
		return nil, fmt.Errorf("shipping calculator required")
	}
	if deps.Products == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if deps.Orders == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if deps.Outbox == nil {
		return nil, fmt.Errorf("outbox emitter required")
	}
	if deps.Policy.AdvanceThreshold.IsZero() && deps.Policy.AdvanceRate.IsZero() {
		deps.Policy = orders.DefaultPaymentPolicy()
	}
	if deps.Logger == nil {
		deps.Logger = logger.Nop()
	}
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	if deps.NewOrderNo == nil {
		deps.NewOrderNo = helpers.NewOrderNumber
	}
	return &service{deps: deps}, nil
}

func (s *service) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*orders.OrderDTO, error) {
	if input.SessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart session required")
	}
	customer, err := helpers.ValidateCustomer(input.Customer)
	if err != nil {
		return nil, err
	}
	address, err := helpers.ValidateDelivery(input.DeliveryMethod, input.Address)
	if err != nil {
		return nil, err
	}
	paymentMethod := input.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = enums.PaymentMethodCOD
	}
	if !paymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}

	c, err := s.deps.Carts.Get(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	subtotal := c.Subtotal()
	postalCode := ""
	if address != nil {
		postalCode = address.PostalCode
	}
	quote, err := s.deps.Shipping.CalculateShippingCharge(postalCode, subtotal, input.DeliveryMethod)
	if err != nil {
		return nil, err
	}
	total := subtotal.Add(quote.Charge)
	plan, err := s.deps.Policy.Plan(total)
	if err != nil {
		return nil, err
	}

	now := s.deps.Clock().UTC()
	order := &models.Order{
		OrderNumber:     s.deps.NewOrderNo(now),
		CustomerEmail:   customer.Email,
		CustomerName:    customer.Name,
		CustomerPhone:   customer.Phone,
		DeliveryMethod:  input.DeliveryMethod,
		ShippingZone:    quote.ZoneName,
		Subtotal:        subtotal,
		ShippingCharge:  quote.Charge,
		Total:           total,
		PaymentMethod:   paymentMethod,
		OrderStatus:     enums.OrderStatusConfirmation,
		PaymentStatus:   plan.InitialStatus,
		RequiresAdvance: plan.RequiresAdvance,
		AdvanceAmount:   plan.AdvanceAmount,
		Items:           helpers.BuildOrderItems(c),
	}
	if address != nil {
		formatted := helpers.FormatAddress(*address)
		order.DeliveryAddress = &formatted
		order.PostalCode = &address.PostalCode
		order.MapLink = input.MapLink
	}

	err = s.deps.Tx.WithTx(ctx, func(tx *gorm.DB) error {
		products := s.deps.Products.WithTx(tx)
		for _, line := range c.Lines {
			units, err := product.StockUnits(line.Quantity)
			if err != nil {
				return stockError(line.Product.ID.String(), err)
			}
			after, err := products.DecrementStock(ctx, line.Product.ID, units)
			if err != nil {
				return stockError(line.Product.ID.String(), err)
			}
			if after.Status == enums.ProductStatusOutOfStock {
				if err := product.EmitOutOfStock(ctx, s.deps.Outbox, tx, after); err != nil {
					return err
				}
			}
		}

		if err := s.deps.Orders.WithTx(tx).Create(ctx, order); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "order number collision, please retry")
			}
			if typed := pkgerrors.FromConstraint(err); typed != nil {
				return typed
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}

		return s.deps.Outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderPlaced,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Actor:         &outbox.ActorRef{Email: customer.Email, Role: "customer"},
			OccurredAt:    now,
			Data: outbox.OrderPlacedEvent{
				OrderID:         order.ID,
				OrderNumber:     order.OrderNumber,
				CustomerEmail:   order.CustomerEmail,
				DeliveryMethod:  string(order.DeliveryMethod),
				ShippingZone:    order.ShippingZone,
				Subtotal:        order.Subtotal,
				ShippingCharge:  order.ShippingCharge,
				Total:           order.Total,
				RequiresAdvance: order.RequiresAdvance,
				AdvanceAmount:   order.AdvanceAmount,
				ItemCount:       len(order.Items),
			},
		})
	})
	if err != nil {
		return nil, err
	}

	logCtx := s.deps.Logger.WithOrderID(ctx, order.ID.String())
	if err := s.deps.Carts.Clear(ctx, input.SessionID); err != nil {
		s.deps.Logger.Warn(s.deps.Logger.WithField(logCtx, "error", err.Error()), "cart not cleared after checkout")
	}

	totalFloat, _ := total.Float64()
	s.deps.Metrics.IncShippingQuote(quote.ZoneName, quote.Free)
	s.deps.Metrics.ObserveOrderPlaced(string(order.DeliveryMethod), string(order.PaymentMethod), order.RequiresAdvance, totalFloat)
	s.deps.Logger.Info(s.deps.Logger.WithFields(logCtx, map[string]any{
		"order_number":     order.OrderNumber,
		"total":            order.Total.StringFixed(2),
		"requires_advance": order.RequiresAdvance,
	}), "order placed")

	dto := orders.FromModel(*order)
	return &dto, nil
}

func stockError(productID string, err error) error {
	switch {
	case errors.Is(err, product.ErrInsufficientStock):
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "insufficient stock for product "+productID).WithDetails(map[string]any{
			"product_id": productID,
		})
	case errors.Is(err, product.ErrUnitsOutOfRange):
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "quantity out of range for product "+productID).WithDetails(map[string]any{
			"product_id": productID,
		})
	case errors.Is(err, gorm.ErrRecordNotFound):
		return pkgerrors.New(pkgerrors.CodeNotFound, "product "+productID+" no longer exists")
	default:
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decrement stock")
	}
}

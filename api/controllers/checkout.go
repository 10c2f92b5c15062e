package controllers

import (
	"net/http"

	"github.com/angelmondragon/bakehouse-backend/api/middleware"
	"github.com/angelmondragon/bakehouse-backend/api/responses"
	"github.com/angelmondragon/bakehouse-backend/api/validators"
	checkoutsvc "github.com/angelmondragon/bakehouse-backend/internal/checkout"
	"github.com/angelmondragon/bakehouse-backend/internal/checkout/helpers"
	"github.com/angelmondragon/bakehouse-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/bakehouse-backend/pkg/errors"
	"github.com/angelmondragon/bakehouse-backend/pkg/logger"
)

type checkoutCustomer struct {
	Name  string `json:"name" validate:"max=120"`
	Phone string `json:"phone" validate:"required"`
}

type checkoutAddress struct {
	Street     string `json:"street" validate:"required,max=200"`
	City       string `json:"city" validate:"required,max=80"`
	State      string `json:"state" validate:"required,max=80"`
	PostalCode string `json:"postal_code" validate:"required"`
}

type checkoutRequest struct {
	DeliveryMethod string           `json:"delivery_method" validate:"required,oneof=delivery pickup"`
	PaymentMethod  string           `json:"payment_method" validate:"omitempty,oneof=cod online"`
	Customer       checkoutCustomer `json:"customer"`
	Address        *checkoutAddress `json:"address"`
	MapLink        *string          `json:"map_link" validate:"omitempty,url"`
}

// Checkout turns the caller's cart session into an order. The customer email
// always comes from the bearer token.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		email := middleware.EmailFromContext(r.Context())
		if email == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "customer identity missing"))
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		method, err := enums.ParseDeliveryMethod(payload.DeliveryMethod)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid delivery method"))
			return
		}
		payment, err := enums.ParsePaymentMethod(payload.PaymentMethod)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method"))
			return
		}

		name := payload.Customer.Name
		if name == "" {
			name = middleware.NameFromContext(r.Context())
		}

		input := checkoutsvc.PlaceOrderInput{
			SessionID: middleware.CartSessionFromContext(r.Context()),
			Customer: helpers.Customer{
				Email: email,
				Name:  name,
				Phone: payload.Customer.Phone,
			},
			DeliveryMethod: method,
			PaymentMethod:  payment,
			MapLink:        payload.MapLink,
		}
		if payload.Address != nil {
			input.Address = &helpers.Address{
				Street:     payload.Address.Street,
				City:       payload.Address.City,
				State:      payload.Address.State,
				PostalCode: payload.Address.PostalCode,
			}
		}

		order, err := svc.PlaceOrder(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}

package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/bakehouse-backend/api/controllers"
	cartcontrollers "github.com/angelmondragon/bakehouse-backend/api/controllers/cart"
	ordercontrollers "github.com/angelmondragon/bakehouse-backend/api/controllers/orders"
	"github.com/angelmondragon/bakehouse-backend/api/middleware"
	"github.com/angelmondragon/bakehouse-backend/internal/cart"
	checkoutsvc "github.com/angelmondragon/bakehouse-backend/internal/checkout"
	"github.com/angelmondragon/bakehouse-backend/internal/orders"
	product "github.com/angelmondragon/bakehouse-backend/internal/products"
	"github.com/angelmondragon/bakehouse-backend/internal/shipping"
	"github.com/angelmondragon/bakehouse-backend/pkg/config"
	"github.com/angelmondragon/bakehouse-backend/pkg/enums"
	"github.com/angelmondragon/bakehouse-backend/pkg/logger"
	"github.com/angelmondragon/bakehouse-backend/pkg/redis"
)

// Services groups everything the HTTP surface depends on.
type Services struct {
	DB          controllers.Pinger
	Redis       controllers.Pinger
	Idempotency redis.IdempotencyStore
	Gatherer    prometheus.Gatherer
	Products    product.Service
	Cart        cart.Service
	Shipping    *shipping.Calculator
	Checkout    checkoutsvc.Service
	Orders      orders.Service
}

func NewRouter(cfg *config.Config, logg *logger.Logger, svc Services) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"db":    svc.DB,
			"redis": svc.Redis,
		}))
	})

	gatherer := svc.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", controllers.ListProducts(svc.Products, logg))
		r.Get("/products/{productId}", controllers.GetProduct(svc.Products, logg))
		r.Post("/shipping/quote", controllers.ShippingQuote(svc.Shipping, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.CartSession(logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cartcontrollers.CartFetch(svc.Cart, logg))
				r.Delete("/", cartcontrollers.CartClear(svc.Cart, logg))
				r.Post("/items", cartcontrollers.CartAddItem(svc.Cart, logg))
				r.Patch("/items/{productId}", cartcontrollers.CartUpdateItem(svc.Cart, logg))
				r.Delete("/items/{productId}", cartcontrollers.CartRemoveItem(svc.Cart, logg))
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(cfg.JWT, logg))
				r.Use(middleware.Idempotency(svc.Idempotency, cfg.Checkout.IdempotencyTTL, logg))

				r.Post("/checkout", controllers.Checkout(svc.Checkout, logg))
				r.Get("/orders", ordercontrollers.List(svc.Orders, logg))
				r.Get("/orders/{orderId}", ordercontrollers.Detail(svc.Orders, logg))
			})
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireRole(enums.RoleAdmin, logg))
		r.Use(middleware.Idempotency(svc.Idempotency, cfg.Checkout.IdempotencyTTL, logg))

		r.Post("/products", controllers.AdminCreateProduct(svc.Products, logg))
		r.Patch("/products/{productId}/stock", controllers.AdminSetStock(svc.Products, logg))

		r.Get("/orders", ordercontrollers.AdminList(svc.Orders, logg))
		r.Get("/orders/{orderId}", ordercontrollers.AdminDetail(svc.Orders, logg))
		r.Post("/orders/{orderId}/status", ordercontrollers.AdminUpdateStatus(svc.Orders, logg))
		r.Post("/orders/{orderId}/payment-status", ordercontrollers.AdminUpdatePaymentStatus(svc.Orders, logg))
	})

	return r
}

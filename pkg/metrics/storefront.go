package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// StorefrontMetrics counts cart, shipping and order activity. A nil receiver
// or one built without a registerer is a no-op.
type StorefrontMetrics struct {
	cartRejections    *prometheus.CounterVec
	shippingQuotes    *prometheus.CounterVec
	ordersPlaced      *prometheus.CounterVec
	orderValue        prometheus.Histogram
	statusTransitions *prometheus.CounterVec
}

// NewStorefrontMetrics registers the storefront collectors on reg.
func NewStorefrontMetrics(reg prometheus.Registerer) *StorefrontMetrics {
	if reg == nil {
		return &StorefrontMetrics{}
	}
	cartRejections := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_rejections_total",
		Help: "Cart mutations rejected by quantity or stock rules.",
	}, []string{"reason"})
	shippingQuotes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "shipping_quotes_total",
		Help: "Shipping charges computed, by zone.",
	}, []string{"zone", "free"})
	ordersPlaced := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_placed_total",
		Help: "Orders created at checkout.",
	}, []string{"delivery_method", "payment_method", "advance"})
	orderValue := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "order_total_rupees",
		Help:    "Order totals in rupees.",
		Buckets: []float64{100, 250, 500, 750, 1000, 1500, 2000, 5000},
	})
	statusTransitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_status_transitions_total",
		Help: "Admin status changes applied to orders.",
	}, []string{"axis", "to"})
	reg.MustRegister(cartRejections, shippingQuotes, ordersPlaced, orderValue, statusTransitions)
	return &StorefrontMetrics{
		cartRejections:    cartRejections,
		shippingQuotes:    shippingQuotes,
		ordersPlaced:      ordersPlaced,
		orderValue:        orderValue,
		statusTransitions: statusTransitions,
	}
}

func (m *StorefrontMetrics) IncCartRejection(reason string) {
	if m == nil || m.cartRejections == nil {
		return
	}
	m.cartRejections.WithLabelValues(normalizeLabel(reason)).Inc()
}

func (m *StorefrontMetrics) IncShippingQuote(zone string, free bool) {
	if m == nil || m.shippingQuotes == nil {
		return
	}
	m.shippingQuotes.WithLabelValues(normalizeLabel(zone), boolLabel(free)).Inc()
}

// ObserveOrderPlaced counts the order and records its total.
func (m *StorefrontMetrics) ObserveOrderPlaced(deliveryMethod, paymentMethod string, advance bool, total float64) {
	if m == nil || m.ordersPlaced == nil {
		return
	}
	m.ordersPlaced.WithLabelValues(normalizeLabel(deliveryMethod), normalizeLabel(paymentMethod), boolLabel(advance)).Inc()
	m.orderValue.Observe(total)
}

func (m *StorefrontMetrics) IncStatusTransition(axis, to string) {
	if m == nil || m.statusTransitions == nil {
		return
	}
	m.statusTransitions.WithLabelValues(normalizeLabel(axis), normalizeLabel(to)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}

func boolLabel(v bool) string {
	if v {
		return "true"
	}
	return "false"
}

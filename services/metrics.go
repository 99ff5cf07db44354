package services

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	CheckoutOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bakery",
			Subsystem: "checkout",
			Name:      "outcomes_total",
			Help:      "Checkout attempts by outcome",
		},
		[]string{"outcome"},
	)

	WebhookOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bakery",
			Subsystem: "webhook",
			Name:      "events_total",
			Help:      "Square webhook deliveries by outcome",
		},
		[]string{"outcome"},
	)

	SweptOrders = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "bakery",
			Subsystem: "sweeper",
			Name:      "cancelled_orders_total",
			Help:      "Abandoned orders cancelled by the sweeper",
		},
	)

	LatePayments = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bakery",
			Subsystem: "orders",
			Name:      "late_payments_total",
			Help:      "Payments recorded for orders that had already released their slot",
		},
		[]string{"slot"},
	)

	registerOnce sync.Once
)

// RegisterMetrics registers the domain collectors on reg exactly once.
func RegisterMetrics(reg prometheus.Registerer) {
	registerOnce.Do(func() {
		reg.MustRegister(CheckoutOutcomes, WebhookOutcomes, SweptOrders, LatePayments)
	})
}

package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry owns the process-wide collectors for the storefront terminal API.
type Registry struct {
	registry *prometheus.Registry

	HTTPRequests       *prometheus.CounterVec
	HTTPDuration       *prometheus.HistogramVec
	CheckoutsTotal     prometheus.Counter
	CheckoutFailures   *prometheus.CounterVec
	OversellRejections prometheus.Counter
	RefundsTotal       prometheus.Counter
	RefundAmount       prometheus.Counter
	LowStockProducts   prometheus.Gauge
}

// New builds a registry with all collectors registered.
func New() *Registry {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Registry{
		registry: reg,
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kiranapos",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route, method and status class.",
		}, []string{"route", "method", "status"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "kiranapos",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		CheckoutsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "kiranapos",
			Subsystem: "sales",
			Name:      "checkouts_total",
			Help:      "Completed checkouts.",
		}),
		CheckoutFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kiranapos",
			Subsystem: "sales",
			Name:      "checkout_failures_total",
			Help:      "Checkout attempts rejected or rolled back, by reason.",
		}, []string{"reason"}),
		OversellRejections: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "kiranapos",
			Subsystem: "inventory",
			Name:      "oversell_rejections_total",
			Help:      "Checkouts rejected because stock was insufficient at commit time.",
		}),
		RefundsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "kiranapos",
			Subsystem: "returns",
			Name:      "refunds_total",
			Help:      "Accepted return entries.",
		}),
		RefundAmount: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "kiranapos",
			Subsystem: "returns",
			Name:      "refund_amount_total",
			Help:      "Cumulative refunded amount in store currency units.",
		}),
		LowStockProducts: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "kiranapos",
			Subsystem: "inventory",
			Name:      "low_stock_products",
			Help:      "Products at or below their reorder level as of the last scan.",
		}),
	}
}

// Handler exposes the registry in Prometheus text format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

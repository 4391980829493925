package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "employees"

// Collection groups the service's Prometheus collectors on a private registry.
type Collection struct {
	Registry         *prometheus.Registry
	StoreOperations  *prometheus.CounterVec
	StoreLatency     *prometheus.HistogramVec
	HTTPRequests     *prometheus.CounterVec
	FeedDropped      prometheus.Counter
	RecordsGauge     prometheus.GaugeFunc
	SubscribersGauge prometheus.GaugeFunc
}

// New builds a Collection with Go runtime and process collectors registered.
func New() *Collection {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	c := &Collection{
		Registry: reg,
		StoreOperations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "store_operations_total",
				Help:      "Record store operations by operation and outcome.",
			},
			[]string{"op", "outcome"},
		),
		StoreLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "store_operation_seconds",
				Help:      "Latency of record store operations.",
				Buckets:   []float64{.00001, .00005, .0001, .0005, .001, .005, .01},
			},
			[]string{"op"},
		),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by method, route pattern and status code.",
			},
			[]string{"method", "route", "status"},
		),
		FeedDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_dropped_total",
			Help:      "Change events dropped for slow feed subscribers.",
		}),
	}
	reg.MustRegister(c.StoreOperations, c.StoreLatency, c.HTTPRequests, c.FeedDropped)
	return c
}

// WithRecordsGauge exposes the current record count.
func (c *Collection) WithRecordsGauge(f func() float64) {
	c.RecordsGauge = prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "records",
			Help:      "Number of employee records currently held in memory.",
		},
		f,
	)
	c.Registry.MustRegister(c.RecordsGauge)
}

// WithSubscribersGauge exposes the number of live feed subscribers.
func (c *Collection) WithSubscribersGauge(f func() float64) {
	c.SubscribersGauge = prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "feed_subscribers",
			Help:      "Number of connected change feed subscribers.",
		},
		f,
	)
	c.Registry.MustRegister(c.SubscribersGauge)
}

// ObserveStore records one store operation.
func (c *Collection) ObserveStore(op, outcome string, elapsed time.Duration) {
	c.StoreOperations.WithLabelValues(op, outcome).Inc()
	c.StoreLatency.WithLabelValues(op).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collection) Handler() http.Handler {
	return promhttp.HandlerFor(c.Registry, promhttp.HandlerOpts{Registry: c.Registry})
}

// Middleware counts requests by chi route pattern so that ids in paths do
// not explode label cardinality.
func (c *Collection) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		c.HTTPRequests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
	})
}

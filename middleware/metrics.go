package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus collectors of the API.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Business metrics
	EntitiesCreated *prometheus.CounterVec
	EntitiesDeleted *prometheus.CounterVec
	RejectedWrites  *prometheus.CounterVec
}

// NewMetrics registers every collector on a fresh registry, so tests can
// build as many instances as they need.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		EntitiesCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leadapi_entities_created_total",
				Help: "Agents, leads and comments created",
			},
			[]string{"entity"},
		),
		EntitiesDeleted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leadapi_entities_deleted_total",
				Help: "Agents and leads deleted",
			},
			[]string{"entity"},
		),
		RejectedWrites: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "leadapi_rejected_writes_total",
				Help: "Writes rejected before reaching the store, by entity and reason",
			},
			[]string{"entity", "reason"},
		),
	}
}

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Middleware records request count and latency, labelled by route pattern
// rather than raw path to keep cardinality bounded.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			status := c.Response().Status
			if err != nil {
				var he *echo.HTTPError
				if errors.As(err, &he) {
					status = he.Code
				} else {
					status = http.StatusInternalServerError
				}
			}

			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			method := c.Request().Method

			m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
			m.HTTPRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

func (m *Metrics) Created(entity string) {
	if m != nil {
		m.EntitiesCreated.WithLabelValues(entity).Inc()
	}
}

func (m *Metrics) Deleted(entity string) {
	if m != nil {
		m.EntitiesDeleted.WithLabelValues(entity).Inc()
	}
}

func (m *Metrics) Rejected(entity, reason string) {
	if m != nil {
		m.RejectedWrites.WithLabelValues(entity, reason).Inc()
	}
}

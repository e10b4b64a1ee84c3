// Package metrics exposes Prometheus instrumentation for the HTTP surface
// and the workflow engine.
package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry bundles the collectors the server registers at startup.
type Registry struct {
	reg *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	transitionsTotal *prometheus.CounterVec
	guardRejections  *prometheus.CounterVec
}

// NewRegistry builds a registry with the service's collectors plus the
// standard Go and process collectors.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	r := &Registry{
		reg: reg,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "genelab_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "code"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "genelab_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		transitionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "genelab_booking_transitions_total",
			Help: "Booking workflow transitions by target state and outcome.",
		}, []string{"target", "outcome"}),
		guardRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "genelab_guard_rejections_total",
			Help: "Rejected booking transitions by guard reason.",
		}, []string{"reason"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.requestsTotal,
		r.requestDuration,
		r.transitionsTotal,
		r.guardRejections,
	)
	return r
}

// ObserveTransition records a workflow transition attempt. Safe on a nil
// registry so services can run unmetered in tests.
func (r *Registry) ObserveTransition(target string, outcome string) {
	if r == nil {
		return
	}
	r.transitionsTotal.WithLabelValues(target, outcome).Inc()
}

// ObserveGuardRejection records a rejected transition by reason.
func (r *Registry) ObserveGuardRejection(reason string) {
	if r == nil {
		return
	}
	r.guardRejections.WithLabelValues(reason).Inc()
}

// Middleware instruments every request. The echo route pattern is used as the
// label, not the raw path, to keep cardinality bounded.
func (r *Registry) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			method := c.Request().Method
			code := c.Response().Status
			if err != nil {
				if httpErr, ok := err.(*echo.HTTPError); ok {
					code = httpErr.Code
				}
			}

			r.requestsTotal.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
			r.requestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			return err
		}
	}
}

// Handler serves the /metrics endpoint.
func (r *Registry) Handler() echo.HandlerFunc {
	h := promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
	return echo.WrapHandler(h)
}

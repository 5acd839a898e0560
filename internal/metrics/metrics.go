package metrics

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// This file defines the Prometheus metrics exposed on /metrics.

// HTTPRequestsTotal counts inbound HTTP requests by route path, method and status code.
var HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "weatherpanel_http_requests_total",
	Help: "Total number of HTTP requests by path, method and code.",
}, []string{"path", "method", "code"})

// ProviderRequestsTotal counts outbound provider calls by endpoint and outcome.
var ProviderRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "weatherpanel_provider_requests_total",
	Help: "Total number of weather provider calls by provider, endpoint and outcome.",
}, []string{"provider", "endpoint", "outcome"})

// ProviderRequestDuration tracks outbound provider call latency.
var ProviderRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "weatherpanel_provider_request_duration_seconds",
	Help:    "Latency of weather provider calls.",
	Buckets: prometheus.DefBuckets,
}, []string{"provider", "endpoint"})

// ActiveSessions is the number of panels held by the session store.
var ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "weatherpanel_active_sessions",
	Help: "Number of live panel sessions.",
})

// ObserveProviderCall records one outbound provider call.
func ObserveProviderCall(provider, endpoint, outcome string, d time.Duration) {
	ProviderRequestsTotal.WithLabelValues(provider, endpoint, outcome).Inc()
	ProviderRequestDuration.WithLabelValues(provider, endpoint).Observe(d.Seconds())
}

// Middleware records every request in HTTPRequestsTotal once the handler chain
// (including the error handler) has produced a status code.
func Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		code := c.Response().StatusCode()
		if err != nil {
			code = fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
		}

		path := c.Route().Path
		if path == "" {
			path = c.Path()
		}
		HTTPRequestsTotal.WithLabelValues(path, c.Method(), strconv.Itoa(code)).Inc()
		return err
	}
}

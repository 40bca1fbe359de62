// Package metrics records API client metrics in Prometheus.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/eshaffer321/booking-go/internal/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collector holds the client's request metrics
type Collector struct {
	requests  *prometheus.CounterVec
	responses *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	failures  *prometheus.CounterVec
}

// New registers the collectors with reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Collector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Collector{
		// requests tracks calls handed to the network
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "booking_client_requests_total",
				Help: "Total API requests sent by method",
			},
			[]string{"method"},
		),

		// responses tracks HTTP responses received
		responses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "booking_client_responses_total",
				Help: "Total API responses by method and status code",
			},
			[]string{"method", "status"},
		),

		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "booking_client_request_duration_seconds",
				Help:    "API round trip duration by method",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method"},
		),

		// failures tracks normalized failures by error code
		failures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "booking_client_failures_total",
				Help: "Total failed API calls by normalized error code",
			},
			[]string{"code"},
		),
	}
}

// Hooks returns request lifecycle hooks feeding the collector
func (c *Collector) Hooks() *types.Hooks {
	return &types.Hooks{
		OnRequest: func(_ context.Context, req *http.Request) {
			c.requests.WithLabelValues(req.Method).Inc()
		},
		OnResponse: func(_ context.Context, resp *http.Response, d time.Duration) {
			method := http.MethodGet
			if resp.Request != nil {
				method = resp.Request.Method
			}
			c.responses.WithLabelValues(method, strconv.Itoa(resp.StatusCode)).Inc()
			c.duration.WithLabelValues(method).Observe(d.Seconds())
		},
		OnError: func(_ context.Context, err error) {
			code := types.CodeUnknown
			if apiErr, ok := types.AsError(err); ok && apiErr.Code != "" {
				code = apiErr.Code
			}
			c.failures.WithLabelValues(code).Inc()
		},
	}
}

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTPMetrics records inbound request metadata.
type HTTPMetrics struct {
	duration *prometheus.HistogramVec
	total    *prometheus.CounterVec
}

// NewHTTPMetrics registers the request metrics on the provided registerer.
func NewHTTPMetrics(reg prometheus.Registerer) *HTTPMetrics {
	if reg == nil {
		return &HTTPMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of handled HTTP requests in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "status"})
	total := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Handled HTTP requests.",
	}, []string{"method", "status"})
	reg.MustRegister(duration, total)
	return &HTTPMetrics{duration: duration, total: total}
}

// Observe records one handled request.
func (h *HTTPMetrics) Observe(method string, status int, duration time.Duration) {
	if h == nil || h.duration == nil {
		return
	}
	labels := []string{method, strconv.Itoa(status)}
	h.duration.WithLabelValues(labels...).Observe(duration.Seconds())
	h.total.WithLabelValues(labels...).Inc()
}

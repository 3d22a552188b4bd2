package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RequestMetrics records latency and outcome counters for the public
// resolution endpoints.
type RequestMetrics struct {
	duration  *prometheus.HistogramVec
	outcomes  *prometheus.CounterVec
	fallbacks *prometheus.CounterVec
}

// NewRequestMetrics registers the request metrics on the provided registerer.
func NewRequestMetrics(reg prometheus.Registerer) *RequestMetrics {
	if reg == nil {
		return &RequestMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "resolution_duration_seconds",
		Help:    "Duration of location and serviceability resolutions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "resolution_outcomes",
		Help: "Resolution outcomes by operation and result.",
	}, []string{"operation", "result"})
	fallbacks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "external_fallbacks",
		Help: "External provider fallback invocations by provider.",
	}, []string{"provider"})
	reg.MustRegister(duration, outcomes, fallbacks)
	return &RequestMetrics{
		duration:  duration,
		outcomes:  outcomes,
		fallbacks: fallbacks,
	}
}

// ObserveDuration records how long the named operation took.
func (m *RequestMetrics) ObserveDuration(operation string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(operation)).Observe(duration.Seconds())
}

// IncOutcome increments the outcome counter for the named operation.
func (m *RequestMetrics) IncOutcome(operation, result string) {
	if m == nil || m.outcomes == nil {
		return
	}
	m.outcomes.WithLabelValues(normalizeLabel(operation), normalizeLabel(result)).Inc()
}

// IncFallback increments the fallback counter for the named provider.
func (m *RequestMetrics) IncFallback(provider string) {
	if m == nil || m.fallbacks == nil {
		return
	}
	m.fallbacks.WithLabelValues(normalizeLabel(provider)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}

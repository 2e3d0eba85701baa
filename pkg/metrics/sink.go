package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SinkMetrics records delivery outcomes for event logger sinks.
type SinkMetrics struct {
	deliveries *prometheus.CounterVec
	failures   *prometheus.CounterVec
	drops      *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// NewSinkMetrics registers the sink metrics on the provided registerer.
func NewSinkMetrics(reg prometheus.Registerer) *SinkMetrics {
	if reg == nil {
		return &SinkMetrics{}
	}
	deliveries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "trace_sink_deliveries_total",
		Help: "Events delivered to a sink.",
	}, []string{"sink"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "trace_sink_failures_total",
		Help: "Deliveries that returned an error.",
	}, []string{"sink"})
	drops := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "trace_sink_drops_total",
		Help: "Events dropped because a sink queue was full.",
	}, []string{"sink"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "trace_sink_delivery_seconds",
		Help:    "Duration of individual sink deliveries in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"sink"})
	reg.MustRegister(deliveries, failures, drops, duration)
	return &SinkMetrics{
		deliveries: deliveries,
		failures:   failures,
		drops:      drops,
		duration:   duration,
	}
}

// IncDelivered increments the delivery counter for the named sink.
func (s *SinkMetrics) IncDelivered(sink string) {
	if s == nil || s.deliveries == nil {
		return
	}
	s.deliveries.WithLabelValues(normalizeLabel(sink)).Inc()
}

// IncFailed increments the failure counter for the named sink.
func (s *SinkMetrics) IncFailed(sink string) {
	if s == nil || s.failures == nil {
		return
	}
	s.failures.WithLabelValues(normalizeLabel(sink)).Inc()
}

// IncDropped increments the drop counter for the named sink.
func (s *SinkMetrics) IncDropped(sink string) {
	if s == nil || s.drops == nil {
		return
	}
	s.drops.WithLabelValues(normalizeLabel(sink)).Inc()
}

// ObserveDelivery records the duration of one delivery attempt.
func (s *SinkMetrics) ObserveDelivery(sink string, duration time.Duration) {
	if s == nil || s.duration == nil {
		return
	}
	s.duration.WithLabelValues(normalizeLabel(sink)).Observe(duration.Seconds())
}

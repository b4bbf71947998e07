package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ScanMetrics records shop-floor scan gateway activity.
type ScanMetrics struct {
	duration *prometheus.HistogramVec
	applied  *prometheus.CounterVec
	denied   *prometheus.CounterVec
}

// NewScanMetrics registers the scan metrics on the provided registerer.
func NewScanMetrics(reg prometheus.Registerer) *ScanMetrics {
	if reg == nil {
		return &ScanMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "scan_transition_duration_seconds",
		Help:    "Duration of scan-driven status transitions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"edge"})
	applied := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scan_transitions_applied",
		Help: "Successfully applied scan transitions.",
	}, []string{"edge"})
	denied := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "scan_transitions_denied",
		Help: "Scan transitions rejected by the lifecycle controller.",
	}, []string{"reason"})
	reg.MustRegister(duration, applied, denied)
	return &ScanMetrics{
		duration: duration,
		applied:  applied,
		denied:   denied,
	}
}

// ObserveDuration records how long the named transition edge took.
func (s *ScanMetrics) ObserveDuration(edge string, duration time.Duration) {
	if s == nil || s.duration == nil {
		return
	}
	s.duration.WithLabelValues(normalizeLabel(edge)).Observe(duration.Seconds())
}

// IncApplied increments the applied counter for the named edge.
func (s *ScanMetrics) IncApplied(edge string) {
	if s == nil || s.applied == nil {
		return
	}
	s.applied.WithLabelValues(normalizeLabel(edge)).Inc()
}

// IncDenied increments the denied counter for the named reason.
func (s *ScanMetrics) IncDenied(reason string) {
	if s == nil || s.denied == nil {
		return
	}
	s.denied.WithLabelValues(normalizeLabel(reason)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}

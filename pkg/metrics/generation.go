package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Generation kinds.
const (
	KindRoutine      = "routine"
	KindLabelScan    = "label_scan"
	KindBarcodeScan  = "barcode_scan"
	OutcomeSuccess   = "success"
	OutcomeFailure   = "failure"
	OutcomeMalformed = "malformed"
)

// GenerationMetrics records AI generation latency and outcomes.
type GenerationMetrics struct {
	duration *prometheus.HistogramVec
	outcomes *prometheus.CounterVec
}

// NewGenerationMetrics registers the generation metrics on reg. A nil reg
// yields a no-op recorder.
func NewGenerationMetrics(reg prometheus.Registerer) *GenerationMetrics {
	if reg == nil {
		return &GenerationMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "dermago",
		Name:      "generation_duration_seconds",
		Help:      "Latency of AI generation calls.",
		Buckets:   []float64{0.5, 1, 2, 4, 8, 15, 30, 60},
	}, []string{"kind"})
	outcomes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dermago",
		Name:      "generation_total",
		Help:      "AI generation calls by outcome.",
	}, []string{"kind", "outcome"})
	reg.MustRegister(duration, outcomes)
	return &GenerationMetrics{duration: duration, outcomes: outcomes}
}

// Observe records one generation call.
func (g *GenerationMetrics) Observe(kind, outcome string, took time.Duration) {
	if g == nil || g.duration == nil {
		return
	}
	kind = normalizeLabel(kind)
	g.duration.WithLabelValues(kind).Observe(took.Seconds())
	g.outcomes.WithLabelValues(kind, normalizeLabel(outcome)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}

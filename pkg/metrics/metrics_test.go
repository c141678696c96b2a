package metrics

import (
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestGenerationMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewGenerationMetrics(reg)
	m.Observe(KindRoutine, OutcomeSuccess, 1500*time.Millisecond)
	m.Observe(KindRoutine, OutcomeMalformed, time.Second)
	m.Observe("", "", time.Millisecond)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "dermago_generation_total", map[string]string{"kind": KindRoutine, "outcome": OutcomeSuccess}); err != nil {
		t.Fatalf("fetch success: %v", err)
	} else if got != 1 {
		t.Fatalf("expected success=1, got %f", got)
	}
	if got, err := fetchCounterValue(mfs, "dermago_generation_total", map[string]string{"kind": "unknown", "outcome": "unknown"}); err != nil || got != 1 {
		t.Fatalf("expected blank labels normalized, got %f err=%v", got, err)
	}
	if got, err := fetchHistogramSum(mfs, "dermago_generation_duration_seconds", map[string]string{"kind": KindRoutine}); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got != 2.5 {
		t.Fatalf("expected duration sum 2.5, got %f", got)
	}
}

func TestPlacesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPlacesMetrics(reg)
	m.IncLookup("recycling", SourceCache)
	m.IncLookup("recycling", SourceCache)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	got, err := fetchCounterValue(mfs, "dermago_places_lookups_total", map[string]string{"category": "recycling", "source": SourceCache})
	if err != nil || got != 2 {
		t.Fatalf("expected 2 cache lookups, got %f err=%v", got, err)
	}
}

func TestNilRegistererIsNoop(t *testing.T) {
	NewGenerationMetrics(nil).Observe(KindLabelScan, OutcomeFailure, time.Second)
	NewPlacesMetrics(nil).IncLookup("dumping", SourceProvider)
	var g *GenerationMetrics
	g.Observe(KindBarcodeScan, OutcomeSuccess, time.Second)
}

func fetchCounterValue(mfs []*dto.MetricFamily, name string, labels map[string]string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabels(metric.GetLabel(), labels) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing labels %v", name, labels)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name string, labels map[string]string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabels(metric.GetLabel(), labels) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing labels %v", name, labels)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabels(pairs []*dto.LabelPair, want map[string]string) bool {
	matched := 0
	for _, pair := range pairs {
		if v, ok := want[pair.GetName()]; ok && v == pair.GetValue() {
			matched++
		}
	}
	return matched == len(want)
}

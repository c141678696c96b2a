package metrics

import "github.com/prometheus/client_golang/prometheus"

// Places lookup sources.
const (
	SourceCache    = "cache"
	SourceProvider = "provider"
)

// PlacesMetrics counts nearby lookups by category and where the answer came from.
type PlacesMetrics struct {
	lookups *prometheus.CounterVec
}

func NewPlacesMetrics(reg prometheus.Registerer) *PlacesMetrics {
	if reg == nil {
		return &PlacesMetrics{}
	}
	lookups := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "dermago",
		Name:      "places_lookups_total",
		Help:      "Nearby places lookups by category and source.",
	}, []string{"category", "source"})
	reg.MustRegister(lookups)
	return &PlacesMetrics{lookups: lookups}
}

func (p *PlacesMetrics) IncLookup(category, source string) {
	if p == nil || p.lookups == nil {
		return
	}
	p.lookups.WithLabelValues(normalizeLabel(category), normalizeLabel(source)).Inc()
}

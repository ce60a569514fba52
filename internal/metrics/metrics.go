// Package metrics tracks recommendation activity for the running process.
package metrics

import (
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// Outcome labels
const (
	OutcomeOK       = "ok"
	OutcomeEmpty    = "empty"
	OutcomeInvalid  = "invalid"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// Metrics holds the collectors on a private registry
type Metrics struct {
	registry *prometheus.Registry

	requests     *prometheus.CounterVec
	results      prometheus.Histogram
	topScore     prometheus.Histogram
	lookups      *prometheus.CounterVec
	cacheLookups *prometheus.CounterVec
	catalogSize  prometheus.Gauge
	reloads      prometheus.Counter
}

// New creates and registers the collectors
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tripfinder_recommend_requests_total",
				Help: "Recommendation requests by outcome",
			},
			[]string{"outcome"},
		),
		results: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tripfinder_recommend_results",
			Help:    "Number of recommendations returned per request",
			Buckets: []float64{0, 1, 2, 3, 5, 10, 20, 50},
		}),
		topScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "tripfinder_recommend_top_score",
			Help:    "Score of the best recommendation per non-empty request",
			Buckets: prometheus.LinearBuckets(10, 10, 10),
		}),
		lookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tripfinder_combination_lookups_total",
				Help: "Lookups of a single combination by outcome",
			},
			[]string{"outcome"},
		),
		cacheLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tripfinder_cache_lookups_total",
				Help: "Response cache lookups by result",
			},
			[]string{"result"},
		),
		catalogSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "tripfinder_catalog_combinations",
			Help: "Combinations in the loaded catalog",
		}),
		reloads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tripfinder_catalog_reloads_total",
			Help: "Catalog snapshot swaps",
		}),
	}

	m.registry.MustRegister(
		m.requests,
		m.results,
		m.topScore,
		m.lookups,
		m.cacheLookups,
		m.catalogSize,
		m.reloads,
	)
	return m
}

// Registry exposes the registry for gathering
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveRecommend records one recommendation request. topScore is ignored
// when results is zero.
func (m *Metrics) ObserveRecommend(outcome string, results int, topScore float64) {
	m.requests.WithLabelValues(outcome).Inc()
	if outcome != OutcomeOK && outcome != OutcomeEmpty {
		return
	}
	m.results.Observe(float64(results))
	if results > 0 {
		m.topScore.Observe(topScore)
	}
}

// ObserveLookup records a single-combination lookup
func (m *Metrics) ObserveLookup(outcome string) {
	m.lookups.WithLabelValues(outcome).Inc()
}

// ObserveCache records a cache hit or miss
func (m *Metrics) ObserveCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

// SetCatalogSize records the loaded catalog size and counts the swap
func (m *Metrics) SetCatalogSize(n int) {
	m.catalogSize.Set(float64(n))
	m.reloads.Inc()
}

// Sample is one flattened metric value
type Sample struct {
	Name   string            `json:"name"`
	Labels map[string]string `json:"labels,omitempty"`
	Value  float64           `json:"value"`
}

// Snapshot gathers every metric into flat samples sorted by name. Histograms
// are reported as _count and _sum.
func (m *Metrics) Snapshot() ([]Sample, error) {
	families, err := m.registry.Gather()
	if err != nil {
		return nil, err
	}

	var out []Sample
	for _, fam := range families {
		for _, metric := range fam.GetMetric() {
			labels := labelMap(metric.GetLabel())
			switch fam.GetType() {
			case dto.MetricType_COUNTER:
				out = append(out, Sample{Name: fam.GetName(), Labels: labels, Value: metric.GetCounter().GetValue()})
			case dto.MetricType_GAUGE:
				out = append(out, Sample{Name: fam.GetName(), Labels: labels, Value: metric.GetGauge().GetValue()})
			case dto.MetricType_HISTOGRAM:
				h := metric.GetHistogram()
				out = append(out,
					Sample{Name: fam.GetName() + "_count", Labels: labels, Value: float64(h.GetSampleCount())},
					Sample{Name: fam.GetName() + "_sum", Labels: labels, Value: h.GetSampleSum()},
				)
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func labelMap(pairs []*dto.LabelPair) map[string]string {
	if len(pairs) == 0 {
		return nil
	}
	out := make(map[string]string, len(pairs))
	for _, p := range pairs {
		out[p.GetName()] = p.GetValue()
	}
	return out
}

// Package metrics records fingerprint and cache counters with Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
	"go.trai.ch/depcache/internal/core/domain"
	"go.trai.ch/depcache/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Metrics = (*Recorder)(nil)

const namespace = "depcache"

// Recorder implements ports.Metrics on a registry it owns.
type Recorder struct {
	registry *prometheus.Registry

	calls         prometheus.Counter
	hits          prometheus.Counter
	inserts       prometheus.Counter
	duration      prometheus.Histogram
	transforms    *prometheus.CounterVec
	invalidations *prometheus.CounterVec
}

// New creates a Recorder with a fresh registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		calls: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fingerprint_calls_total",
			Help:      "Modules visited by fingerprint computations.",
		}),
		hits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fingerprint_cache_hits_total",
			Help:      "Visits served from a memoized dependency set.",
		}),
		inserts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fingerprint_cache_inserts_total",
			Help:      "Dependency sets memoized.",
		}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fingerprint_seconds",
			Help:      "Time spent computing one fingerprint.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		transforms: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transforms_total",
			Help:      "Transforms by outcome.",
		}, []string{"outcome"}),
		invalidations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invalidations_total",
			Help:      "Invalidations by reason.",
		}, []string{"reason"}),
	}
}

// ObserveFingerprint records the work done by one fingerprint computation.
func (r *Recorder) ObserveFingerprint(stats domain.CallStats) {
	r.calls.Add(float64(stats.Calls))
	r.hits.Add(float64(stats.CacheHits))
	r.inserts.Add(float64(stats.CacheInserts))
	r.duration.Observe(stats.Duration.Seconds())
}

// ObserveTransform records how a transform was served.
func (r *Recorder) ObserveTransform(outcome domain.Outcome) {
	r.transforms.WithLabelValues(string(outcome)).Inc()
}

// ObserveInvalidation records an invalidation, labelled by its reason.
func (r *Recorder) ObserveInvalidation(reason string) {
	r.invalidations.WithLabelValues(reason).Inc()
}

// WriteTextfile writes all metrics to path in the Prometheus text format.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrMetricsWriteFailed.Error()), "path", path)
	}
	return nil
}

// Registry returns the registry holding the recorder's collectors.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Snapshot gathers every sample and keys it by metric name plus its label values,
// e.g. "depcache_transforms_total{cached}". Histograms report their sample count.
func (r *Recorder) Snapshot() (map[string]float64, error) {
	families, err := r.registry.Gather()
	if err != nil {
		return nil, err
	}

	out := make(map[string]float64)
	for _, family := range families {
		for _, m := range family.GetMetric() {
			out[sampleKey(family.GetName(), m)] = sampleValue(family.GetType(), m)
		}
	}
	return out, nil
}

func sampleKey(name string, m *dto.Metric) string {
	labels := m.GetLabel()
	if len(labels) == 0 {
		return name
	}
	key := name + "{"
	for i, l := range labels {
		if i > 0 {
			key += ","
		}
		key += l.GetValue()
	}
	return key + "}"
}

func sampleValue(kind dto.MetricType, m *dto.Metric) float64 {
	switch kind {
	case dto.MetricType_COUNTER:
		return m.GetCounter().GetValue()
	case dto.MetricType_GAUGE:
		return m.GetGauge().GetValue()
	case dto.MetricType_HISTOGRAM:
		return float64(m.GetHistogram().GetSampleCount())
	default:
		return 0
	}
}

package workoutcache

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dkoehler14/TrainingPWA2.0-sub004/metric"
)

// cacheMetrics holds Prometheus metrics for cache operations.
type cacheMetrics struct {
	hits               prometheus.Counter
	misses             prometheus.Counter
	sets               prometheus.Counter
	validationFailures *prometheus.CounterVec
	cleanups           prometheus.Counter
	invalidations      prometheus.Counter
	saveConfirmations  *prometheus.CounterVec
	size               prometheus.Gauge
}

// newCacheMetrics creates and registers cache metrics with the provided registry.
func newCacheMetrics(registry *metric.MetricsRegistry, prefix string) (*cacheMetrics, error) {
	m := &cacheMetrics{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "trainingpwa",
			Subsystem:   "workout_cache",
			Name:        "hits_total",
			ConstLabels: prometheus.Labels{"component": prefix},
			Help:        "Total number of cache hits",
		}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "trainingpwa",
			Subsystem:   "workout_cache",
			Name:        "misses_total",
			ConstLabels: prometheus.Labels{"component": prefix},
			Help:        "Total number of cache misses",
		}),
		sets: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "trainingpwa",
			Subsystem:   "workout_cache",
			Name:        "sets_total",
			ConstLabels: prometheus.Labels{"component": prefix},
			Help:        "Total number of cache set operations",
		}),
		validationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "trainingpwa",
			Subsystem:   "workout_cache",
			Name:        "validation_failures_total",
			ConstLabels: prometheus.Labels{"component": prefix},
			Help:        "Total number of validation failures by stage",
		}, []string{"stage"}),
		cleanups: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "trainingpwa",
			Subsystem:   "workout_cache",
			Name:        "cleanups_total",
			ConstLabels: prometheus.Labels{"component": prefix},
			Help:        "Total number of cleanup operations",
		}),
		invalidations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   "trainingpwa",
			Subsystem:   "workout_cache",
			Name:        "invalidations_total",
			ConstLabels: prometheus.Labels{"component": prefix},
			Help:        "Total number of invalidation operations",
		}),
		saveConfirmations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "trainingpwa",
			Subsystem:   "workout_cache",
			Name:        "save_confirmations_total",
			ConstLabels: prometheus.Labels{"component": prefix},
			Help:        "Total number of confirmed saves by strategy",
		}, []string{"strategy"}),
		size: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   "trainingpwa",
			Subsystem:   "workout_cache",
			Name:        "entries",
			ConstLabels: prometheus.Labels{"component": prefix},
			Help:        "Number of entries in the store at last observation",
		}),
	}

	if err := registry.RegisterCounter(prefix, "cache_hits", m.hits); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounter(prefix, "cache_misses", m.misses); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounter(prefix, "cache_sets", m.sets); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounterVec(prefix, "cache_validation_failures", m.validationFailures); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounter(prefix, "cache_cleanups", m.cleanups); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounter(prefix, "cache_invalidations", m.invalidations); err != nil {
		return nil, err
	}
	if err := registry.RegisterCounterVec(prefix, "cache_save_confirmations", m.saveConfirmations); err != nil {
		return nil, err
	}
	if err := registry.RegisterGauge(prefix, "cache_entries", m.size); err != nil {
		return nil, err
	}

	return m, nil
}

func (m *cacheMetrics) recordHit() {
	m.hits.Inc()
}

func (m *cacheMetrics) recordMiss() {
	m.misses.Inc()
}

func (m *cacheMetrics) recordSet() {
	m.sets.Inc()
}

func (m *cacheMetrics) recordValidationFailure(stage string) {
	m.validationFailures.WithLabelValues(stage).Inc()
}

func (m *cacheMetrics) recordCleanup() {
	m.cleanups.Inc()
}

func (m *cacheMetrics) recordInvalidation() {
	m.invalidations.Inc()
}

func (m *cacheMetrics) recordSaveConfirmation(strategy SaveStrategy) {
	m.saveConfirmations.WithLabelValues(string(strategy)).Inc()
}

func (m *cacheMetrics) observeSize(n int) {
	m.size.Set(float64(n))
}

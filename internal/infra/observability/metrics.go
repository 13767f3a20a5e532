package observability

import (
	"time"

	"github.com/gestorgrafica/grafica-reports-go/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds all Prometheus metrics for the reporting engine.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	buildDuration *prometheus.HistogramVec
	storeErrors   *prometheus.CounterVec
	cacheHits     *prometheus.CounterVec
	cacheMisses   *prometheus.CounterVec
	rowsLoaded    *prometheus.CounterVec
	bundlesTotal  *prometheus.CounterVec
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		buildDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "reports_build_duration_seconds",
				Help:    "Duration of report builds by report kind.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"report"},
		),
		storeErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reports_store_errors_total",
				Help: "Total record store fetch failures by collection.",
			},
			[]string{"collection"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reports_cache_hits_total",
				Help: "Total cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reports_cache_misses_total",
				Help: "Total cache misses.",
			},
			[]string{"cache"},
		),
		rowsLoaded: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reports_rows_loaded_total",
				Help: "Total raw rows loaded from the record store by collection.",
			},
			[]string{"collection"},
		),
		bundlesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reports_bundles_total",
				Help: "Total report bundles computed.",
			},
			[]string{"status"},
		),
	}
}

// RecordBuildDuration records how long one report (or the whole bundle) took.
func (m *Metrics) RecordBuildDuration(report string, d time.Duration) {
	m.buildDuration.WithLabelValues(report).Observe(d.Seconds())
}

// IncrStoreError increments the fetch failure counter for a collection.
func (m *Metrics) IncrStoreError(collection string) {
	m.storeErrors.WithLabelValues(collection).Inc()
}

// IncrCacheHit increments the cache hit counter.
func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the cache miss counter.
func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// AddRowsLoaded records how many raw rows a collection fetch returned.
func (m *Metrics) AddRowsLoaded(collection string, n int) {
	m.rowsLoaded.WithLabelValues(collection).Add(float64(n))
}

// IncrBundle increments the bundle counter with a status label.
func (m *Metrics) IncrBundle(status string) {
	m.bundlesTotal.WithLabelValues(status).Inc()
}

// GetEngineSnapshot returns a snapshot of engine counters suitable for the
// GET /v1/metrics/engine endpoint.
func (m *Metrics) GetEngineSnapshot() *domain.EngineMetrics {
	// Prometheus counters expose cumulative values.
	built := getCounterValue(m.bundlesTotal, "success")
	failed := getCounterValue(m.bundlesTotal, "error")
	cacheHits := getCounterValue(m.cacheHits, "bundle")
	cacheMisses := getCounterValue(m.cacheMisses, "bundle")

	var storeErrors, rows float64
	for _, collection := range []string{
		"orders", "order_items", "order_payments",
		"sales", "sale_items", "financial_entries",
		"expense_categories", "customers", "products", "product_supplies",
	} {
		storeErrors += getCounterValue(m.storeErrors, collection)
		rows += getCounterValue(m.rowsLoaded, collection)
	}

	errorRate := float64(0)
	if built+failed > 0 {
		errorRate = failed / (built + failed)
	}
	cacheHitRate := float64(0)
	if cacheHits+cacheMisses > 0 {
		cacheHitRate = cacheHits / (cacheHits + cacheMisses)
	}

	return &domain.EngineMetrics{
		BundlesBuilt: int64(built),
		BuildErrors:  int64(failed),
		ErrorRate:    errorRate,
		CacheHitRate: cacheHitRate,
		StoreErrors:  int64(storeErrors),
		RowsLoaded:   int64(rows),
	}
}

// getCounterValue extracts the current float64 value from a CounterVec for a given label.
func getCounterValue(cv *prometheus.CounterVec, label string) float64 {
	counter := cv.WithLabelValues(label)
	m := &dto.Metric{}
	if err := counter.(prometheus.Metric).Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}

package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "risk_map"

// Metrics holds the Prometheus counters, histograms, and gauges for the risk map service.
type Metrics struct {
	LayersBuilt   *prometheus.CounterVec   // labels: granularity, hazard
	BuildErrors   *prometheus.CounterVec   // labels: reason={invalid_input,data_unavailable}
	BuildDuration *prometheus.HistogramVec // labels: granularity

	// Region source metrics.
	RegionCache         *prometheus.CounterVec   // labels: granularity, result={hit,miss}
	RegionFetchDuration *prometheus.HistogramVec // labels: granularity
	RegionFetchRetries  *prometheus.CounterVec   // labels: granularity
	RegionsLoaded       *prometheus.GaugeVec     // labels: granularity

	// Layer summary publishing.
	LayersPublished prometheus.Counter
	PublishErrors   prometheus.Counter
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := NewUnregisteredMetrics()
	prometheus.MustRegister(
		m.LayersBuilt,
		m.BuildErrors,
		m.BuildDuration,
		m.RegionCache,
		m.RegionFetchDuration,
		m.RegionFetchRetries,
		m.RegionsLoaded,
		m.LayersPublished,
		m.PublishErrors,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return NewUnregisteredMetrics()
}

// NewUnregisteredMetrics creates Metrics that are never exposed. One-shot
// tools use it to run the service code without a /metrics endpoint.
func NewUnregisteredMetrics() *Metrics {
	return &Metrics{
		LayersBuilt: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "layers_built_total",
			Help:      "Map layers built by granularity and hazard.",
		}, []string{"granularity", "hazard"}),
		BuildErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "build_errors_total",
			Help:      "Failed layer builds by reason.",
		}, []string{"reason"}),
		BuildDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Duration of a layer build, including any region fetch.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
		}, []string{"granularity"}),
		RegionCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "region_cache_total",
			Help:      "Region cache lookups by granularity and result.",
		}, []string{"granularity", "result"}),
		RegionFetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "region_fetch_duration_seconds",
			Help:      "Shapefile download and decode duration in seconds.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"granularity"}),
		RegionFetchRetries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "region_fetch_retries_total",
			Help:      "Shapefile fetches retried after a failure.",
		}, []string{"granularity"}),
		RegionsLoaded: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "regions_loaded",
			Help:      "Number of regions held in the cache per granularity.",
		}, []string{"granularity"}),
		LayersPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "layers_published_total",
			Help:      "Layer summaries written to the sink topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "publish_errors_total",
			Help:      "Layer summaries that failed to publish.",
		}),
	}
}

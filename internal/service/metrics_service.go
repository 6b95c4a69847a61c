package service

import (
	"net/http"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/class-insights-api/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation for the HTTP layer, the sheet cache,
// the import pipeline and the analytics views.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheLatency    prometheus.Observer
	cacheWrite      prometheus.Observer
	cacheHitRatio   prometheus.Gauge
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	importDuration  *prometheus.HistogramVec
	importTotal     *prometheus.CounterVec
	fetchDuration   *prometheus.HistogramVec
	datasetRecords  *prometheus.GaugeVec
	datasetGen      prometheus.Gauge
	aggregation     *prometheus.HistogramVec

	cacheHitCount  uint64
	cacheMissCount uint64
}

// Import outcomes.
const (
	ImportSuccess    = "success"
	ImportFailure    = "failure"
	ImportSuperseded = "superseded"
)

// NewMetricsService registers the collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_latency_seconds",
		Help:    "Latency for cache lookups",
		Buckets: prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_write_seconds",
		Help:    "Latency for cache writes",
		Buckets: prometheus.DefBuckets,
	})

	cacheHitRatio := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cache_hit_ratio",
		Help: "Ratio of cache hits to total cache lookups",
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	importDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "import_duration_seconds",
		Help:    "Duration of dataset imports by outcome",
		Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40},
	}, []string{"outcome"})

	importTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "imports_total",
		Help: "Dataset imports by year and outcome",
	}, []string{"year", "outcome"})

	fetchDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sheet_fetch_duration_seconds",
		Help:    "Duration of upstream sheet fetches",
		Buckets: prometheus.DefBuckets,
	}, []string{"sheet", "cache"})

	datasetRecords := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "dataset_records",
		Help: "Records in the active dataset by platform",
	}, []string{"source"})

	datasetGen := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "dataset_generation",
		Help: "Generation number of the active dataset",
	})

	aggregation := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "aggregation_duration_seconds",
		Help:    "Time spent computing a dashboard view",
		Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	}, []string{"view"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheLatency, cacheWrite, cacheHitRatio, cacheHits, cacheMisses,
		importDuration, importTotal, fetchDuration, datasetRecords, datasetGen, aggregation, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		cacheLatency:    cacheLatency,
		cacheWrite:      cacheWrite,
		cacheHitRatio:   cacheHitRatio,
		cacheHits:       cacheHits,
		cacheMisses:     cacheMisses,
		importDuration:  importDuration,
		importTotal:     importTotal,
		fetchDuration:   fetchDuration,
		datasetRecords:  datasetRecords,
		datasetGen:      datasetGen,
		aggregation:     aggregation,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Registry exposes the underlying registry for tests and extra collectors.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// RecordCacheOperation records cache hit/miss metrics and updates hit ratio.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	if hit {
		m.cacheHits.Inc()
		atomic.AddUint64(&m.cacheHitCount, 1)
	} else {
		m.cacheMisses.Inc()
		atomic.AddUint64(&m.cacheMissCount, 1)
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	if total := hits + misses; total > 0 {
		m.cacheHitRatio.Set(float64(hits) / float64(total))
	}
}

// ObserveCacheWrite tracks the duration for cache write operations.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// ObserveImport records one finished import attempt.
func (m *MetricsService) ObserveImport(year int, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.importDuration.WithLabelValues(outcome).Observe(duration.Seconds())
	m.importTotal.WithLabelValues(strconv.Itoa(year), outcome).Inc()
}

// ObserveFetch records one sheet fetch. cached reports whether the grid came from the cache.
func (m *MetricsService) ObserveFetch(sheet string, cached bool, duration time.Duration) {
	if m == nil {
		return
	}
	label := "miss"
	if cached {
		label = "hit"
	}
	m.fetchDuration.WithLabelValues(sheet, label).Observe(duration.Seconds())
}

// SetDataset publishes the size and generation of the active dataset.
func (m *MetricsService) SetDataset(ds *models.Dataset) {
	if m == nil || ds == nil {
		return
	}
	m.datasetRecords.WithLabelValues(string(models.SourceA)).Set(float64(ds.CountA))
	m.datasetRecords.WithLabelValues(string(models.SourceB)).Set(float64(ds.CountB))
	m.datasetGen.Set(float64(ds.Generation))
}

// ObserveAggregation records the time taken to compute a dashboard view.
func (m *MetricsService) ObserveAggregation(view string, duration time.Duration) {
	if m == nil {
		return
	}
	m.aggregation.WithLabelValues(view).Observe(duration.Seconds())
}

package service

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/class-insights-api/internal/models"
)

func TestMetricsServiceNilSafe(t *testing.T) {
	var m *MetricsService
	assert.NotPanics(t, func() {
		m.ObserveHTTPRequest("GET", "/x", 200, time.Millisecond)
		m.RecordCacheOperation(true, time.Millisecond)
		m.ObserveCacheWrite(time.Millisecond)
		m.ObserveImport(2025, ImportSuccess, time.Second)
		m.ObserveFetch("Fb", false, time.Millisecond)
		m.SetDataset(&models.Dataset{})
		m.ObserveAggregation("summary", time.Millisecond)
	})
	assert.Nil(t, m.Registry())

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsServiceExposesImportMetrics(t *testing.T) {
	m := NewMetricsService()
	m.ObserveImport(2025, ImportFailure, time.Second)
	m.SetDataset(&models.Dataset{Generation: 3, CountA: 10, CountB: 4})
	m.RecordCacheOperation(false, time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `imports_total{outcome="failure",year="2025"} 1`)
	assert.Contains(t, body, `dataset_records{source="A"} 10`)
	assert.Contains(t, body, "dataset_generation 3")
	assert.Contains(t, body, "cache_misses_total 1")
}

package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	internalmiddleware "github.com/noah-isme/class-insights-api/internal/middleware"
	"github.com/noah-isme/class-insights-api/internal/models"
	"github.com/noah-isme/class-insights-api/internal/repository"
	"github.com/noah-isme/class-insights-api/internal/service"
	"github.com/noah-isme/class-insights-api/pkg/config"
)

const integrationSpreadsheet = "1IntegrationSheetID"

var integrationSheets = map[string]string{
	"'Fb'": `{"values":[
		["Date","Teacher","Product","Course","Duration","Attendance","Highest Attendance","Issue Type"],
		["2025-01-05","Rina","Live","Math","60","1,200","300","Audio"],
		["2025-01-10","Budi","Live","Physics","45","800","250"]
	]}`,
	"'App'": `{"values":[
		["Date","Teacher","Type","Course","Class Duration","Total Attendance","Rating"],
		["1/15/2025","Rina","Class","Math","90","500","4.5"]
	]}`,
}

func buildIntegrationRouter(t *testing.T) (*gin.Engine, *atomic.Int32) {
	t.Helper()
	fetches := &atomic.Int32{}
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for sheet, body := range integrationSheets {
			if strings.HasSuffix(r.URL.Path, "/values/"+sheet) {
				fetches.Add(1)
				_, _ = w.Write([]byte(body))
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"code":404,"message":"Unable to parse range"}}`))
	}))
	t.Cleanup(upstream.Close)

	mini := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mini.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	logger := zap.NewNop()
	metrics := service.NewMetricsService()
	cache := service.NewCacheService(repository.NewCacheRepository(client, "test", logger), metrics, time.Minute, logger, true)
	source, err := repository.NewSheetsRepositoryWithClient(context.Background(), upstream.Client(), upstream.URL, "", logger)
	require.NoError(t, err)
	fetcher := service.NewSheetFetcher(source, cache, metrics, time.Minute, logger)

	years := config.SourcesConfig{Years: map[int]models.YearSources{
		2025: {
			Year:      2025,
			PlatformA: models.SheetRef{URL: integrationSpreadsheet, Sheet: "Fb"},
			PlatformB: models.SheetRef{URL: integrationSpreadsheet, Sheet: "App"},
		},
	}}
	imports := service.NewImportService(service.ImportServiceParams{Fetcher: fetcher, Years: years, DefaultYear: 2025, Metrics: metrics, Logger: logger})
	dashboard := service.NewDashboardService(service.DashboardServiceParams{Data: imports, Metrics: metrics, Logger: logger})
	exports := service.NewExportService(dashboard, logger, nil)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(internalmiddleware.WithResponseMeta(), internalmiddleware.Metrics(metrics))
	RegisterRoutes(r, "/api/v1", Handlers{
		Health:    NewHealthHandler(metrics, imports),
		Imports:   NewImportHandler(imports, nil),
		Dashboard: NewDashboardHandler(dashboard),
		Export:    NewExportHandler(exports, dashboard.Location),
	})
	return r, fetches
}

func TestRoutesIntegration(t *testing.T) {
	router, fetches := buildIntegrationRouter(t)

	t.Run("not ready before import", func(t *testing.T) {
		resp := performRequest(router, httptest.NewRequest(http.MethodGet, "/ready", nil))
		require.Equal(t, http.StatusServiceUnavailable, resp.Code)
	})

	t.Run("empty dashboard", func(t *testing.T) {
		resp := performRequest(router, httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/summary", nil))
		require.Equal(t, http.StatusOK, resp.Code)
		require.Contains(t, resp.Body.String(), `"recordCount":0`)
	})

	t.Run("import", func(t *testing.T) {
		resp := performRequest(router, postJSON("/api/v1/imports", `{"year":2025}`))
		require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
		require.Contains(t, resp.Body.String(), `"countA":2`)
		require.Equal(t, int32(2), fetches.Load())

		resp = performRequest(router, postJSON("/api/v1/imports", `{}`))
		require.Equal(t, http.StatusOK, resp.Code)
		require.Equal(t, int32(2), fetches.Load(), "second import should be served from cache")

		resp = performRequest(router, postJSON("/api/v1/imports", `{"refresh":true}`))
		require.Equal(t, http.StatusOK, resp.Code)
		require.Equal(t, int32(4), fetches.Load())
	})

	t.Run("ready", func(t *testing.T) {
		resp := performRequest(router, httptest.NewRequest(http.MethodGet, "/ready", nil))
		require.Equal(t, http.StatusOK, resp.Code)
	})

	t.Run("summary for teacher", func(t *testing.T) {
		resp := performRequest(router, httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/summary?teacher=Rina", nil))
		require.Equal(t, http.StatusOK, resp.Code)
		var envelope responseEnvelope
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
		assert.Equal(t, float64(2), envelope.Data["recordCount"])
		assert.Equal(t, float64(3), envelope.Meta["dataset_generation"])
	})

	t.Run("rankings", func(t *testing.T) {
		resp := performRequest(router, httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/rankings?metric=total_attendance&top=1", nil))
		require.Equal(t, http.StatusOK, resp.Code)
		assert.Contains(t, resp.Body.String(), `"top":[{"name":"Rina","value":1700`)
		assert.Contains(t, resp.Body.String(), `"othersValue":800`)
	})

	t.Run("teacher drill-down", func(t *testing.T) {
		resp := performRequest(router, httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/teachers/Budi", nil))
		require.Equal(t, http.StatusOK, resp.Code)
		resp = performRequest(router, httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/teachers/budi", nil))
		require.Equal(t, http.StatusNotFound, resp.Code)
	})

	t.Run("export xlsx", func(t *testing.T) {
		resp := performRequest(router, httptest.NewRequest(http.MethodGet, "/api/v1/dashboard/export?format=xlsx", nil))
		require.Equal(t, http.StatusOK, resp.Code)
		assert.Contains(t, resp.Header().Get("Content-Disposition"), ".xlsx")
		assert.NotEmpty(t, resp.Body.Bytes())
	})

	t.Run("status", func(t *testing.T) {
		resp := performRequest(router, httptest.NewRequest(http.MethodGet, "/api/v1/imports/status", nil))
		require.Equal(t, http.StatusOK, resp.Code)
		assert.Contains(t, resp.Body.String(), `"loaded":true`)
		assert.Contains(t, resp.Body.String(), `"availableYears":[2025]`)
	})
}

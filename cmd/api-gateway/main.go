package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/class-insights-api/api/swagger"
	"github.com/noah-isme/class-insights-api/internal/dto"
	"github.com/noah-isme/class-insights-api/internal/handler"
	internalmiddleware "github.com/noah-isme/class-insights-api/internal/middleware"
	"github.com/noah-isme/class-insights-api/internal/repository"
	"github.com/noah-isme/class-insights-api/internal/service"
	"github.com/noah-isme/class-insights-api/pkg/cache"
	"github.com/noah-isme/class-insights-api/pkg/config"
	"github.com/noah-isme/class-insights-api/pkg/jobs"
	"github.com/noah-isme/class-insights-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/class-insights-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/class-insights-api/pkg/middleware/requestid"
)

// @title Class Insights API
// @version 1.0.0
// @description Teaching activity dashboard over the Fb and App class sheets
// @BasePath /api/v1
// @schemes http

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	metrics := service.NewMetricsService()
	validate := validator.New()

	source, err := newSheetSource(ctx, cfg, logr)
	if err != nil {
		logr.Fatal("failed to init sheet source", zap.Error(err))
	}

	cacheSvc, closeCache := newSheetCache(ctx, cfg, metrics, logr)
	defer closeCache()

	fetcher := service.NewSheetFetcher(source, cacheSvc, metrics, cfg.Sheets.CacheTTL, logr.Named("fetcher"))
	imports := service.NewImportService(service.ImportServiceParams{
		Fetcher:     fetcher,
		Years:       cfg.Sources,
		DefaultYear: cfg.Sources.DefaultYear,
		Metrics:     metrics,
		Validator:   validate,
		Logger:      logr.Named("import"),
	})
	dashboard := service.NewDashboardService(service.DashboardServiceParams{
		Data:      imports,
		Metrics:   metrics,
		Validator: validate,
		Logger:    logr.Named("dashboard"),
		Config: service.DashboardServiceConfig{
			Location:    cfg.Dashboard.Location,
			DefaultTopN: cfg.Dashboard.DefaultTopN,
		},
	})
	exports := service.NewExportService(dashboard, logr.Named("export"), nil)

	importJobs := service.NewImportJobService(imports, validate, logr.Named("import-jobs"))
	queue := jobs.NewQueue("imports", importJobs.Handle, jobs.QueueConfig{
		Workers:    1,
		BufferSize: cfg.Import.QueueSize,
		JobTimeout: cfg.Import.Timeout,
		Logger:     logr,
	})
	importJobs.SetQueue(queue)
	queue.Start(ctx)
	defer queue.Stop()

	if cfg.Import.OnStart && len(cfg.Sources.Years) > 0 {
		if _, err := importJobs.Enqueue(ctx, dto.ImportRequest{}); err != nil {
			logr.Warn("initial import not queued", zap.Error(err))
		}
	}
	go importJobs.Schedule(ctx, cfg.Import.RefreshInterval)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmiddleware.WithResponseMeta())
	r.Use(internalmiddleware.Metrics(metrics))

	handler.RegisterRoutes(r, cfg.APIPrefix, handler.Handlers{
		Health:    handler.NewHealthHandler(metrics, imports),
		Imports:   handler.NewImportHandler(imports, importJobs),
		Dashboard: handler.NewDashboardHandler(dashboard),
		Export:    handler.NewExportHandler(exports, dashboard.Location),
	})

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logr.Sugar().Infow("server starting", "addr", server.Addr, "env", cfg.Env, "driver", cfg.Sources.Driver, "years", cfg.Sources.AvailableYears())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
	}()

	select {
	case err := <-serverErrors:
		logr.Fatal("server failed", zap.Error(err))
	case <-ctx.Done():
		logr.Info("shutdown started")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
		_ = server.Close()
	}
}

func newSheetSource(ctx context.Context, cfg *config.Config, logr *zap.Logger) (service.SheetSource, error) {
	if cfg.Sources.Driver == config.DriverXLSX {
		return repository.NewXLSXRepository(logr.Named("xlsx")), nil
	}
	repo, err := repository.NewSheetsRepository(ctx, cfg.Sheets, logr.Named("sheets"))
	if err != nil {
		return nil, err
	}
	return repo, nil
}

// newSheetCache connects Redis when the sheet cache is enabled. An unreachable Redis disables
// caching rather than failing startup.
func newSheetCache(ctx context.Context, cfg *config.Config, metrics *service.MetricsService, logr *zap.Logger) (*service.CacheService, func()) {
	if !cfg.Sheets.CacheEnabled {
		return nil, func() {}
	}
	client, err := cache.NewRedis(ctx, cfg.Redis, 5*time.Second)
	if err != nil {
		logr.Warn("redis unavailable, sheet cache disabled", zap.Error(err))
		return nil, func() {}
	}
	repo := repository.NewCacheRepository(client, "class-insights", logr.Named("cache"))
	return service.NewCacheService(repo, metrics, cfg.Sheets.CacheTTL, logr.Named("cache"), true), func() {
		_ = repo.Close()
	}
}

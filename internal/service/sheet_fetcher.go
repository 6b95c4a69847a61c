package service

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/class-insights-api/internal/models"
)

// SheetSource returns the raw cell grid of one sheet.
type SheetSource interface {
	FetchValues(ctx context.Context, ref models.SheetRef) ([][]string, error)
}

// SheetFetcher fronts a SheetSource with the row cache.
type SheetFetcher struct {
	source  SheetSource
	cache   *CacheService
	metrics *MetricsService
	ttl     time.Duration
	logger  *zap.Logger
}

// NewSheetFetcher constructs a SheetFetcher. cache may be nil.
func NewSheetFetcher(source SheetSource, cache *CacheService, metrics *MetricsService, ttl time.Duration, logger *zap.Logger) *SheetFetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SheetFetcher{source: source, cache: cache, metrics: metrics, ttl: ttl, logger: logger}
}

// Fetch returns the grid for ref and whether it was served from cache. refresh skips the cache
// read but still stores the fresh grid. Cache failures fall back to the source.
func (f *SheetFetcher) Fetch(ctx context.Context, label string, ref models.SheetRef, refresh bool) ([][]string, bool, error) {
	start := time.Now()
	key := sheetCacheKey(ref)

	if !refresh && f.cache.Enabled() {
		var cached [][]string
		hit, err := f.cache.Get(ctx, key, &cached)
		if err != nil {
			f.logger.Warn("sheet cache read failed, fetching upstream", zap.String("sheet", label), zap.Error(err))
		}
		if hit {
			f.metrics.ObserveFetch(label, true, time.Since(start))
			return cached, true, nil
		}
	}

	grid, err := f.source.FetchValues(ctx, ref)
	if err != nil {
		return nil, false, err
	}
	f.metrics.ObserveFetch(label, false, time.Since(start))

	if f.cache.Enabled() {
		_ = f.cache.Set(ctx, key, grid, f.ttl)
	}
	return grid, false, nil
}

// InvalidateAll drops every cached sheet.
func (f *SheetFetcher) InvalidateAll(ctx context.Context) error {
	return f.cache.Invalidate(ctx, "sheets:*")
}

func sheetCacheKey(ref models.SheetRef) string {
	sum := sha1.Sum([]byte(ref.URL + "\x00" + ref.Sheet))
	return "sheets:" + hex.EncodeToString(sum[:])
}

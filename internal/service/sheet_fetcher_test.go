package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/class-insights-api/internal/models"
	appErrors "github.com/noah-isme/class-insights-api/pkg/errors"
)

func TestSheetFetcherCachesGrids(t *testing.T) {
	sheets := &fakeSheets{grids: testGrids()}
	cache := NewCacheService(&stubCacheRepo{}, nil, time.Minute, zap.NewNop(), true)
	fetcher := NewSheetFetcher(sheets, cache, NewMetricsService(), time.Minute, zap.NewNop())
	ref := models.SheetRef{URL: "fb-2025", Sheet: "Fb"}
	ctx := context.Background()

	grid, cached, err := fetcher.Fetch(ctx, "Fb", ref, false)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, testGrids()["Fb"], grid)

	grid, cached, err = fetcher.Fetch(ctx, "Fb", ref, false)
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, testGrids()["Fb"], grid)
	assert.Equal(t, 1, sheets.callCount("Fb"))

	_, cached, err = fetcher.Fetch(ctx, "Fb", ref, true)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, 2, sheets.callCount("Fb"))
}

func TestSheetFetcherKeysBySheet(t *testing.T) {
	a := sheetCacheKey(models.SheetRef{URL: "u", Sheet: "Fb"})
	b := sheetCacheKey(models.SheetRef{URL: "u", Sheet: "App"})
	assert.NotEqual(t, a, b)
	assert.Contains(t, a, "sheets:")
}

func TestSheetFetcherFallsBackOnCacheError(t *testing.T) {
	sheets := &fakeSheets{grids: testGrids()}
	cache := NewCacheService(&stubCacheRepo{getErr: errors.New("redis down")}, nil, time.Minute, zap.NewNop(), true)
	fetcher := NewSheetFetcher(sheets, cache, nil, time.Minute, nil)

	grid, cached, err := fetcher.Fetch(context.Background(), "App", models.SheetRef{URL: "app", Sheet: "App"}, false)
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Len(t, grid, 3)
}

func TestSheetFetcherWithoutCache(t *testing.T) {
	sheets := &fakeSheets{errs: map[string]error{"Fb": appErrors.NewFetchError(404, "sheet %q not found", "Fb")}}
	fetcher := NewSheetFetcher(sheets, nil, nil, time.Minute, nil)

	_, _, err := fetcher.Fetch(context.Background(), "Fb", models.SheetRef{URL: "u", Sheet: "Fb"}, false)
	var fetchErr *appErrors.FetchError
	require.ErrorAs(t, err, &fetchErr)
	assert.Equal(t, 404, fetchErr.Status)
	assert.NoError(t, fetcher.InvalidateAll(context.Background()))
}

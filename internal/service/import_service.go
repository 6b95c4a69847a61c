package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/class-insights-api/internal/analytics"
	"github.com/noah-isme/class-insights-api/internal/dto"
	"github.com/noah-isme/class-insights-api/internal/models"
	"github.com/noah-isme/class-insights-api/internal/repository"
	appErrors "github.com/noah-isme/class-insights-api/pkg/errors"
)

// YearSources resolves configured sheet locations per year.
type YearSources interface {
	Lookup(year int) (models.YearSources, bool)
	AvailableYears() []int
}

type sheetFetcher interface {
	Fetch(ctx context.Context, label string, ref models.SheetRef, refresh bool) ([][]string, bool, error)
	InvalidateAll(ctx context.Context) error
}

// ImportService loads a year's sheets and holds the active dataset. Each import takes a new
// generation number and only the most recently started import may replace the dataset; a failed
// import leaves the previous dataset in place.
type ImportService struct {
	fetcher     sheetFetcher
	years       YearSources
	defaultYear int
	metrics     *MetricsService
	validator   *validator.Validate
	logger      *zap.Logger
	now         func() time.Time

	mu        sync.RWMutex
	current   *models.Dataset
	latest    uint64
	inFlight  int
	lastErr   string
	lastErrAt *time.Time
}

// ImportServiceParams groups constructor dependencies.
type ImportServiceParams struct {
	Fetcher     sheetFetcher
	Years       YearSources
	DefaultYear int
	Metrics     *MetricsService
	Validator   *validator.Validate
	Logger      *zap.Logger
}

// NewImportService constructs an ImportService with no dataset loaded.
func NewImportService(params ImportServiceParams) *ImportService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	validate := params.Validator
	if validate == nil {
		validate = validator.New()
	}
	return &ImportService{
		fetcher:     params.Fetcher,
		years:       params.Years,
		defaultYear: params.DefaultYear,
		metrics:     params.Metrics,
		validator:   validate,
		logger:      logger,
		now:         time.Now,
	}
}

// Run validates an import request and runs it.
func (s *ImportService) Run(ctx context.Context, req dto.ImportRequest) (*models.Dataset, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid import request")
	}
	return s.Import(ctx, req.Year, req.Refresh)
}

// Import fetches both platform sheets and the teacher photo sheet concurrently, unifies them and
// installs the result. year 0 selects the configured default year.
func (s *ImportService) Import(ctx context.Context, year int, refresh bool) (*models.Dataset, error) {
	src, err := s.Resolve(year)
	if err != nil {
		return nil, err
	}
	year = src.Year

	s.mu.Lock()
	s.latest++
	gen := s.latest
	s.inFlight++
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.inFlight--
		s.mu.Unlock()
	}()

	start := s.now()
	log := s.logger.With(zap.Int("year", year), zap.Uint64("generation", gen))
	log.Info("import started", zap.Bool("refresh", refresh))

	if refresh {
		if err := s.fetcher.InvalidateAll(ctx); err != nil {
			log.Warn("sheet cache invalidation failed", zap.Error(err))
		}
	}

	var gridA, gridB, gridImages [][]string
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		grid, _, err := s.fetcher.Fetch(gctx, models.SourceA.Label(), src.PlatformA, refresh)
		gridA = grid
		return err
	})
	g.Go(func() error {
		grid, _, err := s.fetcher.Fetch(gctx, models.SourceB.Label(), src.PlatformB, refresh)
		gridB = grid
		return err
	})
	if src.Images.URL != "" {
		g.Go(func() error {
			grid, _, err := s.fetcher.Fetch(gctx, "Images", src.Images, refresh)
			gridImages = grid
			return err
		})
	}

	if err := g.Wait(); err != nil {
		s.recordFailure(gen, err)
		s.metrics.ObserveImport(year, ImportFailure, s.now().Sub(start))
		log.Warn("import failed", zap.Error(err))
		return nil, importError(err)
	}

	rawA := repository.MapRows(models.SourceA, gridA)
	rawB := repository.MapRows(models.SourceB, gridB)
	ds := &models.Dataset{
		Year:       year,
		Generation: gen,
		Records:    analytics.Unify(rawA, rawB),
		Images:     repository.MapImages(gridImages),
		CountA:     len(rawA),
		CountB:     len(rawB),
		ImportedAt: s.now().UTC(),
	}

	s.mu.Lock()
	if gen != s.latest {
		s.mu.Unlock()
		s.metrics.ObserveImport(year, ImportSuperseded, s.now().Sub(start))
		log.Info("import discarded, newer import started")
		return nil, appErrors.Clone(appErrors.ErrImportSuperseded, fmt.Sprintf("import %d superseded by a newer request", gen))
	}
	s.current = ds
	s.lastErr = ""
	s.lastErrAt = nil
	s.mu.Unlock()

	s.metrics.SetDataset(ds)
	s.metrics.ObserveImport(year, ImportSuccess, s.now().Sub(start))
	log.Info("import finished",
		zap.Int("platform_a", ds.CountA),
		zap.Int("platform_b", ds.CountB),
		zap.Int("images", len(ds.Images)),
		zap.Duration("duration", s.now().Sub(start)),
	)
	return ds, nil
}

// Resolve returns the sources for year, or for the default year when year is 0.
func (s *ImportService) Resolve(year int) (models.YearSources, error) {
	if year == 0 {
		year = s.defaultYear
	}
	src, ok := s.years.Lookup(year)
	if !ok {
		return models.YearSources{}, appErrors.Clone(appErrors.ErrUnknownYear, fmt.Sprintf("no sources configured for year %d", year))
	}
	src.Year = year
	return src, nil
}

func (s *ImportService) recordFailure(gen uint64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.latest {
		return
	}
	at := s.now().UTC()
	s.lastErr = err.Error()
	s.lastErrAt = &at
}

// importError maps fetch failures onto IMPORT_FAILED, keeping the upstream status and message.
func importError(err error) error {
	appErr := appErrors.Clone(appErrors.ErrImportFailed, "")
	appErr.Err = err
	var fetchErr *appErrors.FetchError
	switch {
	case errors.As(err, &fetchErr):
		appErr.Message = fmt.Sprintf("%s: %s", appErrors.ErrImportFailed.Message, fetchErr.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		appErr.Message = fmt.Sprintf("%s: %v", appErrors.ErrImportFailed.Message, err)
	}
	return appErr
}

// Current returns the active dataset, or nil before the first successful import. Callers must
// treat it as read-only.
func (s *ImportService) Current() *models.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Loaded reports whether any import has succeeded.
func (s *ImportService) Loaded() bool {
	return s.Current() != nil
}

// Status describes the active dataset and the import pipeline.
func (s *ImportService) Status() models.ImportStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	status := models.ImportStatus{
		Loaded:         s.current != nil,
		Generation:     s.latest,
		InFlight:       s.inFlight,
		LastError:      s.lastErr,
		LastErrorAt:    s.lastErrAt,
		AvailableYears: s.years.AvailableYears(),
	}
	if s.current != nil {
		at := s.current.ImportedAt
		status.Year = s.current.Year
		status.Generation = s.current.Generation
		status.CountA = s.current.CountA
		status.CountB = s.current.CountB
		status.ImportedAt = &at
	}
	return status
}

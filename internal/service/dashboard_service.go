package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/class-insights-api/internal/analytics"
	"github.com/noah-isme/class-insights-api/internal/dto"
	"github.com/noah-isme/class-insights-api/internal/models"
	appErrors "github.com/noah-isme/class-insights-api/pkg/errors"
)

type datasetProvider interface {
	Current() *models.Dataset
}

// DashboardServiceConfig tunes dashboard behaviour.
type DashboardServiceConfig struct {
	Location    *time.Location
	DefaultTopN int
	RecordLimit int
}

// DashboardService computes every dashboard view from the active dataset. Views over an empty or
// missing dataset return zero values rather than errors.
type DashboardService struct {
	data      datasetProvider
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       DashboardServiceConfig
}

// DashboardServiceParams groups constructor dependencies.
type DashboardServiceParams struct {
	Data      datasetProvider
	Metrics   *MetricsService
	Validator *validator.Validate
	Logger    *zap.Logger
	Config    DashboardServiceConfig
}

// NewDashboardService constructs a DashboardService with sane defaults.
func NewDashboardService(params DashboardServiceParams) *DashboardService {
	cfg := params.Config
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.DefaultTopN <= 0 {
		cfg.DefaultTopN = 10
	}
	if cfg.RecordLimit <= 0 {
		cfg.RecordLimit = 100
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	validate := params.Validator
	if validate == nil {
		validate = validator.New()
	}
	return &DashboardService{
		data:      params.Data,
		metrics:   params.Metrics,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
	}
}

// Location returns the zone dates are interpreted in.
func (s *DashboardService) Location() *time.Location {
	return s.cfg.Location
}

func (s *DashboardService) snapshot() *models.Dataset {
	if s.data == nil {
		return &models.Dataset{}
	}
	if ds := s.data.Current(); ds != nil {
		return ds
	}
	return &models.Dataset{}
}

func (s *DashboardService) observe(view string, start time.Time) {
	s.metrics.ObserveAggregation(view, time.Since(start))
}

func (s *DashboardService) validate(req interface{}, message string) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
	}
	return nil
}

// Summary returns totals over the filtered records next to the unfiltered platform totals.
func (s *DashboardService) Summary(ctx context.Context, state models.FilterState) (*dto.SummaryResponse, error) {
	defer s.observe("summary", time.Now())
	ds := s.snapshot()

	filtered := analytics.ApplyFilters(ds.Records, state, s.cfg.Location)
	filteredTotals := analytics.AggregateSummary(filtered)
	platform := analytics.AggregateSummary(ds.Records)

	return &dto.SummaryResponse{
		Year:        ds.Year,
		Generation:  ds.Generation,
		RecordCount: len(filtered),
		Filtered:    filteredTotals,
		Platform:    platform,
		Share: analytics.TeacherContribution(models.TeacherStats{
			ClassCount:      filteredTotals.ClassCount,
			TotalDuration:   filteredTotals.TotalDuration,
			TotalAttendance: filteredTotals.TotalAttendance,
		}, platform),
		IssueShare: analytics.IssueShare(ds.Records, state, s.cfg.Location),
	}, nil
}

// Teachers returns per-teacher stats over the filtered records with each teacher's share of the
// platform-wide totals. Totals in the response cover the filtered records. Record lists are
// omitted; use Teacher for a drill-down.
func (s *DashboardService) Teachers(ctx context.Context, state models.FilterState) (*dto.TeacherListResponse, error) {
	defer s.observe("teachers", time.Now())
	ds := s.snapshot()

	filtered := analytics.ApplyFilters(ds.Records, state, s.cfg.Location)
	totals := analytics.AggregateSummary(filtered)
	platform := analytics.AggregateSummary(ds.Records)
	set := analytics.Aggregate(filtered, ds.Images)

	rows := make([]dto.TeacherRow, 0, set.Len())
	for _, stats := range set.List() {
		share := analytics.TeacherContribution(stats, platform)
		stats.Records = nil
		rows = append(rows, dto.TeacherRow{TeacherStats: stats, Contribution: share})
	}
	return &dto.TeacherListResponse{Teachers: rows, Totals: totals}, nil
}

// Teacher returns one teacher's stats over the filtered records, with the records newest first.
// Contribution is measured against the platform-wide totals.
func (s *DashboardService) Teacher(ctx context.Context, name string, state models.FilterState) (*dto.TeacherDetailResponse, error) {
	defer s.observe("teacher", time.Now())
	if name == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "teacher name is required")
	}
	ds := s.snapshot()

	filtered := analytics.ApplyFilters(ds.Records, state, s.cfg.Location)
	stats, ok := analytics.Aggregate(filtered, ds.Images).Get(name)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("teacher %q has no classes in the current view", name))
	}
	records := analytics.SortByDateDesc(stats.Records, s.cfg.Location)
	stats.Records = nil

	return &dto.TeacherDetailResponse{
		Teacher:      stats,
		Contribution: analytics.TeacherContribution(stats, analytics.AggregateSummary(ds.Records)),
		Records:      records,
	}, nil
}

// Rankings orders filtered teachers by a metric and buckets everyone past the top N as Others.
func (s *DashboardService) Rankings(ctx context.Context, state models.FilterState, query dto.RankingQuery) (*analytics.Ranking, error) {
	defer s.observe("rankings", time.Now())
	if err := s.validate(query, "invalid ranking query"); err != nil {
		return nil, err
	}
	metric := analytics.MetricClassCount
	if query.Metric != "" {
		m, err := analytics.ParseMetric(query.Metric)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
		}
		metric = m
	}
	topN := s.cfg.DefaultTopN
	if query.Top != nil {
		topN = *query.Top
	}

	ds := s.snapshot()
	filtered := analytics.ApplyFilters(ds.Records, state, s.cfg.Location)
	stats := analytics.Aggregate(filtered, ds.Images).List()
	for i := range stats {
		stats[i].Records = nil
	}
	ranking := analytics.Rank(stats, metric, topN)
	return &ranking, nil
}

// Compare aggregates two teacher groups over records matching every filter except teacher, so
// the active teacher selection does not empty the groups.
func (s *DashboardService) Compare(ctx context.Context, state models.FilterState, req dto.CompareRequest) (*analytics.Comparison, error) {
	defer s.observe("compare", time.Now())
	if err := s.validate(req, "invalid comparison request"); err != nil {
		return nil, err
	}
	ds := s.snapshot()

	records := analytics.ApplyFiltersExcept(ds.Records, state, models.DimensionTeacher, s.cfg.Location)
	cmp := analytics.Compare(req.Group1, req.Group2, records, ds.Images)
	for _, g := range []*models.TeacherStats{cmp.Group1, cmp.Group2} {
		if g != nil {
			g.Records = nil
		}
	}
	return &cmp, nil
}

// Records pages through the filtered records, newest first with ties in unified order.
func (s *DashboardService) Records(ctx context.Context, state models.FilterState, query dto.RecordListQuery) (*dto.RecordListResponse, error) {
	defer s.observe("records", time.Now())
	if err := s.validate(query, "invalid record query"); err != nil {
		return nil, err
	}
	limit := query.Limit
	if limit <= 0 {
		limit = s.cfg.RecordLimit
	}
	ds := s.snapshot()

	sorted := analytics.SortByDateDesc(analytics.ApplyFilters(ds.Records, state, s.cfg.Location), s.cfg.Location)
	start := min(query.Offset, len(sorted))
	end := min(start+limit, len(sorted))

	return &dto.RecordListResponse{
		Records: sorted[start:end],
		Total:   len(sorted),
		Limit:   limit,
		Offset:  query.Offset,
	}, nil
}

// Options lists selectable values for each filter dimension given the other active filters.
func (s *DashboardService) Options(ctx context.Context, state models.FilterState) (dto.OptionsResponse, error) {
	defer s.observe("options", time.Now())
	ds := s.snapshot()
	return dto.OptionsResponse(analytics.Options(ds.Records, state, s.cfg.Location)), nil
}

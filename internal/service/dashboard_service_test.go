package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/class-insights-api/internal/analytics"
	"github.com/noah-isme/class-insights-api/internal/dto"
	"github.com/noah-isme/class-insights-api/internal/models"
	"github.com/noah-isme/class-insights-api/internal/repository"
	appErrors "github.com/noah-isme/class-insights-api/pkg/errors"
)

func testDataset() *models.Dataset {
	grids := testGrids()
	rawA := repository.MapRows(models.SourceA, grids["Fb"])
	rawB := repository.MapRows(models.SourceB, grids["App"])
	return &models.Dataset{
		Year:       2025,
		Generation: 7,
		Records:    analytics.Unify(rawA, rawB),
		Images:     repository.MapImages(grids["Images"]),
		CountA:     len(rawA),
		CountB:     len(rawB),
	}
}

func newTestDashboard(ds *models.Dataset) *DashboardService {
	return NewDashboardService(DashboardServiceParams{
		Data:    staticDataset{ds: ds},
		Metrics: NewMetricsService(),
		Logger:  zap.NewNop(),
		Config:  DashboardServiceConfig{Location: time.UTC},
	})
}

func TestDashboardServiceEmptyDataset(t *testing.T) {
	svc := NewDashboardService(DashboardServiceParams{})
	ctx := context.Background()
	state := models.FilterState{Teachers: []string{"Rina"}}

	summary, err := svc.Summary(ctx, state)
	require.NoError(t, err)
	assert.Equal(t, 0, summary.RecordCount)
	assert.Zero(t, summary.Share.ClassCount.Total)

	list, err := svc.Teachers(ctx, state)
	require.NoError(t, err)
	assert.Empty(t, list.Teachers)

	records, err := svc.Records(ctx, state, dto.RecordListQuery{})
	require.NoError(t, err)
	assert.Empty(t, records.Records)
	assert.Equal(t, 100, records.Limit)

	options, err := svc.Options(ctx, models.FilterState{})
	require.NoError(t, err)
	assert.Empty(t, options[models.DimensionTeacher])
	assert.Equal(t, time.UTC, svc.Location())
}

func TestDashboardServiceSummary(t *testing.T) {
	svc := newTestDashboard(testDataset())

	summary, err := svc.Summary(context.Background(), models.FilterState{Teachers: []string{"Rina"}})
	require.NoError(t, err)

	assert.Equal(t, 2025, summary.Year)
	assert.Equal(t, uint64(7), summary.Generation)
	assert.Equal(t, 2, summary.RecordCount)
	assert.Equal(t, models.StatDetail{A: 1, B: 1, Total: 2}, summary.Filtered.ClassCount)
	assert.Equal(t, models.StatDetail{A: 3, B: 2, Total: 5}, summary.Platform.ClassCount)
	assert.Equal(t, models.StatDetail{A: 155, B: 90, Total: 245}, summary.Platform.TotalDuration)
	assert.InDelta(t, 40, summary.Share.ClassCount.Total, 1e-9)
	assert.InDelta(t, 1700.0/2950*100, summary.Share.TotalAttendance, 1e-9)
	assert.Equal(t, 2, summary.IssueShare.Matching)
	assert.Equal(t, 2, summary.IssueShare.Baseline)
	require.Len(t, summary.IssueShare.Breakdown, 1)
	assert.Equal(t, "Audio", summary.IssueShare.Breakdown[0].IssueType)
}

func TestDashboardServiceTeachers(t *testing.T) {
	svc := newTestDashboard(testDataset())

	list, err := svc.Teachers(context.Background(), models.FilterState{})
	require.NoError(t, err)
	require.Len(t, list.Teachers, 3)

	rina := list.Teachers[0]
	assert.Equal(t, "Rina", rina.Name)
	assert.Equal(t, "https://img/rina.png", rina.ImageURL)
	assert.Nil(t, rina.Records)
	assert.Equal(t, models.StatDetail{A: 1200, B: 500, Total: 1700}, rina.TotalAttendance)
	assert.InDelta(t, 40, rina.Contribution.ClassCount.Total, 1e-9)
	assert.InDelta(t, 50, rina.Contribution.ClassCount.B, 1e-9)
	assert.Equal(t, "Budi", list.Teachers[1].Name)
	assert.Equal(t, "Sari", list.Teachers[2].Name)
	assert.Equal(t, 1, list.Totals.UnassignedClasses)
}

func TestDashboardServiceContributionUsesPlatformTotals(t *testing.T) {
	svc := newTestDashboard(testDataset())
	ctx := context.Background()
	state := models.FilterState{Teachers: []string{"Rina"}}

	list, err := svc.Teachers(ctx, state)
	require.NoError(t, err)
	require.Len(t, list.Teachers, 1)
	share := list.Teachers[0].Contribution
	assert.InDelta(t, 40, share.ClassCount.Total, 1e-9)
	assert.InDelta(t, 150.0/245*100, share.TotalDuration, 1e-9)
	assert.InDelta(t, 1700.0/2950*100, share.TotalAttendance, 1e-9)
	assert.Equal(t, models.StatDetail{A: 1, B: 1, Total: 2}, list.Totals.ClassCount)

	detail, err := svc.Teacher(ctx, "Rina", state)
	require.NoError(t, err)
	assert.InDelta(t, 40, detail.Contribution.ClassCount.Total, 1e-9)
	assert.InDelta(t, 150.0/245*100, detail.Contribution.TotalDuration, 1e-9)
}

func TestDashboardServiceTeacherDetail(t *testing.T) {
	svc := newTestDashboard(testDataset())
	ctx := context.Background()

	detail, err := svc.Teacher(ctx, "Rina", models.FilterState{})
	require.NoError(t, err)
	assert.Nil(t, detail.Teacher.Records)
	require.Len(t, detail.Records, 2)
	assert.Equal(t, "B-1", detail.Records[0].ID)
	assert.Equal(t, "A-1", detail.Records[1].ID)
	require.NotNil(t, detail.Teacher.HighestAttendanceClass)
	assert.Equal(t, "B-1", detail.Teacher.HighestAttendanceClass.ID)
	assert.Equal(t, 500.0, detail.Teacher.HighestPeakAttendance)

	_, err = svc.Teacher(ctx, "rina", models.FilterState{})
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	_, err = svc.Teacher(ctx, "", models.FilterState{})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestDashboardServiceRankings(t *testing.T) {
	svc := newTestDashboard(testDataset())
	ctx := context.Background()
	top := 1

	ranking, err := svc.Rankings(ctx, models.FilterState{}, dto.RankingQuery{Metric: "total_attendance", Top: &top})
	require.NoError(t, err)
	assert.Equal(t, analytics.MetricTotalAttendance, ranking.Metric)
	require.Len(t, ranking.Top, 1)
	assert.Equal(t, "Rina", ranking.Top[0].Name)
	assert.Equal(t, 1700.0, ranking.Top[0].Value)
	assert.Equal(t, 2, ranking.OthersCount)
	assert.Equal(t, 1150.0, ranking.OthersValue)
	for _, other := range ranking.Others {
		assert.Nil(t, other.Records)
	}

	ranking, err = svc.Rankings(ctx, models.FilterState{}, dto.RankingQuery{})
	require.NoError(t, err)
	assert.Equal(t, analytics.MetricClassCount, ranking.Metric)
	assert.Len(t, ranking.Top, 3)
	assert.Zero(t, ranking.OthersCount)

	_, err = svc.Rankings(ctx, models.FilterState{}, dto.RankingQuery{Metric: "bogus"})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	negative := -1
	_, err = svc.Rankings(ctx, models.FilterState{}, dto.RankingQuery{Top: &negative})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestDashboardServiceCompareIgnoresTeacherFilter(t *testing.T) {
	svc := newTestDashboard(testDataset())
	state := models.FilterState{Teachers: []string{"Budi"}}

	cmp, err := svc.Compare(context.Background(), state, dto.CompareRequest{
		Group1: []string{"Rina"},
		Group2: []string{"Sari"},
	})
	require.NoError(t, err)
	require.NotNil(t, cmp.Group1)
	require.NotNil(t, cmp.Group2)
	assert.Equal(t, 2.0, cmp.Group1.ClassCount.Total)
	assert.Equal(t, 1.0, cmp.Group2.ClassCount.Total)
	assert.Nil(t, cmp.Group1.Records)
	assert.NotEmpty(t, cmp.Rows)

	cmp, err = svc.Compare(context.Background(), models.FilterState{Courses: []string{"Physics"}}, dto.CompareRequest{
		Group1: []string{"Rina"},
	})
	require.NoError(t, err)
	assert.Zero(t, cmp.Group1.ClassCount.Total)
	assert.Nil(t, cmp.Group2)

	_, err = svc.Compare(context.Background(), state, dto.CompareRequest{Group1: []string{""}})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestDashboardServiceRecordsPaging(t *testing.T) {
	svc := newTestDashboard(testDataset())
	ctx := context.Background()

	page, err := svc.Records(ctx, models.FilterState{}, dto.RecordListQuery{Limit: 2, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, 5, page.Total)
	require.Len(t, page.Records, 2)
	assert.Equal(t, "B-2", page.Records[0].ID)
	assert.Equal(t, "B-1", page.Records[1].ID)

	page, err = svc.Records(ctx, models.FilterState{}, dto.RecordListQuery{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, page.Records)
	assert.Equal(t, 5, page.Total)

	_, err = svc.Records(ctx, models.FilterState{}, dto.RecordListQuery{Limit: 5000})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestDashboardServiceOptions(t *testing.T) {
	svc := newTestDashboard(testDataset())

	options, err := svc.Options(context.Background(), models.FilterState{Courses: []string{"Math"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Rina"}, options[models.DimensionTeacher])
	assert.Equal(t, []string{"Biology", "Chemistry", "Math", "Physics"}, options[models.DimensionCourse])
	assert.Equal(t, []string{"Class", "Live"}, options[models.DimensionProduct])
}

func TestDashboardServiceRecordsAggregationMetrics(t *testing.T) {
	metrics := NewMetricsService()
	svc := NewDashboardService(DashboardServiceParams{Data: staticDataset{ds: testDataset()}, Metrics: metrics})

	_, err := svc.Summary(context.Background(), models.FilterState{})
	require.NoError(t, err)

	families, err := metrics.Registry().Gather()
	require.NoError(t, err)
	found := false
	for _, mf := range families {
		if mf.GetName() == "aggregation_duration_seconds" {
			found = true
		}
	}
	assert.True(t, found)
}

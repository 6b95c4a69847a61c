package service

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/class-insights-api/internal/dto"
	"github.com/noah-isme/class-insights-api/internal/models"
	appErrors "github.com/noah-isme/class-insights-api/pkg/errors"
	"github.com/noah-isme/class-insights-api/pkg/export"
)

type teacherTableProvider interface {
	Teachers(ctx context.Context, state models.FilterState) (*dto.TeacherListResponse, error)
}

// ExportResult is a rendered file ready to stream.
type ExportResult struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ExportService renders the filtered teacher table as CSV, PDF or XLSX.
type ExportService struct {
	teachers  teacherTableProvider
	renderers map[export.Format]export.Renderer
	logger    *zap.Logger
	now       func() time.Time
}

// NewExportService constructs an ExportService. renderers overrides the default renderer per
// format.
func NewExportService(teachers teacherTableProvider, logger *zap.Logger, renderers map[export.Format]export.Renderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	all := map[export.Format]export.Renderer{}
	for _, f := range []export.Format{export.FormatCSV, export.FormatPDF, export.FormatXLSX} {
		all[f] = export.NewRenderer(f)
	}
	for f, r := range renderers {
		all[f] = r
	}
	return &ExportService{teachers: teachers, renderers: all, logger: logger, now: time.Now}
}

var teacherExportHeaders = []string{
	"teacher",
	"classes_fb", "classes_app", "classes_total",
	"duration_total", "attendance_total",
	"avg_attendance", "avg_duration",
	"peak_attendance", "avg_rating", "rated_classes",
	"share_classes_pct", "share_attendance_pct",
}

// Export renders the teacher table for the filtered view in the requested format.
func (s *ExportService) Export(ctx context.Context, state models.FilterState, query dto.ExportQuery) (*ExportResult, error) {
	format, err := export.ParseFormat(query.Format)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	list, err := s.teachers.Teachers(ctx, state)
	if err != nil {
		return nil, err
	}

	data := export.Dataset{
		Title:   "Teacher Summary",
		Headers: teacherExportHeaders,
		Numeric: make(map[string]bool, len(teacherExportHeaders)),
		Rows:    make([]map[string]string, 0, len(list.Teachers)),
	}
	for _, h := range teacherExportHeaders[1:] {
		data.Numeric[h] = true
	}
	for _, row := range list.Teachers {
		data.Rows = append(data.Rows, map[string]string{
			"teacher":              row.Name,
			"classes_fb":           num(row.ClassCount.A),
			"classes_app":          num(row.ClassCount.B),
			"classes_total":        num(row.ClassCount.Total),
			"duration_total":       num(row.TotalDuration.Total),
			"attendance_total":     num(row.TotalAttendance.Total),
			"avg_attendance":       num(row.AvgAttendance.Overall),
			"avg_duration":         num(row.AvgDuration.Overall),
			"peak_attendance":      num(row.HighestPeakAttendance),
			"avg_rating":           num(row.AverageRating),
			"rated_classes":        strconv.Itoa(row.RatedClassesCount),
			"share_classes_pct":    num(row.Contribution.ClassCount.Total),
			"share_attendance_pct": num(row.Contribution.TotalAttendance),
		})
	}

	body, err := s.renderers[format].Render(data)
	if err != nil {
		s.logger.Error("export render failed", zap.String("format", string(format)), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	return &ExportResult{
		Filename:    fmt.Sprintf("teachers-%s.%s", s.now().UTC().Format("20060102-150405"), format),
		ContentType: format.ContentType(),
		Body:        body,
	}, nil
}

func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}

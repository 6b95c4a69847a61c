package dto

import (
	"github.com/noah-isme/class-insights-api/internal/analytics"
	"github.com/noah-isme/class-insights-api/internal/models"
)

// SummaryResponse is the headline dashboard payload: totals over the filtered view, the
// unfiltered platform totals and the issue share.
type SummaryResponse struct {
	Year        int                        `json:"year,omitempty"`
	Generation  uint64                     `json:"generation"`
	RecordCount int                        `json:"recordCount"`
	Filtered    models.PlatformTotals      `json:"filtered"`
	Platform    models.PlatformTotals      `json:"platform"`
	Share       analytics.TeacherShare     `json:"share"`
	IssueShare  analytics.IssueShareResult `json:"issueShare"`
}

// TeacherRow is one teacher in the dashboard table.
type TeacherRow struct {
	models.TeacherStats
	Contribution analytics.TeacherShare `json:"contribution"`
}

// TeacherListResponse lists filtered teachers in first-seen order.
type TeacherListResponse struct {
	Teachers []TeacherRow          `json:"teachers"`
	Totals   models.PlatformTotals `json:"totals"`
}

// TeacherDetailResponse is the drill-down for one teacher.
type TeacherDetailResponse struct {
	Teacher      models.TeacherStats    `json:"teacher"`
	Contribution analytics.TeacherShare `json:"contribution"`
	Records      []models.UnifiedRecord `json:"records"`
}

// RankingQuery carries the ranking parameters bound from the query string.
type RankingQuery struct {
	Metric string `form:"metric" validate:"omitempty,oneof=class_count total_duration total_attendance"`
	Top    *int   `form:"top" validate:"omitempty,min=0,max=500"`
}

// CompareRequest names the two teacher groups to compare.
type CompareRequest struct {
	Group1 []string `json:"group1" validate:"max=100,dive,required"`
	Group2 []string `json:"group2" validate:"max=100,dive,required"`
}

// RecordListQuery pages through the filtered records.
type RecordListQuery struct {
	Limit  int `form:"limit" validate:"omitempty,min=1,max=1000"`
	Offset int `form:"offset" validate:"omitempty,min=0"`
}

// RecordListResponse is one page of filtered records, newest first.
type RecordListResponse struct {
	Records []models.UnifiedRecord `json:"records"`
	Total   int                    `json:"total"`
	Limit   int                    `json:"limit"`
	Offset  int                    `json:"offset"`
}

// OptionsResponse lists the selectable values per filter dimension.
type OptionsResponse map[models.Dimension][]string

// ExportQuery selects the export format.
type ExportQuery struct {
	Format string `form:"format" validate:"omitempty,oneof=csv pdf xlsx CSV PDF XLSX"`
}

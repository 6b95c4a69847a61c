package analytics

import (
	"strings"

	"github.com/noah-isme/class-insights-api/internal/models"
)

// ComparisonRow is one metric shown side by side.
type ComparisonRow struct {
	Metric     string  `json:"metric"`
	Group1     float64 `json:"group1"`
	Group2     float64 `json:"group2"`
	Difference float64 `json:"difference"`
}

// Comparison holds two teacher groups aggregated independently. A nil group means no names were
// selected for it; a selected group with no matching classes is a zero-valued stats object.
type Comparison struct {
	Group1 *models.TeacherStats `json:"group1"`
	Group2 *models.TeacherStats `json:"group2"`
	Rows   []ComparisonRow      `json:"rows"`
}

// Compare aggregates each name group as a single pseudo-teacher named after its members.
func Compare(group1, group2 []string, records []models.UnifiedRecord, images map[string]string) Comparison {
	cmp := Comparison{
		Group1: aggregateNames(group1, records, images),
		Group2: aggregateNames(group2, records, images),
	}
	cmp.Rows = comparisonRows(cmp.Group1, cmp.Group2)
	return cmp
}

func aggregateNames(names []string, records []models.UnifiedRecord, images map[string]string) *models.TeacherStats {
	if len(names) == 0 {
		return nil
	}
	members := make(map[string]struct{}, len(names))
	for _, n := range names {
		members[n] = struct{}{}
	}
	matched := make([]models.UnifiedRecord, 0)
	for _, r := range records {
		if _, ok := members[Teacher(r)]; ok {
			matched = append(matched, r)
		}
	}
	stats := AggregateGroup(strings.Join(names, ", "), matched, images)
	return &stats
}

type comparedMetric struct {
	name  string
	value func(models.TeacherStats) float64
}

var comparedMetrics = []comparedMetric{
	{"classCount", func(s models.TeacherStats) float64 { return s.ClassCount.Total }},
	{"classCountA", func(s models.TeacherStats) float64 { return s.ClassCount.A }},
	{"classCountB", func(s models.TeacherStats) float64 { return s.ClassCount.B }},
	{"totalDuration", func(s models.TeacherStats) float64 { return s.TotalDuration.Total }},
	{"totalAttendanceSum", func(s models.TeacherStats) float64 { return s.TotalAttendance.Total }},
	{"avgAttendance", func(s models.TeacherStats) float64 { return s.AvgAttendance.Overall }},
	{"avgDuration", func(s models.TeacherStats) float64 { return s.AvgDuration.Overall }},
	{"highestPeakAttendance", func(s models.TeacherStats) float64 { return s.HighestPeakAttendance }},
	{"averageRating", func(s models.TeacherStats) float64 { return s.AverageRating }},
	{"ratedClassesCount", func(s models.TeacherStats) float64 { return float64(s.RatedClassesCount) }},
}

func comparisonRows(g1, g2 *models.TeacherStats) []ComparisonRow {
	rows := make([]ComparisonRow, 0, len(comparedMetrics))
	for _, m := range comparedMetrics {
		var v1, v2 float64
		if g1 != nil {
			v1 = m.value(*g1)
		}
		if g2 != nil {
			v2 = m.value(*g2)
		}
		rows = append(rows, ComparisonRow{Metric: m.name, Group1: v1, Group2: v2, Difference: v1 - v2})
	}
	return rows
}

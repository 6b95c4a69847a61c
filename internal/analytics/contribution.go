package analytics

import (
	"sort"
	"time"

	"github.com/noah-isme/class-insights-api/internal/models"
)

// Contribution expresses part as a percentage of whole. A non-positive whole yields 0.
func Contribution(part, whole float64) float64 {
	if whole <= 0 {
		return 0
	}
	return finite(part / whole * 100)
}

// TeacherShare is a teacher's contribution to the platform-wide totals, in percent.
type TeacherShare struct {
	ClassCount      models.StatDetail `json:"classCount"`
	TotalDuration   float64           `json:"totalDuration"`
	TotalAttendance float64           `json:"totalAttendanceSum"`
}

// TeacherContribution compares a teacher's stats with platform totals. Per-platform class shares
// use that platform's total as the denominator.
func TeacherContribution(stats models.TeacherStats, totals models.PlatformTotals) TeacherShare {
	return TeacherShare{
		ClassCount: models.StatDetail{
			A:     Contribution(stats.ClassCount.A, totals.ClassCount.A),
			B:     Contribution(stats.ClassCount.B, totals.ClassCount.B),
			Total: Contribution(stats.ClassCount.Total, totals.ClassCount.Total),
		},
		TotalDuration:   Contribution(stats.TotalDuration.Total, totals.TotalDuration.Total),
		TotalAttendance: Contribution(stats.TotalAttendance.Total, totals.TotalAttendance.Total),
	}
}

// IssueCount is one issue type within the issue-share baseline.
type IssueCount struct {
	IssueType  string  `json:"issueType"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// IssueShareResult reports how many of the classes under the other filters also match the
// issue-type filter.
type IssueShareResult struct {
	Matching   int          `json:"matching"`
	Baseline   int          `json:"baseline"`
	Percentage float64      `json:"percentage"`
	Breakdown  []IssueCount `json:"breakdown"`
}

// IssueShare divides the fully filtered record count by the count filtered on every dimension
// except issue type. Breakdown lists each issue type present in the baseline, most frequent
// first; records without an issue type are not listed.
func IssueShare(records []models.UnifiedRecord, state models.FilterState, loc *time.Location) IssueShareResult {
	f := Compile(state, loc)
	baseline := f.ApplyExcept(records, models.DimensionIssueType)
	matching := 0
	counts := make(map[string]int)
	var order []string
	for _, r := range baseline {
		if f.Matches(r) {
			matching++
		}
		issue, ok := r.Fields.Get(models.FieldIssueType)
		if !ok || issue == "" {
			continue
		}
		if _, seen := counts[issue]; !seen {
			order = append(order, issue)
		}
		counts[issue]++
	}

	breakdown := make([]IssueCount, 0, len(order))
	for _, issue := range order {
		breakdown = append(breakdown, IssueCount{
			IssueType:  issue,
			Count:      counts[issue],
			Percentage: Contribution(float64(counts[issue]), float64(len(baseline))),
		})
	}
	sort.SliceStable(breakdown, func(i, j int) bool {
		return breakdown[i].Count > breakdown[j].Count
	})

	return IssueShareResult{
		Matching:   matching,
		Baseline:   len(baseline),
		Percentage: Contribution(float64(matching), float64(len(baseline))),
		Breakdown:  breakdown,
	}
}

package analytics

import (
	"fmt"
	"sort"

	"github.com/noah-isme/class-insights-api/internal/models"
)

// Metric names a rankable StatDetail of TeacherStats.
type Metric string

const (
	MetricClassCount      Metric = "class_count"
	MetricTotalDuration   Metric = "total_duration"
	MetricTotalAttendance Metric = "total_attendance"
)

// Metrics lists every rankable metric.
var Metrics = []Metric{MetricClassCount, MetricTotalDuration, MetricTotalAttendance}

// ParseMetric validates a metric name.
func ParseMetric(raw string) (Metric, error) {
	for _, m := range Metrics {
		if string(m) == raw {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown metric %q", raw)
}

// Detail returns the StatDetail the metric reads from stats.
func (m Metric) Detail(stats models.TeacherStats) models.StatDetail {
	switch m {
	case MetricClassCount:
		return stats.ClassCount
	case MetricTotalDuration:
		return stats.TotalDuration
	case MetricTotalAttendance:
		return stats.TotalAttendance
	default:
		return models.StatDetail{}
	}
}

// RankEntry is one teacher in the top list.
type RankEntry struct {
	Name   string            `json:"name"`
	Value  float64           `json:"value"`
	Detail models.StatDetail `json:"detail"`
}

// Ranking is the top-N list plus the remainder bucketed as "Others".
type Ranking struct {
	Metric      Metric                `json:"metric"`
	Top         []RankEntry           `json:"top"`
	Others      []models.TeacherStats `json:"others"`
	OthersValue float64               `json:"othersValue"`
	OthersCount int                   `json:"othersCount"`
}

// OthersLabel names the remainder bucket in charts.
const OthersLabel = "Others"

// Rank sorts stats descending by the metric total and keeps the first topN. Ties keep input
// order. OthersValue is the sum of the remainder in ranked order, so Top values plus OthersValue
// equal the sum over all stats exactly for integer-valued metrics and up to float rounding for
// fractional durations or attendance.
func Rank(stats []models.TeacherStats, metric Metric, topN int) Ranking {
	sorted := append([]models.TeacherStats(nil), stats...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return metric.Detail(sorted[i]).Total > metric.Detail(sorted[j]).Total
	})

	if topN < 0 {
		topN = 0
	}
	if topN > len(sorted) {
		topN = len(sorted)
	}

	ranking := Ranking{
		Metric: metric,
		Top:    make([]RankEntry, 0, topN),
		Others: sorted[topN:],
	}
	for _, s := range sorted[:topN] {
		d := metric.Detail(s)
		ranking.Top = append(ranking.Top, RankEntry{Name: s.Name, Value: d.Total, Detail: d})
	}
	for _, s := range ranking.Others {
		ranking.OthersValue += metric.Detail(s).Total
	}
	ranking.OthersCount = len(ranking.Others)
	return ranking
}

package analytics

import (
	"sort"
	"time"

	"github.com/noah-isme/class-insights-api/internal/models"
)

// Options lists the distinct values available for each categorical dimension. Each dimension's
// values come from the records matching every other active filter, so selecting a course narrows
// the teachers offered but never the courses themselves.
func Options(records []models.UnifiedRecord, state models.FilterState, loc *time.Location) map[models.Dimension][]string {
	f := Compile(state, loc)
	out := make(map[models.Dimension][]string, len(models.CategoricalDimensions))
	for _, dim := range models.CategoricalDimensions {
		seen := make(map[string]struct{})
		values := make([]string, 0)
		for _, r := range f.ApplyExcept(records, dim) {
			v, ok := DimensionValue(r, dim)
			if !ok || v == "" {
				continue
			}
			if _, dup := seen[v]; dup {
				continue
			}
			seen[v] = struct{}{}
			values = append(values, v)
		}
		sort.Strings(values)
		out[dim] = values
	}
	return out
}

// SortByDateDesc returns a copy of records ordered newest first. Records with equal or
// unparseable dates keep their unified order; undated records go last.
func SortByDateDesc(records []models.UnifiedRecord, loc *time.Location) []models.UnifiedRecord {
	type dated struct {
		rec models.UnifiedRecord
		at  time.Time
		ok  bool
	}
	items := make([]dated, len(records))
	for i, r := range records {
		at, ok := Date(r, loc)
		items[i] = dated{rec: r, at: at, ok: ok}
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].ok != items[j].ok {
			return items[i].ok
		}
		return items[i].at.After(items[j].at)
	})
	out := make([]models.UnifiedRecord, len(items))
	for i, it := range items {
		out[i] = it.rec
	}
	return out
}

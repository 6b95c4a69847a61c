package analytics

import (
	"strings"
	"time"

	"github.com/noah-isme/class-insights-api/internal/models"
)

// Filter is a compiled FilterState. Build one with Compile when the same filters are applied to
// several collections.
type Filter struct {
	hasRange bool
	start    time.Time
	end      time.Time
	sets     map[models.Dimension]map[string]struct{}
	query    string
	loc      *time.Location
}

// Compile prepares a FilterState for evaluation. Calendar-day bounds are expanded to
// [start 00:00:00, end 23:59:59.999999999] in loc.
func Compile(state models.FilterState, loc *time.Location) *Filter {
	if loc == nil {
		loc = time.UTC
	}
	f := &Filter{
		sets:  make(map[models.Dimension]map[string]struct{}),
		query: strings.ToLower(state.Query),
		loc:   loc,
	}
	if state.StartDate != nil || state.EndDate != nil {
		f.hasRange = true
		if state.StartDate != nil {
			f.start = StartOfDay(*state.StartDate, loc)
		}
		if state.EndDate != nil {
			f.end = EndOfDay(*state.EndDate, loc)
		}
	}
	for _, dim := range models.CategoricalDimensions {
		values := state.Values(dim)
		if len(values) == 0 {
			continue
		}
		set := make(map[string]struct{}, len(values))
		for _, v := range values {
			set[v] = struct{}{}
		}
		f.sets[dim] = set
	}
	return f
}

// Matches reports whether a record passes every active predicate. Evaluation stops at the
// first failing predicate: date range, then categorical sets, then free text.
func (f *Filter) Matches(r models.UnifiedRecord) bool {
	return f.matches(r, "")
}

func (f *Filter) matches(r models.UnifiedRecord, skip models.Dimension) bool {
	if f.hasRange && skip != models.DimensionDate && !f.inRange(r) {
		return false
	}
	for _, dim := range models.CategoricalDimensions {
		if dim == skip {
			continue
		}
		set, ok := f.sets[dim]
		if !ok {
			continue
		}
		value, present := DimensionValue(r, dim)
		if !present {
			return false
		}
		if _, accepted := set[value]; !accepted {
			return false
		}
	}
	if f.query != "" && skip != models.DimensionQuery && !containsQuery(r, f.query) {
		return false
	}
	return true
}

func (f *Filter) inRange(r models.UnifiedRecord) bool {
	date, ok := Date(r, f.loc)
	if !ok {
		return false
	}
	if !f.start.IsZero() && date.Before(f.start) {
		return false
	}
	if !f.end.IsZero() && date.After(f.end) {
		return false
	}
	return true
}

func containsQuery(r models.UnifiedRecord, query string) bool {
	if strings.Contains(strings.ToLower(r.ID), query) || strings.Contains(strings.ToLower(string(r.Source)), query) {
		return true
	}
	for _, v := range r.Fields {
		if strings.Contains(strings.ToLower(v), query) {
			return true
		}
	}
	return false
}

// Apply returns the records passing every predicate, in input order.
func (f *Filter) Apply(records []models.UnifiedRecord) []models.UnifiedRecord {
	return f.apply(records, "")
}

// ApplyExcept returns the records passing every predicate except the one for dim.
func (f *Filter) ApplyExcept(records []models.UnifiedRecord, dim models.Dimension) []models.UnifiedRecord {
	return f.apply(records, dim)
}

func (f *Filter) apply(records []models.UnifiedRecord, skip models.Dimension) []models.UnifiedRecord {
	out := make([]models.UnifiedRecord, 0, len(records))
	for _, r := range records {
		if f.matches(r, skip) {
			out = append(out, r)
		}
	}
	return out
}

// ApplyFilters returns the subset of records matching the filter state.
func ApplyFilters(records []models.UnifiedRecord, state models.FilterState, loc *time.Location) []models.UnifiedRecord {
	return Compile(state, loc).Apply(records)
}

// ApplyFiltersExcept returns the subset of records matching every filter except dim. It is the
// baseline for "share of classes under the same other filters" percentages.
func ApplyFiltersExcept(records []models.UnifiedRecord, state models.FilterState, dim models.Dimension, loc *time.Location) []models.UnifiedRecord {
	return Compile(state, loc).ApplyExcept(records, dim)
}

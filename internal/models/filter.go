package models

import "time"

// Dimension names one independently omittable filter predicate.
type Dimension string

const (
	DimensionDate      Dimension = "date"
	DimensionProduct   Dimension = "product"
	DimensionCourse    Dimension = "course"
	DimensionTeacher   Dimension = "teacher"
	DimensionSubject   Dimension = "subject"
	DimensionIssueType Dimension = "issueType"
	DimensionQuery     Dimension = "query"
)

// CategoricalDimensions lists the multi-select dimensions in evaluation order.
var CategoricalDimensions = []Dimension{
	DimensionProduct,
	DimensionCourse,
	DimensionTeacher,
	DimensionSubject,
	DimensionIssueType,
}

// FilterState is the full set of dashboard filters. An empty slice leaves its dimension
// unrestricted. StartDate and EndDate are calendar days; only their year, month and day are used.
type FilterState struct {
	StartDate  *time.Time `json:"startDate,omitempty"`
	EndDate    *time.Time `json:"endDate,omitempty"`
	Products   []string   `json:"products,omitempty"`
	Courses    []string   `json:"courses,omitempty"`
	Teachers   []string   `json:"teachers,omitempty"`
	Subjects   []string   `json:"subjects,omitempty"`
	IssueTypes []string   `json:"issueTypes,omitempty"`
	Query      string     `json:"query,omitempty"`
}

// Values returns the accepted set for a categorical dimension.
func (f FilterState) Values(dim Dimension) []string {
	switch dim {
	case DimensionProduct:
		return f.Products
	case DimensionCourse:
		return f.Courses
	case DimensionTeacher:
		return f.Teachers
	case DimensionSubject:
		return f.Subjects
	case DimensionIssueType:
		return f.IssueTypes
	default:
		return nil
	}
}

// Without returns a copy of the filter with one dimension cleared.
func (f FilterState) Without(dim Dimension) FilterState {
	switch dim {
	case DimensionDate:
		f.StartDate, f.EndDate = nil, nil
	case DimensionProduct:
		f.Products = nil
	case DimensionCourse:
		f.Courses = nil
	case DimensionTeacher:
		f.Teachers = nil
	case DimensionSubject:
		f.Subjects = nil
	case DimensionIssueType:
		f.IssueTypes = nil
	case DimensionQuery:
		f.Query = ""
	}
	return f
}

// IsZero reports whether no predicate is active.
func (f FilterState) IsZero() bool {
	if f.StartDate != nil || f.EndDate != nil || f.Query != "" {
		return false
	}
	for _, dim := range CategoricalDimensions {
		if len(f.Values(dim)) > 0 {
			return false
		}
	}
	return true
}

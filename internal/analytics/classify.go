package analytics

import (
	"strings"
	"time"

	"github.com/noah-isme/class-insights-api/internal/models"
)

// Classify returns the platform a record was imported from. It relies on the tag stamped by
// Unify and never inspects which fields are present.
func Classify(r models.UnifiedRecord) models.Source {
	return r.Source
}

// Teacher returns the raw teacher name, or "" when the cell is blank. Names are compared by exact
// equality, without case or whitespace folding.
func Teacher(r models.UnifiedRecord) string {
	name := r.Field(models.FieldTeacher)
	if strings.TrimSpace(name) == "" {
		return ""
	}
	return name
}

// Product returns the product (platform A) or class type (platform B).
func Product(r models.UnifiedRecord) (string, bool) {
	if Classify(r) == models.SourceB {
		return r.Fields.Get(models.FieldBType)
	}
	return r.Fields.Get(models.FieldAProduct)
}

// Duration returns the normalized class duration in minutes.
func Duration(r models.UnifiedRecord) float64 {
	if Classify(r) == models.SourceB {
		return field(r.Fields, models.FieldBClassDuration)
	}
	return field(r.Fields, models.FieldADuration)
}

// Attendance returns the normalized attendance credited to the class.
func Attendance(r models.UnifiedRecord) float64 {
	if Classify(r) == models.SourceB {
		return field(r.Fields, models.FieldBTotalAttendance)
	}
	return field(r.Fields, models.FieldAAttendance)
}

// PeakAttendance returns the peak attendance of the class. Platform A reports it separately from
// attendance, platform B only reports a single total.
func PeakAttendance(r models.UnifiedRecord) float64 {
	if Classify(r) == models.SourceB {
		return field(r.Fields, models.FieldBTotalAttendance)
	}
	return field(r.Fields, models.FieldAHighestAttendance)
}

// Rating returns the normalized class rating and whether the platform records ratings at all.
func Rating(r models.UnifiedRecord) (float64, bool) {
	if Classify(r) != models.SourceB {
		return 0, false
	}
	return field(r.Fields, models.FieldBRating), true
}

// CourseKey returns the key used for the per-course breakdown: the course, else the subject.
func CourseKey(r models.UnifiedRecord) string {
	if course := strings.TrimSpace(r.Field(models.FieldCourse)); course != "" {
		return course
	}
	if subject := strings.TrimSpace(r.Field(models.FieldSubject)); subject != "" {
		return subject
	}
	return UnknownCourse
}

// UnknownCourse labels classes with neither course nor subject.
const UnknownCourse = "Unknown"

// DimensionValue returns the record value for a categorical dimension.
func DimensionValue(r models.UnifiedRecord, dim models.Dimension) (string, bool) {
	switch dim {
	case models.DimensionProduct:
		return Product(r)
	case models.DimensionCourse:
		return r.Fields.Get(models.FieldCourse)
	case models.DimensionTeacher:
		return r.Fields.Get(models.FieldTeacher)
	case models.DimensionSubject:
		return r.Fields.Get(models.FieldSubject)
	case models.DimensionIssueType:
		return r.Fields.Get(models.FieldIssueType)
	default:
		return "", false
	}
}

// Date parses the class date in loc.
func Date(r models.UnifiedRecord, loc *time.Location) (time.Time, bool) {
	raw, ok := r.Fields.Get(models.FieldDate)
	if !ok {
		return time.Time{}, false
	}
	return ParseDate(raw, loc)
}

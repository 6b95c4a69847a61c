package models

// Source identifies the platform feed a record was imported from.
type Source string

const (
	// SourceA is the web platform ("Fb") feed.
	SourceA Source = "A"
	// SourceB is the mobile app ("App") feed.
	SourceB Source = "B"
)

// Valid reports whether the source is one of the known platforms.
func (s Source) Valid() bool {
	return s == SourceA || s == SourceB
}

// Label returns the display name of the platform.
func (s Source) Label() string {
	switch s {
	case SourceA:
		return "Fb"
	case SourceB:
		return "App"
	default:
		return string(s)
	}
}

// RawRecord is one spreadsheet row keyed by logical field name. Absent keys mean the cell was
// absent or blank.
type RawRecord map[string]string

// Get returns the field value and whether it was present.
func (r RawRecord) Get(field string) (string, bool) {
	if r == nil {
		return "", false
	}
	v, ok := r[field]
	return v, ok
}

// Field names shared by both platforms.
const (
	FieldDate      = "date"
	FieldTeacher   = "teacher"
	FieldCourse    = "course"
	FieldSubject   = "subject"
	FieldTitle     = "title"
	FieldIssueType = "issueType"
	FieldIssueNote = "issueNote"
)

// Platform A field names.
const (
	FieldAProduct           = "product"
	FieldADuration          = "duration"
	FieldAAttendance        = "attendance"
	FieldAHighestAttendance = "highestAttendance"
)

// Platform B field names.
const (
	FieldBType            = "type"
	FieldBClassDuration   = "classDuration"
	FieldBTotalAttendance = "totalAttendance"
	FieldBRating          = "rating"
)

// UnifiedRecord is a RawRecord stamped with its origin. ID is "{source}-{n}" where n is the
// 1-based position among that platform's imported records. Blank sheet rows are dropped before
// numbering, so n is not the sheet row.
type UnifiedRecord struct {
	ID     string    `json:"id"`
	Source Source    `json:"source"`
	Fields RawRecord `json:"fields"`
}

// Field returns a field value, empty when absent.
func (r UnifiedRecord) Field(name string) string {
	return r.Fields[name]
}

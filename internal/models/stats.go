package models

// StatDetail is a metric split by platform. Total always equals A + B; mutate it only through
// Add.
type StatDetail struct {
	A     float64 `json:"a"`
	B     float64 `json:"b"`
	Total float64 `json:"total"`
}

// Add credits v to the given platform and to the total.
func (d *StatDetail) Add(source Source, v float64) {
	switch source {
	case SourceA:
		d.A += v
	case SourceB:
		d.B += v
	default:
		return
	}
	d.Total = d.A + d.B
}

// Merge adds every slot of other into d.
func (d *StatDetail) Merge(other StatDetail) {
	d.A += other.A
	d.B += other.B
	d.Total = d.A + d.B
}

// AverageDetail holds derived averages per platform and over both platforms.
type AverageDetail struct {
	A       float64 `json:"a"`
	B       float64 `json:"b"`
	Overall float64 `json:"overall"`
}

// TeacherStats aggregates every class taught by one teacher (or one named group of teachers).
type TeacherStats struct {
	Name                   string                `json:"name"`
	ImageURL               string                `json:"imageUrl,omitempty"`
	ClassCount             StatDetail            `json:"classCount"`
	TotalDuration          StatDetail            `json:"totalDuration"`
	TotalAttendance        StatDetail            `json:"totalAttendanceSum"`
	AvgAttendance          AverageDetail         `json:"avgAttendance"`
	AvgDuration            AverageDetail         `json:"avgDuration"`
	HighestPeakAttendance  float64               `json:"highestPeakAttendance"`
	HighestAttendanceClass *UnifiedRecord        `json:"highestAttendanceClass,omitempty"`
	AverageRating          float64               `json:"averageRating"`
	RatedClassesCount      int                   `json:"ratedClassesCount"`
	CourseBreakdown        map[string]StatDetail `json:"courseBreakdown"`
	Records                []UnifiedRecord       `json:"records,omitempty"`
}

// PlatformTotals is the platform-wide rollup of a record collection, including records without a
// teacher.
type PlatformTotals struct {
	ClassCount             StatDetail     `json:"classCount"`
	TotalDuration          StatDetail     `json:"totalDuration"`
	TotalAttendance        StatDetail     `json:"totalAttendanceSum"`
	AvgAttendance          AverageDetail  `json:"avgAttendance"`
	AvgDuration            AverageDetail  `json:"avgDuration"`
	HighestPeakAttendance  float64        `json:"highestPeakAttendance"`
	HighestAttendanceClass *UnifiedRecord `json:"highestAttendanceClass,omitempty"`
	AverageRating          float64        `json:"averageRating"`
	RatedClassesCount      int            `json:"ratedClassesCount"`
	TeacherCount           int            `json:"teacherCount"`
	UnassignedClasses      int            `json:"unassignedClasses"`
}

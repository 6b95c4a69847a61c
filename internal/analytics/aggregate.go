package analytics

import (
	"github.com/noah-isme/class-insights-api/internal/models"
)

// tally is the running fold shared by per-teacher and platform-wide aggregation.
type tally struct {
	classCount models.StatDetail
	duration   models.StatDetail
	attendance models.StatDetail

	peak       float64
	peakRecord *models.UnifiedRecord

	ratingSum float64
	rated     int
}

func (t *tally) add(r models.UnifiedRecord) {
	source := Classify(r)
	t.classCount.Add(source, 1)
	t.duration.Add(source, Duration(r))
	t.attendance.Add(source, Attendance(r))

	// Strictly greater only: among equal peaks the first record seen keeps the attribution.
	if peak := PeakAttendance(r); t.peakRecord == nil || peak > t.peak {
		rec := r
		t.peak = peak
		t.peakRecord = &rec
	}

	// A rating of 0 means the class was not rated.
	if rating, ok := Rating(r); ok && rating > 0 {
		t.ratingSum += rating
		t.rated++
	}
}

func (t *tally) avgAttendance() models.AverageDetail {
	return averages(t.attendance, t.classCount)
}

func (t *tally) avgDuration() models.AverageDetail {
	return averages(t.duration, t.classCount)
}

func (t *tally) avgRating() float64 {
	return ratio(t.ratingSum, float64(t.rated))
}

func averages(sum, count models.StatDetail) models.AverageDetail {
	return models.AverageDetail{
		A:       ratio(sum.A, count.A),
		B:       ratio(sum.B, count.B),
		Overall: ratio(sum.Total, count.Total),
	}
}

func ratio(sum, count float64) float64 {
	if count <= 0 {
		return 0
	}
	return sum / count
}

type teacherAccumulator struct {
	tally
	name    string
	courses map[string]models.StatDetail
	records []models.UnifiedRecord
}

func newTeacherAccumulator(name string) *teacherAccumulator {
	return &teacherAccumulator{name: name, courses: make(map[string]models.StatDetail)}
}

func (a *teacherAccumulator) add(r models.UnifiedRecord) {
	a.tally.add(r)
	key := CourseKey(r)
	detail := a.courses[key]
	detail.Add(Classify(r), 1)
	a.courses[key] = detail
	a.records = append(a.records, r)
}

// snapshot derives the averages and returns the finished stats.
func (a *teacherAccumulator) snapshot(images map[string]string) models.TeacherStats {
	return models.TeacherStats{
		Name:                   a.name,
		ImageURL:               images[a.name],
		ClassCount:             a.classCount,
		TotalDuration:          a.duration,
		TotalAttendance:        a.attendance,
		AvgAttendance:          a.avgAttendance(),
		AvgDuration:            a.avgDuration(),
		HighestPeakAttendance:  a.peak,
		HighestAttendanceClass: a.peakRecord,
		AverageRating:          a.avgRating(),
		RatedClassesCount:      a.rated,
		CourseBreakdown:        a.courses,
		Records:                a.records,
	}
}

// TeacherStatsSet is the per-teacher aggregation result in first-seen order.
type TeacherStatsSet struct {
	order  []string
	byName map[string]models.TeacherStats
}

// Len returns the number of teachers.
func (s *TeacherStatsSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// Get returns the stats for one teacher name.
func (s *TeacherStatsSet) Get(name string) (models.TeacherStats, bool) {
	if s == nil {
		return models.TeacherStats{}, false
	}
	stats, ok := s.byName[name]
	return stats, ok
}

// Names returns teacher names in first-seen order.
func (s *TeacherStatsSet) Names() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.order...)
}

// List returns every teacher's stats in first-seen order.
func (s *TeacherStatsSet) List() []models.TeacherStats {
	if s == nil {
		return nil
	}
	out := make([]models.TeacherStats, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.byName[name])
	}
	return out
}

// Aggregate folds records into per-teacher statistics in a single pass. Records without a
// teacher are skipped. images, when non-nil, supplies TeacherStats.ImageURL.
func Aggregate(records []models.UnifiedRecord, images map[string]string) *TeacherStatsSet {
	accs := make(map[string]*teacherAccumulator)
	var order []string
	for _, r := range records {
		name := Teacher(r)
		if name == "" {
			continue
		}
		acc, ok := accs[name]
		if !ok {
			acc = newTeacherAccumulator(name)
			accs[name] = acc
			order = append(order, name)
		}
		acc.add(r)
	}

	set := &TeacherStatsSet{order: order, byName: make(map[string]models.TeacherStats, len(order))}
	for _, name := range order {
		set.byName[name] = accs[name].snapshot(images)
	}
	return set
}

// AggregateGroup folds records as if they all belonged to one teacher called name.
func AggregateGroup(name string, records []models.UnifiedRecord, images map[string]string) models.TeacherStats {
	acc := newTeacherAccumulator(name)
	for _, r := range records {
		acc.add(r)
	}
	return acc.snapshot(images)
}

// AggregateSummary computes platform-wide totals over every record, including records without a
// teacher.
func AggregateSummary(records []models.UnifiedRecord) models.PlatformTotals {
	var t tally
	teachers := make(map[string]struct{})
	unassigned := 0
	for _, r := range records {
		t.add(r)
		if name := Teacher(r); name != "" {
			teachers[name] = struct{}{}
		} else {
			unassigned++
		}
	}
	return models.PlatformTotals{
		ClassCount:             t.classCount,
		TotalDuration:          t.duration,
		TotalAttendance:        t.attendance,
		AvgAttendance:          t.avgAttendance(),
		AvgDuration:            t.avgDuration(),
		HighestPeakAttendance:  t.peak,
		HighestAttendanceClass: t.peakRecord,
		AverageRating:          t.avgRating(),
		RatedClassesCount:      t.rated,
		TeacherCount:           len(teachers),
		UnassignedClasses:      unassigned,
	}
}

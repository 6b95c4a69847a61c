package analytics

import (
	"time"

	"github.com/noah-isme/class-insights-api/internal/models"
)

func fb(fields ...string) models.RawRecord {
	return raw(fields...)
}

func app(fields ...string) models.RawRecord {
	return raw(fields...)
}

func raw(kv ...string) models.RawRecord {
	r := models.RawRecord{}
	for i := 0; i+1 < len(kv); i += 2 {
		r[kv[i]] = kv[i+1]
	}
	return r
}

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func ids(records []models.UnifiedRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}

func sampleRecords() []models.UnifiedRecord {
	return Unify(
		[]models.RawRecord{
			fb("date", "2025-01-05", "teacher", "Rina", "product", "Live", "course", "Math", "subject", "Algebra", "duration", "60", "attendance", "1,200", "highestAttendance", "300", "issueType", "Audio"),
			fb("date", "2025-01-10", "teacher", "Budi", "product", "Live", "course", "Physics", "subject", "Mechanics", "duration", "45", "attendance", "800", "highestAttendance", "250"),
			fb("date", "2025-02-01", "teacher", "Rina", "product", "Replay", "course", "Math", "subject", "Geometry", "duration", "30", "attendance", "400", "highestAttendance", "120", "issueType", "Video"),
			fb("date", "2025-02-03", "product", "Live", "course", "Biology", "duration", "50", "attendance", "100", "highestAttendance", "90"),
		},
		[]models.RawRecord{
			app("date", "1/15/2025", "teacher", "Rina", "type", "Class", "course", "Math", "subject", "Algebra", "classDuration", "90", "totalAttendance", "500", "rating", "4.5"),
			app("date", "1/20/2025", "teacher", "Sari", "type", "Class", "course", "Chemistry", "classDuration", "-", "totalAttendance", "350", "rating", "0", "issueType", "Audio"),
			app("date", "not a date", "teacher", "Budi", "type", "Webinar", "course", "Physics", "classDuration", "40", "totalAttendance", "abc", "rating", "5"),
		},
	)
}

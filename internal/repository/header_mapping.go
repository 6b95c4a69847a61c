package repository

import (
	"strings"
	"unicode"

	"github.com/noah-isme/class-insights-api/internal/models"
)

// Header aliases keyed by folded header text (lowercase letters and digits only). Headers not
// listed here fall back to their camelCase form, so "Class Duration" maps to classDuration
// without an entry.
var (
	sharedHeaderAliases = map[string]string{
		"tanggal":     models.FieldDate,
		"classdate":   models.FieldDate,
		"pengajar":    models.FieldTeacher,
		"guru":        models.FieldTeacher,
		"mentor":      models.FieldTeacher,
		"tutor":       models.FieldTeacher,
		"teachername": models.FieldTeacher,
		"matakuliah":  models.FieldCourse,
		"kursus":      models.FieldCourse,
		"mapel":       models.FieldSubject,
		"topik":       models.FieldSubject,
		"judul":       models.FieldTitle,
		"classtitle":  models.FieldTitle,
		"issue":       models.FieldIssueType,
		"kendala":     models.FieldIssueType,
		"issuenotes":  models.FieldIssueNote,
		"catatan":     models.FieldIssueNote,
		"notes":       models.FieldIssueNote,
	}

	platformHeaderAliases = map[models.Source]map[string]string{
		models.SourceA: {
			"produk":          models.FieldAProduct,
			"type":            models.FieldAProduct,
			"durasi":          models.FieldADuration,
			"classduration":   models.FieldADuration,
			"kehadiran":       models.FieldAAttendance,
			"totalattendance": models.FieldAAttendance,
			"peak":            models.FieldAHighestAttendance,
			"peakattendance":  models.FieldAHighestAttendance,
			"peakviewers":     models.FieldAHighestAttendance,
		},
		models.SourceB: {
			"tipe":       models.FieldBType,
			"product":    models.FieldBType,
			"classtype":  models.FieldBType,
			"durasi":     models.FieldBClassDuration,
			"duration":   models.FieldBClassDuration,
			"kehadiran":  models.FieldBTotalAttendance,
			"attendance": models.FieldBTotalAttendance,
			"nilai":      models.FieldBRating,
			"score":      models.FieldBRating,
		},
	}
)

// fieldForHeader resolves a sheet column title to a logical field name for the given platform.
func fieldForHeader(source models.Source, header string) string {
	folded := foldHeader(header)
	if folded == "" {
		return ""
	}
	if f, ok := platformHeaderAliases[source][folded]; ok {
		return f
	}
	if f, ok := sharedHeaderAliases[folded]; ok {
		return f
	}
	return camelKey(header)
}

func foldHeader(header string) string {
	var b strings.Builder
	for _, r := range header {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// camelKey turns "Highest Attendance" or "issue_type" into highestAttendance / issueType. Words
// that are already mixed case keep their inner capitals.
func camelKey(header string) string {
	words := strings.FieldsFunc(header, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	var b strings.Builder
	for i, w := range words {
		runes := []rune(w)
		if isUpper(w) {
			runes = []rune(strings.ToLower(w))
		}
		if i == 0 {
			runes[0] = unicode.ToLower(runes[0])
		} else {
			runes[0] = unicode.ToUpper(runes[0])
		}
		b.WriteString(string(runes))
	}
	return b.String()
}

func isUpper(w string) bool {
	for _, r := range w {
		if unicode.IsLower(r) {
			return false
		}
	}
	return true
}

// MapRows converts a sheet value grid into records. The first row is the header. Blank rows are
// skipped, blank cells and cells beyond a short row's end are left absent, and columns whose
// header is blank are ignored. Cell text is kept verbatim. When two columns map to the same field the first non-blank cell
// wins.
func MapRows(source models.Source, grid [][]string) []models.RawRecord {
	if len(grid) == 0 {
		return []models.RawRecord{}
	}
	fields := make([]string, len(grid[0]))
	for i, h := range grid[0] {
		fields[i] = fieldForHeader(source, h)
	}

	records := make([]models.RawRecord, 0, len(grid)-1)
	for _, row := range grid[1:] {
		rec := models.RawRecord{}
		for i, cell := range row {
			if i >= len(fields) || fields[i] == "" {
				continue
			}
			if strings.TrimSpace(cell) == "" {
				continue
			}
			if _, taken := rec[fields[i]]; !taken {
				rec[fields[i]] = cell
			}
		}
		if len(rec) == 0 {
			continue
		}
		records = append(records, rec)
	}
	return records
}

// MapImages reads a teacher photo sheet into a name to URL lookup. The sheet needs a teacher (or
// name) column and an image (or photo/url) column; rows missing either are skipped and later
// rows override earlier ones.
func MapImages(grid [][]string) map[string]string {
	images := make(map[string]string)
	if len(grid) == 0 {
		return images
	}
	nameCol, urlCol := -1, -1
	for i, h := range grid[0] {
		switch foldHeader(h) {
		case "teacher", "name", "nama", "pengajar", "guru", "mentor":
			if nameCol < 0 {
				nameCol = i
			}
		case "image", "imageurl", "photo", "photourl", "foto", "url", "picture":
			if urlCol < 0 {
				urlCol = i
			}
		}
	}
	if nameCol < 0 || urlCol < 0 {
		return images
	}
	for _, row := range grid[1:] {
		if nameCol >= len(row) || urlCol >= len(row) {
			continue
		}
		name, url := row[nameCol], strings.TrimSpace(row[urlCol])
		if strings.TrimSpace(name) == "" || url == "" {
			continue
		}
		images[name] = url
	}
	return images
}

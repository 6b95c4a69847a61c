package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/class-insights-api/internal/analytics"
	"github.com/noah-isme/class-insights-api/internal/models"
)

func TestFieldForHeader(t *testing.T) {
	tests := []struct {
		source models.Source
		header string
		want   string
	}{
		{models.SourceA, "Date", models.FieldDate},
		{models.SourceA, "Tanggal", models.FieldDate},
		{models.SourceA, "Highest Attendance", models.FieldAHighestAttendance},
		{models.SourceA, "highestAttendance", models.FieldAHighestAttendance},
		{models.SourceA, "Type", models.FieldAProduct},
		{models.SourceB, "Product", models.FieldBType},
		{models.SourceB, "Class Duration", models.FieldBClassDuration},
		{models.SourceB, "Duration", models.FieldBClassDuration},
		{models.SourceB, "TOTAL ATTENDANCE", models.FieldBTotalAttendance},
		{models.SourceA, "issue_type", models.FieldIssueType},
		{models.SourceA, "Zoom Link", "zoomLink"},
		{models.SourceA, "  ", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, fieldForHeader(tt.source, tt.header), "%s %q", tt.source, tt.header)
	}
}

func TestMapRows(t *testing.T) {
	grid := [][]string{
		{"Date", "Teacher", "", "Duration", "Mentor"},
		{"2025-01-05", "Rina ", "ignored", "60", "Other"},
		{"", "", ""},
		{"2025-01-06", "Budi"},
		{"2025-01-07", "", "", "  ", "Sari", "beyond header"},
	}

	got := MapRows(models.SourceA, grid)

	assert.Equal(t, []models.RawRecord{
		{"date": "2025-01-05", "teacher": "Rina ", "duration": "60"},
		{"date": "2025-01-06", "teacher": "Budi"},
		{"date": "2025-01-07", "teacher": "Sari"},
	}, got)
}

func TestMapRowsBlankRowsDoNotTakeIDs(t *testing.T) {
	grid := [][]string{
		{"Date", "Teacher"},
		{"2025-01-05", "Rina"},
		{"", "  "},
		{},
		{"2025-01-07", "Budi"},
	}
	records := analytics.Unify(MapRows(models.SourceA, grid), nil)

	assert.Len(t, records, 2)
	assert.Equal(t, "A-1", records[0].ID)
	assert.Equal(t, "A-2", records[1].ID)
	assert.Equal(t, "Budi", records[1].Field(models.FieldTeacher))
}

func TestMapRowsEmpty(t *testing.T) {
	assert.Equal(t, []models.RawRecord{}, MapRows(models.SourceB, nil))
	assert.Equal(t, []models.RawRecord{}, MapRows(models.SourceB, [][]string{{"Date", "Teacher"}}))
}

func TestMapImages(t *testing.T) {
	grid := [][]string{
		{"Nama", "Foto"},
		{"Rina", "https://img/rina-old.png"},
		{"Budi", ""},
		{"Rina", "https://img/rina.png"},
		{"Sari"},
	}

	assert.Equal(t, map[string]string{"Rina": "https://img/rina.png"}, MapImages(grid))
	assert.Empty(t, MapImages([][]string{{"Something", "Else"}, {"a", "b"}}))
	assert.Empty(t, MapImages(nil))
}

package models

import "time"

// Dataset is one completed import: the unified records plus the teacher image lookup.
type Dataset struct {
	Year       int               `json:"year"`
	Generation uint64            `json:"generation"`
	Records    []UnifiedRecord   `json:"records"`
	Images     map[string]string `json:"images,omitempty"`
	CountA     int               `json:"countA"`
	CountB     int               `json:"countB"`
	ImportedAt time.Time         `json:"importedAt"`
}

// ImportStatus describes the state of the import pipeline.
type ImportStatus struct {
	Loaded         bool       `json:"loaded"`
	Year           int        `json:"year,omitempty"`
	Generation     uint64     `json:"generation"`
	InFlight       int        `json:"inFlight"`
	CountA         int        `json:"countA"`
	CountB         int        `json:"countB"`
	ImportedAt     *time.Time `json:"importedAt,omitempty"`
	LastError      string     `json:"lastError,omitempty"`
	LastErrorAt    *time.Time `json:"lastErrorAt,omitempty"`
	AvailableYears []int      `json:"availableYears"`
}

// SheetRef points at one sheet (tab) of a spreadsheet or workbook.
type SheetRef struct {
	URL   string `json:"url"`
	Sheet string `json:"sheet"`
}

// YearSources lists every sheet imported for one year selector value. An empty Images URL
// means the year has no teacher photos.
type YearSources struct {
	Year      int      `json:"year"`
	PlatformA SheetRef `json:"platformA"`
	PlatformB SheetRef `json:"platformB"`
	Images    SheetRef `json:"images"`
}

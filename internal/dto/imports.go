package dto

import (
	"time"

	"github.com/noah-isme/class-insights-api/internal/models"
)

// ImportRequest starts an import. Year 0 selects the configured default year. Async queues the
// import and returns at once.
type ImportRequest struct {
	Year    int  `json:"year" validate:"omitempty,min=2000,max=2100"`
	Refresh bool `json:"refresh"`
	Async   bool `json:"async"`
}

// ImportJobResponse acknowledges a queued import.
type ImportJobResponse struct {
	JobID   string `json:"jobId"`
	Year    int    `json:"year"`
	Refresh bool   `json:"refresh"`
	Status  string `json:"status"`
}

// ImportResponse reports the dataset installed by an import.
type ImportResponse struct {
	Year       int    `json:"year"`
	Generation uint64 `json:"generation"`
	CountA     int    `json:"countA"`
	CountB     int    `json:"countB"`
	Images     int    `json:"images"`
	ImportedAt string `json:"importedAt"`
}

// NewImportResponse summarises ds.
func NewImportResponse(ds *models.Dataset) ImportResponse {
	return ImportResponse{
		Year:       ds.Year,
		Generation: ds.Generation,
		CountA:     ds.CountA,
		CountB:     ds.CountB,
		Images:     len(ds.Images),
		ImportedAt: ds.ImportedAt.Format(time.RFC3339),
	}
}

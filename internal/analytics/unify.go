package analytics

import (
	"fmt"
	"maps"

	"github.com/noah-isme/class-insights-api/internal/models"
)

// Unify merges both platform feeds into one collection: platform A rows first, then platform B
// rows, each in sheet order. IDs are "{source}-{n}" with n the 1-based
// index in that platform's record list. Input maps are copied.
func Unify(recordsA, recordsB []models.RawRecord) []models.UnifiedRecord {
	out := make([]models.UnifiedRecord, 0, len(recordsA)+len(recordsB))
	out = appendTagged(out, models.SourceA, recordsA)
	out = appendTagged(out, models.SourceB, recordsB)
	return out
}

func appendTagged(out []models.UnifiedRecord, source models.Source, rows []models.RawRecord) []models.UnifiedRecord {
	for i, row := range rows {
		fields := make(models.RawRecord, len(row))
		maps.Copy(fields, row)
		out = append(out, models.UnifiedRecord{
			ID:     fmt.Sprintf("%s-%d", source, i+1),
			Source: source,
			Fields: fields,
		})
	}
	return out
}

package analytics

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

var numericStripper = strings.NewReplacer(",", "", "%", "")

// Normalize converts a spreadsheet cell into a finite number. Blank cells, "-", and anything that
// does not parse after removing thousands separators and percent signs normalize to 0.
func Normalize(raw string) float64 {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == "-" {
		return 0
	}
	value, err := strconv.ParseFloat(numericStripper.Replace(trimmed), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}
	return value
}

// NormalizeAny applies Normalize to loosely typed values such as decoded JSON cells.
func NormalizeAny(value any) float64 {
	switch v := value.(type) {
	case nil:
		return 0
	case string:
		return Normalize(v)
	case *string:
		if v == nil {
			return 0
		}
		return Normalize(*v)
	case float64:
		return finite(v)
	case float32:
		return finite(float64(v))
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case int32:
		return float64(v)
	default:
		return Normalize(fmt.Sprint(v))
	}
}

// field normalizes a record field, treating an absent field as 0.
func field(fields map[string]string, name string) float64 {
	raw, ok := fields[name]
	if !ok {
		return 0
	}
	return Normalize(raw)
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

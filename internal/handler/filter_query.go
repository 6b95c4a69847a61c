package handler

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/class-insights-api/internal/models"
	appErrors "github.com/noah-isme/class-insights-api/pkg/errors"
)

const dateLayout = "2006-01-02"

// parseFilterState reads dashboard filters from the query string. Dates are calendar days in
// loc. Multi-value dimensions take one value per repeated parameter, kept byte for byte so
// values containing commas or padding still match exactly.
func parseFilterState(c *gin.Context, loc *time.Location) (models.FilterState, error) {
	if loc == nil {
		loc = time.UTC
	}
	var state models.FilterState

	for _, bound := range []struct {
		param string
		dest  **time.Time
	}{
		{"start", &state.StartDate},
		{"end", &state.EndDate},
	} {
		raw := strings.TrimSpace(c.Query(bound.param))
		if raw == "" {
			continue
		}
		parsed, err := time.ParseInLocation(dateLayout, raw, loc)
		if err != nil {
			return models.FilterState{}, appErrors.Clone(appErrors.ErrValidation, "invalid "+bound.param+" date, expected YYYY-MM-DD")
		}
		*bound.dest = &parsed
	}

	state.Products = queryList(c, "product")
	state.Courses = queryList(c, "course")
	state.Teachers = queryList(c, "teacher")
	state.Subjects = queryList(c, "subject")
	state.IssueTypes = queryList(c, "issue_type")
	state.Query = c.Query("q")
	return state, nil
}

func queryList(c *gin.Context, key string) []string {
	var out []string
	for _, v := range c.QueryArray(key) {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

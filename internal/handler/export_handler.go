package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/class-insights-api/internal/dto"
	"github.com/noah-isme/class-insights-api/internal/models"
	"github.com/noah-isme/class-insights-api/internal/service"
	appErrors "github.com/noah-isme/class-insights-api/pkg/errors"
	"github.com/noah-isme/class-insights-api/pkg/response"
)

type exportService interface {
	Export(ctx context.Context, state models.FilterState, query dto.ExportQuery) (*service.ExportResult, error)
}

// ExportHandler streams teacher tables as downloadable files.
type ExportHandler struct {
	service  exportService
	location func() *time.Location
}

// NewExportHandler constructs the handler. loc supplies the zone filter dates are read in.
func NewExportHandler(service exportService, loc func() *time.Location) *ExportHandler {
	if loc == nil {
		loc = func() *time.Location { return time.UTC }
	}
	return &ExportHandler{service: service, location: loc}
}

// Teachers godoc
// @Summary Export the teacher table
// @Tags Dashboard
// @Produce text/csv,application/pdf,application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param format query string false "csv, pdf or xlsx"
// @Success 200 {file} file
// @Router /dashboard/export [get]
func (h *ExportHandler) Teachers(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	state, err := parseFilterState(c, h.location())
	if err != nil {
		response.Error(c, err)
		return
	}
	var query dto.ExportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid export query"))
		return
	}
	result, err := h.service.Export(c.Request.Context(), state, query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, result.Filename, result.ContentType, result.Body)
}

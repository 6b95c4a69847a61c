package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/class-insights-api/internal/analytics"
	"github.com/noah-isme/class-insights-api/internal/dto"
	"github.com/noah-isme/class-insights-api/internal/middleware"
	"github.com/noah-isme/class-insights-api/internal/models"
	appErrors "github.com/noah-isme/class-insights-api/pkg/errors"
	"github.com/noah-isme/class-insights-api/pkg/response"
)

type dashboardService interface {
	Location() *time.Location
	Summary(ctx context.Context, state models.FilterState) (*dto.SummaryResponse, error)
	Teachers(ctx context.Context, state models.FilterState) (*dto.TeacherListResponse, error)
	Teacher(ctx context.Context, name string, state models.FilterState) (*dto.TeacherDetailResponse, error)
	Rankings(ctx context.Context, state models.FilterState, query dto.RankingQuery) (*analytics.Ranking, error)
	Compare(ctx context.Context, state models.FilterState, req dto.CompareRequest) (*analytics.Comparison, error)
	Records(ctx context.Context, state models.FilterState, query dto.RecordListQuery) (*dto.RecordListResponse, error)
	Options(ctx context.Context, state models.FilterState) (dto.OptionsResponse, error)
}

// DashboardHandler wires dashboard service to HTTP endpoints.
type DashboardHandler struct {
	service dashboardService
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service dashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

func (h *DashboardHandler) filters(c *gin.Context) (models.FilterState, bool) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return models.FilterState{}, false
	}
	state, err := parseFilterState(c, h.service.Location())
	if err != nil {
		response.Error(c, err)
		return models.FilterState{}, false
	}
	return state, true
}

// Summary godoc
// @Summary Filtered and platform totals
// @Tags Dashboard
// @Produce json
// @Param start query string false "Start date (YYYY-MM-DD)"
// @Param end query string false "End date (YYYY-MM-DD)"
// @Param product query []string false "Product or class type"
// @Param course query []string false "Course"
// @Param teacher query []string false "Teacher"
// @Param subject query []string false "Subject"
// @Param issue_type query []string false "Issue type"
// @Param q query string false "Free text search"
// @Success 200 {object} response.Envelope
// @Router /dashboard/summary [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	state, ok := h.filters(c)
	if !ok {
		return
	}
	summary, err := h.service.Summary(c.Request.Context(), state)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetGeneration(c, summary.Generation)
	response.JSON(c, http.StatusOK, summary, middleware.ExtractMeta(c))
}

// Teachers godoc
// @Summary Per-teacher statistics
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard/teachers [get]
func (h *DashboardHandler) Teachers(c *gin.Context) {
	state, ok := h.filters(c)
	if !ok {
		return
	}
	list, err := h.service.Teachers(c.Request.Context(), state)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetMeta(c, "total", len(list.Teachers))
	response.JSON(c, http.StatusOK, list, middleware.ExtractMeta(c))
}

// Teacher godoc
// @Summary Teacher drill-down
// @Tags Dashboard
// @Produce json
// @Param name path string true "Teacher name"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /dashboard/teachers/{name} [get]
func (h *DashboardHandler) Teacher(c *gin.Context) {
	state, ok := h.filters(c)
	if !ok {
		return
	}
	detail, err := h.service.Teacher(c.Request.Context(), c.Param("name"), state)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, middleware.ExtractMeta(c))
}

// Rankings godoc
// @Summary Top teachers by metric
// @Tags Dashboard
// @Produce json
// @Param metric query string false "class_count, total_duration or total_attendance"
// @Param top query int false "Number of teachers before the Others bucket"
// @Success 200 {object} response.Envelope
// @Router /dashboard/rankings [get]
func (h *DashboardHandler) Rankings(c *gin.Context) {
	state, ok := h.filters(c)
	if !ok {
		return
	}
	var query dto.RankingQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid ranking query"))
		return
	}
	ranking, err := h.service.Rankings(c.Request.Context(), state, query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, ranking, middleware.ExtractMeta(c))
}

// Compare godoc
// @Summary Compare two teacher groups
// @Tags Dashboard
// @Accept json
// @Produce json
// @Param payload body dto.CompareRequest true "Teacher groups"
// @Success 200 {object} response.Envelope
// @Router /dashboard/compare [post]
func (h *DashboardHandler) Compare(c *gin.Context) {
	state, ok := h.filters(c)
	if !ok {
		return
	}
	var req dto.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid comparison payload"))
		return
	}
	cmp, err := h.service.Compare(c.Request.Context(), state, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, cmp, middleware.ExtractMeta(c))
}

// Records godoc
// @Summary Filtered records, newest first
// @Tags Dashboard
// @Produce json
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} response.Envelope
// @Router /dashboard/records [get]
func (h *DashboardHandler) Records(c *gin.Context) {
	state, ok := h.filters(c)
	if !ok {
		return
	}
	var query dto.RecordListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid record query"))
		return
	}
	page, err := h.service.Records(c.Request.Context(), state, query)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetMeta(c, "total", page.Total)
	response.JSON(c, http.StatusOK, page, middleware.ExtractMeta(c))
}

// Options godoc
// @Summary Selectable filter values
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard/options [get]
func (h *DashboardHandler) Options(c *gin.Context) {
	state, ok := h.filters(c)
	if !ok {
		return
	}
	options, err := h.service.Options(c.Request.Context(), state)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, options, middleware.ExtractMeta(c))
}

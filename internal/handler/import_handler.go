package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/class-insights-api/internal/dto"
	"github.com/noah-isme/class-insights-api/internal/models"
	appErrors "github.com/noah-isme/class-insights-api/pkg/errors"
	"github.com/noah-isme/class-insights-api/pkg/response"
)

type importService interface {
	Run(ctx context.Context, req dto.ImportRequest) (*models.Dataset, error)
	Status() models.ImportStatus
}

type importQueue interface {
	Enqueue(ctx context.Context, req dto.ImportRequest) (*dto.ImportJobResponse, error)
}

// ImportHandler triggers imports and reports their state.
type ImportHandler struct {
	imports importService
	queue   importQueue
}

// NewImportHandler constructs the handler. queue may be nil, in which case async requests run
// inline.
func NewImportHandler(imports importService, queue importQueue) *ImportHandler {
	return &ImportHandler{imports: imports, queue: queue}
}

// Create godoc
// @Summary Import a year of class sheets
// @Tags Imports
// @Accept json
// @Produce json
// @Param payload body dto.ImportRequest false "Import options"
// @Success 200 {object} response.Envelope
// @Success 202 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /imports [post]
func (h *ImportHandler) Create(c *gin.Context) {
	if h.imports == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	var req dto.ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid import payload"))
		return
	}

	if req.Async && h.queue != nil {
		job, err := h.queue.Enqueue(c.Request.Context(), req)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Accepted(c, job)
		return
	}

	ds, err := h.imports.Run(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.NewImportResponse(ds), map[string]interface{}{"generation": ds.Generation})
}

// Status godoc
// @Summary Import pipeline status
// @Tags Imports
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /imports/status [get]
func (h *ImportHandler) Status(c *gin.Context) {
	if h.imports == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	response.JSON(c, http.StatusOK, h.imports.Status())
}

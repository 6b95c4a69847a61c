package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/class-insights-api/internal/dto"
	"github.com/noah-isme/class-insights-api/internal/models"
	appErrors "github.com/noah-isme/class-insights-api/pkg/errors"
	"github.com/noah-isme/class-insights-api/pkg/jobs"
)

// ImportJobType tags queued import jobs.
const ImportJobType = "import"

type importRunner interface {
	Resolve(year int) (models.YearSources, error)
	Import(ctx context.Context, year int, refresh bool) (*models.Dataset, error)
}

type jobDispatcher interface {
	Enqueue(job jobs.Job) error
}

// ImportJobService runs imports in the background on a job queue and on a refresh timer.
type ImportJobService struct {
	imports   importRunner
	queue     jobDispatcher
	validator *validator.Validate
	logger    *zap.Logger
}

// NewImportJobService constructs the service. The queue is attached with SetQueue once it has
// been built around Handle.
func NewImportJobService(imports importRunner, validate *validator.Validate, logger *zap.Logger) *ImportJobService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ImportJobService{imports: imports, validator: validate, logger: logger}
}

// SetQueue attaches the dispatcher jobs are pushed to.
func (s *ImportJobService) SetQueue(queue jobDispatcher) {
	s.queue = queue
}

// Enqueue validates req, resolves its year and queues the import.
func (s *ImportJobService) Enqueue(ctx context.Context, req dto.ImportRequest) (*dto.ImportJobResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid import request")
	}
	src, err := s.imports.Resolve(req.Year)
	if err != nil {
		return nil, err
	}
	if s.queue == nil {
		return nil, appErrors.Clone(appErrors.ErrInternal, "import queue not configured")
	}

	payload := dto.ImportRequest{Year: src.Year, Refresh: req.Refresh}
	job := jobs.Job{ID: uuid.NewString(), Type: ImportJobType, Payload: payload}
	if err := s.queue.Enqueue(job); err != nil {
		if errors.Is(err, jobs.ErrQueueFull) {
			return nil, appErrors.Wrap(err, appErrors.ErrImportQueueFull.Code, appErrors.ErrImportQueueFull.Status, appErrors.ErrImportQueueFull.Message)
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue import")
	}
	s.logger.Info("import queued", zap.String("job_id", job.ID), zap.Int("year", src.Year), zap.Bool("refresh", req.Refresh))
	return &dto.ImportJobResponse{JobID: job.ID, Year: src.Year, Refresh: req.Refresh, Status: "queued"}, nil
}

// Handle runs one queued import.
func (s *ImportJobService) Handle(ctx context.Context, job jobs.Job) error {
	req, ok := job.Payload.(dto.ImportRequest)
	if !ok {
		return fmt.Errorf("job %s: unexpected payload %T", job.ID, job.Payload)
	}
	_, err := s.imports.Import(ctx, req.Year, req.Refresh)
	return err
}

// Schedule enqueues a refreshing import of the default year every interval until ctx ends. A
// non-positive interval disables it.
func (s *ImportJobService) Schedule(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Enqueue(ctx, dto.ImportRequest{Refresh: true}); err != nil {
				s.logger.Warn("scheduled import not queued", zap.Error(err))
			}
		}
	}
}

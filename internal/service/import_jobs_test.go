package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/class-insights-api/internal/dto"
	appErrors "github.com/noah-isme/class-insights-api/pkg/errors"
	"github.com/noah-isme/class-insights-api/pkg/jobs"
)

type recordingQueue struct {
	mu   sync.Mutex
	jobs []jobs.Job
	err  error
}

func (q *recordingQueue) Enqueue(job jobs.Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.jobs = append(q.jobs, job)
	return nil
}

func (q *recordingQueue) count() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.jobs)
}

func TestImportJobServiceEnqueueResolvesDefaultYear(t *testing.T) {
	imports := newTestImportService(&fakeSheets{grids: testGrids()})
	queue := &recordingQueue{}
	svc := NewImportJobService(imports, nil, zap.NewNop())
	svc.SetQueue(queue)

	resp, err := svc.Enqueue(context.Background(), dto.ImportRequest{Refresh: true, Async: true})
	require.NoError(t, err)
	assert.Equal(t, 2025, resp.Year)
	assert.Equal(t, "queued", resp.Status)
	assert.NotEmpty(t, resp.JobID)

	require.Len(t, queue.jobs, 1)
	assert.Equal(t, ImportJobType, queue.jobs[0].Type)
	assert.Equal(t, dto.ImportRequest{Year: 2025, Refresh: true}, queue.jobs[0].Payload)
}

func TestImportJobServiceEnqueueErrors(t *testing.T) {
	imports := newTestImportService(&fakeSheets{grids: testGrids()})
	svc := NewImportJobService(imports, nil, nil)
	ctx := context.Background()

	_, err := svc.Enqueue(ctx, dto.ImportRequest{Year: 2030})
	assert.Equal(t, appErrors.ErrUnknownYear.Code, appErrors.FromError(err).Code)

	_, err = svc.Enqueue(ctx, dto.ImportRequest{Year: 2025})
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)

	svc.SetQueue(&recordingQueue{err: jobs.ErrQueueFull})
	_, err = svc.Enqueue(ctx, dto.ImportRequest{Year: 2025})
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrImportQueueFull.Code, appErr.Code)
	assert.Equal(t, 503, appErr.Status)
}

func TestImportJobServiceHandle(t *testing.T) {
	imports := newTestImportService(&fakeSheets{grids: testGrids()})
	svc := NewImportJobService(imports, nil, nil)

	require.NoError(t, svc.Handle(context.Background(), jobs.Job{ID: "j1", Payload: dto.ImportRequest{Year: 2024}}))
	require.NotNil(t, imports.Current())
	assert.Equal(t, 2024, imports.Current().Year)

	assert.Error(t, svc.Handle(context.Background(), jobs.Job{ID: "j2", Payload: "nope"}))
}

func TestImportJobServiceScheduleRunsThroughQueue(t *testing.T) {
	imports := newTestImportService(&fakeSheets{grids: testGrids()})
	svc := NewImportJobService(imports, nil, zap.NewNop())
	queue := jobs.NewQueue("imports", svc.Handle, jobs.QueueConfig{Workers: 1, BufferSize: 2})
	svc.SetQueue(queue)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	queue.Start(ctx)
	defer queue.Stop()

	go svc.Schedule(ctx, 10*time.Millisecond)

	require.Eventually(t, imports.Loaded, time.Second, 5*time.Millisecond)
	assert.Equal(t, 2025, imports.Current().Year)
}

func TestImportJobServiceScheduleDisabled(t *testing.T) {
	queue := &recordingQueue{}
	svc := NewImportJobService(newTestImportService(&fakeSheets{}), nil, nil)
	svc.SetQueue(queue)

	svc.Schedule(context.Background(), 0)
	assert.Zero(t, queue.count())
}

package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	types "github.com/yungbote/vpnscout-backend/internal/domain"
	"github.com/yungbote/vpnscout-backend/internal/jobs/runtime"
	"github.com/yungbote/vpnscout-backend/internal/observability"
	pkgerrors "github.com/yungbote/vpnscout-backend/internal/pkg/errors"
	"github.com/yungbote/vpnscout-backend/internal/pkg/logger"
	"github.com/yungbote/vpnscout-backend/internal/pkg/pointers"
)

const DefaultTimeout = 60 * time.Second

// Worker runs one registered operation synchronously and records its outcome.
type Worker struct {
	log      *logger.Logger
	recorder runtime.Recorder
	metrics  *observability.Metrics
	timeout  time.Duration
	now      func() time.Time
}

type Option func(*Worker)

func WithClock(now func() time.Time) Option {
	return func(w *Worker) { w.now = now }
}

func NewWorker(baseLog *logger.Logger, recorder runtime.Recorder, metrics *observability.Metrics, timeout time.Duration, opts ...Option) *Worker {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	w := &Worker{
		log:      baseLog.With("component", "JobWorker"),
		recorder: recorder,
		metrics:  metrics,
		timeout:  timeout,
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run executes op for subject. The returned record reflects the terminal
// state whether or not it could be persisted. A non-nil error wraps
// ErrOperationFailed.
func (w *Worker) Run(ctx context.Context, op runtime.Operation, subject string) (*types.JobRecord, any, error) {
	job := &types.JobRecord{
		ID:        uuid.New(),
		Type:      op.Type(),
		Source:    runtime.SourceDescriptor(op.Type(), subject),
		Status:    types.JobStatusRunning,
		StartedAt: w.now(),
	}
	if subject != "" {
		job.SubjectKey = pointers.String(subject)
	}
	started := w.recorder.Start(ctx, job)

	runCtx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()
	jc := runtime.NewContext(runCtx, job, subject, w.log)

	begin := time.Now()
	result, runErr := w.execute(jc, op)
	var payload datatypes.JSON
	if runErr == nil {
		raw, err := json.Marshal(result)
		if err != nil {
			runErr = fmt.Errorf("encode result: %w", err)
		} else {
			payload = datatypes.JSON(raw)
		}
	}
	if runErr != nil {
		job.Fail(runErr.Error(), w.now())
		jc.Log.Warn("Job failed", "source", job.Source, "error", runErr)
	} else {
		job.Complete(payload, w.now())
		jc.Log.Info("Job completed", "source", job.Source)
	}
	w.recorder.Finish(ctx, job, started)
	w.metrics.ObserveDispatch(string(job.Type), string(job.Status), time.Since(begin))

	if runErr != nil {
		return job, nil, fmt.Errorf("%w: %s: %v", pkgerrors.ErrOperationFailed, job.Source, runErr)
	}
	return job, result, nil
}

func (w *Worker) execute(jc *runtime.Context, op runtime.Operation) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			jc.Log.Error("Job operation panic", "panic", r)
			result = nil
			err = &panicError{Val: r}
		}
	}()
	return op.Run(jc)
}

type panicError struct{ Val any }

func (e *panicError) Error() string { return fmt.Sprintf("operation panicked: %v", e.Val) }

package runtime

import (
	"context"

	"github.com/yungbote/vpnscout-backend/internal/data/repos"
	types "github.com/yungbote/vpnscout-backend/internal/domain"
	"github.com/yungbote/vpnscout-backend/internal/observability"
	"github.com/yungbote/vpnscout-backend/internal/pkg/dbctx"
	"github.com/yungbote/vpnscout-backend/internal/pkg/logger"
)

// Recorder persists job records on a best-effort basis. Neither method
// returns an error: failures are logged and counted and must not change the
// outcome of the operation being recorded.
type Recorder interface {
	// Start writes the running row and reports whether it was stored.
	Start(ctx context.Context, job *types.JobRecord) bool
	// Finish writes the terminal state. When Start did not store the row,
	// the terminal row is inserted instead.
	Finish(ctx context.Context, job *types.JobRecord, started bool)
}

type storeRecorder struct {
	repo    repos.JobRecordRepo
	log     *logger.Logger
	metrics *observability.Metrics
}

func NewRecorder(repo repos.JobRecordRepo, baseLog *logger.Logger, metrics *observability.Metrics) Recorder {
	return &storeRecorder{
		repo:    repo,
		log:     baseLog.With("component", "JobRecorder"),
		metrics: metrics,
	}
}

func (r *storeRecorder) Start(ctx context.Context, job *types.JobRecord) bool {
	if err := r.repo.Create(dbctx.Context{Ctx: context.WithoutCancel(ctx)}, job); err != nil {
		r.log.Error("Failed to write running job record", "job_id", job.ID, "job_type", job.Type, "error", err)
		r.metrics.IncRecordWriteFailure("start")
		return false
	}
	return true
}

func (r *storeRecorder) Finish(ctx context.Context, job *types.JobRecord, started bool) {
	// The adapter deadline may already have fired; the terminal write still goes out.
	dbc := dbctx.Context{Ctx: context.WithoutCancel(ctx)}
	if !started {
		if err := r.repo.Upsert(dbc, job); err != nil {
			r.log.Error("Failed to write terminal job record", "job_id", job.ID, "status", job.Status, "error", err)
			r.metrics.IncRecordWriteFailure("finish")
		}
		return
	}
	ok, err := r.repo.Transition(dbc, job.ID, map[string]interface{}{
		"status":       job.Status,
		"result":       job.Result,
		"error":        job.Error,
		"completed_at": job.CompletedAt,
	})
	if err != nil {
		r.log.Error("Failed to transition job record", "job_id", job.ID, "status", job.Status, "error", err)
		r.metrics.IncRecordWriteFailure("finish")
		return
	}
	if !ok {
		r.log.Warn("Job record was not running; terminal state not applied", "job_id", job.ID, "status", job.Status)
		r.metrics.IncRecordWriteFailure("finish")
	}
}

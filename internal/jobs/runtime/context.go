package runtime

import (
	"context"

	types "github.com/yungbote/vpnscout-backend/internal/domain"
	"github.com/yungbote/vpnscout-backend/internal/pkg/ctxutil"
	"github.com/yungbote/vpnscout-backend/internal/pkg/logger"
)

/*
Context is the execution handle for one dispatched operation.
	- Ctx carries the adapter deadline and request trace data
	- Job is the in-memory record; operations read it but never persist it
	- Subject is the validated slug for operations that need one
*/
type Context struct {
	Ctx     context.Context
	Job     *types.JobRecord
	Subject string
	Log     *logger.Logger
}

func NewContext(ctx context.Context, job *types.JobRecord, subject string, baseLog *logger.Logger) *Context {
	log := baseLog
	if job != nil {
		log = log.With("job_id", job.ID.String(), "job_type", string(job.Type))
	}
	if td := ctxutil.GetTraceData(ctx); td != nil {
		if td.TraceID != "" {
			log = log.With("trace_id", td.TraceID)
		}
		if td.RequestID != "" {
			log = log.With("request_id", td.RequestID)
		}
	}
	return &Context{
		Ctx:     ctxutil.Default(ctx),
		Job:     job,
		Subject: subject,
		Log:     log,
	}
}

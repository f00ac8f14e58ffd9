package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/vpnscout-backend/internal/data/repos"
	types "github.com/yungbote/vpnscout-backend/internal/domain"
	"github.com/yungbote/vpnscout-backend/internal/jobs/runtime"
	"github.com/yungbote/vpnscout-backend/internal/jobs/worker"
	"github.com/yungbote/vpnscout-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/vpnscout-backend/internal/pkg/errors"
	"github.com/yungbote/vpnscout-backend/internal/pkg/logger"
)

// DispatchRequest is the raw scrape request; slugs are only read by the
// operation that needs them.
type DispatchRequest struct {
	Type        string `json:"type"`
	VPNSlug     string `json:"vpnSlug,omitempty"`
	CountrySlug string `json:"countrySlug,omitempty"`
}

type DispatchResult struct {
	Job    *types.JobRecord
	Result any
}

type JobService interface {
	// Dispatch validates req and runs the matching operation synchronously.
	// Validation errors wrap ErrInvalidArgument and leave no record behind.
	// Operation errors wrap ErrOperationFailed and come with a non-nil result
	// carrying the failed record.
	Dispatch(dbc dbctx.Context, req DispatchRequest) (*DispatchResult, error)
	// RecordUndetermined stores a failed record for a request whose type
	// could not be read at all.
	RecordUndetermined(dbc dbctx.Context, cause error) *types.JobRecord
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.JobRecord, error)
	List(dbc dbctx.Context, filter repos.JobListFilter) ([]*types.JobRecord, error)
}

type jobService struct {
	log      *logger.Logger
	repo     repos.JobRecordRepo
	registry *runtime.Registry
	recorder runtime.Recorder
	worker   *worker.Worker
}

func NewJobService(
	baseLog *logger.Logger,
	repo repos.JobRecordRepo,
	registry *runtime.Registry,
	recorder runtime.Recorder,
	w *worker.Worker,
) JobService {
	return &jobService{
		log:      baseLog.With("service", "JobService"),
		repo:     repo,
		registry: registry,
		recorder: recorder,
		worker:   w,
	}
}

func (s *jobService) Dispatch(dbc dbctx.Context, req DispatchRequest) (*DispatchResult, error) {
	jobType, ok := types.ParseJobType(req.Type)
	if !ok {
		return nil, fmt.Errorf("%w: unknown job type %q", pkgerrors.ErrInvalidArgument, req.Type)
	}
	op, ok := s.registry.Get(jobType)
	if !ok {
		return nil, fmt.Errorf("%w: job type %q has no configured source", pkgerrors.ErrInvalidArgument, jobType)
	}
	subject, err := subjectFor(op, req)
	if err != nil {
		return nil, err
	}
	job, result, err := s.worker.Run(dbc.Ctx, op, subject)
	if err != nil {
		return &DispatchResult{Job: job}, err
	}
	return &DispatchResult{Job: job, Result: result}, nil
}

func subjectFor(op runtime.Operation, req DispatchRequest) (string, error) {
	param := op.SubjectParam()
	var raw string
	switch param {
	case "":
		return "", nil
	case "vpnSlug":
		raw = req.VPNSlug
	case "countrySlug":
		raw = req.CountrySlug
	default:
		return "", fmt.Errorf("operation %s requests unsupported parameter %q", op.Type(), param)
	}
	subject := strings.ToLower(strings.TrimSpace(raw))
	if subject == "" {
		return "", fmt.Errorf("%w: %s is required for %s", pkgerrors.ErrInvalidArgument, param, op.Type())
	}
	return subject, nil
}

func (s *jobService) RecordUndetermined(dbc dbctx.Context, cause error) *types.JobRecord {
	msg := "request could not be decoded"
	if cause != nil {
		msg = msg + ": " + cause.Error()
	}
	now := time.Now().UTC()
	job := &types.JobRecord{
		ID:        uuid.New(),
		Type:      types.JobTypeUnknown,
		Source:    string(types.JobTypeUnknown),
		StartedAt: now,
	}
	job.Fail(msg, now)
	s.recorder.Finish(dbc.Ctx, job, false)
	s.log.Warn("Recorded undetermined scrape request", "job_id", job.ID, "error", msg)
	return job
}

func (s *jobService) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.JobRecord, error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("%w: missing job id", pkgerrors.ErrInvalidArgument)
	}
	return s.repo.GetByID(dbc, id)
}

func (s *jobService) List(dbc dbctx.Context, filter repos.JobListFilter) ([]*types.JobRecord, error) {
	if filter.Type != "" {
		t, ok := types.ParseJobType(string(filter.Type))
		if !ok && !strings.EqualFold(strings.TrimSpace(string(filter.Type)), string(types.JobTypeUnknown)) {
			return nil, fmt.Errorf("%w: unknown job type %q", pkgerrors.ErrInvalidArgument, filter.Type)
		}
		filter.Type = t
	}
	if filter.Status != "" {
		switch st := types.JobStatus(strings.ToLower(strings.TrimSpace(string(filter.Status)))); st {
		case types.JobStatusRunning, types.JobStatusCompleted, types.JobStatusFailed:
			filter.Status = st
		default:
			return nil, fmt.Errorf("%w: unknown job status %q", pkgerrors.ErrInvalidArgument, filter.Status)
		}
	}
	if filter.Limit < 0 {
		return nil, fmt.Errorf("%w: negative limit", pkgerrors.ErrInvalidArgument)
	}
	return s.repo.List(dbc, filter)
}

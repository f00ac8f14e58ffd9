package worker

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/vpnscout-backend/internal/data/repos"
	"github.com/yungbote/vpnscout-backend/internal/data/repos/testutil"
	types "github.com/yungbote/vpnscout-backend/internal/domain"
	"github.com/yungbote/vpnscout-backend/internal/jobs/runtime"
	"github.com/yungbote/vpnscout-backend/internal/observability"
	"github.com/yungbote/vpnscout-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/vpnscout-backend/internal/pkg/errors"
)

type funcOp struct {
	t       types.JobType
	subject string
	run     func(jc *runtime.Context) (any, error)
}

func (o funcOp) Type() types.JobType                  { return o.t }
func (o funcOp) SubjectParam() string                 { return o.subject }
func (o funcOp) Run(jc *runtime.Context) (any, error) { return o.run(jc) }

// failingRepo fails selected writes and delegates everything else.
type failingRepo struct {
	repos.JobRecordRepo
	failCreate bool
	failAll    bool
}

func (r *failingRepo) Create(dbc dbctx.Context, job *types.JobRecord) error {
	if r.failCreate || r.failAll {
		return errors.New("db unavailable")
	}
	return r.JobRecordRepo.Create(dbc, job)
}

func (r *failingRepo) Upsert(dbc dbctx.Context, job *types.JobRecord) error {
	if r.failAll {
		return errors.New("db unavailable")
	}
	return r.JobRecordRepo.Upsert(dbc, job)
}

func newWorker(t *testing.T, repo repos.JobRecordRepo, timeout time.Duration) *Worker {
	t.Helper()
	log := testutil.Logger(t)
	metrics := observability.NewMetrics()
	return NewWorker(log, runtime.NewRecorder(repo, log, metrics), metrics, timeout)
}

func TestRunCompletedRecordsResult(t *testing.T) {
	db := testutil.DB(t)
	repo := repos.NewJobRecordRepo(db, testutil.Logger(t))
	w := newWorker(t, repo, time.Second)

	var seenStatus types.JobStatus
	op := funcOp{t: types.JobTypePricing, subject: "vpnSlug", run: func(jc *runtime.Context) (any, error) {
		stored, err := repo.GetByID(dbctx.From(context.Background()), jc.Job.ID)
		require.NoError(t, err)
		seenStatus = stored.Status
		return map[string]any{"vpnSlug": jc.Subject, "plans": 3}, nil
	}}

	job, result, err := w.Run(context.Background(), op, "nordvpn")
	require.NoError(t, err)
	assert.Equal(t, types.JobStatusRunning, seenStatus)
	assert.Equal(t, map[string]any{"vpnSlug": "nordvpn", "plans": 3}, result)

	stored, err := repo.GetByID(dbctx.From(context.Background()), job.ID)
	require.NoError(t, err)
	assert.Equal(t, types.JobStatusCompleted, stored.Status)
	assert.Equal(t, "pricing:nordvpn", stored.Source)
	require.NotNil(t, stored.SubjectKey)
	assert.Equal(t, "nordvpn", *stored.SubjectKey)
	assert.Nil(t, stored.Error)
	require.NotNil(t, stored.CompletedAt)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(stored.Result, &decoded))
	assert.Equal(t, float64(3), decoded["plans"])
	assert.EqualValues(t, 1, testutil.CountRows(t, db, &types.JobRecord{}))
}

func TestRunAdapterFailureRecordsFailed(t *testing.T) {
	db := testutil.DB(t)
	repo := repos.NewJobRecordRepo(db, testutil.Logger(t))
	w := newWorker(t, repo, time.Second)

	op := funcOp{t: types.JobTypeNews, run: func(*runtime.Context) (any, error) {
		return nil, errors.New("upstream 503")
	}}
	job, result, err := w.Run(context.Background(), op, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, pkgerrors.ErrOperationFailed))
	assert.Nil(t, result)

	stored, gerr := repo.GetByID(dbctx.From(context.Background()), job.ID)
	require.NoError(t, gerr)
	assert.Equal(t, types.JobStatusFailed, stored.Status)
	assert.Equal(t, "news:all", stored.Source)
	assert.Nil(t, stored.SubjectKey)
	require.NotNil(t, stored.Error)
	assert.Equal(t, "upstream 503", *stored.Error)
	assert.Empty(t, stored.Result)
}

func TestRunPanicIsRecordedAsFailure(t *testing.T) {
	db := testutil.DB(t)
	repo := repos.NewJobRecordRepo(db, testutil.Logger(t))
	w := newWorker(t, repo, time.Second)

	op := funcOp{t: types.JobTypeVPNData, run: func(*runtime.Context) (any, error) {
		panic("nil map write")
	}}
	job, _, err := w.Run(context.Background(), op, "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, pkgerrors.ErrOperationFailed))

	stored, gerr := repo.GetByID(dbctx.From(context.Background()), job.ID)
	require.NoError(t, gerr)
	assert.Equal(t, types.JobStatusFailed, stored.Status)
	require.NotNil(t, stored.Error)
	assert.True(t, strings.Contains(*stored.Error, "nil map write"))
}

func TestRunTimeoutFailsJob(t *testing.T) {
	db := testutil.DB(t)
	repo := repos.NewJobRecordRepo(db, testutil.Logger(t))
	w := newWorker(t, repo, 20*time.Millisecond)

	op := funcOp{t: types.JobTypeNews, run: func(jc *runtime.Context) (any, error) {
		<-jc.Ctx.Done()
		return nil, jc.Ctx.Err()
	}}
	job, _, err := w.Run(context.Background(), op, "")
	require.Error(t, err)

	stored, gerr := repo.GetByID(dbctx.From(context.Background()), job.ID)
	require.NoError(t, gerr)
	assert.Equal(t, types.JobStatusFailed, stored.Status)
	assert.True(t, strings.Contains(*stored.Error, context.DeadlineExceeded.Error()))
}

func TestRunStartWriteFailureStillStoresTerminalRow(t *testing.T) {
	db := testutil.DB(t)
	base := repos.NewJobRecordRepo(db, testutil.Logger(t))
	w := newWorker(t, &failingRepo{JobRecordRepo: base, failCreate: true}, time.Second)

	op := funcOp{t: types.JobTypeNews, run: func(*runtime.Context) (any, error) { return []string{"a"}, nil }}
	job, result, err := w.Run(context.Background(), op, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, result)

	stored, gerr := base.GetByID(dbctx.From(context.Background()), job.ID)
	require.NoError(t, gerr)
	assert.Equal(t, types.JobStatusCompleted, stored.Status)
}

func TestRunPersistenceFailureDoesNotChangeOutcome(t *testing.T) {
	db := testutil.DB(t)
	base := repos.NewJobRecordRepo(db, testutil.Logger(t))

	ok := funcOp{t: types.JobTypeNews, run: func(*runtime.Context) (any, error) { return "fine", nil }}
	bad := funcOp{t: types.JobTypeNews, run: func(*runtime.Context) (any, error) { return nil, errors.New("down") }}

	healthy := newWorker(t, base, time.Second)
	broken := newWorker(t, &failingRepo{JobRecordRepo: base, failAll: true}, time.Second)

	for _, op := range []funcOp{ok, bad} {
		j1, r1, e1 := healthy.Run(context.Background(), op, "")
		j2, r2, e2 := broken.Run(context.Background(), op, "")
		assert.Equal(t, r1, r2)
		assert.Equal(t, e1 == nil, e2 == nil)
		assert.Equal(t, j1.Status, j2.Status)
	}
	// Only the healthy worker's two rows exist.
	assert.EqualValues(t, 2, testutil.CountRows(t, db, &types.JobRecord{}))
}

func TestRunEncodeFailureFailsJob(t *testing.T) {
	db := testutil.DB(t)
	repo := repos.NewJobRecordRepo(db, testutil.Logger(t))
	w := newWorker(t, repo, time.Second)

	op := funcOp{t: types.JobTypeNews, run: func(*runtime.Context) (any, error) {
		return map[string]any{"c": make(chan int)}, nil
	}}
	job, _, err := w.Run(context.Background(), op, "")
	require.Error(t, err)
	assert.Equal(t, types.JobStatusFailed, job.Status)
	assert.NotEqual(t, uuid.Nil, job.ID)
}

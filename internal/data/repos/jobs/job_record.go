package jobs

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yungbote/vpnscout-backend/internal/data/dberr"
	types "github.com/yungbote/vpnscout-backend/internal/domain"
	"github.com/yungbote/vpnscout-backend/internal/pkg/dbctx"
	pkgerrors "github.com/yungbote/vpnscout-backend/internal/pkg/errors"
	"github.com/yungbote/vpnscout-backend/internal/pkg/logger"
)

const (
	DefaultListLimit = 50
	MaxListLimit     = 200
)

type ListFilter struct {
	Type       types.JobType
	Status     types.JobStatus
	SubjectKey string
	Limit      int
}

// JobRecordRepo is append-only: rows are inserted, moved out of running once, and never deleted.
type JobRecordRepo interface {
	Create(dbc dbctx.Context, job *types.JobRecord) error
	Upsert(dbc dbctx.Context, job *types.JobRecord) error
	// Transition applies updates only while the row is still running.
	Transition(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) (bool, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.JobRecord, error)
	List(dbc dbctx.Context, filter ListFilter) ([]*types.JobRecord, error)
}

type jobRecordRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewJobRecordRepo(db *gorm.DB, baseLog *logger.Logger) JobRecordRepo {
	return &jobRecordRepo{
		db:  db,
		log: baseLog.With("repo", "JobRecordRepo"),
	}
}

func (r *jobRecordRepo) Create(dbc dbctx.Context, job *types.JobRecord) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if job == nil {
		return fmt.Errorf("nil job record")
	}
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	if job.StartedAt.IsZero() {
		job.StartedAt = time.Now().UTC()
	}
	return transaction.WithContext(dbc.Ctx).Create(job).Error
}

func (r *jobRecordRepo) Upsert(dbc dbctx.Context, job *types.JobRecord) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if job == nil || job.ID == uuid.Nil {
		return fmt.Errorf("job record upsert requires an id")
	}
	return transaction.WithContext(dbc.Ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).
		Create(job).Error
}

func (r *jobRecordRepo) Transition(dbc dbctx.Context, id uuid.UUID, updates map[string]interface{}) (bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil || len(updates) == 0 {
		return false, nil
	}
	res := transaction.WithContext(dbc.Ctx).
		Model(&types.JobRecord{}).
		Where("id = ? AND status = ?", id, types.JobStatusRunning).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *jobRecordRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.JobRecord, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	var job types.JobRecord
	err := transaction.WithContext(dbc.Ctx).
		Where("id = ?", id).
		First(&job).Error
	if dberr.IsNotFound(err) {
		return nil, fmt.Errorf("job %s: %w", id, pkgerrors.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *jobRecordRepo) List(dbc dbctx.Context, filter ListFilter) ([]*types.JobRecord, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	q := transaction.WithContext(dbc.Ctx).Model(&types.JobRecord{})
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if s := strings.TrimSpace(filter.SubjectKey); s != "" {
		q = q.Where("subject_key = ?", s)
	}
	out := []*types.JobRecord{}
	if err := q.Order("started_at DESC").Order("id ASC").Limit(limit).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

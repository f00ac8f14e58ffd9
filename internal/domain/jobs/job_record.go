package jobs

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type JobType string

const (
	JobTypeVPNData    JobType = "vpn-data"
	JobTypePricing    JobType = "pricing"
	JobTypeNews       JobType = "news"
	JobTypeCountryVPN JobType = "country-vpn"
	// JobTypeUnknown is only recorded when a request failed before its type could be read.
	JobTypeUnknown JobType = "unknown"
)

// DispatchableTypes is the closed set of operations the dispatcher accepts.
var DispatchableTypes = []JobType{JobTypeVPNData, JobTypePricing, JobTypeNews, JobTypeCountryVPN}

func ParseJobType(raw string) (JobType, bool) {
	t := JobType(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range DispatchableTypes {
		if t == known {
			return t, true
		}
	}
	return JobTypeUnknown, false
}

type JobStatus string

const (
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// JobRecord is the audit row for one dispatched scrape/sync operation.
// JSON field names are read by the admin job listing.
type JobRecord struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Type        JobType        `gorm:"column:type;not null;index" json:"type"`
	Source      string         `gorm:"column:source;not null" json:"source"`
	SubjectKey  *string        `gorm:"column:subject_key;index" json:"subjectKey,omitempty"`
	Status      JobStatus      `gorm:"column:status;not null;index" json:"status"`
	Result      datatypes.JSON `gorm:"column:result" json:"result,omitempty"`
	Error       *string        `gorm:"column:error" json:"error,omitempty"`
	StartedAt   time.Time      `gorm:"column:started_at;not null;index" json:"startedAt"`
	CompletedAt *time.Time     `gorm:"column:completed_at" json:"completedAt,omitempty"`
}

func (JobRecord) TableName() string { return "scrape_job" }

// Complete moves a running record to completed. Result and error are mutually exclusive.
func (j *JobRecord) Complete(result datatypes.JSON, at time.Time) {
	j.Status = JobStatusCompleted
	j.Result = result
	j.Error = nil
	j.CompletedAt = &at
}

func (j *JobRecord) Fail(msg string, at time.Time) {
	if strings.TrimSpace(msg) == "" {
		msg = "unknown error"
	}
	j.Status = JobStatusFailed
	j.Result = nil
	j.Error = &msg
	j.CompletedAt = &at
}

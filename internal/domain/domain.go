package domain

import (
	"github.com/yungbote/vpnscout-backend/internal/domain/affiliate"
	"github.com/yungbote/vpnscout-backend/internal/domain/content"
	"github.com/yungbote/vpnscout-backend/internal/domain/jobs"
)

type JobType = jobs.JobType
type JobStatus = jobs.JobStatus
type JobRecord = jobs.JobRecord

const (
	JobTypeVPNData    = jobs.JobTypeVPNData
	JobTypePricing    = jobs.JobTypePricing
	JobTypeNews       = jobs.JobTypeNews
	JobTypeCountryVPN = jobs.JobTypeCountryVPN
	JobTypeUnknown    = jobs.JobTypeUnknown

	JobStatusRunning   = jobs.JobStatusRunning
	JobStatusCompleted = jobs.JobStatusCompleted
	JobStatusFailed    = jobs.JobStatusFailed
)

var ParseJobType = jobs.ParseJobType

type AffiliateLink = affiliate.Link
type ExternalLink = affiliate.ExternalLink

type Post = content.Post
type PostSummary = content.PostSummary

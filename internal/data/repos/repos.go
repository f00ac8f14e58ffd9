package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/vpnscout-backend/internal/data/repos/affiliate"
	"github.com/yungbote/vpnscout-backend/internal/data/repos/content"
	"github.com/yungbote/vpnscout-backend/internal/data/repos/jobs"
	"github.com/yungbote/vpnscout-backend/internal/pkg/logger"
)

type JobRecordRepo = jobs.JobRecordRepo
type JobListFilter = jobs.ListFilter
type AffiliateLinkRepo = affiliate.LinkRepo
type PostRepo = content.PostRepo

func NewJobRecordRepo(db *gorm.DB, baseLog *logger.Logger) JobRecordRepo {
	return jobs.NewJobRecordRepo(db, baseLog)
}
func NewAffiliateLinkRepo(db *gorm.DB, baseLog *logger.Logger) AffiliateLinkRepo {
	return affiliate.NewLinkRepo(db, baseLog)
}
func NewPostRepo(db *gorm.DB, baseLog *logger.Logger) PostRepo {
	return content.NewPostRepo(db, baseLog)
}

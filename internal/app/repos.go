package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/vpnscout-backend/internal/data/repos"
	"github.com/yungbote/vpnscout-backend/internal/pkg/logger"
)

type Repos struct {
	JobRecord     repos.JobRecordRepo
	AffiliateLink repos.AffiliateLinkRepo
	Post          repos.PostRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		JobRecord:     repos.NewJobRecordRepo(db, log),
		AffiliateLink: repos.NewAffiliateLinkRepo(db, log),
		Post:          repos.NewPostRepo(db, log),
	}
}

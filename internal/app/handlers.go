package app

import (
	"context"

	"gorm.io/gorm"

	httpH "github.com/yungbote/vpnscout-backend/internal/http/handlers"
	"github.com/yungbote/vpnscout-backend/internal/pkg/logger"
)

type Handlers struct {
	Sync      *httpH.SyncHandler
	Job       *httpH.JobHandler
	Post      *httpH.PostHandler
	Affiliate *httpH.AffiliateHandler
	Health    *httpH.HealthHandler
}

func wireHandlers(log *logger.Logger, db *gorm.DB, serviceset Services) Handlers {
	log.Info("Wiring handlers...")
	ping := func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
	return Handlers{
		Sync:      httpH.NewSyncHandler(log, serviceset.Jobs, serviceset.AffiliateSync),
		Job:       httpH.NewJobHandler(serviceset.Jobs),
		Post:      httpH.NewPostHandler(serviceset.PostSummary),
		Affiliate: httpH.NewAffiliateHandler(serviceset.AffiliateSync),
		Health:    httpH.NewHealthHandler(ping),
	}
}

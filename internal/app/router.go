package app

import (
	"github.com/gin-gonic/gin"

	apphttp "github.com/yungbote/vpnscout-backend/internal/http"
	httpMW "github.com/yungbote/vpnscout-backend/internal/http/middleware"
	"github.com/yungbote/vpnscout-backend/internal/observability"
	"github.com/yungbote/vpnscout-backend/internal/pkg/logger"
)

func wireRouter(log *logger.Logger, cfg Config, handlerset Handlers, metrics *observability.Metrics) *gin.Engine {
	log.Info("Wiring router...")
	var serviceName string
	if cfg.Otel.Enabled {
		serviceName = cfg.Otel.ServiceName
	}
	return apphttp.NewRouter(apphttp.RouterConfig{
		Log:              log,
		ServiceName:      serviceName,
		AllowedOrigins:   cfg.AllowedOrigins,
		Metrics:          metrics,
		SecretAuth:       httpMW.NewSecretAuth(log, cfg.SyncSecret),
		SyncHandler:      handlerset.Sync,
		JobHandler:       handlerset.Job,
		PostHandler:      handlerset.Post,
		AffiliateHandler: handlerset.Affiliate,
		HealthHandler:    handlerset.Health,
	})
}

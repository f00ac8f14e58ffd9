package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/vpnscout-backend/internal/http/handlers"
	httpMW "github.com/yungbote/vpnscout-backend/internal/http/middleware"
	"github.com/yungbote/vpnscout-backend/internal/observability"
	"github.com/yungbote/vpnscout-backend/internal/pkg/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	AllowedOrigins []string
	Metrics        *observability.Metrics
	SecretAuth     *httpMW.SecretAuth

	SyncHandler      *httpH.SyncHandler
	JobHandler       *httpH.JobHandler
	PostHandler      *httpH.PostHandler
	AffiliateHandler *httpH.AffiliateHandler
	HealthHandler    *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := r.Group("/api")
	{
		// Public content
		if cfg.PostHandler != nil {
			api.GET("/posts/summaries", cfg.PostHandler.GetSummaries)
		}
		if cfg.AffiliateHandler != nil {
			api.GET("/vpns/:slug/affiliate-links", cfg.AffiliateHandler.ListForVPN)
		}
	}

	protected := api.Group("/")
	{
		// Without a SecretAuth every protected route answers 401.
		if cfg.SecretAuth != nil {
			protected.Use(cfg.SecretAuth.Require())
		} else {
			protected.Use(httpMW.NewSecretAuth(logger.Nop(), "").Require())
		}

		if cfg.SyncHandler != nil {
			protected.POST("/sync/scrape", cfg.SyncHandler.Scrape)
			protected.POST("/sync/affiliate-links", cfg.SyncHandler.ReconcileAffiliateLinks)
		}
		if cfg.JobHandler != nil {
			protected.GET("/sync/jobs", cfg.JobHandler.ListJobs)
			protected.GET("/sync/jobs/:id", cfg.JobHandler.GetJob)
		}
		if cfg.PostHandler != nil {
			protected.POST("/posts/summaries/invalidate", cfg.PostHandler.InvalidateSummaries)
		}
	}

	return r
}

package app

import (
	"time"

	"github.com/joho/godotenv"

	"github.com/yungbote/vpnscout-backend/internal/clients/linktracker"
	"github.com/yungbote/vpnscout-backend/internal/clients/redis"
	"github.com/yungbote/vpnscout-backend/internal/clients/sources"
	"github.com/yungbote/vpnscout-backend/internal/data/db"
	"github.com/yungbote/vpnscout-backend/internal/jobs/worker"
	"github.com/yungbote/vpnscout-backend/internal/observability"
	"github.com/yungbote/vpnscout-backend/internal/pkg/logger"
	"github.com/yungbote/vpnscout-backend/internal/platform/envutil"
	"github.com/yungbote/vpnscout-backend/internal/services"
)

const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

type Config struct {
	Port           string
	LogMode        string
	SyncSecret     string
	AllowedOrigins []string

	DB          db.Config
	Sources     sources.Config
	LinkTracker linktracker.Config
	Redis       redis.Config
	Otel        observability.OtelConfig

	AdapterTimeout       time.Duration
	ReconcileConcurrency int
	SlugTablePath        string
	CacheBackend         string
}

// LoadDotEnv reads .env when present; real environment variables win.
func LoadDotEnv() error {
	return godotenv.Load()
}

func LoadConfig(log *logger.Logger) Config {
	maxRetries := envutil.Int("SOURCE_MAX_RETRIES", 3)
	requestTimeout := envutil.Duration("SOURCE_REQUEST_TIMEOUT", 30*time.Second)
	cfg := Config{
		Port:           envutil.String("PORT", "8080"),
		LogMode:        envutil.String("LOG_MODE", "development"),
		SyncSecret:     envutil.String("SYNC_SECRET", ""),
		AllowedOrigins: envutil.List("CORS_ALLOWED_ORIGINS", nil),
		DB: db.Config{
			Driver:           envutil.String("DB_DRIVER", "postgres"),
			PostgresHost:     envutil.String("POSTGRES_HOST", "localhost"),
			PostgresPort:     envutil.String("POSTGRES_PORT", "5432"),
			PostgresUser:     envutil.String("POSTGRES_USER", "postgres"),
			PostgresPassword: envutil.String("POSTGRES_PASSWORD", ""),
			PostgresName:     envutil.String("POSTGRES_NAME", "vpnscout"),
			PostgresSSLMode:  envutil.String("POSTGRES_SSLMODE", "disable"),
			SQLitePath:       envutil.String("SQLITE_PATH", "vpnscout.db"),
		},
		Sources: sources.Config{
			VPNCatalogURL:         envutil.String("VPN_CATALOG_URL", ""),
			PricingURLTemplate:    envutil.String("PRICING_URL_TEMPLATE", ""),
			NewsURL:               envutil.String("NEWS_URL", ""),
			CountryVPNURLTemplate: envutil.String("COUNTRY_VPN_URL_TEMPLATE", ""),
			UserAgent:             envutil.String("SOURCE_USER_AGENT", ""),
			RequestTimeout:        requestTimeout,
			MaxRetries:            maxRetries,
			RetryBackoff:          envutil.Duration("SOURCE_RETRY_BACKOFF", 500*time.Millisecond),
		},
		LinkTracker: linktracker.Config{
			BaseURL:        envutil.String("LINK_TRACKER_URL", ""),
			APIKey:         envutil.String("LINK_TRACKER_API_KEY", ""),
			PageSize:       envutil.Int("LINK_TRACKER_PAGE_SIZE", 100),
			RequestTimeout: requestTimeout,
			MaxRetries:     maxRetries,
		},
		Redis: redis.Config{
			Addr:     envutil.String("REDIS_ADDR", ""),
			Password: envutil.String("REDIS_PASSWORD", ""),
			DB:       envutil.Int("REDIS_DB", 0),
			Prefix:   envutil.String("REDIS_PREFIX", "vpnscout"),
			TTL:      envutil.Duration("CONTENT_CACHE_TTL", 0),
		},
		Otel: observability.OtelConfig{
			Enabled:     envutil.Bool("OTEL_ENABLED", false),
			ServiceName: envutil.String("OTEL_SERVICE_NAME", "vpnscout-backend"),
			Environment: envutil.String("APP_ENV", "development"),
			Version:     envutil.String("APP_VERSION", ""),
			Endpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Headers:     observability.ParseHeaders(envutil.String("OTEL_EXPORTER_OTLP_HEADERS", "")),
			Insecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", false),
			SampleRatio: envutil.Float("OTEL_SAMPLER_RATIO", 0.1),
		},
		AdapterTimeout:       envutil.Duration("ADAPTER_TIMEOUT", worker.DefaultTimeout),
		ReconcileConcurrency: envutil.Int("RECONCILE_CONCURRENCY", services.DefaultReconcileConcurrency),
		SlugTablePath:        envutil.String("SLUG_TABLE_PATH", ""),
		CacheBackend:         envutil.String("CONTENT_CACHE_BACKEND", CacheBackendMemory),
	}
	if cfg.SyncSecret == "" {
		log.Warn("SYNC_SECRET is empty; every sync endpoint will answer 401")
	}
	return cfg
}

package app

import (
	"fmt"
	"strings"

	"github.com/yungbote/vpnscout-backend/internal/affiliate/slugmatch"
	"github.com/yungbote/vpnscout-backend/internal/clients/redis"
	"github.com/yungbote/vpnscout-backend/internal/jobs/operations"
	"github.com/yungbote/vpnscout-backend/internal/jobs/runtime"
	"github.com/yungbote/vpnscout-backend/internal/jobs/worker"
	"github.com/yungbote/vpnscout-backend/internal/observability"
	"github.com/yungbote/vpnscout-backend/internal/pkg/logger"
	"github.com/yungbote/vpnscout-backend/internal/services"
)

type Services struct {
	Jobs          services.JobService
	AffiliateSync services.AffiliateSyncService
	PostSummary   services.PostSummaryService
	SummaryCache  services.SummaryCache
}

func wireServices(log *logger.Logger, cfg Config, reposet Repos, clients Clients, metrics *observability.Metrics) (Services, error) {
	log.Info("Wiring services...")

	registry := runtime.NewRegistry()
	if err := operations.RegisterAll(registry, operations.Sources{
		VPNData:    clients.Sources,
		Pricing:    clients.Sources,
		News:       clients.Sources,
		CountryVPN: clients.Sources,
	}); err != nil {
		return Services{}, fmt.Errorf("register operations: %w", err)
	}
	recorder := runtime.NewRecorder(reposet.JobRecord, log, metrics)
	jobWorker := worker.NewWorker(log, recorder, metrics, cfg.AdapterTimeout)

	matcher := slugmatch.Default()
	if cfg.SlugTablePath != "" {
		m, err := slugmatch.LoadFile(cfg.SlugTablePath)
		if err != nil {
			return Services{}, fmt.Errorf("load slug table: %w", err)
		}
		matcher = m
	}
	log.Info("Slug table loaded", "slugs", matcher.Slugs())

	var cache services.SummaryCache
	switch strings.ToLower(cfg.CacheBackend) {
	case CacheBackendRedis:
		cache = redis.NewSummaryCache(clients.Redis, cfg.Redis, log)
	case "", CacheBackendMemory:
		cache = services.NewMemorySummaryCache()
	default:
		return Services{}, fmt.Errorf("unsupported CONTENT_CACHE_BACKEND %q", cfg.CacheBackend)
	}

	affiliateSync := services.NewAffiliateSyncService(
		log,
		clients.LinkTracker,
		reposet.AffiliateLink,
		matcher,
		metrics,
		services.AffiliateSyncConfig{Concurrency: cfg.ReconcileConcurrency},
	)

	return Services{
		Jobs:          services.NewJobService(log, reposet.JobRecord, registry, recorder, jobWorker),
		AffiliateSync: affiliateSync,
		PostSummary:   services.NewPostSummaryService(log, reposet.Post, cache, metrics),
		SummaryCache:  cache,
	}, nil
}

package app

import (
	"context"
	"fmt"
	"strings"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/vpnscout-backend/internal/clients/linktracker"
	"github.com/yungbote/vpnscout-backend/internal/clients/redis"
	"github.com/yungbote/vpnscout-backend/internal/clients/sources"
	"github.com/yungbote/vpnscout-backend/internal/pkg/logger"
)

type Clients struct {
	Sources     *sources.Client
	LinkTracker *linktracker.Client
	// Redis is nil unless the Redis cache backend is selected.
	Redis *goredis.Client
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")
	out := Clients{
		Sources:     sources.NewClient(cfg.Sources, log),
		LinkTracker: linktracker.NewClient(cfg.LinkTracker, log),
	}
	if strings.EqualFold(cfg.CacheBackend, CacheBackendRedis) {
		rdb, err := redis.NewClient(ctx, cfg.Redis)
		if err != nil {
			return Clients{}, fmt.Errorf("init redis: %w", err)
		}
		out.Redis = rdb
	}
	return out, nil
}

func (c Clients) Close() {
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
}

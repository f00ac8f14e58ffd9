package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	types "github.com/yungbote/vpnscout-backend/internal/domain"
	"github.com/yungbote/vpnscout-backend/internal/pkg/logger"
)

type Config struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	// TTL of zero keeps entries until they are invalidated.
	TTL time.Duration
}

// NewClient dials and pings Redis.
func NewClient(ctx context.Context, cfg Config) (*goredis.Client, error) {
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

// SummaryCache keeps post summaries as one JSON value per language.
type SummaryCache struct {
	log    *logger.Logger
	rdb    goredis.UniversalClient
	prefix string
	ttl    time.Duration
}

func NewSummaryCache(rdb goredis.UniversalClient, cfg Config, baseLog *logger.Logger) *SummaryCache {
	prefix := strings.TrimSpace(cfg.Prefix)
	if prefix == "" {
		prefix = "vpnscout"
	}
	return &SummaryCache{
		log:    baseLog.With("client", "RedisSummaryCache"),
		rdb:    rdb,
		prefix: prefix + ":post-summaries:",
		ttl:    cfg.TTL,
	}
}

func (c *SummaryCache) key(language string) string { return c.prefix + language }

func (c *SummaryCache) Get(ctx context.Context, language string) ([]types.PostSummary, bool, error) {
	raw, err := c.rdb.Get(ctx, c.key(language)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var out []types.PostSummary
	if err := json.Unmarshal(raw, &out); err != nil {
		// Treat a corrupt entry as a miss; the next Set replaces it.
		c.log.Warn("Discarding undecodable summary cache entry", "language", language, "error", err)
		return nil, false, nil
	}
	if out == nil {
		out = []types.PostSummary{}
	}
	return out, true, nil
}

func (c *SummaryCache) Set(ctx context.Context, language string, summaries []types.PostSummary) error {
	if summaries == nil {
		summaries = []types.PostSummary{}
	}
	raw, err := json.Marshal(summaries)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, c.key(language), raw, c.ttl).Err()
}

func (c *SummaryCache) Invalidate(ctx context.Context, language string) error {
	return c.rdb.Del(ctx, c.key(language)).Err()
}

func (c *SummaryCache) InvalidateAll(ctx context.Context) error {
	var cursor uint64
	for {
		keys, next, err := c.rdb.Scan(ctx, cursor, c.prefix+"*", 100).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

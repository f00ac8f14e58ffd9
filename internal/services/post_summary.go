package services

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/yungbote/vpnscout-backend/internal/data/repos"
	types "github.com/yungbote/vpnscout-backend/internal/domain"
	"github.com/yungbote/vpnscout-backend/internal/observability"
	"github.com/yungbote/vpnscout-backend/internal/pkg/dbctx"
	"github.com/yungbote/vpnscout-backend/internal/pkg/logger"
)

const DefaultLanguage = "en"

// summaryLoadTimeout bounds a shared store read, which outlives the caller that started it.
const summaryLoadTimeout = 30 * time.Second

type PostSummaryService interface {
	// GetSummaries returns published summaries for language, newest first.
	GetSummaries(ctx context.Context, language string) ([]types.PostSummary, error)
	// Invalidate drops one language, or every language when language is empty.
	Invalidate(ctx context.Context, language string) error
}

type postSummaryService struct {
	log     *logger.Logger
	repo    repos.PostRepo
	cache   SummaryCache
	metrics *observability.Metrics
	group   singleflight.Group

	// generations advance on every invalidation; a load started under an
	// older generation never writes the cache.
	mu          sync.Mutex
	epoch       uint64
	generations map[string]uint64
}

func NewPostSummaryService(baseLog *logger.Logger, repo repos.PostRepo, cache SummaryCache, metrics *observability.Metrics) PostSummaryService {
	if cache == nil {
		cache = NewMemorySummaryCache()
	}
	return &postSummaryService{
		log:         baseLog.With("service", "PostSummaryService"),
		repo:        repo,
		cache:       cache,
		metrics:     metrics,
		generations: make(map[string]uint64),
	}
}

func normalizeLanguage(language string) string {
	language = strings.ToLower(strings.TrimSpace(language))
	if language == "" {
		return DefaultLanguage
	}
	return language
}

func (s *postSummaryService) GetSummaries(ctx context.Context, language string) ([]types.PostSummary, error) {
	language = normalizeLanguage(language)

	cached, ok, err := s.cache.Get(ctx, language)
	if err != nil {
		s.log.Warn("Summary cache read failed; reading store", "language", language, "error", err)
	} else if ok {
		s.metrics.IncCacheLookup("hit")
		return cached, nil
	}
	s.metrics.IncCacheLookup("miss")

	gen := s.generation(language)
	ch := s.group.DoChan(flightKey(language, gen), func() (interface{}, error) {
		return s.load(ctx, language, gen)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return cloneSummaries(res.Val.([]types.PostSummary)), nil
	}
}

func (s *postSummaryService) load(ctx context.Context, language string, gen uint64) ([]types.PostSummary, error) {
	loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), summaryLoadTimeout)
	defer cancel()

	summaries, err := s.repo.ListPublishedSummaries(dbctx.Context{Ctx: loadCtx}, language)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generationLocked(language) != gen {
		s.log.Debug("Summary cache invalidated during load; not caching", "language", language)
		return summaries, nil
	}
	if err := s.cache.Set(loadCtx, language, summaries); err != nil {
		s.log.Warn("Summary cache write failed", "language", language, "error", err)
	}
	return summaries, nil
}

func (s *postSummaryService) Invalidate(ctx context.Context, language string) error {
	language = strings.ToLower(strings.TrimSpace(language))
	if language == "" {
		s.mu.Lock()
		s.epoch++
		s.mu.Unlock()
		s.log.Info("Invalidating all post summary caches")
		return s.cache.InvalidateAll(ctx)
	}
	s.mu.Lock()
	prev := s.generationLocked(language)
	s.generations[language]++
	s.mu.Unlock()
	s.group.Forget(flightKey(language, prev))
	s.log.Info("Invalidating post summary cache", "language", language)
	return s.cache.Invalidate(ctx, language)
}

func (s *postSummaryService) generation(language string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generationLocked(language)
}

// generationLocked requires s.mu. Both counters only grow, so their sum
// changes whenever either one does.
func (s *postSummaryService) generationLocked(language string) uint64 {
	return s.epoch + s.generations[language]
}

func flightKey(language string, gen uint64) string {
	return language + "#" + strconv.FormatUint(gen, 10)
}

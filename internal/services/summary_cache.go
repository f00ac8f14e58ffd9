package services

import (
	"context"
	"sync"

	types "github.com/yungbote/vpnscout-backend/internal/domain"
)

// SummaryCache stores published post summaries per language. Entries are
// only ever replaced or dropped as a whole.
type SummaryCache interface {
	// Get reports ok=false on a miss.
	Get(ctx context.Context, language string) (summaries []types.PostSummary, ok bool, err error)
	Set(ctx context.Context, language string, summaries []types.PostSummary) error
	Invalidate(ctx context.Context, language string) error
	InvalidateAll(ctx context.Context) error
}

type memorySummaryCache struct {
	mu      sync.RWMutex
	entries map[string][]types.PostSummary
}

func NewMemorySummaryCache() SummaryCache {
	return &memorySummaryCache{entries: map[string][]types.PostSummary{}}
}

func (c *memorySummaryCache) Get(_ context.Context, language string) ([]types.PostSummary, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.entries[language]
	if !ok {
		return nil, false, nil
	}
	return cloneSummaries(v), true, nil
}

func (c *memorySummaryCache) Set(_ context.Context, language string, summaries []types.PostSummary) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[language] = cloneSummaries(summaries)
	return nil
}

func (c *memorySummaryCache) Invalidate(_ context.Context, language string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, language)
	return nil
}

func (c *memorySummaryCache) InvalidateAll(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = map[string][]types.PostSummary{}
	return nil
}

// Callers may append to what they get back; entries must not alias it.
func cloneSummaries(in []types.PostSummary) []types.PostSummary {
	out := make([]types.PostSummary, len(in))
	copy(out, in)
	return out
}

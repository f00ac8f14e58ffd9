package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/vpnscout-backend/internal/data/repos"
	"github.com/yungbote/vpnscout-backend/internal/data/repos/testutil"
	types "github.com/yungbote/vpnscout-backend/internal/domain"
	"github.com/yungbote/vpnscout-backend/internal/pkg/dbctx"
)

type countingPostRepo struct {
	repos.PostRepo
	calls atomic.Int32
	gate  chan struct{}
}

func (r *countingPostRepo) ListPublishedSummaries(dbc dbctx.Context, language string) ([]types.PostSummary, error) {
	r.calls.Add(1)
	if r.gate != nil {
		<-r.gate
	}
	return r.PostRepo.ListPublishedSummaries(dbc, language)
}

type brokenCache struct{}

func (brokenCache) Get(context.Context, string) ([]types.PostSummary, bool, error) {
	return nil, false, errors.New("connection refused")
}
func (brokenCache) Set(context.Context, string, []types.PostSummary) error {
	return errors.New("connection refused")
}
func (brokenCache) Invalidate(context.Context, string) error { return nil }
func (brokenCache) InvalidateAll(context.Context) error      { return nil }

func seedPosts(t *testing.T) (*countingPostRepo, func(lang, slug string, published bool, at time.Time)) {
	t.Helper()
	db := testutil.DB(t)
	repo := &countingPostRepo{PostRepo: repos.NewPostRepo(db, testutil.Logger(t))}
	seed := func(lang, slug string, published bool, at time.Time) {
		testutil.SeedPost(t, context.Background(), db, lang, slug, published, at)
	}
	return repo, seed
}

func TestGetSummariesMatchesStoreAndCaches(t *testing.T) {
	repo, seed := seedPosts(t)
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	seed("en", "older", true, base)
	seed("en", "newer", true, base.Add(time.Hour))
	seed("en", "draft", false, base.Add(2*time.Hour))
	seed("de", "german", true, base)

	svc := NewPostSummaryService(testutil.Logger(t), repo, NewMemorySummaryCache(), nil)
	ctx := context.Background()

	direct, err := repo.PostRepo.ListPublishedSummaries(dbctx.From(ctx), "en")
	require.NoError(t, err)

	first, err := svc.GetSummaries(ctx, "EN")
	require.NoError(t, err)
	if diff := cmp.Diff(direct, first); diff != "" {
		t.Fatalf("summaries mismatch (-store +service):\n%s", diff)
	}
	require.Len(t, first, 2)
	assert.Equal(t, "newer", first[0].Slug)

	second, err := svc.GetSummaries(ctx, "en")
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(first, second))
	assert.EqualValues(t, 1, repo.calls.Load())

	de, err := svc.GetSummaries(ctx, "de")
	require.NoError(t, err)
	require.Len(t, de, 1)
	assert.EqualValues(t, 2, repo.calls.Load())
}

func TestGetSummariesDefaultsLanguage(t *testing.T) {
	repo, seed := seedPosts(t)
	seed("en", "hello", true, time.Now())
	svc := NewPostSummaryService(testutil.Logger(t), repo, nil, nil)

	got, err := svc.GetSummaries(context.Background(), "  ")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestInvalidateForcesReload(t *testing.T) {
	repo, seed := seedPosts(t)
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	seed("en", "a", true, base)
	seed("fr", "b", true, base)
	svc := NewPostSummaryService(testutil.Logger(t), repo, NewMemorySummaryCache(), nil)
	ctx := context.Background()

	_, err := svc.GetSummaries(ctx, "en")
	require.NoError(t, err)
	_, err = svc.GetSummaries(ctx, "fr")
	require.NoError(t, err)

	seed("en", "c", true, base.Add(time.Hour))
	stale, err := svc.GetSummaries(ctx, "en")
	require.NoError(t, err)
	assert.Len(t, stale, 1)

	require.NoError(t, svc.Invalidate(ctx, "en"))
	fresh, err := svc.GetSummaries(ctx, "en")
	require.NoError(t, err)
	require.Len(t, fresh, 2)
	assert.Equal(t, "c", fresh[0].Slug)
	assert.EqualValues(t, 3, repo.calls.Load())

	require.NoError(t, svc.Invalidate(ctx, ""))
	_, err = svc.GetSummaries(ctx, "fr")
	require.NoError(t, err)
	assert.EqualValues(t, 4, repo.calls.Load())
}

func TestConcurrentMissesQueryOnce(t *testing.T) {
	repo, seed := seedPosts(t)
	seed("en", "a", true, time.Now())
	repo.gate = make(chan struct{})
	svc := NewPostSummaryService(testutil.Logger(t), repo, NewMemorySummaryCache(), nil)

	const callers = 8
	var wg sync.WaitGroup
	results := make([][]types.PostSummary, callers)
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = svc.GetSummaries(context.Background(), "en")
		}(i)
	}
	// Wait until the single in-flight query is blocked, give the other
	// callers time to join it, then release.
	require.Eventually(t, func() bool { return repo.calls.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	close(repo.gate)
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Len(t, results[i], 1)
	}
	assert.EqualValues(t, 1, repo.calls.Load())
}

func TestCacheFailureFallsBackToStore(t *testing.T) {
	repo, seed := seedPosts(t)
	seed("en", "a", true, time.Now())
	svc := NewPostSummaryService(testutil.Logger(t), repo, brokenCache{}, nil)

	for i := 0; i < 2; i++ {
		got, err := svc.GetSummaries(context.Background(), "en")
		require.NoError(t, err)
		assert.Len(t, got, 1)
	}
	assert.EqualValues(t, 2, repo.calls.Load())
}

func TestMemoryCacheReturnsCopies(t *testing.T) {
	c := NewMemorySummaryCache()
	ctx := context.Background()
	in := []types.PostSummary{{Slug: "a"}}
	require.NoError(t, c.Set(ctx, "en", in))
	in[0].Slug = "mutated"

	got, ok, err := c.Get(ctx, "en")
	require.NoError(t, err)
	require.True(t, ok)
	got[0].Slug = "changed"

	again, _, _ := c.Get(ctx, "en")
	assert.Equal(t, "a", again[0].Slug)
}

// snapshotPostRepo reads its current set, then blocks on gate before returning.
type snapshotPostRepo struct {
	mu      sync.Mutex
	current []types.PostSummary
	calls   atomic.Int32
	gate    chan struct{}
}

func (r *snapshotPostRepo) set(slugs ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.current = nil
	for _, slug := range slugs {
		r.current = append(r.current, types.PostSummary{Slug: slug})
	}
}

func (r *snapshotPostRepo) ListPublishedSummaries(dbc dbctx.Context, _ string) ([]types.PostSummary, error) {
	r.mu.Lock()
	snap := cloneSummaries(r.current)
	r.mu.Unlock()
	r.calls.Add(1)
	if r.gate != nil {
		select {
		case <-r.gate:
		case <-dbc.Ctx.Done():
			return nil, dbc.Ctx.Err()
		}
	}
	return snap, nil
}

func TestInvalidateDuringLoadIsNotUndone(t *testing.T) {
	repo := &snapshotPostRepo{gate: make(chan struct{})}
	repo.set("old")
	svc := NewPostSummaryService(testutil.Logger(t), repo, NewMemorySummaryCache(), nil)
	ctx := context.Background()

	type outcome struct {
		got []types.PostSummary
		err error
	}
	early := make(chan outcome, 1)
	go func() {
		got, err := svc.GetSummaries(ctx, "en")
		early <- outcome{got, err}
	}()
	require.Eventually(t, func() bool { return repo.calls.Load() == 1 }, time.Second, time.Millisecond)

	repo.set("new")
	require.NoError(t, svc.Invalidate(ctx, "en"))

	// Arrives after the invalidation and must not share the stale load.
	late := make(chan outcome, 1)
	go func() {
		got, err := svc.GetSummaries(ctx, "en")
		late <- outcome{got, err}
	}()
	require.Eventually(t, func() bool { return repo.calls.Load() == 2 }, time.Second, time.Millisecond)
	close(repo.gate)

	first := <-early
	require.NoError(t, first.err)
	second := <-late
	require.NoError(t, second.err)
	require.Len(t, second.got, 1)
	assert.Equal(t, "new", second.got[0].Slug)

	got, err := svc.GetSummaries(ctx, "en")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "new", got[0].Slug)
	assert.EqualValues(t, 2, repo.calls.Load())
}

func TestInvalidateAllDuringLoadIsNotUndone(t *testing.T) {
	repo := &snapshotPostRepo{gate: make(chan struct{})}
	repo.set("old")
	svc := NewPostSummaryService(testutil.Logger(t), repo, NewMemorySummaryCache(), nil)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		_, err := svc.GetSummaries(ctx, "en")
		done <- err
	}()
	require.Eventually(t, func() bool { return repo.calls.Load() == 1 }, time.Second, time.Millisecond)

	repo.set("new")
	require.NoError(t, svc.Invalidate(ctx, ""))
	close(repo.gate)
	require.NoError(t, <-done)

	got, err := svc.GetSummaries(ctx, "en")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "new", got[0].Slug)
}

func TestCancelledCallerDoesNotFailSharedLoad(t *testing.T) {
	repo := &snapshotPostRepo{gate: make(chan struct{})}
	repo.set("a")
	svc := NewPostSummaryService(testutil.Logger(t), repo, NewMemorySummaryCache(), nil)

	firstCtx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := svc.GetSummaries(firstCtx, "en")
		firstErr <- err
	}()
	require.Eventually(t, func() bool { return repo.calls.Load() == 1 }, time.Second, time.Millisecond)

	type outcome struct {
		got []types.PostSummary
		err error
	}
	second := make(chan outcome, 1)
	go func() {
		got, err := svc.GetSummaries(context.Background(), "en")
		second <- outcome{got, err}
	}()
	time.Sleep(50 * time.Millisecond)

	cancel()
	require.ErrorIs(t, <-firstErr, context.Canceled)

	close(repo.gate)
	res := <-second
	require.NoError(t, res.err)
	require.Len(t, res.got, 1)
	assert.Equal(t, "a", res.got[0].Slug)
	assert.EqualValues(t, 1, repo.calls.Load())

	// The shared load still populated the cache.
	_, err := svc.GetSummaries(context.Background(), "en")
	require.NoError(t, err)
	assert.EqualValues(t, 1, repo.calls.Load())
}

package services

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/vpnscout-backend/internal/affiliate/slugmatch"
	"github.com/yungbote/vpnscout-backend/internal/clients/linktracker"
	"github.com/yungbote/vpnscout-backend/internal/data/dberr"
	"github.com/yungbote/vpnscout-backend/internal/data/repos"
	types "github.com/yungbote/vpnscout-backend/internal/domain"
	"github.com/yungbote/vpnscout-backend/internal/observability"
	"github.com/yungbote/vpnscout-backend/internal/pkg/dbctx"
	"github.com/yungbote/vpnscout-backend/internal/pkg/logger"
	"github.com/yungbote/vpnscout-backend/internal/pkg/pointers"
)

const DefaultReconcileConcurrency = 4

type ReconcileResult struct {
	Synced int `json:"synced"`
	Total  int `json:"total"`
}

type AffiliateSyncService interface {
	// Reconcile mirrors the full tracker inventory into local storage.
	// Only an inventory fetch failure is returned; per-link failures are
	// logged and left out of Synced.
	Reconcile(ctx context.Context) (*ReconcileResult, error)
	ListForVPN(dbc dbctx.Context, vpnSlug string) ([]*types.AffiliateLink, error)
}

type AffiliateSyncConfig struct {
	Concurrency int
	Now         func() time.Time
}

type affiliateSyncService struct {
	log         *logger.Logger
	source      linktracker.LinkInventorySource
	repo        repos.AffiliateLinkRepo
	matcher     *slugmatch.Matcher
	metrics     *observability.Metrics
	concurrency int
	now         func() time.Time
}

func NewAffiliateSyncService(
	baseLog *logger.Logger,
	source linktracker.LinkInventorySource,
	repo repos.AffiliateLinkRepo,
	matcher *slugmatch.Matcher,
	metrics *observability.Metrics,
	cfg AffiliateSyncConfig,
) AffiliateSyncService {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = DefaultReconcileConcurrency
	}
	if cfg.Now == nil {
		cfg.Now = func() time.Time { return time.Now().UTC() }
	}
	if matcher == nil {
		matcher = slugmatch.Default()
	}
	return &affiliateSyncService{
		log:         baseLog.With("service", "AffiliateSyncService"),
		source:      source,
		repo:        repo,
		matcher:     matcher,
		metrics:     metrics,
		concurrency: cfg.Concurrency,
		now:         cfg.Now,
	}
}

func (s *affiliateSyncService) Reconcile(ctx context.Context) (*ReconcileResult, error) {
	inventory, err := s.source.ListLinks(ctx)
	if err != nil {
		s.metrics.IncReconcileRun("failed")
		return nil, fmt.Errorf("fetch link inventory: %w", err)
	}

	// Entries sharing an external id stay in one group so their writes never race.
	groups := make([][]types.ExternalLink, 0, len(inventory))
	index := map[string]int{}
	for _, l := range inventory {
		key := strings.TrimSpace(l.ExternalID)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], l)
	}

	var synced atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, group := range groups {
		group := group
		g.Go(func() error {
			for _, l := range group {
				if err := s.syncOne(gctx, l); err != nil {
					s.log.Warn("Affiliate link sync failed", "external_id", l.ExternalID, "path", l.Path, "error", err)
					s.metrics.IncReconcileLink("failed")
					continue
				}
				synced.Add(1)
				s.metrics.IncReconcileLink("synced")
			}
			return nil
		})
	}
	_ = g.Wait()

	res := &ReconcileResult{Synced: int(synced.Load()), Total: len(inventory)}
	s.metrics.IncReconcileRun("completed")
	s.log.Info("Affiliate links reconciled", "synced", res.Synced, "total", res.Total)
	return res, nil
}

func (s *affiliateSyncService) syncOne(ctx context.Context, l types.ExternalLink) error {
	externalID := strings.TrimSpace(l.ExternalID)
	if externalID == "" {
		return fmt.Errorf("missing external id")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	link := &types.AffiliateLink{
		ExternalID:   externalID,
		Path:         l.Path,
		OriginalURL:  l.OriginalURL,
		Clicks:       l.Clicks,
		LastSyncedAt: s.now(),
	}
	if slug, ok := s.matcher.Match(l.Path); ok {
		link.VPNSlug = pointers.String(slug)
	}

	dbc := dbctx.Context{Ctx: ctx}
	existing, err := s.repo.GetByExternalID(dbc, externalID)
	if err != nil {
		return fmt.Errorf("lookup: %w", err)
	}
	if existing != nil {
		return s.overwrite(dbc, link)
	}
	if err := s.repo.Create(dbc, link); err != nil {
		if !dberr.IsUniqueViolation(err) {
			return fmt.Errorf("insert: %w", err)
		}
		// Another writer inserted the same external id first.
		return s.overwrite(dbc, link)
	}
	return nil
}

func (s *affiliateSyncService) overwrite(dbc dbctx.Context, link *types.AffiliateLink) error {
	ok, err := s.repo.OverwriteSynced(dbc, link.ExternalID, link)
	if err != nil {
		return fmt.Errorf("update: %w", err)
	}
	if !ok {
		return fmt.Errorf("update: no row for external id %s", link.ExternalID)
	}
	return nil
}

func (s *affiliateSyncService) ListForVPN(dbc dbctx.Context, vpnSlug string) ([]*types.AffiliateLink, error) {
	return s.repo.ListByVPNSlug(dbc, strings.ToLower(strings.TrimSpace(vpnSlug)))
}

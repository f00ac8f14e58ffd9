package affiliate

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/vpnscout-backend/internal/domain"
	"github.com/yungbote/vpnscout-backend/internal/pkg/dbctx"
	"github.com/yungbote/vpnscout-backend/internal/pkg/logger"
)

type LinkRepo interface {
	// GetByExternalID returns nil, nil when no local mirror exists yet.
	GetByExternalID(dbc dbctx.Context, externalID string) (*types.AffiliateLink, error)
	Create(dbc dbctx.Context, link *types.AffiliateLink) error
	// OverwriteSynced replaces every mutable field of the row keyed by externalID.
	OverwriteSynced(dbc dbctx.Context, externalID string, link *types.AffiliateLink) (bool, error)
	ListByVPNSlug(dbc dbctx.Context, vpnSlug string) ([]*types.AffiliateLink, error)
}

type linkRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLinkRepo(db *gorm.DB, baseLog *logger.Logger) LinkRepo {
	return &linkRepo{
		db:  db,
		log: baseLog.With("repo", "AffiliateLinkRepo"),
	}
}

func (r *linkRepo) GetByExternalID(dbc dbctx.Context, externalID string) (*types.AffiliateLink, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return nil, nil
	}
	var link types.AffiliateLink
	err := transaction.WithContext(dbc.Ctx).
		Where("external_id = ?", externalID).
		Limit(1).
		Find(&link).Error
	if err != nil {
		return nil, err
	}
	if link.ID == uuid.Nil {
		return nil, nil
	}
	return &link, nil
}

func (r *linkRepo) Create(dbc dbctx.Context, link *types.AffiliateLink) error {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if link == nil || strings.TrimSpace(link.ExternalID) == "" {
		return fmt.Errorf("affiliate link requires an external id")
	}
	if link.ID == uuid.Nil {
		link.ID = uuid.New()
	}
	now := time.Now().UTC()
	if link.CreatedAt.IsZero() {
		link.CreatedAt = now
	}
	if link.UpdatedAt.IsZero() {
		link.UpdatedAt = now
	}
	return transaction.WithContext(dbc.Ctx).Create(link).Error
}

func (r *linkRepo) OverwriteSynced(dbc dbctx.Context, externalID string, link *types.AffiliateLink) (bool, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if link == nil {
		return false, fmt.Errorf("nil affiliate link")
	}
	// A map keeps nil vpn_slug and zero clicks in the UPDATE; a struct would skip them.
	updates := map[string]interface{}{
		"path":           link.Path,
		"original_url":   link.OriginalURL,
		"vpn_slug":       link.VPNSlug,
		"clicks":         link.Clicks,
		"last_synced_at": link.LastSyncedAt,
		"updated_at":     time.Now().UTC(),
	}
	res := transaction.WithContext(dbc.Ctx).
		Model(&types.AffiliateLink{}).
		Where("external_id = ?", externalID).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *linkRepo) ListByVPNSlug(dbc dbctx.Context, vpnSlug string) ([]*types.AffiliateLink, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	out := []*types.AffiliateLink{}
	q := transaction.WithContext(dbc.Ctx).Model(&types.AffiliateLink{})
	if vpnSlug == "" {
		q = q.Where("vpn_slug IS NULL")
	} else {
		q = q.Where("vpn_slug = ?", vpnSlug)
	}
	if err := q.Order("clicks DESC").Order("external_id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

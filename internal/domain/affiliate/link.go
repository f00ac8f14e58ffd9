package affiliate

import (
	"time"

	"github.com/google/uuid"
)

// Link mirrors one redirect link tracked by the external link service.
type Link struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ExternalID   string    `gorm:"column:external_id;not null;uniqueIndex" json:"externalId"`
	Path         string    `gorm:"column:path;not null" json:"path"`
	OriginalURL  string    `gorm:"column:original_url;not null" json:"originalUrl"`
	VPNSlug      *string   `gorm:"column:vpn_slug;index" json:"vpnSlug"`
	Clicks       int64     `gorm:"column:clicks;not null;default:0" json:"clicks"`
	LastSyncedAt time.Time `gorm:"column:last_synced_at;not null" json:"lastSyncedAt"`
	CreatedAt    time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"not null" json:"updatedAt"`
}

func (Link) TableName() string { return "affiliate_link" }

// ExternalLink is one entry of the link tracker inventory.
type ExternalLink struct {
	ExternalID  string
	Path        string
	OriginalURL string
	Clicks      int64
}

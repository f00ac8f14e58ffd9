package db

import (
	"fmt"

	"gorm.io/gorm"

	types "github.com/yungbote/vpnscout-backend/internal/domain"
)

func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(
		// Jobs
		&types.JobRecord{},

		// Affiliate links
		&types.AffiliateLink{},

		// Content
		&types.Post{},
	); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return nil
}

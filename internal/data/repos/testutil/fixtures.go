package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/vpnscout-backend/internal/domain"
)

func SeedPost(tb testing.TB, ctx context.Context, tx *gorm.DB, language, slug string, published bool, createdAt time.Time) *types.Post {
	tb.Helper()
	p := &types.Post{
		ID:        uuid.New(),
		Slug:      slug,
		Language:  language,
		Title:     "Title " + slug,
		Excerpt:   "Excerpt " + slug,
		Published: published,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	if published {
		at := createdAt
		p.PublishedAt = &at
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed post: %v", err)
	}
	return p
}

func CountRows(tb testing.TB, tx *gorm.DB, model interface{}) int64 {
	tb.Helper()
	var n int64
	if err := tx.Model(model).Count(&n).Error; err != nil {
		tb.Fatalf("count: %v", err)
	}
	return n
}

package content

import (
	"strings"

	"gorm.io/gorm"

	types "github.com/yungbote/vpnscout-backend/internal/domain"
	"github.com/yungbote/vpnscout-backend/internal/pkg/dbctx"
	"github.com/yungbote/vpnscout-backend/internal/pkg/logger"
)

type PostRepo interface {
	// ListPublishedSummaries orders by created_at DESC with id as a stable tie-break.
	ListPublishedSummaries(dbc dbctx.Context, language string) ([]types.PostSummary, error)
}

type postRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostRepo(db *gorm.DB, baseLog *logger.Logger) PostRepo {
	return &postRepo{db: db, log: baseLog.With("repo", "PostRepo")}
}

func (r *postRepo) ListPublishedSummaries(dbc dbctx.Context, language string) ([]types.PostSummary, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	out := []types.PostSummary{}
	err := transaction.WithContext(dbc.Ctx).
		Model(&types.Post{}).
		Select("id", "slug", "title", "excerpt", "published_at").
		Where("published = ? AND language = ?", true, strings.ToLower(strings.TrimSpace(language))).
		Order("created_at DESC").
		Order("id ASC").
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

package content

import (
	"time"

	"github.com/google/uuid"
)

type Post struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Slug        string     `gorm:"column:slug;not null;index" json:"slug"`
	Language    string     `gorm:"column:language;not null;index" json:"language"`
	Title       string     `gorm:"column:title;not null" json:"title"`
	Excerpt     string     `gorm:"column:excerpt" json:"excerpt"`
	Body        string     `gorm:"column:body" json:"-"`
	Published   bool       `gorm:"column:published;not null;default:false;index" json:"published"`
	PublishedAt *time.Time `gorm:"column:published_at" json:"publishedAt,omitempty"`
	CreatedAt   time.Time  `gorm:"not null;index" json:"createdAt"`
	UpdatedAt   time.Time  `gorm:"not null" json:"updatedAt"`
}

func (Post) TableName() string { return "post" }

// PostSummary is the lightweight projection served to listing pages.
type PostSummary struct {
	ID          uuid.UUID  `json:"id"`
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Excerpt     string     `json:"excerpt"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
}

package models

import (
	"time"

	"github.com/lib/pq"
)

type Post struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Title         string         `gorm:"not null" json:"title"`
	Description   string         `gorm:"type:text;not null" json:"description"`
	AuthorID      uint           `gorm:"not null;index" json:"authorId"`
	Author        User           `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Tags          pq.StringArray `gorm:"type:text[]" json:"tags"` // lower-cased on write
	Status        string         `gorm:"size:20;default:'published';not null" json:"status"` // published, draft
	Image         string         `json:"image"` // path under the upload dir, empty if none
	Slug          string         `gorm:"uniqueIndex;not null" json:"slug"` // derived from title+ID at creation, stable
	LikesCount    int64          `gorm:"default:0;not null" json:"likesCount"`
	FavoriteCount int64          `gorm:"default:0;not null" json:"favoriteCount"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

const (
	StatusPublished = "published"
	StatusDraft     = "draft"
)

package models

import (
	"time"
)

type Comment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Text       string    `gorm:"size:250;not null" json:"text"` // trimmed, 1-250 chars
	AuthorID   uint      `gorm:"not null;index" json:"authorId"`
	Author     User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	PostID     uint      `gorm:"not null;index" json:"postId"`
	Post       Post      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	LikesCount int64     `gorm:"default:0;not null" json:"likesCount"`
	CreatedAt  time.Time `json:"createdAt"`
}

package models

import (
	"time"
)

// ResetToken is a single-use password reset credential. A new request
// replaces any outstanding token for the same user, and a successful
// reset deletes the row.
type ResetToken struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Token     string    `gorm:"uniqueIndex;size:64;not null" json:"-"` // 32 random bytes, hex
	CreatedAt time.Time `json:"created_at"`
}

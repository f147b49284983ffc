package models

import (
	"time"
)

type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	FirstName   string    `gorm:"size:100;not null" json:"firstName"`
	LastName    string    `gorm:"size:100;not null" json:"lastName"`
	PhoneNumber string    `gorm:"size:30" json:"phoneNumber"`
	Email       string    `gorm:"uniqueIndex;not null" json:"email"`           // stored lower-cased
	Password    string    `gorm:"not null" json:"-"`                           // bcrypt hash
	Role        string    `gorm:"size:20;default:'user';not null" json:"role"` // user, admin
	GoogleID    string    `gorm:"index" json:"-"`                              // set on first Google login
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	// No DeletedAt: users are never hard-deleted here
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

package models

import (
	"time"

	"gorm.io/gorm"
)

// LoginTracking records each successful login for audit
type LoginTracking struct {
	gorm.Model
	UserID    uint      `gorm:"not null;index"`
	IPAddress string    `gorm:"size:64"`
	Device    string    `gorm:"size:255"`
	Timestamp time.Time `gorm:"not null"`
	IsDeleted bool      `gorm:"default:false"`
}

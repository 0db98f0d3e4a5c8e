package models

import (
	"gorm.io/gorm"
)

// ReferralSystemStatus toggles the whole referral program
type ReferralSystemStatus string

const (
	ReferralSystemActive   ReferralSystemStatus = "ACTIVE"
	ReferralSystemDisabled ReferralSystemStatus = "DISABLED"
)

// ReferralLevelStatus toggles a single level
type ReferralLevelStatus string

const (
	ReferralLevelActive   ReferralLevelStatus = "ACTIVE"
	ReferralLevelInactive ReferralLevelStatus = "INACTIVE"
)

// ReferralSettings is the singleton referral program configuration.
// Seeded at startup with 3 default levels (5%, 3%, 1%).
type ReferralSettings struct {
	gorm.Model
	SystemStatus ReferralSystemStatus `gorm:"type:varchar(10);default:'ACTIVE'" json:"systemStatus"`

	Levels []ReferralLevel `gorm:"foreignKey:SettingsID" json:"levels"`
}

// ReferralLevel configures the reward for one upline depth.
// Level numbers are unique within the settings document.
type ReferralLevel struct {
	gorm.Model
	SettingsID       uint                `gorm:"not null;index" json:"-"`
	Level            int                 `gorm:"not null" json:"level"` // 1-based upline depth
	RewardPercentage float64             `gorm:"not null" json:"rewardPercentage"`
	Status           ReferralLevelStatus `gorm:"type:varchar(10);default:'ACTIVE'" json:"status"`
	Description      string              `gorm:"size:255" json:"description"`
}

package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Offer is a promotional campaign: a fixed-amount deposit that carries a
// fixed bonus reward, paid out atomically with the deposit approval.
type Offer struct {
	gorm.Model
	Active      bool   `gorm:"not null" json:"active"`
	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`

	DepositAmount      float64 `gorm:"not null" json:"depositAmount"`
	RewardAmount       float64 `gorm:"not null" json:"rewardAmount"`
	Currency           string  `gorm:"size:10;not null" json:"currency"`
	Network            string  `gorm:"size:20;not null" json:"network"`
	ExchangeRate       float64 `gorm:"not null" json:"exchangeRate"`
	TotalAmountReceive float64 `gorm:"not null" json:"totalAmountReceive"` // depositAmount * exchangeRate

	Expiry time.Time `gorm:"not null" json:"expiry"`

	// Targeting: either everyone, or the explicit user-id list below.
	AllUsers      bool           `gorm:"not null" json:"allUsers"`
	EligibleUsers datatypes.JSON `gorm:"type:json" json:"eligibleUsers"` // []uint

	IsDeleted bool `gorm:"default:false" json:"isDeleted"`
}

func (Offer) TableName() string {
	return "offers"
}

package models

import (
	"gorm.io/gorm"
)

// SettingsStatus toggles a whole subsystem on or off
type SettingsStatus string

const (
	SettingsStatusActive   SettingsStatus = "ACTIVE"
	SettingsStatusInactive SettingsStatus = "INACTIVE"
)

// DepositSettings is the singleton deposit configuration document.
// Exactly one row exists; it is seeded at startup and mutated only by admin.
type DepositSettings struct {
	gorm.Model
	Status SettingsStatus `gorm:"type:varchar(10);default:'ACTIVE'" json:"status"`

	Currencies []CurrencySetting `gorm:"foreignKey:SettingsID" json:"currencySettings"`
	Networks   []NetworkOption   `gorm:"foreignKey:SettingsID" json:"networkOptions"`
	Wallets    []Wallet          `gorm:"foreignKey:SettingsID" json:"wallets"`
}

// CurrencySetting holds the exchange rate and minimum amount for one currency
type CurrencySetting struct {
	gorm.Model
	SettingsID   uint    `gorm:"not null;index" json:"-"`
	Currency     string  `gorm:"size:10;not null" json:"currency"`
	ExchangeRate float64 `gorm:"not null" json:"exchangeRate"` // INR per unit
	MinAmount    float64 `gorm:"not null" json:"minAmount"`
}

// NetworkOption is an active settlement network name
type NetworkOption struct {
	gorm.Model
	SettingsID uint   `gorm:"not null;index" json:"-"`
	Name       string `gorm:"size:20;not null" json:"name"`
}

// Wallet is a receiving address for one (currency, network) pair
type Wallet struct {
	gorm.Model
	SettingsID uint   `gorm:"not null;index" json:"-"`
	Network    string `gorm:"size:20;not null" json:"network"`
	Currency   string `gorm:"size:10;not null" json:"currency"`
	Address    string `gorm:"uniqueIndex;size:128;not null" json:"address"`
	QRCode     string `gorm:"type:text" json:"qrCode"` // pre-rendered image URL/data
	IsActive   bool   `gorm:"not null" json:"isActive"`
}

// WithdrawalSettings is the singleton withdrawal configuration document
type WithdrawalSettings struct {
	gorm.Model
	MinAmount     float64        `gorm:"not null" json:"minAmount"`
	MaxAmount     float64        `gorm:"not null" json:"maxAmount"`
	FeePercentage float64        `gorm:"not null" json:"feePercentage"`
	Status        SettingsStatus `gorm:"type:varchar(10);default:'ACTIVE'" json:"status"`
}

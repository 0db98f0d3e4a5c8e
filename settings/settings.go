package settings

import (
	"finpay/models"
	"log"
	"sync"

	"gorm.io/gorm"
)

// Explicit settings service. The three singleton configuration documents are
// seeded exactly once at startup and read through an in-memory cache that is
// invalidated whenever an admin update writes through.

var (
	mu sync.RWMutex

	depositCache    *models.DepositSettings
	withdrawalCache *models.WithdrawalSettings
	referralCache   *models.ReferralSettings
)

// Init seeds the singleton settings documents if absent. Call once at startup,
// after migrations.
func Init(db *gorm.DB) error {
	if err := seedDepositSettings(db); err != nil {
		return err
	}
	if err := seedWithdrawalSettings(db); err != nil {
		return err
	}
	if err := seedReferralSettings(db); err != nil {
		return err
	}
	log.Println("Settings service initialized.")
	return nil
}

func seedDepositSettings(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.DepositSettings{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	defaults := models.DepositSettings{
		Status: models.SettingsStatusActive,
		Currencies: []models.CurrencySetting{
			{Currency: "USDT", ExchangeRate: 80, MinAmount: 10},
		},
		Networks: []models.NetworkOption{
			{Name: "TRC20"},
			{Name: "BEP20"},
		},
	}
	return db.Create(&defaults).Error
}

func seedWithdrawalSettings(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.WithdrawalSettings{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	defaults := models.WithdrawalSettings{
		MinAmount:     100,
		MaxAmount:     100000,
		FeePercentage: 2,
		Status:        models.SettingsStatusActive,
	}
	return db.Create(&defaults).Error
}

func seedReferralSettings(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.ReferralSettings{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	defaults := models.ReferralSettings{
		SystemStatus: models.ReferralSystemActive,
		Levels: []models.ReferralLevel{
			{Level: 1, RewardPercentage: 5, Status: models.ReferralLevelActive, Description: "Direct referral"},
			{Level: 2, RewardPercentage: 3, Status: models.ReferralLevelActive, Description: "Second level"},
			{Level: 3, RewardPercentage: 1, Status: models.ReferralLevelActive, Description: "Third level"},
		},
	}
	return db.Create(&defaults).Error
}

// GetDepositSettings returns the cached deposit configuration, loading it
// from the database on first use.
func GetDepositSettings(db *gorm.DB) (*models.DepositSettings, error) {
	mu.RLock()
	if depositCache != nil {
		defer mu.RUnlock()
		return depositCache, nil
	}
	mu.RUnlock()

	var s models.DepositSettings
	if err := db.Preload("Currencies").Preload("Networks").Preload("Wallets").First(&s).Error; err != nil {
		return nil, err
	}

	mu.Lock()
	depositCache = &s
	mu.Unlock()
	return &s, nil
}

// GetWithdrawalSettings returns the cached withdrawal configuration
func GetWithdrawalSettings(db *gorm.DB) (*models.WithdrawalSettings, error) {
	mu.RLock()
	if withdrawalCache != nil {
		defer mu.RUnlock()
		return withdrawalCache, nil
	}
	mu.RUnlock()

	var s models.WithdrawalSettings
	if err := db.First(&s).Error; err != nil {
		return nil, err
	}

	mu.Lock()
	withdrawalCache = &s
	mu.Unlock()
	return &s, nil
}

// GetReferralSettings returns the cached referral configuration
func GetReferralSettings(db *gorm.DB) (*models.ReferralSettings, error) {
	mu.RLock()
	if referralCache != nil {
		defer mu.RUnlock()
		return referralCache, nil
	}
	mu.RUnlock()

	var s models.ReferralSettings
	if err := db.Preload("Levels", func(db *gorm.DB) *gorm.DB {
		return db.Order("level ASC")
	}).First(&s).Error; err != nil {
		return nil, err
	}

	mu.Lock()
	referralCache = &s
	mu.Unlock()
	return &s, nil
}

// InvalidateDepositSettings drops the deposit cache after an admin update
func InvalidateDepositSettings() {
	mu.Lock()
	depositCache = nil
	mu.Unlock()
}

// InvalidateWithdrawalSettings drops the withdrawal cache after an admin update
func InvalidateWithdrawalSettings() {
	mu.Lock()
	withdrawalCache = nil
	mu.Unlock()
}

// InvalidateReferralSettings drops the referral cache after an admin update
func InvalidateReferralSettings() {
	mu.Lock()
	referralCache = nil
	mu.Unlock()
}

// InvalidateAll drops every cached settings document. Used by tests.
func InvalidateAll() {
	mu.Lock()
	depositCache = nil
	withdrawalCache = nil
	referralCache = nil
	mu.Unlock()
}

package settings

import (
	"fmt"
	"testing"
	"time"

	"finpay/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:settings_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.DepositSettings{},
		&models.CurrencySetting{},
		&models.NetworkOption{},
		&models.Wallet{},
		&models.WithdrawalSettings{},
		&models.ReferralSettings{},
		&models.ReferralLevel{},
	))

	InvalidateAll()
	return db
}

func TestInitSeedsDefaultsExactlyOnce(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, Init(db))
	// A second Init must not duplicate the singletons.
	require.NoError(t, Init(db))

	var depositCount, withdrawalCount, referralCount int64
	db.Model(&models.DepositSettings{}).Count(&depositCount)
	db.Model(&models.WithdrawalSettings{}).Count(&withdrawalCount)
	db.Model(&models.ReferralSettings{}).Count(&referralCount)
	assert.Equal(t, int64(1), depositCount)
	assert.Equal(t, int64(1), withdrawalCount)
	assert.Equal(t, int64(1), referralCount)

	deposit, err := GetDepositSettings(db)
	require.NoError(t, err)
	assert.Equal(t, models.SettingsStatusActive, deposit.Status)
	require.Len(t, deposit.Currencies, 1)
	assert.Equal(t, "USDT", deposit.Currencies[0].Currency)
	assert.Equal(t, 80.0, deposit.Currencies[0].ExchangeRate)
	assert.Equal(t, 10.0, deposit.Currencies[0].MinAmount)
	assert.Len(t, deposit.Networks, 2)

	withdrawal, err := GetWithdrawalSettings(db)
	require.NoError(t, err)
	assert.Equal(t, 100.0, withdrawal.MinAmount)
	assert.Equal(t, 100000.0, withdrawal.MaxAmount)
	assert.Equal(t, 2.0, withdrawal.FeePercentage)
	assert.Equal(t, models.SettingsStatusActive, withdrawal.Status)

	referral, err := GetReferralSettings(db)
	require.NoError(t, err)
	assert.Equal(t, models.ReferralSystemActive, referral.SystemStatus)
	require.Len(t, referral.Levels, 3)
	assert.Equal(t, 5.0, referral.Levels[0].RewardPercentage)
	assert.Equal(t, 3.0, referral.Levels[1].RewardPercentage)
	assert.Equal(t, 1.0, referral.Levels[2].RewardPercentage)
}

func TestInitKeepsExistingConfiguration(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, db.Create(&models.WithdrawalSettings{
		MinAmount:     250,
		MaxAmount:     5000,
		FeePercentage: 1.5,
		Status:        models.SettingsStatusInactive,
	}).Error)

	require.NoError(t, Init(db))

	withdrawal, err := GetWithdrawalSettings(db)
	require.NoError(t, err)
	assert.Equal(t, 250.0, withdrawal.MinAmount)
	assert.Equal(t, models.SettingsStatusInactive, withdrawal.Status)
}

func TestCacheServesUntilInvalidated(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Init(db))

	first, err := GetWithdrawalSettings(db)
	require.NoError(t, err)
	assert.Equal(t, 2.0, first.FeePercentage)

	// A direct database write is not visible through the cache.
	require.NoError(t, db.Model(&models.WithdrawalSettings{}).
		Where("id = ?", first.ID).
		Update("fee_percentage", 3).Error)

	cached, err := GetWithdrawalSettings(db)
	require.NoError(t, err)
	assert.Equal(t, 2.0, cached.FeePercentage)

	InvalidateWithdrawalSettings()

	reloaded, err := GetWithdrawalSettings(db)
	require.NoError(t, err)
	assert.Equal(t, 3.0, reloaded.FeePercentage)
}

func TestReferralLevelsOrderedByLevel(t *testing.T) {
	db := openTestDB(t)
	require.NoError(t, Init(db))

	// Insert an extra level out of order and make sure reads come back sorted.
	var cfg models.ReferralSettings
	require.NoError(t, db.First(&cfg).Error)
	require.NoError(t, db.Create(&models.ReferralLevel{
		SettingsID:       cfg.ID,
		Level:            4,
		RewardPercentage: 0.5,
		Status:           models.ReferralLevelActive,
	}).Error)
	InvalidateReferralSettings()

	referral, err := GetReferralSettings(db)
	require.NoError(t, err)
	require.Len(t, referral.Levels, 4)
	for i, lvl := range referral.Levels {
		assert.Equal(t, i+1, lvl.Level)
	}
}

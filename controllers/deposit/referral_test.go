package depositController

import (
	"testing"

	"finpay/models"
	"finpay/settings"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReferralRewardsThreeLevels(t *testing.T) {
	db := setupTestDB(t)

	// a <- b <- c <- depositor
	a := createTestUser(t, db, "ref_a", nil)
	b := createTestUser(t, db, "ref_b", &a.ID)
	c := createTestUser(t, db, "ref_c", &b.ID)
	depositor := createTestUser(t, db, "ref_d", &c.ID)

	// Default levels: 5% / 3% / 1%. A 1000 INR deposit pays 50 / 30 / 10
	// walking up from the direct referrer.
	require.NoError(t, DistributeReferralRewards(db, depositor, 1000))

	assert.Equal(t, 50.0, reloadUser(t, db, c.ID).Balance)
	assert.Equal(t, 30.0, reloadUser(t, db, b.ID).Balance)
	assert.Equal(t, 10.0, reloadUser(t, db, a.ID).Balance)
	assert.Equal(t, 50.0, reloadUser(t, db, c.ID).TotalReward)

	var count int64
	db.Model(&models.Transaction{}).
		Where("type = ? AND status = ?", models.TransactionTypeReferralReward, models.TransactionStatusCompleted).
		Count(&count)
	assert.Equal(t, int64(3), count)

	// The depositor never pays itself.
	assert.Equal(t, 0.0, reloadUser(t, db, depositor.ID).Balance)
}

func TestReferralWalkStopsAtChainEnd(t *testing.T) {
	db := setupTestDB(t)

	// Only one ancestor: levels 2 and 3 have nobody to pay.
	b := createTestUser(t, db, "short_b", nil)
	depositor := createTestUser(t, db, "short_d", &b.ID)

	require.NoError(t, DistributeReferralRewards(db, depositor, 1000))

	assert.Equal(t, 50.0, reloadUser(t, db, b.ID).Balance)

	var count int64
	db.Model(&models.Transaction{}).
		Where("type = ?", models.TransactionTypeReferralReward).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestReferralWalkHaltsOnMissingLevel(t *testing.T) {
	db := setupTestDB(t)

	a := createTestUser(t, db, "halt_a", nil)
	b := createTestUser(t, db, "halt_b", &a.ID)
	c := createTestUser(t, db, "halt_c", &b.ID)
	depositor := createTestUser(t, db, "halt_d", &c.ID)

	// Deactivate level 2: the walk pays level 1 and then stops entirely,
	// level 3 is not reached even though it is still active.
	require.NoError(t, db.Model(&models.ReferralLevel{}).
		Where("level = ?", 2).
		Update("status", models.ReferralLevelInactive).Error)
	settings.InvalidateReferralSettings()

	require.NoError(t, DistributeReferralRewards(db, depositor, 1000))

	assert.Equal(t, 50.0, reloadUser(t, db, c.ID).Balance)
	assert.Equal(t, 0.0, reloadUser(t, db, b.ID).Balance)
	assert.Equal(t, 0.0, reloadUser(t, db, a.ID).Balance)

	var count int64
	db.Model(&models.Transaction{}).
		Where("type = ?", models.TransactionTypeReferralReward).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestReferralDisabledSystemPaysNothing(t *testing.T) {
	db := setupTestDB(t)

	b := createTestUser(t, db, "off_b", nil)
	depositor := createTestUser(t, db, "off_d", &b.ID)

	require.NoError(t, db.Model(&models.ReferralSettings{}).
		Where("1 = 1").
		Update("system_status", models.ReferralSystemDisabled).Error)
	settings.InvalidateReferralSettings()

	require.NoError(t, DistributeReferralRewards(db, depositor, 1000))

	assert.Equal(t, 0.0, reloadUser(t, db, b.ID).Balance)

	var count int64
	db.Model(&models.Transaction{}).
		Where("type = ?", models.TransactionTypeReferralReward).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestReferralFanOutRunsInsideApproval(t *testing.T) {
	db := setupTestDB(t)

	referrer := createTestUser(t, db, "up_ref", nil)
	depositor := createTestUser(t, db, "up_dep", &referrer.ID)

	deposit, _, failCode, failMsg := CreateDepositForUser(db, depositor, 100, "USDT", "TRC20", 0)
	require.Zero(t, failCode, failMsg)

	userApp := testUserApp(depositor.ID)
	resp, _ := doRequest(t, userApp, "POST", "/deposits/confirm/"+deposit.DepositID, map[string]interface{}{
		"userTransactionId": "0xchain9",
	})
	require.Equal(t, 200, resp.StatusCode)

	adminApp := testAdminApp()
	resp, _ = doRequest(t, adminApp, "POST", "/deposits/approve/"+deposit.DepositID, nil)
	require.Equal(t, 200, resp.StatusCode)

	// 8000 INR credited to the depositor, 5% of it to the direct referrer.
	assert.Equal(t, 8000.0, reloadUser(t, db, depositor.ID).Balance)
	assert.Equal(t, 400.0, reloadUser(t, db, referrer.ID).Balance)
	assert.Equal(t, 400.0, reloadUser(t, db, referrer.ID).TotalReward)
}

package depositController

import (
	"finpay/models"
	"finpay/settings"
	"finpay/utils"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DistributeReferralRewards pays the upline referrer chain for a completed
// deposit, one referrer per level: level n goes to the n-th-degree ancestor.
// Runs inside the deposit-approval transaction so a failed credit rolls the
// whole approval back.
//
// Policy: a missing level number within the active range halts the entire
// walk; it does not skip to the next configured level.
func DistributeReferralRewards(tx *gorm.DB, depositor *models.User, amountINR float64) error {
	cfg, err := settings.GetReferralSettings(tx)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		return err
	}
	if cfg.SystemStatus != models.ReferralSystemActive {
		return nil
	}

	activeLevels := make(map[int]models.ReferralLevel)
	for _, lvl := range cfg.Levels {
		if lvl.Status == models.ReferralLevelActive {
			activeLevels[lvl.Level] = lvl
		}
	}
	maxLevels := len(activeLevels)

	currentLevel := 1
	referrerID := depositor.ReferredBy

	for referrerID != nil && currentLevel <= maxLevels {
		levelCfg, ok := activeLevels[currentLevel]
		if !ok {
			// Slot consumed but not configured: the whole walk stops here.
			break
		}

		reward := utils.Round2(amountINR * levelCfg.RewardPercentage / 100)
		if !utils.ValidAmount(reward) {
			return fmt.Errorf("invalid reward computation at level %d", currentLevel)
		}

		var referrer models.User
		if err := tx.Where("id = ? AND is_deleted = false", *referrerID).First(&referrer).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				// Chain is broken; no way to reach further ancestors.
				return nil
			}
			return err
		}

		newBalance := utils.Round2(referrer.Balance + reward)
		newTotal := utils.Round2(referrer.TotalReward + reward)
		if !utils.ValidAmount(newBalance) || !utils.ValidAmount(newTotal) {
			return fmt.Errorf("invalid balance computation for referrer %d", referrer.ID)
		}

		if err := tx.Model(&referrer).Updates(map[string]interface{}{
			"balance":      newBalance,
			"total_reward": newTotal,
		}).Error; err != nil {
			return err
		}

		txn := models.Transaction{
			TransactionID: uuid.NewString(),
			UserID:        referrer.ID,
			Type:          models.TransactionTypeReferralReward,
			Amount:        reward,
			Status:        models.TransactionStatusCompleted,
			Description: fmt.Sprintf("Level %d referral reward (%.2f%%) from deposit by %s",
				currentLevel, levelCfg.RewardPercentage, depositor.Name),
		}
		if err := utils.CreateLedgerTransaction(tx, &txn); err != nil {
			return err
		}

		referrerID = referrer.ReferredBy
		currentLevel++
	}

	return nil
}

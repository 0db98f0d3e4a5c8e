package adminController

import (
	"finpay/database"
	"finpay/middleware"
	"finpay/models"
	"finpay/settings"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Request shapes shared with the validators package.

type DepositSettingsRequest struct {
	Status     string `json:"status" validate:"required,oneof=ACTIVE INACTIVE"`
	Currencies []struct {
		Currency     string  `json:"currency" validate:"required"`
		ExchangeRate float64 `json:"exchangeRate" validate:"required,gt=0"`
		MinAmount    float64 `json:"minAmount" validate:"required,gt=0"`
	} `json:"currencySettings" validate:"required,min=1,dive"`
	Networks []string `json:"networkOptions" validate:"required,min=1"`
	Wallets  []struct {
		Network  string `json:"network" validate:"required"`
		Currency string `json:"currency" validate:"required"`
		Address  string `json:"address" validate:"required"`
		QRCode   string `json:"qrCode"`
		IsActive bool   `json:"isActive"`
	} `json:"wallets" validate:"dive"`
}

type WithdrawalSettingsRequest struct {
	MinAmount     float64 `json:"minAmount" validate:"required,gt=0"`
	MaxAmount     float64 `json:"maxAmount" validate:"required,gtfield=MinAmount"`
	FeePercentage float64 `json:"feePercentage" validate:"gte=0,lte=100"`
	Status        string  `json:"status" validate:"required,oneof=ACTIVE INACTIVE"`
}

type ReferralLevelsRequest struct {
	SystemStatus string `json:"systemStatus" validate:"required,oneof=ACTIVE DISABLED"`
	Levels       []struct {
		Level            int     `json:"level" validate:"required,gte=1"`
		RewardPercentage float64 `json:"rewardPercentage" validate:"gte=0,lte=100"`
		Status           string  `json:"status" validate:"required,oneof=ACTIVE INACTIVE"`
		Description      string  `json:"description"`
	} `json:"levels" validate:"dive"`
}

// GetDepositSettings handles GET /admin/settings
func GetDepositSettings(c *fiber.Ctx) error {
	cfg, err := settings.GetDepositSettings(database.Database.Db)
	if err != nil {
		log.Printf("Error loading deposit settings: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load deposit settings!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Deposit settings fetched!", cfg)
}

// UpdateDepositSettings handles PUT /admin/settings. The complete currency,
// network, and wallet lists are replaced; the cache is invalidated after the
// write commits.
func UpdateDepositSettings(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedDepositSettings").(*DepositSettingsRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var cfg models.DepositSettings
	if err := db.First(&cfg).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Deposit settings missing!", nil)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&cfg).Update("status", models.SettingsStatus(reqData.Status)).Error; err != nil {
			return err
		}

		if err := tx.Where("settings_id = ?", cfg.ID).Delete(&models.CurrencySetting{}).Error; err != nil {
			return err
		}
		for _, cur := range reqData.Currencies {
			if err := tx.Create(&models.CurrencySetting{
				SettingsID:   cfg.ID,
				Currency:     cur.Currency,
				ExchangeRate: cur.ExchangeRate,
				MinAmount:    cur.MinAmount,
			}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("settings_id = ?", cfg.ID).Delete(&models.NetworkOption{}).Error; err != nil {
			return err
		}
		for _, name := range reqData.Networks {
			if err := tx.Create(&models.NetworkOption{SettingsID: cfg.ID, Name: name}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("settings_id = ?", cfg.ID).Delete(&models.Wallet{}).Error; err != nil {
			return err
		}
		for _, w := range reqData.Wallets {
			if err := tx.Create(&models.Wallet{
				SettingsID: cfg.ID,
				Network:    w.Network,
				Currency:   w.Currency,
				Address:    w.Address,
				QRCode:     w.QRCode,
				IsActive:   w.IsActive,
			}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("Error updating deposit settings: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update deposit settings!", nil)
	}

	settings.InvalidateDepositSettings()

	updated, err := settings.GetDepositSettings(db)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to reload deposit settings!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Deposit settings updated!", updated)
}

// GetWithdrawalSettings handles GET /admin/withdrawal-settings
func GetWithdrawalSettings(c *fiber.Ctx) error {
	cfg, err := settings.GetWithdrawalSettings(database.Database.Db)
	if err != nil {
		log.Printf("Error loading withdrawal settings: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load withdrawal settings!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Withdrawal settings fetched!", cfg)
}

// UpdateWithdrawalSettings handles PUT /admin/withdrawal-settings
func UpdateWithdrawalSettings(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedWithdrawalSettings").(*WithdrawalSettingsRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var cfg models.WithdrawalSettings
	if err := db.First(&cfg).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Withdrawal settings missing!", nil)
	}

	if err := db.Model(&cfg).Updates(map[string]interface{}{
		"min_amount":     reqData.MinAmount,
		"max_amount":     reqData.MaxAmount,
		"fee_percentage": reqData.FeePercentage,
		"status":         models.SettingsStatus(reqData.Status),
	}).Error; err != nil {
		log.Printf("Error updating withdrawal settings: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update withdrawal settings!", nil)
	}

	settings.InvalidateWithdrawalSettings()

	updated, err := settings.GetWithdrawalSettings(db)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to reload withdrawal settings!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Withdrawal settings updated!", updated)
}

// GetReferralLevels handles GET /admin/levels
func GetReferralLevels(c *fiber.Ctx) error {
	cfg, err := settings.GetReferralSettings(database.Database.Db)
	if err != nil {
		log.Printf("Error loading referral settings: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load referral settings!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Referral settings fetched!", cfg)
}

// UpdateReferralLevels handles PUT /admin/levels. Level numbers must be
// unique within the list.
func UpdateReferralLevels(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedReferralLevels").(*ReferralLevelsRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	seen := make(map[int]bool)
	for _, lvl := range reqData.Levels {
		if seen[lvl.Level] {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Level numbers must be unique!", nil)
		}
		seen[lvl.Level] = true
	}

	db := database.Database.Db

	var cfg models.ReferralSettings
	if err := db.First(&cfg).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Referral settings missing!", nil)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&cfg).Update("system_status", models.ReferralSystemStatus(reqData.SystemStatus)).Error; err != nil {
			return err
		}

		if err := tx.Where("settings_id = ?", cfg.ID).Delete(&models.ReferralLevel{}).Error; err != nil {
			return err
		}
		for _, lvl := range reqData.Levels {
			if err := tx.Create(&models.ReferralLevel{
				SettingsID:       cfg.ID,
				Level:            lvl.Level,
				RewardPercentage: lvl.RewardPercentage,
				Status:           models.ReferralLevelStatus(lvl.Status),
				Description:      lvl.Description,
			}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("Error updating referral settings: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update referral settings!", nil)
	}

	settings.InvalidateReferralSettings()

	updated, err := settings.GetReferralSettings(db)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to reload referral settings!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Referral settings updated!", updated)
}

package utils

import (
	"finpay/database"
	"finpay/models"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// InitializeSchedulers starts the background cron jobs: the daily sweep that
// deactivates expired offers and the hourly market-rate refresh.
func InitializeSchedulers() *cron.Cron {
	log.Println("[SCHEDULER] Initializing schedulers...")

	c := cron.New()

	// Daily at midnight: deactivate offers past expiry
	c.AddFunc("0 0 * * *", func() {
		DeactivateExpiredOffers()
	})

	// Hourly: refresh the advisory market rate
	c.AddFunc("@hourly", func() {
		RefreshMarketRate()
	})

	c.Start()
	log.Println("[SCHEDULER] Schedulers started.")
	return c
}

// DeactivateExpiredOffers flips Active off for every offer past its expiry.
// Listing already filters by expiry; this keeps the admin view honest.
func DeactivateExpiredOffers() {
	db := database.Database.Db

	result := db.Model(&models.Offer{}).
		Where("active = ? AND is_deleted = false AND expiry < ?", true, time.Now()).
		Update("active", false)
	if result.Error != nil {
		log.Printf("[SCHEDULER] Error deactivating expired offers: %v", result.Error)
		return
	}
	if result.RowsAffected > 0 {
		log.Printf("[SCHEDULER] Deactivated %d expired offers", result.RowsAffected)
	}
}

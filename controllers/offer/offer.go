package offerController

import (
	"encoding/json"
	depositController "finpay/controllers/deposit"
	"finpay/database"
	"finpay/middleware"
	"finpay/models"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
)

func eligibleFor(offer *models.Offer, userId uint) bool {
	if offer.AllUsers {
		return true
	}
	var ids []uint
	if len(offer.EligibleUsers) > 0 {
		if err := json.Unmarshal(offer.EligibleUsers, &ids); err != nil {
			log.Printf("Error parsing eligible users for offer %d: %v", offer.ID, err)
			return false
		}
	}
	for _, id := range ids {
		if id == userId {
			return true
		}
	}
	return false
}

// ListOffers handles GET /offers: active, unexpired offers the caller is
// eligible for.
func ListOffers(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	var offers []models.Offer
	if err := database.Database.Db.
		Where("active = ? AND is_deleted = false AND expiry > ?", true, time.Now()).
		Order("created_at DESC").
		Find(&offers).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch offers!", nil)
	}

	visible := make([]models.Offer, 0, len(offers))
	for i := range offers {
		if eligibleFor(&offers[i], userId) {
			visible = append(visible, offers[i])
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Offers fetched!", visible)
}

// RedeemOffer handles POST /offers/redeem/:offerId. It pre-fills a normal
// deposit creation from the offer, passing the bonus through as the
// deposit's reward. Eligibility is a listing-time concern; creation
// validates only against live deposit settings.
func RedeemOffer(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	offerId, err := c.ParamsInt("offerId")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid offer id!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = false", userId).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	var offer models.Offer
	if err := db.Where("id = ? AND is_deleted = false", offerId).First(&offer).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Offer not found!", nil)
	}

	deposit, wallet, failCode, failMsg := depositController.CreateDepositForUser(
		db, &user, offer.DepositAmount, offer.Currency, offer.Network, offer.RewardAmount)
	if failCode != 0 {
		return middleware.JsonResponse(c, failCode, false, failMsg, nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Offer deposit created!", fiber.Map{
		"deposit":       deposit,
		"walletAddress": wallet.Address,
		"qrCode":        wallet.QRCode,
		"offer": fiber.Map{
			"id":           offer.ID,
			"title":        offer.Title,
			"rewardAmount": offer.RewardAmount,
		},
	})
}

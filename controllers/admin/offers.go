package adminController

import (
	"encoding/json"
	"finpay/database"
	"finpay/middleware"
	"finpay/models"
	"finpay/utils"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

type OfferRequest struct {
	Title         string    `json:"title" validate:"required"`
	Description   string    `json:"description"`
	DepositAmount float64   `json:"depositAmount" validate:"required,gt=0"`
	RewardAmount  float64   `json:"rewardAmount" validate:"required,gt=0"`
	Currency      string    `json:"currency" validate:"required"`
	Network       string    `json:"network" validate:"required"`
	ExchangeRate  float64   `json:"exchangeRate" validate:"required,gt=0"`
	Expiry        time.Time `json:"expiry" validate:"required"`
	Active        bool      `json:"active"`
	AllUsers      bool      `json:"allUsers"`
	EligibleUsers []uint    `json:"eligibleUsers"`
}

func offerFromRequest(reqData *OfferRequest) (*models.Offer, error) {
	eligible, err := json.Marshal(reqData.EligibleUsers)
	if err != nil {
		return nil, err
	}

	return &models.Offer{
		Active:             reqData.Active,
		Title:              reqData.Title,
		Description:        reqData.Description,
		DepositAmount:      reqData.DepositAmount,
		RewardAmount:       reqData.RewardAmount,
		Currency:           reqData.Currency,
		Network:            reqData.Network,
		ExchangeRate:       reqData.ExchangeRate,
		TotalAmountReceive: utils.Round2(reqData.DepositAmount * reqData.ExchangeRate),
		Expiry:             reqData.Expiry,
		AllUsers:           reqData.AllUsers,
		EligibleUsers:      datatypes.JSON(eligible),
	}, nil
}

// ListOffers handles GET /admin/offers: every non-deleted offer, expired
// and inactive included.
func ListOffers(c *fiber.Ctx) error {
	var offers []models.Offer
	if err := database.Database.Db.
		Where("is_deleted = false").
		Order("created_at DESC").
		Find(&offers).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch offers!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Offers fetched!", offers)
}

// CreateOffer handles POST /admin/offers
func CreateOffer(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedOffer").(*OfferRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	offer, err := offerFromRequest(reqData)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid eligible user list!", nil)
	}

	if err := database.Database.Db.Create(offer).Error; err != nil {
		log.Printf("Error creating offer: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create offer!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Offer created!", offer)
}

// UpdateOffer handles PUT /admin/offers/:offerId
func UpdateOffer(c *fiber.Ctx) error {
	offerId, err := c.ParamsInt("offerId")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid offer id!", nil)
	}

	reqData, ok := c.Locals("validatedOffer").(*OfferRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var offer models.Offer
	if err := db.Where("id = ? AND is_deleted = false", offerId).First(&offer).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Offer not found!", nil)
	}

	updated, err := offerFromRequest(reqData)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid eligible user list!", nil)
	}
	updated.ID = offer.ID
	updated.CreatedAt = offer.CreatedAt

	if err := db.Save(updated).Error; err != nil {
		log.Printf("Error updating offer %d: %v", offerId, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update offer!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Offer updated!", updated)
}

// DeleteOffer handles DELETE /admin/offers/:offerId (soft delete)
func DeleteOffer(c *fiber.Ctx) error {
	offerId, err := c.ParamsInt("offerId")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid offer id!", nil)
	}

	db := database.Database.Db

	var offer models.Offer
	if err := db.Where("id = ? AND is_deleted = false", offerId).First(&offer).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Offer not found!", nil)
	}

	if err := db.Model(&offer).Updates(map[string]interface{}{
		"is_deleted": true,
		"active":     false,
	}).Error; err != nil {
		log.Printf("Error deleting offer %d: %v", offerId, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete offer!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Offer deleted!", nil)
}

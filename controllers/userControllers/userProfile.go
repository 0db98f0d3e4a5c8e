package userController

import (
	"time"

	"finpay/database"
	"finpay/middleware"
	"finpay/models"

	"github.com/gofiber/fiber/v2"
)

// GetProfile handles GET /user/me
func GetProfile(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = false", userId).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Access Denied!", nil)
	}

	user.Password = ""

	var bankAccounts []models.BankAccount
	database.Database.Db.Where("user_id = ? AND is_deleted = false", userId).Find(&bankAccounts)

	var upiAccounts []models.UpiAccount
	database.Database.Db.Where("user_id = ? AND is_deleted = false", userId).Find(&upiAccounts)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile fetched!", fiber.Map{
		"user":         user,
		"bankAccounts": bankAccounts,
		"upiAccounts":  upiAccounts,
	})
}

// UpdateProfile handles PUT /user/me. Only allow-listed fields are writable;
// ledger fields and flags never pass through here.
func UpdateProfile(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	reqData, ok := c.Locals("validatedProfileUpdate").(*struct {
		Name   string `json:"name" validate:"omitempty,min=3"`
		Mobile string `json:"mobile" validate:"omitempty,len=10,numeric"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = false", userId).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Access Denied!", nil)
	}

	updates := map[string]interface{}{}
	if reqData.Name != "" {
		updates["name"] = reqData.Name
	}
	if reqData.Mobile != "" {
		updates["mobile"] = reqData.Mobile
	}
	if len(updates) == 0 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Nothing to update!", nil)
	}

	if err := db.Model(&user).Updates(updates).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update profile!", nil)
	}

	user.Password = ""
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile updated!", user)
}

// GetTransactions handles GET /user/transactions with pagination and an
// optional type filter.
func GetTransactions(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	txnType := c.Query("type")

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	db := database.Database.Db

	query := db.Model(&models.Transaction{}).Where("user_id = ? AND is_deleted = false", userId)
	if txnType != "" {
		query = query.Where("type = ?", txnType)
	}

	var total int64
	query.Count(&total)

	var transactions []models.Transaction
	if err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&transactions).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch transactions!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Transactions fetched!", fiber.Map{
		"transactions": transactions,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// GetReferrals handles GET /user/referrals: the caller's referral code,
// direct referrals, and total referral earnings.
func GetReferrals(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = false", userId).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Access Denied!", nil)
	}

	type referralEntry struct {
		ID        uint      `json:"id"`
		Name      string    `json:"name"`
		CreatedAt time.Time `json:"joinedAt"`
	}

	var referrals []referralEntry
	db.Model(&models.User{}).
		Select("id, name, created_at").
		Where("referred_by = ? AND is_deleted = false", userId).
		Order("created_at DESC").
		Scan(&referrals)

	var earned float64
	db.Model(&models.Transaction{}).
		Where("user_id = ? AND type = ? AND status = ? AND is_deleted = false",
			userId, models.TransactionTypeReferralReward, models.TransactionStatusCompleted).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&earned)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Referrals fetched!", fiber.Map{
		"referralCode":   user.ReferralCode,
		"referrals":      referrals,
		"totalReferrals": len(referrals),
		"totalEarned":    earned,
	})
}

// AddBankAccount handles POST /user/bank-accounts
func AddBankAccount(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	reqData, ok := c.Locals("validatedBankAccount").(*struct {
		BankName          string `json:"bankName" validate:"required"`
		AccountNumber     string `json:"accountNumber" validate:"required,min=6"`
		IFSCCode          string `json:"ifscCode" validate:"required,len=11"`
		AccountHolderName string `json:"accountHolderName" validate:"required"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	account := models.BankAccount{
		UserID:            userId,
		BankName:          reqData.BankName,
		AccountNumber:     reqData.AccountNumber,
		IFSCCode:          reqData.IFSCCode,
		AccountHolderName: reqData.AccountHolderName,
	}

	if err := database.Database.Db.Create(&account).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save bank account!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Bank account saved!", account)
}

// AddUpiAccount handles POST /user/upi
func AddUpiAccount(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	reqData, ok := c.Locals("validatedUpiAccount").(*struct {
		UpiID string `json:"upiId" validate:"required,contains=@"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	account := models.UpiAccount{
		UserID: userId,
		UpiID:  reqData.UpiID,
	}

	if err := database.Database.Db.Create(&account).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to save UPI id!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "UPI id saved!", account)
}

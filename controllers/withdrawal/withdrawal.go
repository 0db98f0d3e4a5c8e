package withdrawalController

import (
	"errors"
	"finpay/database"
	"finpay/middleware"
	"finpay/models"
	"finpay/settings"
	"finpay/utils"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// errWithdrawalDecided: the status transition matched zero rows because a
// concurrent request already processed the withdrawal.
var errWithdrawalDecided = errors.New("withdrawal already processed")

// CreateWithdrawal handles POST /withdrawl/create. The amount is reserved in
// User.PendingWithdrawal; Balance is only debited on admin approval. The
// sufficiency check runs against available balance (balance minus amounts
// already reserved by other pending withdrawals).
func CreateWithdrawal(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	reqData, ok := c.Locals("validatedWithdrawal").(*struct {
		Amount            float64 `json:"amount" validate:"required,gt=0"`
		Method            string  `json:"withdrawalMethod" validate:"required,oneof=BANK UPI"`
		BankName          string  `json:"bankName"`
		AccountNumber     string  `json:"accountNumber"`
		IFSCCode          string  `json:"ifscCode"`
		AccountHolderName string  `json:"accountHolderName"`
		UpiID             string  `json:"upiId"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	cfg, err := settings.GetWithdrawalSettings(db)
	if err != nil {
		log.Printf("Error loading withdrawal settings: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to load withdrawal settings!", nil)
	}

	if cfg.Status != models.SettingsStatusActive {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Withdrawals are currently disabled!", nil)
	}

	if reqData.Amount < cfg.MinAmount || reqData.Amount > cfg.MaxAmount {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false,
			fmt.Sprintf("Amount must be between %.2f and %.2f!", cfg.MinAmount, cfg.MaxAmount), nil)
	}

	fee := utils.Round2(reqData.Amount * cfg.FeePercentage / 100)
	paidAmount := utils.Round2(reqData.Amount - fee)
	if !utils.ValidAmount(fee) || !utils.ValidAmount(paidAmount) {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to compute withdrawal fee!", nil)
	}

	var withdrawal models.Withdrawal

	err = db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Where("id = ? AND is_deleted = false", userId).First(&user).Error; err != nil {
			return fmt.Errorf("user not found")
		}

		available := utils.Round2(user.Balance - user.PendingWithdrawal)
		if available < reqData.Amount {
			return fmt.Errorf("insufficient balance")
		}

		newPending := utils.Round2(user.PendingWithdrawal + reqData.Amount)
		if !utils.ValidAmount(newPending) {
			return fmt.Errorf("invalid pending computation for user %d", user.ID)
		}
		if err := tx.Model(&user).Update("pending_withdrawal", newPending).Error; err != nil {
			return err
		}

		withdrawalID := uuid.NewString()

		txn := models.Transaction{
			TransactionID: uuid.NewString(),
			UserID:        user.ID,
			WithdrawalID:  withdrawalID,
			Type:          models.TransactionTypeWithdrawal,
			Amount:        reqData.Amount,
			Fee:           fee,
			Status:        models.TransactionStatusPending,
			Description:   fmt.Sprintf("Withdrawal of INR %.2f via %s", reqData.Amount, reqData.Method),
		}
		if err := utils.CreateLedgerTransaction(tx, &txn); err != nil {
			return err
		}

		withdrawal = models.Withdrawal{
			WithdrawalID:      withdrawalID,
			UserID:            user.ID,
			Amount:            reqData.Amount,
			Fee:               fee,
			PaidAmount:        paidAmount,
			Method:            models.WithdrawalMethod(reqData.Method),
			BankName:          reqData.BankName,
			AccountNumber:     reqData.AccountNumber,
			IFSCCode:          reqData.IFSCCode,
			AccountHolderName: reqData.AccountHolderName,
			UpiID:             reqData.UpiID,
			Status:            models.WithdrawalStatusPending,
			TransactionID:     txn.TransactionID,
		}
		return tx.Create(&withdrawal).Error
	})
	if err != nil {
		if err.Error() == "insufficient balance" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Insufficient available balance!", nil)
		}
		if err.Error() == "user not found" {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
		}
		log.Printf("Error creating withdrawal: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, middleware.ErrorMessage("Failed to create withdrawal!", err), nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Withdrawal requested!", withdrawal)
}

// WithdrawalHistory handles GET /withdrawl/history/:userId
func WithdrawalHistory(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	requestedId, err := c.ParamsInt("userId")
	if err != nil || uint(requestedId) != userId {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access Denied!", nil)
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	offset := (page - 1) * limit

	db := database.Database.Db

	var total int64
	db.Model(&models.Withdrawal{}).Where("user_id = ? AND is_deleted = false", userId).Count(&total)

	var withdrawals []models.Withdrawal
	if err := db.Where("user_id = ? AND is_deleted = false", userId).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&withdrawals).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch withdrawal history!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Withdrawal history fetched!", fiber.Map{
		"withdrawals": withdrawals,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// ApproveWithdrawal handles POST /withdrawl/approve/:withdrawlId (admin only).
// Requires a UTR settlement reference. Debits balance, releases the
// reservation, and credits payout, all atomically.
func ApproveWithdrawal(c *fiber.Ctx) error {
	adminId := c.Locals("adminId").(uint)
	withdrawalId := c.Params("withdrawlId")

	reqData, ok := c.Locals("validatedApprove").(*struct {
		UTRNumber string `json:"utrNumber" validate:"required"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var withdrawal models.Withdrawal
	if err := db.Where("withdrawal_id = ? AND is_deleted = false", withdrawalId).First(&withdrawal).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Withdrawal not found!", nil)
	}

	if withdrawal.Status != models.WithdrawalStatusPending {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Can only approve pending withdrawals!", nil)
	}

	now := time.Now()
	var user models.User

	err := db.Transaction(func(tx *gorm.DB) error {
		// The debit below must happen exactly once even when two admin
		// requests race: the transition is conditional on the current
		// status and the loser rolls back.
		res := tx.Model(&withdrawal).
			Where("status = ?", models.WithdrawalStatusPending).
			Updates(map[string]interface{}{
				"status":       models.WithdrawalStatusCompleted,
				"utr_number":   reqData.UTRNumber,
				"processed_by": adminId,
				"processed_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errWithdrawalDecided
		}

		if err := tx.Where("id = ?", withdrawal.UserID).First(&user).Error; err != nil {
			return err
		}

		newBalance := utils.Round2(user.Balance - withdrawal.Amount)
		newPending := utils.Round2(user.PendingWithdrawal - withdrawal.Amount)
		if newPending < 0 {
			newPending = 0
		}
		newPayout := utils.Round2(user.Payout + withdrawal.Amount)

		if !utils.ValidAmount(newBalance) || !utils.ValidAmount(newPending) || !utils.ValidAmount(newPayout) {
			return fmt.Errorf("invalid balance computation for user %d", user.ID)
		}
		if newBalance < 0 {
			return fmt.Errorf("balance would go negative for user %d", user.ID)
		}

		if err := tx.Model(&user).Updates(map[string]interface{}{
			"balance":            newBalance,
			"pending_withdrawal": newPending,
			"payout":             newPayout,
		}).Error; err != nil {
			return err
		}

		var ledger models.Transaction
		if err := tx.Where("transaction_id = ?", withdrawal.TransactionID).First(&ledger).Error; err != nil {
			return err
		}
		return utils.SetLedgerTransactionHash(tx, &ledger, models.TransactionStatusCompleted)
	})
	if err != nil {
		if errors.Is(err, errWithdrawalDecided) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Can only approve pending withdrawals!", nil)
		}
		log.Printf("Error approving withdrawal %s: %v", withdrawalId, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, middleware.ErrorMessage("Failed to approve withdrawal!", err), nil)
	}

	go func(email, name string, amount float64, utr string) {
		if err := utils.SendWithdrawalProcessedEmail(email, name, "Completed", amount, utr); err != nil {
			log.Printf("Error sending withdrawal email: %v", err)
		}
	}(user.Email, user.Name, withdrawal.Amount, reqData.UTRNumber)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Withdrawal approved!", fiber.Map{
		"withdrawalId": withdrawal.WithdrawalID,
		"status":       models.WithdrawalStatusCompleted,
		"utrNumber":    reqData.UTRNumber,
	})
}

// RejectWithdrawal handles POST /withdrawl/reject/:withdrawlId (admin only).
// Releases the reservation; balance was never debited.
func RejectWithdrawal(c *fiber.Ctx) error {
	adminId := c.Locals("adminId").(uint)
	withdrawalId := c.Params("withdrawlId")

	reqData, ok := c.Locals("validatedReject").(*struct {
		Reason string `json:"reason" validate:"required"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var withdrawal models.Withdrawal
	if err := db.Where("withdrawal_id = ? AND is_deleted = false", withdrawalId).First(&withdrawal).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Withdrawal not found!", nil)
	}

	if withdrawal.Status != models.WithdrawalStatusPending {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Can only reject pending withdrawals!", nil)
	}

	now := time.Now()
	var user models.User

	err := db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&withdrawal).
			Where("status = ?", models.WithdrawalStatusPending).
			Updates(map[string]interface{}{
				"status":           models.WithdrawalStatusRejected,
				"rejection_reason": reqData.Reason,
				"processed_by":     adminId,
				"processed_at":     now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errWithdrawalDecided
		}

		if err := tx.Where("id = ?", withdrawal.UserID).First(&user).Error; err != nil {
			return err
		}

		newPending := utils.Round2(user.PendingWithdrawal - withdrawal.Amount)
		if newPending < 0 {
			newPending = 0
		}
		if !utils.ValidAmount(newPending) {
			return fmt.Errorf("invalid pending computation for user %d", user.ID)
		}

		if err := tx.Model(&user).Update("pending_withdrawal", newPending).Error; err != nil {
			return err
		}

		return tx.Model(&models.Transaction{}).
			Where("transaction_id = ?", withdrawal.TransactionID).
			Update("status", models.TransactionStatusFailed).Error
	})
	if err != nil {
		if errors.Is(err, errWithdrawalDecided) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Can only reject pending withdrawals!", nil)
		}
		log.Printf("Error rejecting withdrawal %s: %v", withdrawalId, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, middleware.ErrorMessage("Failed to reject withdrawal!", err), nil)
	}

	go func(email, name string, amount float64) {
		if err := utils.SendWithdrawalProcessedEmail(email, name, "Rejected", amount, ""); err != nil {
			log.Printf("Error sending withdrawal email: %v", err)
		}
	}(user.Email, user.Name, withdrawal.Amount)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Withdrawal rejected!", fiber.Map{
		"withdrawalId": withdrawal.WithdrawalID,
		"status":       models.WithdrawalStatusRejected,
	})
}

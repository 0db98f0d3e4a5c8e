package depositController

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

// errDepositDecided: the status transition matched zero rows because a
// concurrent request already moved the deposit out of the expected state.
var errDepositDecided = errors.New("deposit already decided")

// CreateDepositForUser validates a funding request against live deposit
// settings and creates a PENDING deposit, reserving the amount in
// User.PendingDeposit. Reward carries a special-offer bonus (0 for a plain
// deposit). On failure it returns a non-zero HTTP status and a message.
func CreateDepositForUser(db *gorm.DB, user *models.User, amount float64, currency, network string, reward float64) (*models.Deposit, *models.Wallet, int, string) {
	cfg, err := settings.GetDepositSettings(db)
	if err != nil {
		log.Printf("Error loading deposit settings: %v", err)
		return nil, nil, fiber.StatusInternalServerError, "Failed to load deposit settings!"
	}

	if cfg.Status != models.SettingsStatusActive {
		return nil, nil, fiber.StatusBadRequest, "Deposits are currently disabled!"
	}

	var currencySetting *models.CurrencySetting
	for i := range cfg.Currencies {
		if cfg.Currencies[i].Currency == currency {
			currencySetting = &cfg.Currencies[i]
			break
		}
	}
	if currencySetting == nil {
		return nil, nil, fiber.StatusBadRequest, "Unsupported currency!"
	}

	networkOk := false
	for _, n := range cfg.Networks {
		if n.Name == network {
			networkOk = true
			break
		}
	}
	if !networkOk {
		return nil, nil, fiber.StatusBadRequest, "Unsupported network!"
	}

	if amount <= 0 || amount < currencySetting.MinAmount {
		return nil, nil, fiber.StatusBadRequest,
			fmt.Sprintf("Amount must be at least %.2f %s!", currencySetting.MinAmount, currency)
	}

	var wallet *models.Wallet
	for i := range cfg.Wallets {
		w := &cfg.Wallets[i]
		if w.IsActive && w.Currency == currency && w.Network == network {
			wallet = w
			break
		}
	}
	if wallet == nil {
		return nil, nil, fiber.StatusBadRequest, "No active wallet available for this currency and network!"
	}

	receivedINR := utils.Round2(amount * currencySetting.ExchangeRate)
	if !utils.ValidAmount(receivedINR) {
		return nil, nil, fiber.StatusInternalServerError, "Failed to compute deposit amount!"
	}

	deposit := models.Deposit{
		DepositID:         uuid.NewString(),
		UserID:            user.ID,
		Amount:            amount,
		Currency:          currency,
		Network:           network,
		Rate:              currencySetting.ExchangeRate,
		ReceivedAmountINR: receivedINR,
		Reward:            reward,
		WalletAddress:     wallet.Address,
		Status:            models.DepositStatusPending,
	}

	newPending := utils.Round2(user.PendingDeposit + amount)
	if !utils.ValidAmount(newPending) {
		return nil, nil, fiber.StatusInternalServerError, "Failed to compute pending amount!"
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&deposit).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", user.ID).
			Update("pending_deposit", newPending).Error
	})
	if err != nil {
		log.Printf("Error creating deposit: %v", err)
		return nil, nil, fiber.StatusInternalServerError, "Failed to create deposit!"
	}

	user.PendingDeposit = newPending
	return &deposit, wallet, 0, ""
}

// CreateDeposit handles POST /deposits/create
func CreateDeposit(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = false", userId).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	reqData, ok := c.Locals("validatedDeposit").(*struct {
		Amount   float64 `json:"amount" validate:"required,gt=0"`
		Currency string  `json:"currency" validate:"required"`
		Network  string  `json:"network" validate:"required"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	deposit, wallet, failCode, failMsg := CreateDepositForUser(
		database.Database.Db, &user, reqData.Amount, reqData.Currency, reqData.Network, 0)
	if failCode != 0 {
		return middleware.JsonResponse(c, failCode, false, failMsg, nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Deposit created!", fiber.Map{
		"deposit":       deposit,
		"walletAddress": wallet.Address,
		"qrCode":        wallet.QRCode,
	})
}

// ConfirmDeposit handles POST /deposits/confirm/:depositId. The user
// supplies the on-chain transaction id for a PENDING deposit.
func ConfirmDeposit(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	depositId := c.Params("depositId")

	reqData, ok := c.Locals("validatedConfirm").(*struct {
		UserTransactionID string `json:"userTransactionId" validate:"required"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var deposit models.Deposit
	if err := db.Where("deposit_id = ? AND is_deleted = false", depositId).First(&deposit).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Deposit not found!", nil)
	}

	if deposit.UserID != userId {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access Denied!", nil)
	}

	if deposit.Status != models.DepositStatusPending {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Can only confirm pending deposits!", nil)
	}

	now := time.Now()
	err := db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&deposit).
			Where("status = ?", models.DepositStatusPending).
			Updates(map[string]interface{}{
				"user_transaction_id":    reqData.UserTransactionID,
				"status":                 models.DepositStatusUserConfirmed,
				"user_confirmation_time": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errDepositDecided
		}

		// Idempotency guard: a retried confirm must not create a second
		// ledger row for the same deposit.
		var existing models.Transaction
		err := tx.Where("deposit_id = ? AND type = ? AND is_deleted = false",
			deposit.DepositID, models.TransactionTypeDeposit).First(&existing).Error
		if err == nil {
			return nil
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}

		txn := models.Transaction{
			TransactionID: uuid.NewString(),
			UserID:        deposit.UserID,
			DepositID:     deposit.DepositID,
			Type:          models.TransactionTypeDeposit,
			Amount:        deposit.ReceivedAmountINR,
			Status:        models.TransactionStatusPending,
			Description:   fmt.Sprintf("Deposit of %.2f %s on %s", deposit.Amount, deposit.Currency, deposit.Network),
		}
		return utils.CreateLedgerTransaction(tx, &txn)
	})
	if err != nil {
		if errors.Is(err, errDepositDecided) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Can only confirm pending deposits!", nil)
		}
		log.Printf("Error confirming deposit %s: %v", depositId, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, middleware.ErrorMessage("Failed to confirm deposit!", err), nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Deposit confirmed, awaiting review.", fiber.Map{
		"depositId": deposit.DepositID,
		"status":    models.DepositStatusUserConfirmed,
	})
}

// GetDepositStatus handles GET /deposits/status/:depositId
func GetDepositStatus(c *fiber.Ctx) error {
	userId := c.Locals("userId").(uint)
	depositId := c.Params("depositId")

	var deposit models.Deposit
	if err := database.Database.Db.Where("deposit_id = ? AND is_deleted = false", depositId).First(&deposit).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Deposit not found!", nil)
	}

	if deposit.UserID != userId {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Access Denied!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Deposit status fetched!", deposit)
}

// DepositHistory handles GET /deposits/history/:userId
func DepositHistory(c *fiber.Ctx) error {
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
	db.Model(&models.Deposit{}).Where("user_id = ? AND is_deleted = false", userId).Count(&total)

	var deposits []models.Deposit
	if err := db.Where("user_id = ? AND is_deleted = false", userId).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&deposits).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch deposit history!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Deposit history fetched!", fiber.Map{
		"deposits": deposits,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// ApproveDeposit handles POST /deposits/approve/:depositId (admin only).
// The whole approval runs in one database transaction: deposit status,
// ledger row, depositor credit, offer bonus, and referral fan-out.
func ApproveDeposit(c *fiber.Ctx) error {
	depositId := c.Params("depositId")
	db := database.Database.Db

	var deposit models.Deposit
	if err := db.Where("deposit_id = ? AND is_deleted = false", depositId).First(&deposit).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Deposit not found!", nil)
	}

	if deposit.Status != models.DepositStatusUserConfirmed {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Can only approve user-confirmed deposits!", nil)
	}

	now := time.Now()
	err := db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Where("id = ? AND is_deleted = false", deposit.UserID).First(&user).Error; err != nil {
			return fmt.Errorf("depositor not found: %w", err)
		}

		var ledger models.Transaction
		if err := tx.Where("deposit_id = ? AND type = ? AND is_deleted = false",
			deposit.DepositID, models.TransactionTypeDeposit).First(&ledger).Error; err != nil {
			return fmt.Errorf("ledger transaction not found: %w", err)
		}

		if err := utils.SetLedgerTransactionHash(tx, &ledger, models.TransactionStatusCompleted); err != nil {
			return err
		}

		// The credit below must happen exactly once even when two admin
		// requests race: the transition is conditional on the current
		// status and the loser rolls back.
		res := tx.Model(&deposit).
			Where("status = ?", models.DepositStatusUserConfirmed).
			Updates(map[string]interface{}{
				"status":            models.DepositStatusCompleted,
				"admin_action_time": now,
				"transaction_hash":  ledger.TransactionHash,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errDepositDecided
		}

		newBalance := utils.Round2(user.Balance + deposit.ReceivedAmountINR)
		newPayin := utils.Round2(user.Payin + deposit.ReceivedAmountINR)
		newPending := utils.Round2(user.PendingDeposit - deposit.Amount)
		if newPending < 0 {
			newPending = 0
		}
		newTotalReward := user.TotalReward

		if deposit.Reward > 0 {
			newBalance = utils.Round2(newBalance + deposit.Reward)
			newTotalReward = utils.Round2(newTotalReward + deposit.Reward)

			bonus := models.Transaction{
				TransactionID: uuid.NewString(),
				UserID:        user.ID,
				DepositID:     deposit.DepositID,
				Type:          models.TransactionTypeSpecialOfferReward,
				Amount:        deposit.Reward,
				Status:        models.TransactionStatusCompleted,
				Description:   fmt.Sprintf("Special offer reward for deposit %s", deposit.DepositID),
			}
			if err := utils.CreateLedgerTransaction(tx, &bonus); err != nil {
				return err
			}
		}

		if !utils.ValidAmount(newBalance) || !utils.ValidAmount(newPayin) ||
			!utils.ValidAmount(newPending) || !utils.ValidAmount(newTotalReward) {
			return fmt.Errorf("invalid balance computation for user %d", user.ID)
		}

		if err := tx.Model(&user).Updates(map[string]interface{}{
			"balance":         newBalance,
			"payin":           newPayin,
			"pending_deposit": newPending,
			"total_reward":    newTotalReward,
		}).Error; err != nil {
			return err
		}

		return DistributeReferralRewards(tx, &user, deposit.ReceivedAmountINR)
	})
	if err != nil {
		if errors.Is(err, errDepositDecided) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Can only approve user-confirmed deposits!", nil)
		}
		log.Printf("Error approving deposit %s: %v", depositId, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, middleware.ErrorMessage("Failed to approve deposit!", err), nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Deposit approved!", fiber.Map{
		"depositId": deposit.DepositID,
		"status":    models.DepositStatusCompleted,
	})
}

// RejectDeposit handles POST /deposits/reject/:depositId (admin only)
func RejectDeposit(c *fiber.Ctx) error {
	depositId := c.Params("depositId")

	reqData, ok := c.Locals("validatedReject").(*struct {
		Reason string `json:"reason" validate:"required"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var deposit models.Deposit
	if err := db.Where("deposit_id = ? AND is_deleted = false", depositId).First(&deposit).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Deposit not found!", nil)
	}

	if deposit.Status != models.DepositStatusUserConfirmed {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Can only reject user-confirmed deposits!", nil)
	}

	now := time.Now()
	err := db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&deposit).
			Where("status = ?", models.DepositStatusUserConfirmed).
			Updates(map[string]interface{}{
				"status":            models.DepositStatusRejected,
				"rejection_reason":  reqData.Reason,
				"admin_action_time": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errDepositDecided
		}

		if err := tx.Model(&models.Transaction{}).
			Where("deposit_id = ? AND type = ? AND is_deleted = false",
				deposit.DepositID, models.TransactionTypeDeposit).
			Update("status", models.TransactionStatusFailed).Error; err != nil {
			return err
		}

		var user models.User
		if err := tx.Where("id = ?", deposit.UserID).First(&user).Error; err != nil {
			return err
		}

		// Balance was never credited; only the reservation is released.
		newPending := utils.Round2(user.PendingDeposit - deposit.Amount)
		if newPending < 0 {
			newPending = 0
		}
		if !utils.ValidAmount(newPending) {
			return fmt.Errorf("invalid pending computation for user %d", user.ID)
		}

		return tx.Model(&user).Update("pending_deposit", newPending).Error
	})
	if err != nil {
		if errors.Is(err, errDepositDecided) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Can only reject user-confirmed deposits!", nil)
		}
		log.Printf("Error rejecting deposit %s: %v", depositId, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, middleware.ErrorMessage("Failed to reject deposit!", err), nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Deposit rejected!", fiber.Map{
		"depositId": deposit.DepositID,
		"status":    models.DepositStatusRejected,
	})
}

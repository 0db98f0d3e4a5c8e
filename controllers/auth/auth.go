package authController

import (
	"finpay/config"
	"finpay/database"
	"finpay/middleware"
	"finpay/models"
	"finpay/utils"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	otpValidity       = 10 * time.Minute
	purposeSignup     = "Account Verification"
	purposeLogin      = "Login"
	purposeResetPass  = "Password Reset"
	maxFailedAttempts = 3
)

func issueOTP(db *gorm.DB, user *models.User, purpose string) error {
	otp := utils.GenerateOTP()

	otpRecord := models.OTP{
		UserID:      user.ID,
		Email:       user.Email,
		Code:        otp,
		ExpiresAt:   time.Now().Add(otpValidity),
		Description: purpose,
	}
	if err := db.Create(&otpRecord).Error; err != nil {
		return err
	}

	// Delivery happens off the request path; a failed send is logged and the
	// user can request a resend.
	go func(code, email, purpose string) {
		if err := utils.SendOTPEmail(code, email, purpose); err != nil {
			log.Printf("Error sending OTP email to %s: %v", email, err)
		}
	}(otp, user.Email, purpose)

	return nil
}

func Signup(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedSignup").(*struct {
		Name         string `json:"name" validate:"required,min=3"`
		Email        string `json:"email" validate:"required,email"`
		Mobile       string `json:"mobile"`
		Password     string `json:"password" validate:"required,min=8"`
		ReferralCode string `json:"referralCode"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	// Check if email already exists
	if err := db.Where("email = ?", reqData.Email).First(&models.User{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email is already registered!", nil)
	}

	var referredBy *uint
	if reqData.ReferralCode != "" {
		var referrer models.User
		if err := db.Where("referral_code = ? AND is_deleted = false", reqData.ReferralCode).First(&referrer).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid referral code!", nil)
		}
		referredBy = &referrer.ID
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	newUser := models.User{
		Name:       reqData.Name,
		Email:      reqData.Email,
		Mobile:     reqData.Mobile,
		Password:   string(hashedPassword),
		ReferredBy: referredBy,
	}

	// Referral codes are unique; regenerate on the rare collision.
	for attempt := 0; attempt < 5; attempt++ {
		newUser.ReferralCode = utils.GenerateReferralCode()
		err = db.Create(&newUser).Error
		if err == nil {
			break
		}
		if !utils.IsUniqueViolation(err) {
			break
		}
	}
	if err != nil {
		log.Printf("Error saving user to database: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to Signup user!", nil)
	}

	if err := issueOTP(db, &newUser, purposeSignup); err != nil {
		log.Printf("Error creating signup OTP: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to send verification OTP!", nil)
	}

	newUser.Password = ""

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "User registered. Verify the OTP sent to your email.", newUser)
}

// Login checks credentials and, when valid, emails a login OTP. The JWT is
// only issued by the follow-up VerifyOTP call.
func Login(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedLogin").(*struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required,min=8"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("email = ? AND is_deleted = ?", reqData.Email, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials!", nil)
	}

	if !user.IsEmailVerified {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Email not verified!", nil)
	}

	// Check if the user is blocked
	if user.IsBlocked && user.BlockedUntil != nil && user.BlockedUntil.After(time.Now()) {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Your account is temporarily blocked. Try again later.", nil)
	}
	if user.IsBlocked && user.BlockedUntil == nil {
		// Moderation block with no lift time requires admin action.
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Your account has been suspended.", nil)
	}

	if user.LastFailedLogin != nil && time.Since(*user.LastFailedLogin) > 15*time.Minute {
		user.FailedLoginAttempts = 0
		user.LastFailedLogin = nil
		db.Save(&user)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.Password)); err != nil {
		user.FailedLoginAttempts++
		now := time.Now()
		user.LastFailedLogin = &now

		// Block user after repeated failed attempts
		if user.FailedLoginAttempts >= maxFailedAttempts {
			user.IsBlocked = true
			unblockTime := now.Add(15 * time.Minute)
			user.BlockedUntil = &unblockTime
			user.BlockReason = "Too many failed login attempts"
		}

		if err := db.Save(&user).Error; err != nil {
			log.Printf("Error recording failed login: %v", err)
		}

		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Wrong Password", nil)
	}

	user.FailedLoginAttempts = 0
	if user.BlockedUntil != nil && !user.BlockedUntil.After(time.Now()) {
		user.IsBlocked = false
		user.BlockedUntil = nil
		user.BlockReason = ""
	}
	if err := db.Save(&user).Error; err != nil {
		log.Printf("Error resetting login state: %v", err)
	}

	if err := issueOTP(db, &user, purposeLogin); err != nil {
		log.Printf("Error creating login OTP: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to send login OTP!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "OTP sent to your email. Verify to complete login.", nil)
}

// VerifyOTP completes signup verification or two-step login and issues the
// user JWT.
func VerifyOTP(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedVerifyOTP").(*struct {
		Email string `json:"email" validate:"required,email"`
		Code  string `json:"code" validate:"required,len=6,numeric"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("email = ? AND is_deleted = ?", reqData.Email, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	var otpRecord models.OTP
	if err := db.Where("email = ? AND code = ? AND is_used = ? AND is_deleted = ?",
		reqData.Email, reqData.Code, false, false).
		Order("created_at DESC").First(&otpRecord).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid OTP!", nil)
	}

	if otpRecord.ExpiresAt.Before(time.Now()) {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "OTP has expired!", nil)
	}

	otpRecord.IsUsed = true
	if err := db.Save(&otpRecord).Error; err != nil {
		log.Printf("Error marking OTP used: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to verify OTP!", nil)
	}

	if otpRecord.Description == purposeSignup && !user.IsEmailVerified {
		user.IsEmailVerified = true
	}

	user.LastLogin = time.Now()
	if err := db.Save(&user).Error; err != nil {
		log.Printf("Error saving last login time: %v", err)
	}

	ip := c.IP()
	if forwarded := c.Get("X-Forwarded-For"); forwarded != "" {
		ip = forwarded
	}
	loginTracking := models.LoginTracking{
		UserID:    user.ID,
		IPAddress: ip,
		Device:    c.Get("User-Agent"),
		Timestamp: time.Now(),
	}
	if err := db.Create(&loginTracking).Error; err != nil {
		log.Printf("Error saving login tracking details: %v", err)
	}

	token, err := middleware.GenerateJWT(user.ID, user.Name, user.Email)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate token", nil)
	}

	user.Password = ""

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Verification successful.", fiber.Map{
		"user":  user,
		"token": token,
	})
}

// ForgotPassword emails a password-reset OTP
func ForgotPassword(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedForgotPassword").(*struct {
		Email string `json:"email" validate:"required,email"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("email = ? AND is_deleted = ?", reqData.Email, false).First(&user).Error; err != nil {
		// No user enumeration: respond success either way.
		return middleware.JsonResponse(c, fiber.StatusOK, true, "If the email is registered, an OTP has been sent.", nil)
	}

	if err := issueOTP(db, &user, purposeResetPass); err != nil {
		log.Printf("Error creating reset OTP: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to send reset OTP!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "If the email is registered, an OTP has been sent.", nil)
}

// ResetPassword sets a new password after OTP verification
func ResetPassword(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedResetPassword").(*struct {
		Email       string `json:"email" validate:"required,email"`
		Code        string `json:"code" validate:"required,len=6,numeric"`
		NewPassword string `json:"newPassword" validate:"required,min=8"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("email = ? AND is_deleted = ?", reqData.Email, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	var otpRecord models.OTP
	if err := db.Where("email = ? AND code = ? AND description = ? AND is_used = ? AND is_deleted = ?",
		reqData.Email, reqData.Code, purposeResetPass, false, false).
		Order("created_at DESC").First(&otpRecord).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid OTP!", nil)
	}

	if otpRecord.ExpiresAt.Before(time.Now()) {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "OTP has expired!", nil)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.NewPassword), config.AppConfig.SaltRound)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	otpRecord.IsUsed = true
	if err := db.Save(&otpRecord).Error; err != nil {
		log.Printf("Error marking OTP used: %v", err)
	}

	user.Password = string(hashedPassword)
	user.FailedLoginAttempts = 0
	if err := db.Save(&user).Error; err != nil {
		log.Printf("Error saving new password: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to reset password!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Password reset successful.", nil)
}

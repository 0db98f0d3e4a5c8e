package authController

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"finpay/config"
	"finpay/database"
	"finpay/models"
	authValidator "finpay/validators/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	config.AppConfig = &config.Config{JWTKey: "test-secret", AdminJWT: "test-admin-secret", SaltRound: 4}

	dsn := fmt.Sprintf("file:auth_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}

	return db
}

func testApp() *fiber.App {
	app := fiber.New()
	app.Post("/auth/signup", authValidator.Signup(), Signup)
	app.Post("/auth/login", authValidator.Login(), Login)
	app.Post("/auth/verify-otp", authValidator.VerifyOTP(), VerifyOTP)
	app.Post("/auth/forgot-password", authValidator.ForgotPassword(), ForgotPassword)
	app.Post("/auth/reset-password", authValidator.ResetPassword(), ResetPassword)
	return app
}

func doRequest(t *testing.T, app *fiber.App, path string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest("POST", path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var parsed map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	return resp, parsed
}

func latestOTP(t *testing.T, db *gorm.DB, email string) *models.OTP {
	t.Helper()
	var otp models.OTP
	require.NoError(t, db.Where("email = ? AND is_used = ?", email, false).
		Order("created_at DESC").First(&otp).Error)
	return &otp
}

func TestSignupVerifyLoginFlow(t *testing.T) {
	db := setupTestDB(t)
	app := testApp()

	email := fmt.Sprintf("flow_%d@example.com", time.Now().UnixNano())

	resp, body := doRequest(t, app, "/auth/signup", fiber.Map{
		"name":     "Flow User",
		"email":    email,
		"mobile":   "9876543210",
		"password": "supersecret1",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, body["message"])

	var user models.User
	require.NoError(t, db.Where("email = ?", email).First(&user).Error)
	assert.False(t, user.IsEmailVerified)
	assert.Len(t, user.ReferralCode, 8)
	assert.NotEqual(t, "supersecret1", user.Password)

	// Login before verification is refused.
	resp, _ = doRequest(t, app, "/auth/login", fiber.Map{
		"email": email, "password": "supersecret1",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	// Verify the signup OTP; this flips the verified flag and returns a JWT.
	otp := latestOTP(t, db, email)
	resp, body = doRequest(t, app, "/auth/verify-otp", fiber.Map{
		"email": email, "code": otp.Code,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode, body["message"])
	data := body["data"].(map[string]interface{})
	assert.NotEmpty(t, data["token"])

	require.NoError(t, db.Where("email = ?", email).First(&user).Error)
	assert.True(t, user.IsEmailVerified)

	// Two-step login: password check sends an OTP, no token yet.
	resp, body = doRequest(t, app, "/auth/login", fiber.Map{
		"email": email, "password": "supersecret1",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Nil(t, body["data"])

	otp = latestOTP(t, db, email)
	resp, body = doRequest(t, app, "/auth/verify-otp", fiber.Map{
		"email": email, "code": otp.Code,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	data = body["data"].(map[string]interface{})
	assert.NotEmpty(t, data["token"])

	// The OTP is single use.
	resp, _ = doRequest(t, app, "/auth/verify-otp", fiber.Map{
		"email": email, "code": otp.Code,
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	var trackingCount int64
	db.Model(&models.LoginTracking{}).Where("user_id = ?", user.ID).Count(&trackingCount)
	assert.Equal(t, int64(2), trackingCount)
}

func TestSignupRejectsDuplicateEmailAndBadReferral(t *testing.T) {
	db := setupTestDB(t)
	app := testApp()

	email := fmt.Sprintf("dup_%d@example.com", time.Now().UnixNano())

	resp, _ := doRequest(t, app, "/auth/signup", fiber.Map{
		"name": "First", "email": email, "password": "supersecret1",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, _ = doRequest(t, app, "/auth/signup", fiber.Map{
		"name": "Second", "email": email, "password": "supersecret1",
	})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp, _ = doRequest(t, app, "/auth/signup", fiber.Map{
		"name": "Third", "email": "other_" + email, "password": "supersecret1",
		"referralCode": "NOSUCH99",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var count int64
	db.Model(&models.User{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestSignupLinksReferrer(t *testing.T) {
	db := setupTestDB(t)
	app := testApp()

	referrerEmail := fmt.Sprintf("ref_%d@example.com", time.Now().UnixNano())
	resp, _ := doRequest(t, app, "/auth/signup", fiber.Map{
		"name": "Referrer", "email": referrerEmail, "password": "supersecret1",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var referrer models.User
	require.NoError(t, db.Where("email = ?", referrerEmail).First(&referrer).Error)

	resp, _ = doRequest(t, app, "/auth/signup", fiber.Map{
		"name": "Invitee", "email": "inv_" + referrerEmail, "password": "supersecret1",
		"referralCode": referrer.ReferralCode,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var invitee models.User
	require.NoError(t, db.Where("email = ?", "inv_"+referrerEmail).First(&invitee).Error)
	require.NotNil(t, invitee.ReferredBy)
	assert.Equal(t, referrer.ID, *invitee.ReferredBy)
}

func TestLoginLockoutAfterRepeatedFailures(t *testing.T) {
	db := setupTestDB(t)
	app := testApp()

	email := fmt.Sprintf("lock_%d@example.com", time.Now().UnixNano())
	resp, _ := doRequest(t, app, "/auth/signup", fiber.Map{
		"name": "Lock User", "email": email, "password": "supersecret1",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	require.NoError(t, db.Model(&models.User{}).Where("email = ?", email).
		Update("is_email_verified", true).Error)

	for i := 0; i < 3; i++ {
		resp, _ = doRequest(t, app, "/auth/login", fiber.Map{
			"email": email, "password": "wrongpassword",
		})
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	}

	var user models.User
	require.NoError(t, db.Where("email = ?", email).First(&user).Error)
	assert.True(t, user.IsBlocked)
	require.NotNil(t, user.BlockedUntil)
	assert.True(t, user.BlockedUntil.After(time.Now()))

	// Even the right password is refused while the block holds.
	resp, body := doRequest(t, app, "/auth/login", fiber.Map{
		"email": email, "password": "supersecret1",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Your account is temporarily blocked. Try again later.", body["message"])
}

func TestPasswordResetFlow(t *testing.T) {
	db := setupTestDB(t)
	app := testApp()

	email := fmt.Sprintf("reset_%d@example.com", time.Now().UnixNano())
	resp, _ := doRequest(t, app, "/auth/signup", fiber.Map{
		"name": "Reset User", "email": email, "password": "oldpassword1",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.NoError(t, db.Model(&models.User{}).Where("email = ?", email).
		Update("is_email_verified", true).Error)

	// Unknown emails get the same success answer.
	resp, body := doRequest(t, app, "/auth/forgot-password", fiber.Map{
		"email": "nobody@example.com",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = doRequest(t, app, "/auth/forgot-password", fiber.Map{"email": email})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	otp := latestOTP(t, db, email)
	require.Equal(t, "Password Reset", otp.Description)

	resp, body = doRequest(t, app, "/auth/reset-password", fiber.Map{
		"email": email, "code": otp.Code, "newPassword": "newpassword1",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode, body["message"])

	// Old password no longer works, the new one does.
	resp, _ = doRequest(t, app, "/auth/login", fiber.Map{
		"email": email, "password": "oldpassword1",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, _ = doRequest(t, app, "/auth/login", fiber.Map{
		"email": email, "password": "newpassword1",
	})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

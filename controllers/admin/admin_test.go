package adminController_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"finpay/config"
	"finpay/database"
	"finpay/middleware"
	"finpay/models"
	adminRoutes "finpay/routers/adminRoutes"
	"finpay/settings"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	config.AppConfig = &config.Config{JWTKey: "test-secret", AdminJWT: "test-admin-secret", SaltRound: 4}

	dsn := fmt.Sprintf("file:admin_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	database.RunMigrations(db)
	database.Database = database.DbInstance{Db: db}

	settings.InvalidateAll()
	require.NoError(t, settings.Init(db))

	return db
}

func createAdmin(t *testing.T, db *gorm.DB, role string) (*models.User, string) {
	t.Helper()

	const password = "adminsecret1"
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), 4)
	require.NoError(t, err)

	admin := models.User{
		Name:            "Admin " + role,
		Email:           fmt.Sprintf("admin_%s_%d@example.com", strings.ToLower(role), time.Now().UnixNano()),
		Password:        string(hashed),
		Role:            role,
		ReferralCode:    fmt.Sprintf("ADM%d", time.Now().UnixNano()%100000),
		IsEmailVerified: true,
	}
	require.NoError(t, db.Create(&admin).Error)
	return &admin, password
}

func testApp() *fiber.App {
	app := fiber.New()
	adminRoutes.SetupAdminRoutes(app)
	return app
}

func doRequest(t *testing.T, app *fiber.App, method, path, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var req *http.Request
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		req = httptest.NewRequest(method, path, bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var parsed map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	return resp, parsed
}

func adminToken(t *testing.T, app *fiber.App, email, password string) string {
	t.Helper()

	resp, body := doRequest(t, app, "POST", "/admin/login", "", fiber.Map{
		"email": email, "password": password,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode, body["message"])
	return body["data"].(map[string]interface{})["token"].(string)
}

func TestAdminLoginSetsSessionCookie(t *testing.T) {
	db := setupTestDB(t)
	admin, password := createAdmin(t, db, "ADMIN")
	app := testApp()

	resp, body := doRequest(t, app, "POST", "/admin/login", "", fiber.Map{
		"email": admin.Email, "password": password,
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]interface{})
	assert.NotEmpty(t, data["token"])

	var sessionCookie *http.Cookie
	for _, cookie := range resp.Cookies() {
		if cookie.Name == middleware.AdminCookieName {
			sessionCookie = cookie
		}
	}
	require.NotNil(t, sessionCookie, "expected the admin session cookie to be set")
	assert.True(t, sessionCookie.HttpOnly)
	assert.NotEmpty(t, sessionCookie.Value)

	// Wrong password and non-admin accounts are both refused.
	resp, _ = doRequest(t, app, "POST", "/admin/login", "", fiber.Map{
		"email": admin.Email, "password": "wrongpassword",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	hashed, err := bcrypt.GenerateFromPassword([]byte("usersecret12"), 4)
	require.NoError(t, err)
	user := models.User{
		Name: "Plain User", Email: "plain@example.com", Password: string(hashed),
		Role: "USER", ReferralCode: "PLAIN123", IsEmailVerified: true,
	}
	require.NoError(t, db.Create(&user).Error)

	resp, _ = doRequest(t, app, "POST", "/admin/login", "", fiber.Map{
		"email": user.Email, "password": "usersecret12",
	})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAdminRoutesRequireToken(t *testing.T) {
	db := setupTestDB(t)
	admin, password := createAdmin(t, db, "ADMIN")
	app := testApp()

	resp, _ := doRequest(t, app, "GET", "/admin/users", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	token := adminToken(t, app, admin.Email, password)

	resp, body := doRequest(t, app, "GET", "/admin/users", token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]interface{})
	assert.NotNil(t, data["users"])

	// The session cookie works without an Authorization header.
	req := httptest.NewRequest("GET", "/admin/users", nil)
	req.AddCookie(&http.Cookie{Name: middleware.AdminCookieName, Value: token})
	cookieResp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, cookieResp.StatusCode)

	// A user-key token is not valid on admin routes.
	userToken, err := middleware.GenerateJWT(admin.ID, admin.Name, admin.Email)
	require.NoError(t, err)
	resp, _ = doRequest(t, app, "GET", "/admin/users", userToken, nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestBlockAndUnblockUser(t *testing.T) {
	db := setupTestDB(t)
	admin, password := createAdmin(t, db, "SUPER-ADMIN")
	app := testApp()
	token := adminToken(t, app, admin.Email, password)

	target := models.User{
		Name: "Target", Email: "target@example.com", Password: "hashed",
		Role: "USER", ReferralCode: "TGT12345", IsEmailVerified: true,
	}
	require.NoError(t, db.Create(&target).Error)

	// A reason is mandatory.
	resp, _ := doRequest(t, app, "POST", fmt.Sprintf("/admin/users/%d/block", target.ID), token, fiber.Map{})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	resp, _ = doRequest(t, app, "POST", fmt.Sprintf("/admin/users/%d/block", target.ID), token, fiber.Map{
		"reason": "Chargeback fraud",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var fresh models.User
	require.NoError(t, db.First(&fresh, target.ID).Error)
	assert.True(t, fresh.IsBlocked)
	assert.Equal(t, "Chargeback fraud", fresh.BlockReason)
	assert.Nil(t, fresh.BlockedUntil)

	resp, _ = doRequest(t, app, "POST", fmt.Sprintf("/admin/users/%d/unblock", target.ID), token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.NoError(t, db.First(&fresh, target.ID).Error)
	assert.False(t, fresh.IsBlocked)
	assert.Empty(t, fresh.BlockReason)
}

func TestUpdateWithdrawalSettingsWritesThrough(t *testing.T) {
	db := setupTestDB(t)
	admin, password := createAdmin(t, db, "ADMIN")
	app := testApp()
	token := adminToken(t, app, admin.Email, password)

	resp, body := doRequest(t, app, "PUT", "/admin/withdrawal-settings", token, fiber.Map{
		"minAmount": 200.0, "maxAmount": 50000.0, "feePercentage": 3.0, "status": "ACTIVE",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode, body["message"])

	// The settings cache must serve the new values immediately.
	cfg, err := settings.GetWithdrawalSettings(db)
	require.NoError(t, err)
	assert.Equal(t, 200.0, cfg.MinAmount)
	assert.Equal(t, 50000.0, cfg.MaxAmount)
	assert.Equal(t, 3.0, cfg.FeePercentage)

	// max <= min fails validation.
	resp, _ = doRequest(t, app, "PUT", "/admin/withdrawal-settings", token, fiber.Map{
		"minAmount": 500.0, "maxAmount": 100.0, "feePercentage": 2.0, "status": "ACTIVE",
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestUpdateDepositSettingsReplacesChildren(t *testing.T) {
	db := setupTestDB(t)
	admin, password := createAdmin(t, db, "ADMIN")
	app := testApp()
	token := adminToken(t, app, admin.Email, password)

	resp, body := doRequest(t, app, "PUT", "/admin/settings", token, fiber.Map{
		"status": "ACTIVE",
		"currencySettings": []fiber.Map{
			{"currency": "USDT", "exchangeRate": 85.0, "minAmount": 20.0},
			{"currency": "USDC", "exchangeRate": 84.5, "minAmount": 25.0},
		},
		"networkOptions": []string{"TRC20"},
		"wallets": []fiber.Map{
			{"network": "TRC20", "currency": "USDT", "address": "TNewWallet1", "isActive": true},
			{"network": "TRC20", "currency": "USDT", "address": "TOldWallet2", "isActive": false},
		},
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode, body["message"])

	cfg, err := settings.GetDepositSettings(db)
	require.NoError(t, err)
	require.Len(t, cfg.Currencies, 2)
	assert.Equal(t, 85.0, cfg.Currencies[0].ExchangeRate)
	require.Len(t, cfg.Networks, 1)
	require.Len(t, cfg.Wallets, 2)
	assert.Equal(t, "TNewWallet1", cfg.Wallets[0].Address)

	// A wallet disabled by admin must stay disabled in the database.
	var disabled models.Wallet
	require.NoError(t, db.Where("address = ?", "TOldWallet2").First(&disabled).Error)
	assert.False(t, disabled.IsActive)
}

func TestUpdateReferralLevelsRejectsDuplicateNumbers(t *testing.T) {
	db := setupTestDB(t)
	admin, password := createAdmin(t, db, "ADMIN")
	app := testApp()
	token := adminToken(t, app, admin.Email, password)

	resp, body := doRequest(t, app, "PUT", "/admin/levels", token, fiber.Map{
		"systemStatus": "ACTIVE",
		"levels": []fiber.Map{
			{"level": 1, "rewardPercentage": 5.0, "status": "ACTIVE"},
			{"level": 1, "rewardPercentage": 3.0, "status": "ACTIVE"},
		},
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Level numbers must be unique!", body["message"])

	// The stored configuration is untouched.
	cfg, err := settings.GetReferralSettings(db)
	require.NoError(t, err)
	assert.Len(t, cfg.Levels, 3)

	resp, _ = doRequest(t, app, "PUT", "/admin/levels", token, fiber.Map{
		"systemStatus": "ACTIVE",
		"levels": []fiber.Map{
			{"level": 1, "rewardPercentage": 10.0, "status": "ACTIVE"},
			{"level": 2, "rewardPercentage": 5.0, "status": "INACTIVE"},
		},
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	cfg, err = settings.GetReferralSettings(db)
	require.NoError(t, err)
	require.Len(t, cfg.Levels, 2)
	assert.Equal(t, 10.0, cfg.Levels[0].RewardPercentage)
	assert.Equal(t, models.ReferralLevelInactive, cfg.Levels[1].Status)
}

func TestOfferAdministration(t *testing.T) {
	db := setupTestDB(t)
	admin, password := createAdmin(t, db, "ADMIN")
	app := testApp()
	token := adminToken(t, app, admin.Email, password)

	expiry := time.Now().Add(48 * time.Hour).Format(time.RFC3339)

	// Targeted offers need an explicit eligible-user list.
	resp, _ := doRequest(t, app, "POST", "/admin/offers", token, fiber.Map{
		"title": "Bad Offer", "depositAmount": 100.0, "rewardAmount": 200.0,
		"currency": "USDT", "network": "TRC20", "exchangeRate": 80.0,
		"expiry": expiry, "active": true, "allUsers": false,
	})
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	resp, body := doRequest(t, app, "POST", "/admin/offers", token, fiber.Map{
		"title": "Launch Bonus", "depositAmount": 100.0, "rewardAmount": 200.0,
		"currency": "USDT", "network": "TRC20", "exchangeRate": 80.0,
		"expiry": expiry, "active": true, "allUsers": true,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, body["message"])

	var offer models.Offer
	require.NoError(t, db.Where("title = ?", "Launch Bonus").First(&offer).Error)
	assert.Equal(t, 8000.0, offer.TotalAmountReceive)

	resp, _ = doRequest(t, app, "DELETE", fmt.Sprintf("/admin/offers/%d", offer.ID), token, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.NoError(t, db.First(&offer, offer.ID).Error)
	assert.True(t, offer.IsDeleted)
	assert.False(t, offer.Active)
}

func TestCreateOfferPersistsTargetingFlags(t *testing.T) {
	db := setupTestDB(t)
	admin, password := createAdmin(t, db, "ADMIN")
	app := testApp()
	token := adminToken(t, app, admin.Email, password)

	expiry := time.Now().Add(48 * time.Hour).Format(time.RFC3339)

	// A targeted draft offer: both flags false at creation.
	resp, body := doRequest(t, app, "POST", "/admin/offers", token, fiber.Map{
		"title": "VIP Bonus", "depositAmount": 100.0, "rewardAmount": 500.0,
		"currency": "USDT", "network": "TRC20", "exchangeRate": 80.0,
		"expiry": expiry, "active": false, "allUsers": false,
		"eligibleUsers": []uint{7, 9},
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode, body["message"])

	var offer models.Offer
	require.NoError(t, db.Where("title = ?", "VIP Bonus").First(&offer).Error)
	assert.False(t, offer.Active)
	assert.False(t, offer.AllUsers)

	var eligible []uint
	require.NoError(t, json.Unmarshal(offer.EligibleUsers, &eligible))
	assert.Equal(t, []uint{7, 9}, eligible)
}

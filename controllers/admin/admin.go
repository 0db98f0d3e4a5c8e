package adminController

import (
	"finpay/database"
	"finpay/middleware"
	"finpay/models"
	"finpay/utils"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

// Request shapes shared with the validators package.

type AdminLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type BlockUserRequest struct {
	Reason string     `json:"reason" validate:"required"`
	Until  *time.Time `json:"until"`
}

// Login handles POST /admin/login. Admin tokens are signed with the admin
// key, carry the adminLevel claim, and are additionally set as an httpOnly
// session cookie.
func Login(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedAdminLogin").(*AdminLoginRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var admin models.User
	if err := db.Where("email = ? AND is_deleted = false AND role IN ?",
		reqData.Email, []string{"ADMIN", "SUPER-ADMIN"}).First(&admin).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials!", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(reqData.Password)); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid credentials!", nil)
	}

	token, err := middleware.GenerateAdminJWT(admin.ID, admin.Name, admin.Role)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate token", nil)
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.AdminCookieName,
		Value:    token,
		Expires:  time.Now().Add(12 * time.Hour),
		HTTPOnly: true,
		SameSite: "Strict",
	})

	admin.Password = ""

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Admin login successful.", fiber.Map{
		"admin": admin,
		"token": token,
	})
}

// Logout handles POST /admin/logout by clearing the session cookie
func Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.AdminCookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: "Strict",
	})
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Logged out.", nil)
}

// ListUsers handles GET /admin/users with pagination and an optional search
func ListUsers(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	search := c.Query("search")

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	offset := (page - 1) * limit

	db := database.Database.Db

	query := db.Model(&models.User{}).Where("is_deleted = false")
	if search != "" {
		query = query.Where("email LIKE ? OR name LIKE ?", "%"+search+"%", "%"+search+"%")
	}

	var total int64
	query.Count(&total)

	var users []models.User
	if err := query.
		Omit("password").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&users).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch users!", nil)
	}

	for i := range users {
		users[i].Password = ""
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Users fetched!", fiber.Map{
		"users": users,
		"pagination": fiber.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// BlockUser handles POST /admin/users/:id/block with a reason and an
// optional lift timestamp.
func BlockUser(c *fiber.Ctx) error {
	targetId, err := c.ParamsInt("id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user id!", nil)
	}

	reqData, ok := c.Locals("validatedBlockUser").(*BlockUserRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = false", targetId).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	updates := map[string]interface{}{
		"is_blocked":    true,
		"block_reason":  reqData.Reason,
		"blocked_until": reqData.Until,
	}
	if err := db.Model(&user).Updates(updates).Error; err != nil {
		log.Printf("Error blocking user %d: %v", targetId, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to block user!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User blocked!", fiber.Map{
		"userId": user.ID,
		"reason": reqData.Reason,
		"until":  reqData.Until,
	})
}

// UnblockUser handles POST /admin/users/:id/unblock
func UnblockUser(c *fiber.Ctx) error {
	targetId, err := c.ParamsInt("id")
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid user id!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = false", targetId).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	if err := db.Model(&user).Updates(map[string]interface{}{
		"is_blocked":            false,
		"block_reason":          "",
		"blocked_until":         nil,
		"failed_login_attempts": 0,
	}).Error; err != nil {
		log.Printf("Error unblocking user %d: %v", targetId, err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to unblock user!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "User unblocked!", fiber.Map{
		"userId": user.ID,
	})
}

// GetMarketRate handles GET /admin/market-rate: the advisory INR reference
// rate, fetched live when the cache is stale.
func GetMarketRate(c *fiber.Ctx) error {
	rate, fetchedAt := utils.CachedMarketRate()
	if rate == 0 || time.Since(fetchedAt) > time.Hour {
		fetched, err := utils.FetchMarketRate()
		if err != nil {
			log.Printf("Error fetching market rate: %v", err)
			return middleware.JsonResponse(c, fiber.StatusServiceUnavailable, false, "Market rate unavailable!", nil)
		}
		rate = fetched
		fetchedAt = time.Now()
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Market rate fetched!", fiber.Map{
		"rateINR":   rate,
		"fetchedAt": fetchedAt,
	})
}

package middleware

import (
	"finpay/config"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

// AdminCookieName is the httpOnly session cookie set at admin login
const AdminCookieName = "admin_session"

// GenerateJWT generates a JWT token for a user
func GenerateJWT(userID uint, name, email string) (string, error) {
	claims := jwt.MapClaims{
		"userId": userID,
		"name":   name,
		"email":  email,
		"iat":    time.Now().Unix(),
		"exp":    time.Now().Add(24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	jwtSecret := []byte(config.AppConfig.JWTKey)

	return token.SignedString(jwtSecret)
}

// GenerateAdminJWT generates a JWT token for an admin, signed with the admin key
func GenerateAdminJWT(adminID uint, name, adminLevel string) (string, error) {
	claims := jwt.MapClaims{
		"adminId":    adminID,
		"name":       name,
		"adminLevel": adminLevel,
		"iat":        time.Now().Unix(),
		"exp":        time.Now().Add(12 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	jwtSecret := []byte(config.AppConfig.AdminJWT)

	return token.SignedString(jwtSecret)
}

func parseToken(tokenString, secret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token payload")
	}
	return claims, nil
}

func bearerToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return authHeader[len("Bearer "):]
}

// JWTMiddleware is a middleware to check for valid user JWT token in the request
func JWTMiddleware(c *fiber.Ctx) error {
	tokenString := bearerToken(c)
	if tokenString == "" {
		return JsonResponse(c, fiber.StatusUnauthorized, false, "Missing or invalid Authorization header", nil)
	}

	claims, err := parseToken(tokenString, config.AppConfig.JWTKey)
	if err != nil || claims["userId"] == nil {
		return JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid or expired token", nil)
	}

	// JWT claims are stored as float64, cast to uint
	userID := claims["userId"].(float64)
	c.Locals("userId", uint(userID))

	return c.Next()
}

// AdminJWTMiddleware checks for a valid admin JWT in the Authorization header
// or the admin session cookie, and requires the adminLevel claim.
func AdminJWTMiddleware(c *fiber.Ctx) error {
	tokenString := bearerToken(c)
	if tokenString == "" {
		tokenString = c.Cookies(AdminCookieName)
	}
	if tokenString == "" {
		return JsonResponse(c, fiber.StatusUnauthorized, false, "Admin authorization required", nil)
	}

	claims, err := parseToken(tokenString, config.AppConfig.AdminJWT)
	if err != nil || claims["adminId"] == nil || claims["adminLevel"] == nil {
		return JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid or expired admin token", nil)
	}

	adminID := claims["adminId"].(float64)
	c.Locals("adminId", uint(adminID))
	c.Locals("adminLevel", claims["adminLevel"].(string))

	return c.Next()
}

func JsonResponse(c *fiber.Ctx, statusCode int, status bool, message string, data interface{}) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"data":    data,
	})
}

func ValidationErrorResponse(c *fiber.Ctx, errors map[string]string) error {
	return JsonResponse(c, fiber.StatusUnprocessableEntity, false, "Validation failed!", errors)
}

// ErrorMessage appends the underlying error to the generic message when the
// app runs in development, so failures can be read off the response. In
// production the raw error stays in the server log only.
func ErrorMessage(message string, err error) string {
	if err != nil && config.AppConfig != nil && config.AppConfig.Env == "development" {
		return fmt.Sprintf("%s (%v)", message, err)
	}
	return message
}

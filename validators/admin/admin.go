package adminValidator

import (
	adminController "finpay/controllers/admin"
	"finpay/middleware"
	"finpay/validators/request"

	"github.com/gofiber/fiber/v2"
)

// Login validates POST /admin/login
func Login() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(adminController.AdminLoginRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := request.Struct(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedAdminLogin", reqData)
		return c.Next()
	}
}

// BlockUser validates POST /admin/users/:id/block
func BlockUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(adminController.BlockUserRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := request.Struct(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedBlockUser", reqData)
		return c.Next()
	}
}

// DepositSettings validates PUT /admin/settings
func DepositSettings() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(adminController.DepositSettingsRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := request.Struct(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedDepositSettings", reqData)
		return c.Next()
	}
}

// WithdrawalSettings validates PUT /admin/withdrawal-settings
func WithdrawalSettings() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(adminController.WithdrawalSettingsRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := request.Struct(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedWithdrawalSettings", reqData)
		return c.Next()
	}
}

// ReferralLevels validates PUT /admin/levels
func ReferralLevels() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(adminController.ReferralLevelsRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := request.Struct(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedReferralLevels", reqData)
		return c.Next()
	}
}

// Offer validates POST and PUT /admin/offers
func Offer() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(adminController.OfferRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := request.Struct(reqData)
		if errors == nil {
			errors = make(map[string]string)
		}
		if !reqData.AllUsers && len(reqData.EligibleUsers) == 0 {
			errors["eligibleUsers"] = "Eligible user list required when allUsers is false!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedOffer", reqData)
		return c.Next()
	}
}

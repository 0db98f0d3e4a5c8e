package userValidator

import (
	"finpay/middleware"
	"finpay/validators/request"

	"github.com/gofiber/fiber/v2"
)

// ProfileUpdate validates PUT /user/me. Only the allow-listed fields parse;
// anything else in the body is dropped.
func ProfileUpdate() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Name   string `json:"name" validate:"omitempty,min=3"`
			Mobile string `json:"mobile" validate:"omitempty,len=10,numeric"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := request.Struct(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedProfileUpdate", reqData)
		return c.Next()
	}
}

// BankAccount validates POST /user/bank-accounts
func BankAccount() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			BankName          string `json:"bankName" validate:"required"`
			AccountNumber     string `json:"accountNumber" validate:"required,min=6"`
			IFSCCode          string `json:"ifscCode" validate:"required,len=11"`
			AccountHolderName string `json:"accountHolderName" validate:"required"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := request.Struct(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedBankAccount", reqData)
		return c.Next()
	}
}

// UpiAccount validates POST /user/upi
func UpiAccount() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			UpiID string `json:"upiId" validate:"required,contains=@"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := request.Struct(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedUpiAccount", reqData)
		return c.Next()
	}
}

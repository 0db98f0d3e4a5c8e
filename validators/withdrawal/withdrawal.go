package withdrawalValidator

import (
	"finpay/middleware"
	"finpay/validators/request"

	"github.com/gofiber/fiber/v2"
)

// Create validates POST /withdrawl/create. The detail sub-object matching
// the chosen method is required; the other side is ignored.
func Create() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Amount            float64 `json:"amount" validate:"required,gt=0"`
			Method            string  `json:"withdrawalMethod" validate:"required,oneof=BANK UPI"`
			BankName          string  `json:"bankName"`
			AccountNumber     string  `json:"accountNumber"`
			IFSCCode          string  `json:"ifscCode"`
			AccountHolderName string  `json:"accountHolderName"`
			UpiID             string  `json:"upiId"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := request.Struct(reqData)
		if errors == nil {
			errors = make(map[string]string)
		}

		switch reqData.Method {
		case "BANK":
			if reqData.BankName == "" {
				errors["bankName"] = "Bank name is required!"
			}
			if reqData.AccountNumber == "" {
				errors["accountNumber"] = "Account number is required!"
			}
			if reqData.IFSCCode == "" {
				errors["ifscCode"] = "IFSC code is required!"
			}
			if reqData.AccountHolderName == "" {
				errors["accountHolderName"] = "Account holder name is required!"
			}
			reqData.UpiID = ""
		case "UPI":
			if reqData.UpiID == "" {
				errors["upiId"] = "UPI id is required!"
			}
			reqData.BankName = ""
			reqData.AccountNumber = ""
			reqData.IFSCCode = ""
			reqData.AccountHolderName = ""
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedWithdrawal", reqData)
		return c.Next()
	}
}

// Approve validates POST /withdrawl/approve/:withdrawlId. The bank UTR
// settlement reference is mandatory
func Approve() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			UTRNumber string `json:"utrNumber" validate:"required"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := request.Struct(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedApprove", reqData)
		return c.Next()
	}
}

// Reject validates POST /withdrawl/reject/:withdrawlId
func Reject() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Reason string `json:"reason" validate:"required"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		if errors := request.Struct(reqData); errors != nil {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedReject", reqData)
		return c.Next()
	}
}

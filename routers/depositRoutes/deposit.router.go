package depositRoutes

import (
	depositController "finpay/controllers/deposit"
	"finpay/middleware"
	depositValidator "finpay/validators/deposit"

	"github.com/gofiber/fiber/v2"
)

func SetupDepositRoutes(app *fiber.App) {
	depositGroup := app.Group("/deposits")

	// User routes
	depositGroup.Post("/create", depositValidator.Create(), middleware.JWTMiddleware, depositController.CreateDeposit)
	depositGroup.Post("/confirm/:depositId", depositValidator.Confirm(), middleware.JWTMiddleware, depositController.ConfirmDeposit)
	depositGroup.Get("/status/:depositId", middleware.JWTMiddleware, depositController.GetDepositStatus)
	depositGroup.Get("/history/:userId", middleware.JWTMiddleware, depositController.DepositHistory)

	// Admin routes
	depositGroup.Post("/approve/:depositId", middleware.AdminJWTMiddleware, depositController.ApproveDeposit)
	depositGroup.Post("/reject/:depositId", depositValidator.Reject(), middleware.AdminJWTMiddleware, depositController.RejectDeposit)
}

package withdrawalRoutes

import (
	withdrawalController "finpay/controllers/withdrawal"
	"finpay/middleware"
	withdrawalValidator "finpay/validators/withdrawal"

	"github.com/gofiber/fiber/v2"
)

func SetupWithdrawalRoutes(app *fiber.App) {
	// Group path kept as published in the public API
	withdrawalGroup := app.Group("/withdrawl")

	// User routes
	withdrawalGroup.Post("/create", withdrawalValidator.Create(), middleware.JWTMiddleware, withdrawalController.CreateWithdrawal)
	withdrawalGroup.Get("/history/:userId", middleware.JWTMiddleware, withdrawalController.WithdrawalHistory)

	// Admin routes
	withdrawalGroup.Post("/approve/:withdrawlId", withdrawalValidator.Approve(), middleware.AdminJWTMiddleware, withdrawalController.ApproveWithdrawal)
	withdrawalGroup.Post("/reject/:withdrawlId", withdrawalValidator.Reject(), middleware.AdminJWTMiddleware, withdrawalController.RejectWithdrawal)
}

package userRoutes

import (
	userController "finpay/controllers/userControllers"
	"finpay/middleware"
	userValidator "finpay/validators/user"

	"github.com/gofiber/fiber/v2"
)

func SetupUserRoutes(app *fiber.App) {
	userGroup := app.Group("/user")

	userGroup.Get("/me", middleware.JWTMiddleware, userController.GetProfile)
	userGroup.Put("/me", userValidator.ProfileUpdate(), middleware.JWTMiddleware, userController.UpdateProfile)
	userGroup.Get("/transactions", middleware.JWTMiddleware, userController.GetTransactions)
	userGroup.Get("/referrals", middleware.JWTMiddleware, userController.GetReferrals)
	userGroup.Post("/bank-accounts", userValidator.BankAccount(), middleware.JWTMiddleware, userController.AddBankAccount)
	userGroup.Post("/upi", userValidator.UpiAccount(), middleware.JWTMiddleware, userController.AddUpiAccount)
}

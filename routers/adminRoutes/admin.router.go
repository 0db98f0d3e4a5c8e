package adminRoutes

import (
	adminController "finpay/controllers/admin"
	"finpay/middleware"
	adminValidator "finpay/validators/admin"

	"github.com/gofiber/fiber/v2"
)

func SetupAdminRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin")

	adminGroup.Post("/login", adminValidator.Login(), adminController.Login)
	adminGroup.Post("/logout", middleware.AdminJWTMiddleware, adminController.Logout)

	adminGroup.Get("/users", middleware.AdminJWTMiddleware, adminController.ListUsers)
	adminGroup.Post("/users/:id/block", adminValidator.BlockUser(), middleware.AdminJWTMiddleware, adminController.BlockUser)
	adminGroup.Post("/users/:id/unblock", middleware.AdminJWTMiddleware, adminController.UnblockUser)

	adminGroup.Get("/settings", middleware.AdminJWTMiddleware, adminController.GetDepositSettings)
	adminGroup.Put("/settings", adminValidator.DepositSettings(), middleware.AdminJWTMiddleware, adminController.UpdateDepositSettings)
	adminGroup.Get("/withdrawal-settings", middleware.AdminJWTMiddleware, adminController.GetWithdrawalSettings)
	adminGroup.Put("/withdrawal-settings", adminValidator.WithdrawalSettings(), middleware.AdminJWTMiddleware, adminController.UpdateWithdrawalSettings)
	adminGroup.Get("/levels", middleware.AdminJWTMiddleware, adminController.GetReferralLevels)
	adminGroup.Put("/levels", adminValidator.ReferralLevels(), middleware.AdminJWTMiddleware, adminController.UpdateReferralLevels)

	adminGroup.Get("/offers", middleware.AdminJWTMiddleware, adminController.ListOffers)
	adminGroup.Post("/offers", adminValidator.Offer(), middleware.AdminJWTMiddleware, adminController.CreateOffer)
	adminGroup.Put("/offers/:offerId", adminValidator.Offer(), middleware.AdminJWTMiddleware, adminController.UpdateOffer)
	adminGroup.Delete("/offers/:offerId", middleware.AdminJWTMiddleware, adminController.DeleteOffer)

	adminGroup.Get("/market-rate", middleware.AdminJWTMiddleware, adminController.GetMarketRate)
}

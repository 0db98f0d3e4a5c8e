package offerRoutes

import (
	offerController "finpay/controllers/offer"
	"finpay/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupOfferRoutes(app *fiber.App) {
	offerGroup := app.Group("/offers")

	offerGroup.Get("/", middleware.JWTMiddleware, offerController.ListOffers)
	offerGroup.Post("/redeem/:offerId", middleware.JWTMiddleware, offerController.RedeemOffer)
}

package main

import (
	"log"

	"finpay/config"
	"finpay/database"
	adminRoutes "finpay/routers/adminRoutes"
	authRoutes "finpay/routers/authRoutes"
	depositRoutes "finpay/routers/depositRoutes"
	offerRoutes "finpay/routers/offerRoutes"
	userProfileRoutes "finpay/routers/userRoutes"
	withdrawalRoutes "finpay/routers/withdrawalRoutes"
	"finpay/settings"
	"finpay/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	if err := settings.Init(database.Database.Db); err != nil {
		log.Fatalf("Failed to initialize settings: %v", err)
	}

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",        // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization", // Allowed headers
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	// Serve static files from the public folder
	app.Static("/", "./public")

	authRoutes.SetupAuthRoutes(app)
	userProfileRoutes.SetupUserRoutes(app)
	depositRoutes.SetupDepositRoutes(app)
	withdrawalRoutes.SetupWithdrawalRoutes(app)
	offerRoutes.SetupOfferRoutes(app)
	adminRoutes.SetupAdminRoutes(app)

	scheduler := utils.InitializeSchedulers()
	defer scheduler.Stop()

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}

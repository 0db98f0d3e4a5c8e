package main

import (
	"flag"
	"log"

	"finpay/config"
	"finpay/database"
	"finpay/models"
	"finpay/utils"

	"golang.org/x/crypto/bcrypt"
)

// Bootstraps the first admin account. Run once after deploying:
//
//	go run scripts/createAdmin.go -email admin@example.com -password <pw> -name "Ops Admin"
func main() {
	email := flag.String("email", "", "admin email address")
	password := flag.String("password", "", "admin password (min 8 chars)")
	name := flag.String("name", "Administrator", "display name")
	super := flag.Bool("super", false, "grant SUPER-ADMIN instead of ADMIN")
	flag.Parse()

	if *email == "" || len(*password) < 8 {
		log.Fatal("Usage: -email and -password (min 8 chars) are required")
	}

	config.LoadConfig()
	database.ConnectDb()
	db := database.Database.Db

	var existing models.User
	if err := db.Where("email = ?", *email).First(&existing).Error; err == nil {
		log.Fatalf("An account with email %s already exists (id %d)", *email, existing.ID)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(*password), config.AppConfig.SaltRound)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	role := "ADMIN"
	if *super {
		role = "SUPER-ADMIN"
	}

	admin := models.User{
		Name:            *name,
		Email:           *email,
		Password:        string(hashed),
		Role:            role,
		ReferralCode:    utils.GenerateReferralCode(),
		IsEmailVerified: true,
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Fatalf("Failed to create admin: %v", err)
	}

	log.Printf("Created %s account %s (id %d)", role, admin.Email, admin.ID)
}

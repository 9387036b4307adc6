// Command admin_seed bootstraps a fresh installation: the admin
// account, the default volume tier table, and the starter asset
// catalog. Safe to run repeatedly; existing rows are left alone.
package main

import (
	"log"
	"os"

	"balcao/internal/config"
	"balcao/internal/models"
	"balcao/internal/repositories"

	"golang.org/x/crypto/bcrypt"
)

func main() {
	config.LoadEnv()

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	adminPhone := os.Getenv("ADMIN_PHONE")

	if adminEmail == "" || adminPassword == "" || adminPhone == "" {
		log.Fatal("ADMIN_EMAIL, ADMIN_PASSWORD, and ADMIN_PHONE must be set in environment")
	}

	if err := repositories.InitDB(); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer func() {
		if sqlDB, err := repositories.DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				log.Printf("⚠️ Failed to close PostgreSQL connection: %v", err)
			}
		}
		if repositories.CacheService != nil {
			if err := repositories.CacheService.Close(); err != nil {
				log.Printf("⚠️ Failed to close Redis connection: %v", err)
			}
		}
	}()

	seedAdmin(adminEmail, adminPassword, adminPhone)
	seedTierTable()
	seedAssets()
}

func seedAdmin(email, password, phone string) {
	var existing models.User
	if err := repositories.DB.Where("email = ?", email).First(&existing).Error; err == nil {
		log.Println("Admin user already exists")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	admin := models.User{
		Email:        email,
		Password:     string(hashedPassword),
		Name:         "Administrator",
		Phone:        phone,
		Role:         "admin",
		Status:       "active",
		KYCLevel:     3,
		TokenVersion: 1,
	}

	if err := repositories.DB.Create(&admin).Error; err != nil {
		log.Fatal("Failed to create admin user:", err)
	}

	log.Println("✅ Admin account created successfully!")
}

// seedTierTable installs the launch fee schedule: 3.5% under R$1k,
// 2.5% to R$10k, 1.5% to R$100k, 0.9% above.
func seedTierTable() {
	var count int64
	repositories.DB.Model(&models.FeeTierRow{}).Count(&count)
	if count > 0 {
		log.Println("Tier table already seeded")
		return
	}

	tiers := []models.FeeTierRow{
		{MinAmount: 0, MaxAmount: 1_000, Rate: 0.035, Position: 0, ModifiedBy: "seed"},
		{MinAmount: 1_000, MaxAmount: 10_000, Rate: 0.025, Position: 1, ModifiedBy: "seed"},
		{MinAmount: 10_000, MaxAmount: 100_000, Rate: 0.015, Position: 2, ModifiedBy: "seed"},
		{MinAmount: 100_000, MaxAmount: 0, Rate: 0.009, Position: 3, ModifiedBy: "seed"},
	}
	if err := repositories.DB.Create(&tiers).Error; err != nil {
		log.Fatal("Failed to seed tier table:", err)
	}

	log.Println("✅ Default tier table created")
}

func seedAssets() {
	assets := []models.Asset{
		{Symbol: "BTC", Name: "Bitcoin", Enabled: true, BuySpreadPct: 1.5, FeedSymbol: "BTC-BRL"},
		{Symbol: "ETH", Name: "Ethereum", Enabled: true, BuySpreadPct: 1.5, FeedSymbol: "ETH-BRL"},
		{Symbol: "USDT", Name: "Tether", Enabled: true, BuySpreadPct: 0.4, FeedSymbol: "USDT-BRL"},
	}

	for _, asset := range assets {
		var existing models.Asset
		if err := repositories.DB.Where("symbol = ?", asset.Symbol).First(&existing).Error; err == nil {
			continue
		}
		if err := repositories.DB.Create(&asset).Error; err != nil {
			log.Fatalf("Failed to seed asset %s: %v", asset.Symbol, err)
		}
		log.Printf("✅ Asset %s created", asset.Symbol)
	}
}

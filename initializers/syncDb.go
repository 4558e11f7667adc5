package initializers

import (
	"log"

	"github.com/sokoline/sokoline-api/models"
)

func SyncDatabase() {
	DB.AutoMigrate(
		&models.User{},
		&models.Address{},
		&models.Product{},
		&models.ProductImage{},
		&models.ProductSpecs{},
		&models.Review{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Vendor{},
		&models.Payout{},
		&models.LoyaltyAccount{},
		&models.LoyaltyTransaction{},
		&models.ReferralCode{},
		&models.Referral{},
	)
	log.Println("Database synced successfully.")
}

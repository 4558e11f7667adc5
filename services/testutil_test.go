package services

import (
	"os"
	"testing"

	"github.com/sokoline/sokoline-api/logger"
	"github.com/sokoline/sokoline-api/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	logger.Initialize("")
	os.Exit(m.Run())
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
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
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := models.User{
		Fullname:  "Test User",
		Username:  email,
		Email:     email,
		Role:      models.RoleCustomer,
		Activated: true,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return &user
}

func createTestProduct(t *testing.T, db *gorm.DB, name string, price float64, inventory int, active bool) *models.Product {
	t.Helper()
	product := models.Product{
		Name:      name,
		Slug:      name,
		Price:     price,
		Inventory: inventory,
		Active:    active,
		Category:  "general",
	}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("failed to create product: %v", err)
	}
	return &product
}

func createTestAddress(t *testing.T, db *gorm.DB, userID int) *models.Address {
	t.Helper()
	address := models.Address{
		UserID:   userID,
		FullName: "Test User",
		Phone:    "0700000000",
		Line1:    "Moi Avenue",
		City:     "Nairobi",
	}
	if err := db.Create(&address).Error; err != nil {
		t.Fatalf("failed to create address: %v", err)
	}
	return &address
}

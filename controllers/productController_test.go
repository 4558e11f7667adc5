package controllers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sokoline/sokoline-api/initializers"
	"github.com/sokoline/sokoline-api/logger"
	"github.com/sokoline/sokoline-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logger.Initialize("")
	os.Exit(m.Run())
}

// setupTestDB points the package-global connection at an in-memory
// database for the duration of a test.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.ProductImage{},
		&models.ProductSpecs{},
		&models.Vendor{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	initializers.DB = db
	return db
}

func createVendorUser(t *testing.T, db *gorm.DB, email, status string) (*models.User, *models.Vendor) {
	t.Helper()

	user := models.User{
		Fullname:  "Test Vendor",
		Username:  email,
		Email:     email,
		Role:      models.RoleVendor,
		Activated: true,
	}
	require.NoError(t, db.Create(&user).Error)

	vendor := models.Vendor{
		UserID:       int(user.ID),
		BusinessName: email + " shop",
		Status:       status,
	}
	require.NoError(t, db.Create(&vendor).Error)
	return &user, &vendor
}

func createVendorProduct(t *testing.T, db *gorm.DB, vendorID int, name string) *models.Product {
	t.Helper()

	product := models.Product{
		VendorID:  vendorID,
		Name:      name,
		Slug:      name,
		Price:     100,
		Inventory: 10,
		Active:    true,
		Category:  "general",
	}
	require.NoError(t, db.Create(&product).Error)
	return &product
}

// testContext builds a gin context carrying the authenticated user id
// the auth middleware would normally set.
func testContext(t *testing.T, userID int, req *http.Request) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()

	w := httptest.NewRecorder()
	ctx, _ := gin.CreateTestContext(w)
	ctx.Request = req
	ctx.Set("userID", userID)
	return ctx, w
}

func TestUpdateProductRejectsForeignVendor(t *testing.T) {
	db := setupTestDB(t)
	_, owner := createVendorUser(t, db, "owner@example.com", models.VendorApproved)
	intruder, _ := createVendorUser(t, db, "intruder@example.com", models.VendorApproved)
	product := createVendorProduct(t, db, int(owner.ID), "theirs")

	req := httptest.NewRequest(http.MethodPatch, "/", bytes.NewBufferString(`{"price": 1}`))
	req.Header.Set("Content-Type", "application/json")
	ctx, w := testContext(t, int(intruder.ID), req)
	ctx.Params = gin.Params{{Key: "id", Value: strconv.Itoa(int(product.ID))}}

	UpdateProduct(ctx)

	assert.Equal(t, http.StatusForbidden, w.Code)
	var after models.Product
	require.NoError(t, db.First(&after, product.ID).Error)
	assert.Equal(t, 100.0, after.Price)
}

func TestUpdateProductRequiresApprovedVendor(t *testing.T) {
	db := setupTestDB(t)
	suspended, vendor := createVendorUser(t, db, "suspended@example.com", models.VendorSuspended)
	product := createVendorProduct(t, db, int(vendor.ID), "frozen")

	req := httptest.NewRequest(http.MethodPatch, "/", bytes.NewBufferString(`{"inventory": 999}`))
	req.Header.Set("Content-Type", "application/json")
	ctx, w := testContext(t, int(suspended.ID), req)
	ctx.Params = gin.Params{{Key: "id", Value: strconv.Itoa(int(product.ID))}}

	UpdateProduct(ctx)

	assert.Equal(t, http.StatusForbidden, w.Code)
	var after models.Product
	require.NoError(t, db.First(&after, product.ID).Error)
	assert.Equal(t, 10, after.Inventory)
}

func TestCreateProductSpecsRejectsForeignVendor(t *testing.T) {
	db := setupTestDB(t)
	_, owner := createVendorUser(t, db, "spec-owner@example.com", models.VendorApproved)
	intruder, _ := createVendorUser(t, db, "spec-intruder@example.com", models.VendorApproved)
	product := createVendorProduct(t, db, int(owner.ID), "speced")

	body := `{"label": "Weight", "value": "2kg", "productId": ` + strconv.Itoa(int(product.ID)) + `}`
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	ctx, w := testContext(t, int(intruder.ID), req)

	CreateProductSpecs(ctx)

	assert.Equal(t, http.StatusForbidden, w.Code)
	var count int64
	db.Model(&models.ProductSpecs{}).Count(&count)
	assert.Zero(t, count)
}

func TestUploadProductImagesRejectsForeignVendor(t *testing.T) {
	db := setupTestDB(t)
	_, owner := createVendorUser(t, db, "img-owner@example.com", models.VendorApproved)
	intruder, _ := createVendorUser(t, db, "img-intruder@example.com", models.VendorApproved)
	product := createVendorProduct(t, db, int(owner.ID), "pictured")

	var form bytes.Buffer
	writer := multipart.NewWriter(&form)
	part, err := writer.CreateFormFile("images", "photo.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("not really a jpeg"))
	require.NoError(t, err)
	require.NoError(t, writer.WriteField("productId", strconv.Itoa(int(product.ID))))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &form)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	ctx, w := testContext(t, int(intruder.ID), req)

	UploadProductImages(ctx)

	assert.Equal(t, http.StatusForbidden, w.Code)
	var count int64
	db.Model(&models.ProductImage{}).Count(&count)
	assert.Zero(t, count)
}

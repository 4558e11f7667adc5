package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/sokoline/sokoline-api/initializers"
	"github.com/sokoline/sokoline-api/logger"
	"github.com/sokoline/sokoline-api/models"
	"github.com/sokoline/sokoline-api/services"
	"gorm.io/gorm"
)

// Product handlers
func CreateProduct(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	vendor, err := services.GetVendorByUserID(initializers.DB, userID)
	if err != nil {
		handleServiceError(ctx, err, "Failed to resolve vendor")
		return
	}
	if vendor.Status != models.VendorApproved {
		sendErrorResponse(ctx, http.StatusForbidden, "Vendor is not approved")
		return
	}

	var product models.Product
	if err := ctx.ShouldBindJSON(&product); err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	product.VendorID = int(vendor.ID)
	product.Active = true
	if err := initializers.DB.Create(&product).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to create product", err)
		return
	}

	ctx.JSON(http.StatusCreated, product)
}

// vendorOwnedProduct resolves the calling user's vendor profile,
// requires it to be approved and loads the product, rejecting
// products listed by another vendor. It writes the error response
// itself on failure.
func vendorOwnedProduct(ctx *gin.Context, productID int) (*models.Product, bool) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return nil, false
	}

	vendor, err := services.GetVendorByUserID(initializers.DB, userID)
	if err != nil {
		handleServiceError(ctx, err, "Failed to resolve vendor")
		return nil, false
	}
	if vendor.Status != models.VendorApproved {
		sendErrorResponse(ctx, http.StatusForbidden, "Vendor is not approved")
		return nil, false
	}

	var product models.Product
	if err := initializers.DB.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondWithError(ctx, http.StatusNotFound, "Product not found", nil)
		} else {
			respondWithError(ctx, http.StatusInternalServerError, "Failed to fetch product", err)
		}
		return nil, false
	}
	if product.VendorID != int(vendor.ID) {
		sendErrorResponse(ctx, http.StatusForbidden, "Product belongs to another vendor")
		return nil, false
	}
	return &product, true
}

func UpdateProduct(ctx *gin.Context) {
	productID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid product ID", err)
		return
	}

	product, ok := vendorOwnedProduct(ctx, productID)
	if !ok {
		return
	}

	var updates struct {
		Name        string   `json:"name"`
		Brand       string   `json:"brand"`
		Description string   `json:"description"`
		Price       *float64 `json:"price"`
		Inventory   *int     `json:"inventory"`
		Category    string   `json:"category"`
	}
	if err := ctx.ShouldBindJSON(&updates); err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	fields := map[string]any{}
	if updates.Name != "" {
		fields["name"] = updates.Name
	}
	if updates.Brand != "" {
		fields["brand"] = updates.Brand
	}
	if updates.Description != "" {
		fields["description"] = updates.Description
	}
	if updates.Price != nil {
		fields["price"] = *updates.Price
	}
	if updates.Inventory != nil {
		fields["inventory"] = *updates.Inventory
	}
	if updates.Category != "" {
		fields["category"] = updates.Category
	}

	if err := initializers.DB.Model(product).Updates(fields).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to update product", err)
		return
	}

	ctx.JSON(http.StatusOK, product)
}

// SetProductActive flips a product's active flag (admin only).
func SetProductActive(ctx *gin.Context) {
	productID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid product ID", err)
		return
	}

	var body struct {
		Active *bool `json:"active" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	result := initializers.DB.Model(&models.Product{}).
		Where("id = ?", productID).
		Update("active", *body.Active)
	if result.Error != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to update product", result.Error)
		return
	}
	if result.RowsAffected == 0 {
		respondWithError(ctx, http.StatusNotFound, "Product not found", nil)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Product updated"})
}

func CreateProductSpecs(ctx *gin.Context) {
	var spec models.ProductSpecs
	if err := ctx.ShouldBindJSON(&spec); err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if _, ok := vendorOwnedProduct(ctx, spec.ProductID); !ok {
		return
	}

	if err := initializers.DB.Create(&spec).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to create product specifications", err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"message": "Product specs added successfully"})
}

// getAWSUploader returns a configured AWS S3 uploader
func getAWSUploader() (*manager.Uploader, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		return nil, fmt.Errorf("error loading AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg)
	return manager.NewUploader(client), nil
}

func UploadProductImages(ctx *gin.Context) {
	form, err := ctx.MultipartForm()
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid form data", err)
		return
	}

	files := form.File["images"]
	if len(files) == 0 {
		respondWithError(ctx, http.StatusBadRequest, "No files uploaded", nil)
		return
	}

	productIDStr := ctx.PostForm("productId")
	if productIDStr == "" {
		respondWithError(ctx, http.StatusBadRequest, "Missing productId", nil)
		return
	}

	productID, err := strconv.Atoi(productIDStr)
	if err != nil {
		respondWithError(ctx, http.StatusBadRequest, "Invalid productId", err)
		return
	}

	if _, ok := vendorOwnedProduct(ctx, productID); !ok {
		return
	}

	uploader, err := getAWSUploader()
	if err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to configure AWS", err)
		return
	}

	bucket := os.Getenv("S3_BUCKET")
	var uploadedUrls []string
	var failedUploads []string

	for _, file := range files {
		f, openErr := file.Open()
		if openErr != nil {
			logger.Error("error opening upload", openErr)
			failedUploads = append(failedUploads, file.Filename)
			continue
		}

		// Unique key so uploads never overwrite each other
		uniqueFilename := fmt.Sprintf("%d-%s-%s", productID, time.Now().Format("20060102150405"), file.Filename)

		result, uploadErr := uploader.Upload(context.TODO(), &s3.PutObjectInput{
			Bucket:      aws.String(bucket),
			Key:         aws.String(uniqueFilename),
			Body:        f,
			ACL:         "public-read",
			ContentType: aws.String(file.Header.Get("Content-Type")),
		})
		f.Close()

		if uploadErr != nil {
			logger.Error("error uploading file", uploadErr)
			failedUploads = append(failedUploads, file.Filename)
			continue
		}

		uploadedUrls = append(uploadedUrls, result.Location)

		productImage := models.ProductImage{
			Url:       result.Location,
			ProductID: productID,
		}
		if err := initializers.DB.Create(&productImage).Error; err != nil {
			logger.Error("error saving image to database", err)
		}
	}

	response := gin.H{
		"message": "Files processed",
		"urls":    uploadedUrls,
	}
	if len(failedUploads) > 0 {
		response["failed"] = failedUploads
	}

	ctx.JSON(http.StatusOK, response)
}

func GetProducts(ctx *gin.Context) {
	var products []models.Product

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "12"))
	offset := (page - 1) * limit

	query := initializers.DB.Preload("Images").Where("active = ?", true)
	countQuery := initializers.DB.Model(&models.Product{}).Where("active = ?", true)

	// Case-insensitive substring search on name
	if search := ctx.Query("search"); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("LOWER(name) LIKE LOWER(?)", pattern)
		countQuery = countQuery.Where("LOWER(name) LIKE LOWER(?)", pattern)
	}

	if category := ctx.Query("category"); category != "" {
		query = query.Where("category = ?", category)
		countQuery = countQuery.Where("category = ?", category)
	}

	result := query.Limit(limit).Offset(offset).Find(&products)
	if result.Error != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch products", result.Error)
		return
	}

	var count int64
	countQuery.Count(&count)

	ctx.JSON(http.StatusOK, gin.H{
		"products": products,
		"metadata": gin.H{
			"total": count,
			"page":  page,
			"limit": limit,
		},
	})
}

func GetProduct(ctx *gin.Context) {
	query := initializers.DB.Preload("Specifications").Preload("Images")

	idOrSlug := ctx.Param("id")
	if productID, err := strconv.Atoi(idOrSlug); err == nil {
		query = query.Where("id = ?", productID)
	} else {
		query = query.Where("slug = ?", idOrSlug)
	}

	var product models.Product
	result := query.First(&product)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			respondWithError(ctx, http.StatusNotFound, "Product not found", nil)
		} else {
			respondWithError(ctx, http.StatusInternalServerError, "Unable to retrieve product", result.Error)
		}
		return
	}

	ctx.JSON(http.StatusOK, product)
}

package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sokoline/sokoline-api/initializers"
	"github.com/sokoline/sokoline-api/models"
	"gorm.io/gorm"
)

func CreateReview(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	productID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid product id")
		return
	}

	var body struct {
		Rating  int    `json:"rating" binding:"required,min=1,max=5"`
		Comment string `json:"comment"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid request body")
		return
	}

	var product models.Product
	if err := initializers.DB.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, "Product not found")
		} else {
			respondWithError(ctx, http.StatusInternalServerError, "Failed to validate product", err)
		}
		return
	}

	var existing models.Review
	err = initializers.DB.
		Where("product_id = ? AND user_id = ?", productID, userID).
		First(&existing).Error
	if err == nil {
		sendErrorResponse(ctx, http.StatusConflict, "You have already reviewed this product")
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to check existing review", err)
		return
	}

	review := models.Review{
		ProductID: productID,
		UserID:    userID,
		Rating:    body.Rating,
		Comment:   body.Comment,
	}
	if err := initializers.DB.Create(&review).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to create review", err)
		return
	}

	ctx.JSON(http.StatusCreated, review)
}

func GetProductReviews(ctx *gin.Context) {
	productID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid product id")
		return
	}

	var reviews []models.Review
	result := initializers.DB.Where("product_id = ?", productID).
		Order("created_at desc").
		Find(&reviews)
	if result.Error != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to fetch reviews", result.Error)
		return
	}

	var average float64
	if len(reviews) > 0 {
		initializers.DB.Model(&models.Review{}).
			Where("product_id = ?", productID).
			Select("AVG(rating)").
			Scan(&average)
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"reviews":       reviews,
		"averageRating": average,
	})
}

package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sokoline/sokoline-api/initializers"
	"github.com/sokoline/sokoline-api/services"
)

func GetCart(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	cart, err := services.GetCart(initializers.DB, userID)
	if err != nil {
		handleServiceError(ctx, err, "Failed to fetch cart")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"cart": cart})
}

func SyncCart(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var body struct {
		Items []services.CartLine `json:"items" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid input")
		return
	}

	cart, skipped, err := services.SyncCart(initializers.DB, userID, body.Items)
	if err != nil {
		handleServiceError(ctx, err, "Failed to sync cart")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"cart":    cart,
		"skipped": skipped,
	})
}

func AddToCart(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var body struct {
		ProductID int `json:"productId" binding:"required"`
		Quantity  int `json:"quantity" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid input")
		return
	}

	item, err := services.AddToCart(initializers.DB, userID, body.ProductID, body.Quantity)
	if err != nil {
		handleServiceError(ctx, err, "Failed to add item to cart")
		return
	}

	sendJSONResponse(ctx, http.StatusCreated, gin.H{
		"message": item.ProductName + " added to cart",
		"item":    item,
	})
}

func UpdateCartItem(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	itemID, err := strconv.Atoi(ctx.Param("itemId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid cart item id")
		return
	}

	var body struct {
		Quantity int `json:"quantity" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid input")
		return
	}

	item, err := services.UpdateCartItemQuantity(initializers.DB, userID, itemID, body.Quantity)
	if err != nil {
		handleServiceError(ctx, err, "Failed to update cart item")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"message": "Cart item quantity updated",
		"item":    item,
	})
}

func RemoveCartItem(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	itemID, err := strconv.Atoi(ctx.Param("itemId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid cart item id")
		return
	}

	if err := services.RemoveFromCart(initializers.DB, userID, itemID); err != nil {
		handleServiceError(ctx, err, "Failed to remove cart item")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Cart item removed"})
}

func ValidateCart(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	validation, err := services.ValidateCart(initializers.DB, userID)
	if err != nil {
		handleServiceError(ctx, err, "Failed to validate cart")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"valid":  validation.Valid,
		"issues": validation.Issues,
	})
}

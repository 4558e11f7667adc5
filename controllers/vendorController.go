package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sokoline/sokoline-api/initializers"
	"github.com/sokoline/sokoline-api/models"
	"github.com/sokoline/sokoline-api/services"
)

func ApplyAsVendor(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var body struct {
		BusinessName string `json:"businessName" binding:"required"`
		Description  string `json:"description"`
		Phone        string `json:"phone"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid request body")
		return
	}

	vendor, err := services.ApplyAsVendor(initializers.DB, userID, body.BusinessName, body.Description, body.Phone)
	if err != nil {
		handleServiceError(ctx, err, "Failed to submit vendor application")
		return
	}

	sendJSONResponse(ctx, http.StatusCreated, gin.H{
		"message": "Vendor application submitted. You will be notified once reviewed.",
		"vendor":  vendor,
	})
}

func GetVendorStats(ctx *gin.Context) {
	vendor, ok := currentVendor(ctx)
	if !ok {
		return
	}

	stats, err := services.GetVendorStats(initializers.DB, int(vendor.ID))
	if err != nil {
		handleServiceError(ctx, err, "Failed to compute vendor stats")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"stats": stats})
}

func GetVendorProducts(ctx *gin.Context) {
	vendor, ok := currentVendor(ctx)
	if !ok {
		return
	}

	var products []models.Product
	result := initializers.DB.Preload("Images").
		Where("vendor_id = ?", vendor.ID).
		Find(&products)
	if result.Error != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch products", result.Error)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"products": products})
}

// GetVendorOrders lists order lines that belong to the vendor's
// products, together with their order status.
func GetVendorOrders(ctx *gin.Context) {
	vendor, ok := currentVendor(ctx)
	if !ok {
		return
	}

	type vendorOrderLine struct {
		ID        int     `json:"id"`
		OrderID   int     `json:"orderId"`
		ProductID int     `json:"productId"`
		Name      string  `json:"name"`
		Price     float64 `json:"price"`
		Quantity  int     `json:"quantity"`
		Status    string  `json:"status"`
	}

	var lines []vendorOrderLine
	result := initializers.DB.Model(&models.OrderItem{}).
		Select("order_items.id, order_items.order_id, order_items.product_id, order_items.name, order_items.price, order_items.quantity, orders.status AS status").
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("order_items.vendor_id = ?", vendor.ID).
		Order("order_items.created_at desc").
		Scan(&lines)
	if result.Error != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch orders", result.Error)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"orderItems": lines})
}

func RequestPayout(ctx *gin.Context) {
	vendor, ok := currentVendor(ctx)
	if !ok {
		return
	}

	var body struct {
		Amount float64 `json:"amount" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid request body")
		return
	}

	payout, err := services.RequestPayout(initializers.DB, int(vendor.ID), body.Amount)
	if err != nil {
		handleServiceError(ctx, err, "Failed to request payout")
		return
	}

	sendJSONResponse(ctx, http.StatusCreated, gin.H{
		"message": "Payout requested",
		"payout":  payout,
	})
}

func GetVendorPayouts(ctx *gin.Context) {
	vendor, ok := currentVendor(ctx)
	if !ok {
		return
	}

	var payouts []models.Payout
	result := initializers.DB.Where("vendor_id = ?", vendor.ID).
		Order("created_at desc").
		Find(&payouts)
	if result.Error != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch payouts", result.Error)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"payouts": payouts})
}

// Admin handlers

func GetVendors(ctx *gin.Context) {
	query := initializers.DB.Model(&models.Vendor{})
	if status := ctx.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var vendors []models.Vendor
	if result := query.Order("created_at desc").Find(&vendors); result.Error != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Unable to fetch vendors", result.Error)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"vendors": vendors})
}

func UpdateVendorStatus(ctx *gin.Context) {
	vendorID, err := strconv.Atoi(ctx.Param("vendorId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid vendor id")
		return
	}

	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid request body")
		return
	}

	vendor, err := services.TransitionVendorStatus(initializers.DB, vendorID, body.Status)
	if err != nil {
		handleServiceError(ctx, err, "Failed to update vendor status")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"message": "Vendor status updated",
		"vendor":  vendor,
	})
}

func UpdatePayoutStatus(ctx *gin.Context) {
	payoutID, err := strconv.Atoi(ctx.Param("payoutId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid payout id")
		return
	}

	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid request body")
		return
	}

	payout, err := services.TransitionPayoutStatus(initializers.DB, payoutID, body.Status)
	if err != nil {
		handleServiceError(ctx, err, "Failed to update payout status")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"message": "Payout status updated",
		"payout":  payout,
	})
}

func currentVendor(ctx *gin.Context) (*models.Vendor, bool) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return nil, false
	}

	vendor, err := services.GetVendorByUserID(initializers.DB, userID)
	if err != nil {
		handleServiceError(ctx, err, "Failed to resolve vendor")
		return nil, false
	}
	return vendor, true
}

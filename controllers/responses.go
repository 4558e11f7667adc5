package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sokoline/sokoline-api/logger"
	"github.com/sokoline/sokoline-api/services"
)

func sendJSONResponse(ctx *gin.Context, status int, data gin.H) {
	ctx.JSON(status, data)
}

func sendErrorResponse(ctx *gin.Context, status int, message string) {
	sendJSONResponse(ctx, status, gin.H{"message": message})
}

func respondWithError(ctx *gin.Context, statusCode int, message string, err error) {
	errMsg := ""
	if err != nil {
		errMsg = err.Error()
	}
	ctx.JSON(statusCode, gin.H{
		"message": message,
		"error":   errMsg,
	})
}

// handleServiceError maps service sentinel errors to HTTP status
// codes; anything unrecognised is logged and answered with a generic
// 500 body.
func handleServiceError(ctx *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, services.ErrProductNotFound),
		errors.Is(err, services.ErrCartItemNotFound),
		errors.Is(err, services.ErrOrderNotFound),
		errors.Is(err, services.ErrAddressNotFound),
		errors.Is(err, services.ErrVendorNotFound),
		errors.Is(err, services.ErrPayoutNotFound),
		errors.Is(err, services.ErrReferralNotFound):
		sendErrorResponse(ctx, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrNotCartOwner),
		errors.Is(err, services.ErrNotOrderOwner):
		sendErrorResponse(ctx, http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrProductInactive),
		errors.Is(err, services.ErrInvalidQuantity),
		errors.Is(err, services.ErrInsufficientInventory),
		errors.Is(err, services.ErrEmptyCart),
		errors.Is(err, services.ErrInvalidTransition),
		errors.Is(err, services.ErrVendorExists),
		errors.Is(err, services.ErrVendorNotApproved),
		errors.Is(err, services.ErrInvalidAmount),
		errors.Is(err, services.ErrInsufficientBalance),
		errors.Is(err, services.ErrInvalidPoints),
		errors.Is(err, services.ErrInsufficientPoints),
		errors.Is(err, services.ErrSelfReferral),
		errors.Is(err, services.ErrAlreadyReferred):
		sendErrorResponse(ctx, http.StatusBadRequest, err.Error())
	default:
		logger.Error(fallback, err)
		sendErrorResponse(ctx, http.StatusInternalServerError, fallback)
	}
}

func currentUserID(ctx *gin.Context) (int, bool) {
	value, exists := ctx.Get("userID")
	if !exists {
		sendErrorResponse(ctx, http.StatusUnauthorized, "User not found in context")
		return 0, false
	}
	return value.(int), true
}

package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sokoline/sokoline-api/initializers"
	"github.com/sokoline/sokoline-api/services"
)

func GetLoyaltyAccount(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	account, err := services.GetLoyaltyAccount(initializers.DB, userID)
	if err != nil {
		handleServiceError(ctx, err, "Failed to fetch loyalty account")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"account": account})
}

func GetLoyaltyTransactions(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	transactions, err := services.GetLoyaltyTransactions(initializers.DB, userID)
	if err != nil {
		handleServiceError(ctx, err, "Failed to fetch loyalty transactions")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"transactions": transactions})
}

func RedeemPoints(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var body struct {
		Points int    `json:"points" binding:"required"`
		Note   string `json:"note"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid request body")
		return
	}

	account, err := services.RedeemPoints(initializers.DB, userID, body.Points, body.Note)
	if err != nil {
		handleServiceError(ctx, err, "Failed to redeem points")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"message": "Points redeemed",
		"account": account,
	})
}

func GetReferralCode(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	code, err := services.GetReferralCode(initializers.DB, userID)
	if err != nil {
		handleServiceError(ctx, err, "Failed to fetch referral code")
		return
	}

	referrals, err := services.GetReferrals(initializers.DB, userID)
	if err != nil {
		handleServiceError(ctx, err, "Failed to fetch referrals")
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"code":      code.Code,
		"referrals": referrals,
	})
}

func ApplyReferralCode(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var body struct {
		Code string `json:"code" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&body); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid request body")
		return
	}

	referral, err := services.ApplyReferralCode(initializers.DB, userID, body.Code)
	if err != nil {
		handleServiceError(ctx, err, "Failed to apply referral code")
		return
	}

	sendJSONResponse(ctx, http.StatusCreated, gin.H{
		"message":  "Referral code applied",
		"referral": referral,
	})
}

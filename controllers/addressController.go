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

func CreateAddress(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var address models.Address
	if err := ctx.ShouldBindJSON(&address); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid request body")
		return
	}

	address.UserID = userID
	if err := initializers.DB.Create(&address).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to create address", err)
		return
	}

	ctx.JSON(http.StatusCreated, address)
}

func GetAddresses(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var addresses []models.Address
	if result := initializers.DB.Where("user_id = ?", userID).Find(&addresses); result.Error != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to fetch addresses", result.Error)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"addresses": addresses})
}

func findOwnedAddress(ctx *gin.Context) (*models.Address, bool) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return nil, false
	}

	addressID, err := strconv.Atoi(ctx.Param("addressId"))
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid address id")
		return nil, false
	}

	var address models.Address
	if err := initializers.DB.First(&address, addressID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			sendErrorResponse(ctx, http.StatusNotFound, "Address not found")
		} else {
			respondWithError(ctx, http.StatusInternalServerError, "Failed to fetch address", err)
		}
		return nil, false
	}
	if address.UserID != userID {
		sendErrorResponse(ctx, http.StatusForbidden, "Address belongs to another user")
		return nil, false
	}
	return &address, true
}

func UpdateAddress(ctx *gin.Context) {
	address, ok := findOwnedAddress(ctx)
	if !ok {
		return
	}

	var updates models.Address
	if err := ctx.ShouldBindJSON(&updates); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid request body")
		return
	}

	address.FullName = updates.FullName
	address.Phone = updates.Phone
	address.Line1 = updates.Line1
	address.City = updates.City
	address.Country = updates.Country
	address.PostalCode = updates.PostalCode
	address.IsDefault = updates.IsDefault

	if err := initializers.DB.Save(address).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to update address", err)
		return
	}

	ctx.JSON(http.StatusOK, address)
}

func DeleteAddress(ctx *gin.Context) {
	address, ok := findOwnedAddress(ctx)
	if !ok {
		return
	}

	if err := initializers.DB.Delete(address).Error; err != nil {
		respondWithError(ctx, http.StatusInternalServerError, "Failed to delete address", err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Address deleted"})
}

package controllers

import (
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sokoline/sokoline-api/initializers"
	"github.com/sokoline/sokoline-api/logger"
	"github.com/sokoline/sokoline-api/models"
	"github.com/sokoline/sokoline-api/services"
	"github.com/sokoline/sokoline-api/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	// Default cost for bcrypt password hashing
	bcryptCost = 10

	// Standard response messages
	msgInvalidInput          = "invalid input"
	msgUserAlreadyExists     = "user already exists"
	msgFailedToHashPassword  = "failed to hash password"
	msgInvalidCredentials    = "invalid email or password"
	msgAccountNotActivated   = "Account not activated, check your email to activate your account."
	msgFailedToGenerateToken = "failed to generate token"
	msgInternalServerError   = "Internal server error"
	msgInvalidActivationLink = "Invalid or expired activation link"
	msgActivationSuccess     = "account has been activated successfully."
	msgResetLinkSent         = "Check your email for a password reset link."
	msgUserCreated           = "User created successfully. Check your email to activate your account."
	msgUserNotFound          = "user with this email does not exist"
	msgUnableToResetPassword = "unable to reset password"
)

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func comparePasswords(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

func signToken(claims jwt.MapClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

func parseToken(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

type signupData struct {
	Fullname        string `json:"fullname" binding:"required"`
	Username        string `json:"username" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Phone           string `json:"phone"`
	Password        string `json:"password" binding:"required,min=8"`
	ReferralCode    string `json:"referralCode"`
	AcceptTerms     bool   `json:"acceptTerms"`
	SubscribeToNews bool   `json:"subscribeToNews"`
}

func Signup(ctx *gin.Context) {
	var data signupData
	if err := ctx.ShouldBindJSON(&data); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	var existing models.User
	if err := initializers.DB.Where("email = ?", data.Email).First(&existing).Error; err == nil {
		sendErrorResponse(ctx, http.StatusConflict, msgUserAlreadyExists)
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("signup lookup failed", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	hashed, err := hashPassword(data.Password)
	if err != nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, msgFailedToHashPassword)
		return
	}

	user := models.User{
		Fullname:        data.Fullname,
		Username:        data.Username,
		Email:           data.Email,
		Phone:           data.Phone,
		Password:        hashed,
		Role:            models.RoleCustomer,
		AcceptTerms:     data.AcceptTerms,
		SubscribeToNews: data.SubscribeToNews,
	}
	if err := initializers.DB.Create(&user).Error; err != nil {
		logger.Error("failed to create user", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	if data.ReferralCode != "" {
		if _, err := services.ApplyReferralCode(initializers.DB, int(user.ID), data.ReferralCode); err != nil {
			logger.Warn("referral code not applied: " + err.Error())
		}
	}

	activationToken, err := signToken(jwt.MapClaims{
		"sub":     user.ID,
		"purpose": "activation",
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	})
	if err != nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, msgFailedToGenerateToken)
		return
	}

	emailData := utils.EmailData{
		Name:      user.Fullname,
		Message:   "Welcome to Sokoline! Activate your account to start shopping.",
		ActionURL: os.Getenv("FRONTEND_URL") + "/verify-email/" + activationToken,
	}
	if err := utils.SendEmail([]string{user.Email}, "Activate your Sokoline account", emailData, "templates/activation.html"); err != nil {
		logger.Error("failed to send activation email", err)
	}

	sendJSONResponse(ctx, http.StatusCreated, gin.H{"message": msgUserCreated})
}

func Login(ctx *gin.Context) {
	var data models.LoginData
	if err := ctx.ShouldBindJSON(&data); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	var user models.User
	if err := initializers.DB.Where("email = ?", data.Email).First(&user).Error; err != nil {
		sendErrorResponse(ctx, http.StatusUnauthorized, msgInvalidCredentials)
		return
	}

	if err := comparePasswords(user.Password, data.Password); err != nil {
		sendErrorResponse(ctx, http.StatusUnauthorized, msgInvalidCredentials)
		return
	}

	if !user.Activated {
		sendErrorResponse(ctx, http.StatusForbidden, msgAccountNotActivated)
		return
	}

	token, err := signToken(jwt.MapClaims{
		"sub":  user.ID,
		"role": user.Role,
		"exp":  time.Now().Add(72 * time.Hour).Unix(),
	})
	if err != nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, msgFailedToGenerateToken)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":       user.ID,
			"fullname": user.Fullname,
			"email":    user.Email,
			"role":     user.Role,
		},
	})
}

func ActivateAccount(ctx *gin.Context) {
	claims, err := parseToken(ctx.Param("activationToken"))
	if err != nil || claims["purpose"] != "activation" {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidActivationLink)
		return
	}

	sub, ok := claims["sub"].(float64)
	if !ok {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidActivationLink)
		return
	}

	if err := initializers.DB.Model(&models.User{}).
		Where("id = ?", int(sub)).
		Update("activated", true).Error; err != nil {
		logger.Error("failed to activate account", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": msgActivationSuccess})
}

func SendPasswordResetLink(ctx *gin.Context) {
	var data struct {
		Email string `json:"email" binding:"required,email"`
	}
	if err := ctx.ShouldBindJSON(&data); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	var user models.User
	if err := initializers.DB.Where("email = ?", data.Email).First(&user).Error; err != nil {
		sendErrorResponse(ctx, http.StatusNotFound, msgUserNotFound)
		return
	}

	resetToken, err := signToken(jwt.MapClaims{
		"sub":     user.ID,
		"purpose": "password-reset",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	if err != nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, msgFailedToGenerateToken)
		return
	}

	emailData := utils.EmailData{
		Name:      user.Fullname,
		Message:   "Use the link below to reset your password. The link expires in one hour.",
		ActionURL: os.Getenv("FRONTEND_URL") + "/reset-password/" + resetToken,
	}
	if err := utils.SendEmail([]string{user.Email}, "Reset your Sokoline password", emailData, "templates/passwordReset.html"); err != nil {
		logger.Error("failed to send reset email", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": msgResetLinkSent})
}

func ResetPassword(ctx *gin.Context) {
	claims, err := parseToken(ctx.Param("resetToken"))
	if err != nil || claims["purpose"] != "password-reset" {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidActivationLink)
		return
	}

	var data struct {
		Password string `json:"password" binding:"required,min=8"`
	}
	if err := ctx.ShouldBindJSON(&data); err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	hashed, err := hashPassword(data.Password)
	if err != nil {
		sendErrorResponse(ctx, http.StatusInternalServerError, msgFailedToHashPassword)
		return
	}

	sub, ok := claims["sub"].(float64)
	if !ok {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidActivationLink)
		return
	}

	if err := initializers.DB.Model(&models.User{}).
		Where("id = ?", int(sub)).
		Update("password", hashed).Error; err != nil {
		logger.Error("failed to reset password", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, msgUnableToResetPassword)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, gin.H{"message": "Password has been reset successfully."})
}

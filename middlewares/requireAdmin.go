package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sokoline/sokoline-api/models"
)

func RequireAdmin() gin.HandlerFunc {
	return requireRole(models.RoleAdmin, "Admin access required")
}

func RequireVendor() gin.HandlerFunc {
	return requireRole(models.RoleVendor, "Vendor access required")
}

func requireRole(role, message string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		userClaims, exists := ctx.Get("user")
		if !exists {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "User not found in context"})
			return
		}

		claims := userClaims.(jwt.MapClaims)
		got, ok := claims["role"].(string)
		if !ok || got != role {
			ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": message})
			return
		}

		ctx.Next()
	}
}

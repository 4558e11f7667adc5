package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sokoline/sokoline-api/controllers"
	"github.com/sokoline/sokoline-api/middlewares"
)

func LoyaltyRoutes(server *gin.Engine) {
	loyalty := server.Group("/loyalty", middlewares.RequireAuth())
	{
		loyalty.GET("/account", controllers.GetLoyaltyAccount)
		loyalty.GET("/transactions", controllers.GetLoyaltyTransactions)
		loyalty.POST("/redeem", controllers.RedeemPoints)
	}

	referrals := server.Group("/referrals", middlewares.RequireAuth())
	{
		referrals.GET("/code", controllers.GetReferralCode)
		referrals.POST("/apply", controllers.ApplyReferralCode)
	}
}

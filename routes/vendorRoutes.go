package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sokoline/sokoline-api/controllers"
	"github.com/sokoline/sokoline-api/middlewares"
)

func VendorRoutes(server *gin.Engine) {
	server.POST("/vendor/apply", middlewares.RequireAuth(), controllers.ApplyAsVendor)

	vendor := server.Group("/vendor", middlewares.RequireAuth(), middlewares.RequireVendor())
	{
		vendor.GET("/stats", controllers.GetVendorStats)
		vendor.GET("/orders", controllers.GetVendorOrders)
		vendor.GET("/products", controllers.GetVendorProducts)
		vendor.POST("/payouts", controllers.RequestPayout)
		vendor.GET("/payouts", controllers.GetVendorPayouts)
	}

	admin := server.Group("/admin", middlewares.RequireAuth(), middlewares.RequireAdmin())
	{
		admin.GET("/vendors", controllers.GetVendors)
		admin.PATCH("/vendors/:vendorId/status", controllers.UpdateVendorStatus)
		admin.PATCH("/payouts/:payoutId/status", controllers.UpdatePayoutStatus)
	}
}

package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sokoline/sokoline-api/controllers"
	"github.com/sokoline/sokoline-api/middlewares"
)

func OrderRoutes(server *gin.Engine) {
	order := server.Group("/order", middlewares.RequireAuth())
	{
		order.POST("/checkout", controllers.Checkout)
		order.GET("", controllers.GetMyOrders)
		order.GET("/:orderId", controllers.GetOrderById)
		order.POST("/:orderId/cancel", controllers.CancelOrder)
	}

	admin := server.Group("/admin", middlewares.RequireAuth(), middlewares.RequireAdmin())
	{
		admin.GET("/orders", controllers.GetOrders)
		admin.GET("/orders/undelivered", controllers.GetUndeliveredOrders)
		admin.PATCH("/orders/:orderId", controllers.UpdateOrderStatus)
	}

	// Server-to-server callback from the payment processor
	server.POST("/payment/ipn", controllers.HandlePaymentIPN)
	server.GET("/payment/ipn", controllers.HandlePaymentIPN)
}

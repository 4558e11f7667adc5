package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sokoline/sokoline-api/controllers"
	"github.com/sokoline/sokoline-api/middlewares"
)

func CartRoutes(server *gin.Engine) {
	cart := server.Group("/cart", middlewares.RequireAuth())
	{
		cart.GET("", controllers.GetCart)
		cart.POST("/sync", controllers.SyncCart)
		cart.POST("/items", controllers.AddToCart)
		cart.PATCH("/items/:itemId", controllers.UpdateCartItem)
		cart.DELETE("/items/:itemId", controllers.RemoveCartItem)
		cart.GET("/validate", controllers.ValidateCart)
	}
}

package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sokoline/sokoline-api/controllers"
	"github.com/sokoline/sokoline-api/middlewares"
)

func AddressRoutes(server *gin.Engine) {
	addresses := server.Group("/addresses", middlewares.RequireAuth())
	{
		addresses.POST("", controllers.CreateAddress)
		addresses.GET("", controllers.GetAddresses)
		addresses.PUT("/:addressId", controllers.UpdateAddress)
		addresses.DELETE("/:addressId", controllers.DeleteAddress)
	}
}

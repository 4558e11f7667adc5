package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/sokoline/sokoline-api/controllers"
	"github.com/sokoline/sokoline-api/middlewares"
)

func ProductRoutes(server *gin.Engine) {
	server.GET("/product", controllers.GetProducts)
	server.GET("/product/:id", controllers.GetProduct)
	server.GET("/product/:id/reviews", controllers.GetProductReviews)

	vendor := server.Group("/", middlewares.RequireAuth(), middlewares.RequireVendor())
	{
		vendor.POST("/product", controllers.CreateProduct)
		vendor.PATCH("/product/:id", controllers.UpdateProduct)
		vendor.POST("/product-specs", controllers.CreateProductSpecs)
		vendor.POST("/product-images", controllers.UploadProductImages)
	}

	admin := server.Group("/admin", middlewares.RequireAuth(), middlewares.RequireAdmin())
	{
		admin.PATCH("/product/:id/active", controllers.SetProductActive)
	}

	server.POST("/product/:id/reviews", middlewares.RequireAuth(), controllers.CreateReview)
}

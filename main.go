package main

import (
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sokoline/sokoline-api/initializers"
	"github.com/sokoline/sokoline-api/logger"
	"github.com/sokoline/sokoline-api/routes"
)

func init() {
	initializers.LoadEnv()
	logger.Initialize(os.Getenv("APP_ENV"))
	initializers.ConnectToDB()
	initializers.SyncDatabase()
}

func main() {
	server := gin.New()
	server.Use(gin.Recovery())
	server.Use(logger.RequestLogger())

	allowedOrigins := []string{"http://localhost:4200"}
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		allowedOrigins = strings.Split(origins, ",")
	}
	server.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.DefaultRoutes(server)
	routes.AuthRoutes(server)
	routes.ProductRoutes(server)
	routes.CartRoutes(server)
	routes.OrderRoutes(server)
	routes.VendorRoutes(server)
	routes.AddressRoutes(server)
	routes.LoyaltyRoutes(server)
	server.Run()
}

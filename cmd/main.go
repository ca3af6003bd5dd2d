package main

import (
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/openformlab/form-server/config"
	"github.com/openformlab/form-server/middleware"
	"github.com/openformlab/form-server/routes"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	config.InitLogger()
	defer config.Log.Sync()

	db, err := config.ConnectDB()
	if err != nil {
		config.Log.Fatal("database setup failed", zap.Error(err))
	}

	if os.Getenv("APP_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLog())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	if err := r.SetTrustedProxies(nil); err != nil {
		config.Log.Fatal("trusted proxies setup failed", zap.Error(err))
	}

	routes.SetupRoutes(r, db)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	config.Log.Info("server listening", zap.String("port", port))
	if err := r.Run(":" + port); err != nil {
		config.Log.Fatal("server exited", zap.Error(err))
	}
}

package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/craftforge/craftforge/internal/activity"
	"github.com/craftforge/craftforge/internal/config"
	"github.com/craftforge/craftforge/internal/handlers"
	"github.com/craftforge/craftforge/internal/metrics"
	"github.com/craftforge/craftforge/internal/middleware"
	"github.com/craftforge/craftforge/internal/notify"
	"github.com/craftforge/craftforge/internal/storage"
	"github.com/craftforge/craftforge/internal/utils"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		logrus.Warn("No .env file found, using environment variables")
	}

	// Initialize Redis for session and badge caching
	if err := utils.InitRedis(); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer utils.CloseRedis()

	// Initialize database
	db, err := config.ConnectDatabase()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	if err := config.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Audit stream is optional; without a broker activities stay DB-only.
	var producer *activity.AuditProducer
	if broker := os.Getenv("KAFKA_BROKER"); broker != "" {
		producer = activity.NewAuditProducer(broker)
		defer producer.Close()
	} else {
		logrus.Warn("KAFKA_BROKER not set, audit stream disabled")
	}

	blobs, err := storage.NewFromEnv()
	if err != nil {
		log.Fatal("Failed to initialize blob storage:", err)
	}

	recorder := activity.NewRecorder(db, producer)
	hub := notify.NewHub()
	notifier := notify.NewDispatcher(db, hub)
	authMiddleware := middleware.NewAuthMiddleware(db)

	// Initialize Gin router
	router := gin.Default()
	router.Use(metrics.Middleware())

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		utils.OKResponse(c, "Server is healthy", nil)
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handlers.Register(router, db, authMiddleware, recorder, notifier, hub, blobs)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8001"
	}

	logrus.Infof("Server starting on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

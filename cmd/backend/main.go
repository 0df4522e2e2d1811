package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"housing-intel/internal/config"
	"housing-intel/internal/handler"
	"housing-intel/internal/logging"
	"housing-intel/internal/repository"
	"housing-intel/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logging.New(&cfg.Logging)
	logger.WithFields(map[string]interface{}{
		"version":    Version,
		"build_time": BuildTime,
		"git_commit": GitCommit,
	}).Info("Starting housing-intel backend")

	// Set Gin mode
	gin.SetMode(cfg.Backend.GinMode)

	// Initialize database connection
	repo, err := repository.NewPostgresRepository(
		cfg.GetPostgreSQLDSN(),
		cfg.PostgreSQL.MaxConnections,
		cfg.PostgreSQL.MaxIdleConnections,
	)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	defer repo.Close()

	logger.Info("Connected to PostgreSQL database")

	// Initialize services
	propertyService := service.NewPropertyService(
		repo,
		cfg.Search.DefaultPageSize,
		cfg.Search.MaxPageSize,
		cfg.Search.ContextLimit,
		logger,
	)
	aiClient := service.NewAIEngineClient(
		cfg.Backend.AIEngineURL,
		time.Duration(cfg.Backend.AIEngineTimeout)*time.Second,
	)
	chatService := service.NewChatService(aiClient, propertyService, logger)

	// Initialize handlers
	propertyHandler := handler.NewPropertyHandler(propertyService, logger)
	chatHandler := handler.NewChatHandler(chatService, logger)

	// Setup Gin router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Backend.AllowedOrigins}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization"}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "housing-intel-backend",
			"version": Version,
		})
	})

	// API routes
	apiV1 := router.Group("/api/v1")
	{
		apiV1.GET("/properties", propertyHandler.GetProperties)
		apiV1.GET("/properties/:id", propertyHandler.GetProperty)

		apiV1.POST("/chat/message", chatHandler.SendMessage)
		apiV1.GET("/chat/health", chatHandler.Health)
	}

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Backend.Host, cfg.Backend.Port)
	logger.WithField("addr", addr).Info("Backend listening")

	go func() {
		if err := router.Run(addr); err != nil {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down backend")
}

package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"housing-intel/internal/agent"
	"housing-intel/internal/config"
	"housing-intel/internal/handler"
	"housing-intel/internal/llm"
	"housing-intel/internal/logging"
	"housing-intel/internal/repository"

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
		"version":     Version,
		"build_time":  BuildTime,
		"git_commit":  GitCommit,
		"environment": cfg.AIEngine.Environment,
	}).Info("Starting housing-intel AI engine")

	if !cfg.OpenAI.Enabled {
		logger.Warn("OPENAI_API_KEY is not set - the agent cannot answer requests")
	}

	// Set Gin mode
	gin.SetMode(cfg.AIEngine.GinMode)

	// Initialize database connection (review vector index)
	repo, err := repository.NewPostgresRepository(
		cfg.GetPostgreSQLDSN(),
		cfg.PostgreSQL.MaxConnections,
		cfg.PostgreSQL.MaxIdleConnections,
	)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	defer repo.Close()

	reviewIndex := repository.NewReviewIndex(repo.DB())

	// Initialize the agent
	llmClient := llm.NewClient(&cfg.OpenAI, logger)
	toolbox := agent.NewToolbox(
		cfg.AIEngine.BackendURL,
		time.Duration(cfg.AIEngine.ToolTimeout)*time.Second,
		llmClient,
		reviewIndex,
		logger,
	)
	memory := agent.NewConversationMemory()
	housingAgent := agent.NewHousingAgent(llmClient, toolbox, memory, logger)

	logger.WithFields(map[string]interface{}{
		"chat_model":      cfg.OpenAI.ChatModel,
		"embedding_model": cfg.OpenAI.EmbeddingModel,
		"backend_url":     cfg.AIEngine.BackendURL,
	}).Info("Agent initialized")

	// Initialize handlers
	aiChatHandler := handler.NewAIChatHandler(housingAgent, logger)

	// Setup Gin router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization"}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		indexedReviews, err := reviewIndex.Count(c.Request.Context())
		if err != nil {
			logger.WithError(err).Warn("Review index count failed")
			indexedReviews = -1
		}
		c.JSON(200, gin.H{
			"status":          "healthy",
			"service":         "housing-intel-ai-engine",
			"version":         Version,
			"environment":     cfg.AIEngine.Environment,
			"chat_model":      cfg.OpenAI.ChatModel,
			"embedding_model": cfg.OpenAI.EmbeddingModel,
			"indexed_reviews": indexedReviews,
		})
	})

	// API routes
	aiV1 := router.Group("/ai/v1")
	{
		aiV1.POST("/chat", aiChatHandler.Chat)
		aiV1.POST("/chat/stream", aiChatHandler.ChatStream)
	}

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.AIEngine.Host, cfg.AIEngine.Port)
	logger.WithField("addr", addr).Info("AI engine listening")

	go func() {
		if err := router.Run(addr); err != nil {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down AI engine")
}

package handler

import (
	"context"
	"net/http"

	"housing-intel/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ChatOrchestrator is the chat service surface the handler depends on.
type ChatOrchestrator interface {
	SendMessage(ctx context.Context, req *model.ChatMessageRequest) (*model.ChatMessageResponse, error)
	Health(ctx context.Context) map[string]interface{}
}

// ChatHandler serves the backend chat endpoints.
type ChatHandler struct {
	chat   ChatOrchestrator
	logger *logrus.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chat ChatOrchestrator, logger *logrus.Logger) *ChatHandler {
	return &ChatHandler{
		chat:   chat,
		logger: logger,
	}
}

// SendMessage handles POST /api/v1/chat/message
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req model.ChatMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	response, err := h.chat.SendMessage(c.Request.Context(), &req)
	if err != nil {
		// Upstream failures are logged in full but never leak to the caller.
		h.logger.WithError(err).Error("Chat message failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error processing chat message"})
		return
	}

	c.JSON(http.StatusOK, response)
}

// Health handles GET /api/v1/chat/health. Always 200; a degraded AI engine
// is reported in the body, not the status code.
func (h *ChatHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, h.chat.Health(c.Request.Context()))
}

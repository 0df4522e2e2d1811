package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"housing-intel/internal/agent"
	"housing-intel/internal/llm"
	"housing-intel/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AgentInvoker is the agent surface the AI engine handler depends on.
type AgentInvoker interface {
	Invoke(ctx context.Context, userMessage, threadID string) (*agent.Result, error)
	Stream(ctx context.Context, userMessage, threadID string, callback llm.StreamCallback) (*agent.Result, error)
}

// AIChatHandler serves the AI engine's /ai/v1 endpoints.
type AIChatHandler struct {
	agent  AgentInvoker
	logger *logrus.Logger
}

// NewAIChatHandler creates a new AI chat handler
func NewAIChatHandler(invoker AgentInvoker, logger *logrus.Logger) *AIChatHandler {
	return &AIChatHandler{
		agent:  invoker,
		logger: logger,
	}
}

// threadID resolves the conversation thread. Requests without an explicit
// conversation_id share the "default" thread.
func threadID(req *model.AIChatRequest) string {
	if req.ConversationID != nil && *req.ConversationID != "" {
		return *req.ConversationID
	}
	return "default"
}

// Chat handles POST /ai/v1/chat
func (h *AIChatHandler) Chat(c *gin.Context) {
	var req model.AIChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	result, err := h.agent.Invoke(c.Request.Context(), req.Message, threadID(&req))
	if err != nil {
		h.logger.WithError(err).Error("Agent invocation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error processing chat message"})
		return
	}

	c.JSON(http.StatusOK, model.AIChatResponse{
		Response:       result.Response,
		ConversationID: threadID(&req),
		Sources:        result.Sources,
		SearchParams:   result.SearchParams,
	})
}

// ChatStream handles POST /ai/v1/chat/stream - SSE streaming chat
func (h *AIChatHandler) ChatStream(c *gin.Context) {
	var req model.AIChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	// Set SSE headers
	c.Header("Content-Type", "text/event-stream; charset=utf-8")
	c.Header("Cache-Control", "no-cache, no-store, must-revalidate")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Streaming not supported"})
		return
	}

	_, err := h.agent.Stream(c.Request.Context(), req.Message, threadID(&req), func(chunk string) error {
		sendChunk(c, gin.H{"content": chunk})
		flusher.Flush()
		return nil
	})
	if err != nil {
		h.logger.WithError(err).Error("Agent stream failed")
		sendChunk(c, gin.H{"error": "Error processing chat message"})
		flusher.Flush()
	}

	fmt.Fprint(c.Writer, "data: [DONE]\n\n")
	flusher.Flush()
}

// sendChunk writes one SSE data frame
func sendChunk(c *gin.Context, data any) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		fmt.Fprint(c.Writer, "data: {\"error\": \"JSON marshal failed\"}\n\n")
		return
	}
	fmt.Fprintf(c.Writer, "data: %s\n\n", string(jsonData))
}

package service

import (
	"context"
	"fmt"

	"housing-intel/internal/model"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// AIClient is the agent gateway as the orchestrator sees it.
type AIClient interface {
	Chat(ctx context.Context, message string, chatContext map[string]any, conversationID *string) (*model.AIChatResponse, error)
	Health(ctx context.Context) (map[string]any, error)
}

// PropertyContextProvider supplies the flattened property context for a
// turn's search parameters.
type PropertyContextProvider interface {
	ContextForAI(ctx context.Context, params model.SearchParams) ([]model.PropertySummary, error)
}

// ChatService orchestrates one chat turn: forward the message to the agent,
// re-run the property query with the search parameters the agent used, and
// merge both into one response. A gateway failure surfaces as a single
// opaque error; there is no retry and no search-only fallback.
type ChatService struct {
	ai         AIClient
	properties PropertyContextProvider
	logger     *logrus.Logger
}

// NewChatService creates the chat orchestrator.
func NewChatService(ai AIClient, properties PropertyContextProvider, logger *logrus.Logger) *ChatService {
	return &ChatService{
		ai:         ai,
		properties: properties,
		logger:     logger,
	}
}

// SendMessage processes one user message.
func (s *ChatService) SendMessage(ctx context.Context, req *model.ChatMessageRequest) (*model.ChatMessageResponse, error) {
	// No pre-querying: the agent decides which tools to use.
	aiResp, err := s.ai.Chat(ctx, req.Message, map[string]any{}, req.ConversationID)
	if err != nil {
		return nil, fmt.Errorf("AI engine call failed: %w", err)
	}

	properties := []model.PropertySummary{}
	if !aiResp.SearchParams.IsEmpty() {
		properties, err = s.properties.ContextForAI(ctx, aiResp.SearchParams)
		if err != nil {
			return nil, fmt.Errorf("property context query failed: %w", err)
		}
	}

	conversationID := aiResp.ConversationID
	if conversationID == "" {
		if req.ConversationID != nil && *req.ConversationID != "" {
			conversationID = *req.ConversationID
		} else {
			conversationID = uuid.NewString()
		}
	}

	sources := aiResp.Sources
	if sources == nil {
		sources = []model.Source{}
	}

	return &model.ChatMessageResponse{
		Response:       aiResp.Response,
		ConversationID: conversationID,
		Sources:        sources,
		Properties:     properties,
	}, nil
}

// Health reports chat connectivity. A degraded AI engine is reported, not
// propagated as an error.
func (s *ChatService) Health(ctx context.Context) map[string]any {
	aiHealth, err := s.ai.Health(ctx)
	if err != nil {
		s.logger.WithError(err).Warn("AI engine health check failed")
		return map[string]any{
			"status": "degraded",
			"error":  err.Error(),
		}
	}
	return map[string]any{
		"status":    "healthy",
		"ai_engine": aiHealth,
	}
}

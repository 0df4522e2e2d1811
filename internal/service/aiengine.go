package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"housing-intel/internal/model"
)

// AIEngineClient is the HTTP client for the AI-engine service. Chat calls
// carry a long timeout sized for model inference; health checks a short one.
type AIEngineClient struct {
	baseURL      string
	chatClient   *http.Client
	healthClient *http.Client
}

// NewAIEngineClient creates a client for the AI-engine service.
func NewAIEngineClient(baseURL string, chatTimeout time.Duration) *AIEngineClient {
	return &AIEngineClient{
		baseURL:      strings.TrimRight(baseURL, "/"),
		chatClient:   &http.Client{Timeout: chatTimeout},
		healthClient: &http.Client{Timeout: 5 * time.Second},
	}
}

// Chat sends one turn to the AI engine and returns its reply.
func (c *AIEngineClient) Chat(ctx context.Context, message string, chatContext map[string]any, conversationID *string) (*model.AIChatResponse, error) {
	payload := model.AIChatRequest{
		Message:        message,
		Context:        chatContext,
		ConversationID: conversationID,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/ai/v1/chat", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create chat request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.chatClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("AI engine request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read AI engine response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("AI engine returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var result model.AIChatResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal AI engine response: %w", err)
	}
	return &result, nil
}

// Health fetches the AI engine's health payload.
func (c *AIEngineClient) Health(ctx context.Context) (map[string]any, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.baseURL+"/health", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create health request: %w", err)
	}

	resp, err := c.healthClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("AI engine health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("AI engine health returned status %d", resp.StatusCode)
	}

	var health map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		return nil, fmt.Errorf("failed to decode AI engine health: %w", err)
	}
	return health, nil
}

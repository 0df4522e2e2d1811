package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"housing-intel/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrchestrator struct {
	gotReq   *model.ChatMessageRequest
	response *model.ChatMessageResponse
	err      error
	health   map[string]interface{}
}

func (f *fakeOrchestrator) SendMessage(ctx context.Context, req *model.ChatMessageRequest) (*model.ChatMessageResponse, error) {
	f.gotReq = req
	return f.response, f.err
}

func (f *fakeOrchestrator) Health(ctx context.Context) map[string]interface{} {
	return f.health
}

func chatRouter(orch *fakeOrchestrator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewChatHandler(orch, quietLogger())
	router := gin.New()
	router.POST("/api/v1/chat/message", h.SendMessage)
	router.GET("/api/v1/chat/health", h.Health)
	return router
}

func postJSON(router *gin.Engine, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSendMessageOK(t *testing.T) {
	orch := &fakeOrchestrator{response: &model.ChatMessageResponse{
		Response:       "I found some flats in Yaba.",
		ConversationID: "conv-1",
		Sources:        []model.Source{},
		Properties:     []model.PropertySummary{{ID: 3, Area: "Yaba"}},
	}}
	router := chatRouter(orch)

	w := postJSON(router, "/api/v1/chat/message", `{"message": "flats in Yaba"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	require.NotNil(t, orch.gotReq)
	assert.Equal(t, "flats in Yaba", orch.gotReq.Message)
	assert.Contains(t, w.Body.String(), `"conversation_id":"conv-1"`)
	assert.Contains(t, w.Body.String(), `"properties"`)
}

func TestSendMessageValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing message", `{}`},
		{"empty message", `{"message": ""}`},
		{"message too long", `{"message": "` + strings.Repeat("a", 1001) + `"}`},
		{"malformed JSON", `{"message": `},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orch := &fakeOrchestrator{}
			router := chatRouter(orch)
			w := postJSON(router, "/api/v1/chat/message", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Nil(t, orch.gotReq, "invalid requests never reach the service")
		})
	}
}

func TestSendMessageServiceErrorIsOpaque(t *testing.T) {
	orch := &fakeOrchestrator{err: errors.New("dial tcp 127.0.0.1:8001: connection refused")}
	router := chatRouter(orch)

	w := postJSON(router, "/api/v1/chat/message", `{"message": "hello"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Error processing chat message")
	assert.NotContains(t, w.Body.String(), "127.0.0.1", "upstream details stay in the logs")
}

func TestChatHealthAlways200(t *testing.T) {
	orch := &fakeOrchestrator{health: map[string]interface{}{
		"status": "degraded",
		"error":  "connection refused",
	}}
	router := chatRouter(orch)

	req := httptest.NewRequest("GET", "/api/v1/chat/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"degraded"`)
}

package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"housing-intel/internal/agent"
	"housing-intel/internal/llm"
	"housing-intel/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAgent struct {
	gotMessage  string
	gotThreadID string
	result      *agent.Result
	err         error
	chunks      []string
}

func (f *fakeAgent) Invoke(ctx context.Context, userMessage, threadID string) (*agent.Result, error) {
	f.gotMessage = userMessage
	f.gotThreadID = threadID
	return f.result, f.err
}

func (f *fakeAgent) Stream(ctx context.Context, userMessage, threadID string, callback llm.StreamCallback) (*agent.Result, error) {
	f.gotMessage = userMessage
	f.gotThreadID = threadID
	if f.err != nil {
		return nil, f.err
	}
	for _, chunk := range f.chunks {
		if err := callback(chunk); err != nil {
			return nil, err
		}
	}
	return f.result, nil
}

func aiChatRouter(a *fakeAgent) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewAIChatHandler(a, quietLogger())
	router := gin.New()
	router.POST("/ai/v1/chat", h.Chat)
	router.POST("/ai/v1/chat/stream", h.ChatStream)
	return router
}

func TestAIChatEchoesConversationID(t *testing.T) {
	area := "Lekki"
	fake := &fakeAgent{result: &agent.Result{
		Response:     "Here are some options in Lekki.",
		SearchParams: model.SearchParams{Area: &area},
		Sources:      []model.Source{},
	}}
	router := aiChatRouter(fake)

	w := postJSON(router, "/ai/v1/chat", `{"message": "flats in Lekki", "conversation_id": "conv-9"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "flats in Lekki", fake.gotMessage)
	assert.Equal(t, "conv-9", fake.gotThreadID)
	assert.Contains(t, w.Body.String(), `"conversation_id":"conv-9"`)
	assert.Contains(t, w.Body.String(), `"search_params"`)
}

func TestAIChatDefaultThread(t *testing.T) {
	fake := &fakeAgent{result: &agent.Result{Response: "Hello!"}}
	router := aiChatRouter(fake)

	w := postJSON(router, "/ai/v1/chat", `{"message": "hi"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "default", fake.gotThreadID)
}

func TestAIChatEmptyConversationIDDefaults(t *testing.T) {
	fake := &fakeAgent{result: &agent.Result{Response: "Hello!"}}
	router := aiChatRouter(fake)

	w := postJSON(router, "/ai/v1/chat", `{"message": "hi", "conversation_id": ""}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "default", fake.gotThreadID)
	assert.Contains(t, w.Body.String(), `"conversation_id":"default"`)
}

func TestAIChatValidation(t *testing.T) {
	router := aiChatRouter(&fakeAgent{})
	w := postJSON(router, "/ai/v1/chat", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAIChatAgentError(t *testing.T) {
	fake := &fakeAgent{err: errors.New("completion failed: status 429")}
	router := aiChatRouter(fake)

	w := postJSON(router, "/ai/v1/chat", `{"message": "hi"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "429")
}

func TestAIChatStreamFrames(t *testing.T) {
	fake := &fakeAgent{
		result: &agent.Result{Response: "Lagos has many great areas."},
		chunks: []string{"Lagos has ", "many great areas."},
	}
	router := aiChatRouter(fake)

	w := postJSON(router, "/ai/v1/chat/stream", `{"message": "tell me about Lagos"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/event-stream")

	body := w.Body.String()
	assert.Contains(t, body, `data: {"content":"Lagos has "}`)
	assert.Contains(t, body, `data: {"content":"many great areas."}`)
	assert.True(t, len(body) > 0 && body[len(body)-2:] == "\n\n")
	assert.Contains(t, body, "data: [DONE]")
}

func TestAIChatStreamErrorFrame(t *testing.T) {
	fake := &fakeAgent{err: errors.New("completion failed")}
	router := aiChatRouter(fake)

	w := postJSON(router, "/ai/v1/chat/stream", `{"message": "hi"}`)
	body := w.Body.String()
	assert.Contains(t, body, `"error":"Error processing chat message"`)
	assert.Contains(t, body, "data: [DONE]", "the stream always terminates")
}

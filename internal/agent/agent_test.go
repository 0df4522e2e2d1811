package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"housing-intel/internal/llm"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedLLM replays canned completions in order.
type scriptedLLM struct {
	responses []llm.ChatMessage
	calls     int
	lastReq   llm.ChatCompletionRequest
	streamed  string
}

func (s *scriptedLLM) ChatCompletion(ctx context.Context, req llm.ChatCompletionRequest) (*llm.ChatCompletionResponse, error) {
	s.lastReq = req
	if s.calls >= len(s.responses) {
		return nil, fmt.Errorf("unexpected completion call %d", s.calls)
	}
	msg := s.responses[s.calls]
	s.calls++
	return completionResponse(msg), nil
}

func (s *scriptedLLM) ChatCompletionStream(ctx context.Context, req llm.ChatCompletionRequest, callback llm.StreamCallback) (string, error) {
	s.lastReq = req
	for _, chunk := range []string{"stream", "ed answer"} {
		if err := callback(chunk); err != nil {
			return "", err
		}
	}
	s.streamed = "streamed answer"
	return s.streamed, nil
}

func completionResponse(msg llm.ChatMessage) *llm.ChatCompletionResponse {
	payload, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{{"message": msg}},
	})
	var resp llm.ChatCompletionResponse
	_ = json.Unmarshal(payload, &resp)
	return &resp
}

// recordingTools returns a fixed string for every tool call.
type recordingTools struct {
	executed []string
}

func (r *recordingTools) Definitions() []llm.Tool { return nil }

func (r *recordingTools) Execute(ctx context.Context, name, argsJSON string) string {
	r.executed = append(r.executed, name)
	return "tool output for " + name
}

func searchCall(id, args string) llm.ToolCall {
	return llm.ToolCall{
		ID:       id,
		Type:     "function",
		Function: llm.FunctionCall{Name: ToolSearchProperties, Arguments: args},
	}
}

func reviewCall(id, args string) llm.ToolCall {
	return llm.ToolCall{
		ID:       id,
		Type:     "function",
		Function: llm.FunctionCall{Name: ToolSearchTenantReviews, Arguments: args},
	}
}

func newTestAgent(client ChatClient, tools ToolExecutor) (*HousingAgent, *ConversationMemory) {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	memory := NewConversationMemory()
	return NewHousingAgent(client, tools, memory, logger), memory
}

func TestInvokeDirectAnswer(t *testing.T) {
	client := &scriptedLLM{responses: []llm.ChatMessage{
		{Role: "assistant", Content: "Lekki is a popular area on the Lagos peninsula."},
	}}
	agent, memory := newTestAgent(client, &recordingTools{})

	result, err := agent.Invoke(context.Background(), "tell me about Lekki", "t1")
	require.NoError(t, err)

	assert.Equal(t, "Lekki is a popular area on the Lagos peninsula.", result.Response)
	assert.True(t, result.SearchParams.IsEmpty())
	assert.Empty(t, result.Sources)
	assert.Equal(t, 2, memory.Len("t1"), "user message and answer are remembered")
}

func TestInvokeRunsToolLoop(t *testing.T) {
	client := &scriptedLLM{responses: []llm.ChatMessage{
		{Role: "assistant", ToolCalls: []llm.ToolCall{
			searchCall("call_1", `{"area": "Yaba", "max_rent": 600000}`),
		}},
		{Role: "assistant", Content: "I found a few flats in Yaba under 600k."},
	}}
	tools := &recordingTools{}
	agent, _ := newTestAgent(client, tools)

	result, err := agent.Invoke(context.Background(), "flats in Yaba under 600k", "t1")
	require.NoError(t, err)

	assert.Equal(t, []string{ToolSearchProperties}, tools.executed)
	assert.Equal(t, "I found a few flats in Yaba under 600k.", result.Response)

	require.NotNil(t, result.SearchParams.Area)
	assert.Equal(t, "Yaba", *result.SearchParams.Area)
	require.NotNil(t, result.SearchParams.MaxRent)
	assert.Equal(t, 600000.0, *result.SearchParams.MaxRent)
}

func TestInvokeMostRecentSearchWins(t *testing.T) {
	client := &scriptedLLM{responses: []llm.ChatMessage{
		{Role: "assistant", ToolCalls: []llm.ToolCall{
			searchCall("call_1", `{"area": "Ikeja"}`),
		}},
		{Role: "assistant", ToolCalls: []llm.ToolCall{
			searchCall("call_2", `{"area": "Surulere"}`),
		}},
		{Role: "assistant", Content: "Surulere has better options for that budget."},
	}}
	agent, _ := newTestAgent(client, &recordingTools{})

	result, err := agent.Invoke(context.Background(), "compare Ikeja and Surulere rentals", "t1")
	require.NoError(t, err)

	require.NotNil(t, result.SearchParams.Area)
	assert.Equal(t, "Surulere", *result.SearchParams.Area)
}

func TestInvokeSearchOutsideWindowIgnored(t *testing.T) {
	// A search ten-plus messages back no longer counts as this turn's search.
	client := &scriptedLLM{responses: []llm.ChatMessage{
		{Role: "assistant", Content: "Those areas are all on the mainland."},
	}}
	agent, memory := newTestAgent(client, &recordingTools{})

	memory.Append("t1",
		llm.ChatMessage{Role: "user", Content: "flats in Gbagada"},
		llm.ChatMessage{Role: "assistant", ToolCalls: []llm.ToolCall{
			searchCall("call_old", `{"area": "Gbagada"}`),
		}},
		llm.ChatMessage{Role: "tool", ToolCallID: "call_old", Name: ToolSearchProperties, Content: "results"},
	)
	for i := 0; i < 4; i++ {
		memory.Append("t1",
			llm.ChatMessage{Role: "user", Content: fmt.Sprintf("follow-up %d", i)},
			llm.ChatMessage{Role: "assistant", Content: "sure"},
		)
	}

	result, err := agent.Invoke(context.Background(), "are they on the mainland?", "t1")
	require.NoError(t, err)
	assert.True(t, result.SearchParams.IsEmpty())
}

func TestInvokeSourcesCapped(t *testing.T) {
	client := &scriptedLLM{responses: []llm.ChatMessage{
		{Role: "assistant", Content: "Here's what tenants say across those areas."},
	}}
	agent, memory := newTestAgent(client, &recordingTools{})

	areas := []string{"Lekki", "Ajah", "Yaba", "Ikeja", "Surulere", "Gbagada", "Festac"}
	for i, area := range areas {
		memory.Append("t1", llm.ChatMessage{Role: "assistant", ToolCalls: []llm.ToolCall{
			reviewCall(fmt.Sprintf("call_%d", i), fmt.Sprintf(`{"query": "power supply", "area": %q}`, area)),
		}})
	}

	result, err := agent.Invoke(context.Background(), "summarize", "t1")
	require.NoError(t, err)

	require.Len(t, result.Sources, 5, "sources cap at the five most recent")
	assert.Equal(t, "Yaba", result.Sources[0].Args["area"])
	assert.Equal(t, "Festac", result.Sources[4].Args["area"])
	for _, src := range result.Sources {
		assert.Equal(t, ToolSearchTenantReviews, src.Tool)
	}
}

func TestInvokeFallbackWhenRoundsExhausted(t *testing.T) {
	// Five tool rounds, then one forced plain completion.
	responses := make([]llm.ChatMessage, 0, 6)
	for i := 0; i < 5; i++ {
		responses = append(responses, llm.ChatMessage{Role: "assistant", ToolCalls: []llm.ToolCall{
			searchCall(fmt.Sprintf("call_%d", i), `{"area": "Lekki"}`),
		}})
	}
	responses = append(responses, llm.ChatMessage{Role: "assistant", Content: "Here is my best summary."})
	client := &scriptedLLM{responses: responses}
	agent, _ := newTestAgent(client, &recordingTools{})

	result, err := agent.Invoke(context.Background(), "search everything", "t1")
	require.NoError(t, err)
	assert.Equal(t, "Here is my best summary.", result.Response)
	assert.Equal(t, 6, client.calls)
}

func TestInvokeEmptyAnswerFallsBack(t *testing.T) {
	client := &scriptedLLM{responses: []llm.ChatMessage{
		{Role: "assistant", Content: ""},
	}}
	agent, _ := newTestAgent(client, &recordingTools{})

	result, err := agent.Invoke(context.Background(), "hello", "t1")
	require.NoError(t, err)
	assert.Equal(t, fallbackResponse, result.Response)
	assert.Equal(t, 1, client.calls, "an empty answer is still an answer, not rounds exhaustion")
}

func TestStreamEmptyAnswerFallsBack(t *testing.T) {
	client := &scriptedLLM{responses: []llm.ChatMessage{
		{Role: "assistant", Content: ""},
	}}
	agent, _ := newTestAgent(client, &recordingTools{})

	var chunks []string
	result, err := agent.Stream(context.Background(), "hello", "t1", func(chunk string) error {
		chunks = append(chunks, chunk)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{fallbackResponse}, chunks)
	assert.Equal(t, fallbackResponse, result.Response)
	assert.Empty(t, client.streamed, "no extra streaming completion is issued")
}

func TestInvokeThreadsAreIsolated(t *testing.T) {
	client := &scriptedLLM{responses: []llm.ChatMessage{
		{Role: "assistant", Content: "first"},
		{Role: "assistant", Content: "second"},
	}}
	agent, memory := newTestAgent(client, &recordingTools{})

	_, err := agent.Invoke(context.Background(), "hi", "alice")
	require.NoError(t, err)
	_, err = agent.Invoke(context.Background(), "hi", "bob")
	require.NoError(t, err)

	assert.Equal(t, 2, memory.Len("alice"))
	assert.Equal(t, 2, memory.Len("bob"))
}

func TestInvokeHistoryCarriesAcrossTurns(t *testing.T) {
	client := &scriptedLLM{responses: []llm.ChatMessage{
		{Role: "assistant", Content: "first answer"},
		{Role: "assistant", Content: "second answer"},
	}}
	agent, _ := newTestAgent(client, &recordingTools{})

	_, err := agent.Invoke(context.Background(), "first question", "t1")
	require.NoError(t, err)
	_, err = agent.Invoke(context.Background(), "second question", "t1")
	require.NoError(t, err)

	// system + 2 prior messages + new user message
	require.Len(t, client.lastReq.Messages, 4)
	assert.Equal(t, "system", client.lastReq.Messages[0].Role)
	assert.Equal(t, "first question", client.lastReq.Messages[1].Content)
	assert.Equal(t, "first answer", client.lastReq.Messages[2].Content)
	assert.Equal(t, "second question", client.lastReq.Messages[3].Content)
}

func TestStreamDirectAnswerSingleChunk(t *testing.T) {
	client := &scriptedLLM{responses: []llm.ChatMessage{
		{Role: "assistant", Content: "Ikoyi is the most expensive area in Lagos."},
	}}
	agent, _ := newTestAgent(client, &recordingTools{})

	var chunks []string
	result, err := agent.Stream(context.Background(), "most expensive area?", "t1", func(chunk string) error {
		chunks = append(chunks, chunk)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Ikoyi is the most expensive area in Lagos."}, chunks)
	assert.Equal(t, "Ikoyi is the most expensive area in Lagos.", result.Response)
}

func TestStreamFallsBackToTokenStream(t *testing.T) {
	responses := make([]llm.ChatMessage, 0, 5)
	for i := 0; i < 5; i++ {
		responses = append(responses, llm.ChatMessage{Role: "assistant", ToolCalls: []llm.ToolCall{
			searchCall(fmt.Sprintf("call_%d", i), `{"area": "Lekki"}`),
		}})
	}
	client := &scriptedLLM{responses: responses}
	agent, _ := newTestAgent(client, &recordingTools{})

	var chunks []string
	result, err := agent.Stream(context.Background(), "search everything", "t1", func(chunk string) error {
		chunks = append(chunks, chunk)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"stream", "ed answer"}, chunks)
	assert.Equal(t, "streamed answer", result.Response)
}

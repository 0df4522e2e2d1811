package agent

import (
	"context"
	"fmt"

	"housing-intel/internal/llm"
	"housing-intel/internal/model"
	"housing-intel/internal/utils"

	"github.com/sirupsen/logrus"
)

// turnWindow bounds the turn-scoping scan: only the last turnWindow messages
// of the full history are inspected for this turn's property search. The
// window is a heuristic carried over for compatibility; a turn with more
// messages than this loses its earliest tool calls.
const turnWindow = 10

// maxSources caps the retrieval sources reported per turn.
const maxSources = 5

// ChatClient is the LLM surface the agent needs.
type ChatClient interface {
	ChatCompletion(ctx context.Context, req llm.ChatCompletionRequest) (*llm.ChatCompletionResponse, error)
	ChatCompletionStream(ctx context.Context, req llm.ChatCompletionRequest, callback llm.StreamCallback) (string, error)
}

// ToolExecutor advertises and runs retrieval tools.
type ToolExecutor interface {
	Definitions() []llm.Tool
	Execute(ctx context.Context, name, argsJSON string) string
}

const fallbackResponse = "I apologize, I couldn't process that request."

// HousingAgent runs the tool-calling conversation loop with per-thread memory.
type HousingAgent struct {
	llm       ChatClient
	tools     ToolExecutor
	memory    *ConversationMemory
	maxRounds int
	logger    *logrus.Logger
}

// NewHousingAgent creates the agent.
func NewHousingAgent(client ChatClient, tools ToolExecutor, memory *ConversationMemory, logger *logrus.Logger) *HousingAgent {
	return &HousingAgent{
		llm:       client,
		tools:     tools,
		memory:    memory,
		maxRounds: 5,
		logger:    logger,
	}
}

// Result is one resolved conversational turn.
type Result struct {
	Response     string
	SearchParams model.SearchParams
	Sources      []model.Source
}

// Invoke runs one turn: the model may request tools, tool results are fed
// back, and the loop continues until the model answers in plain text.
func (a *HousingAgent) Invoke(ctx context.Context, userMessage, threadID string) (*Result, error) {
	history := a.memory.History(threadID)
	turn := []llm.ChatMessage{{Role: "user", Content: userMessage}}

	turn, response, answered, err := a.runToolRounds(ctx, history, turn)
	if err != nil {
		return nil, err
	}

	if !answered {
		// Tool rounds exhausted: force a plain answer.
		resp, err := a.llm.ChatCompletion(ctx, llm.ChatCompletionRequest{
			Messages: a.assemble(history, turn),
		})
		if err != nil {
			return nil, fmt.Errorf("agent completion failed: %w", err)
		}
		final := resp.Choices[0].Message
		turn = append(turn, final)
		response = final.Content
	}
	if response == "" {
		response = fallbackResponse
	}

	a.memory.Append(threadID, turn...)

	full := append(history, turn...)
	return &Result{
		Response:     response,
		SearchParams: extractSearchParams(full),
		Sources:      extractSources(full),
	}, nil
}

// Stream runs one turn like Invoke but delivers the final answer through the
// callback. Tool rounds resolve first; when they run out, the closing answer
// is generated as a true token stream.
func (a *HousingAgent) Stream(ctx context.Context, userMessage, threadID string, callback llm.StreamCallback) (*Result, error) {
	history := a.memory.History(threadID)
	turn := []llm.ChatMessage{{Role: "user", Content: userMessage}}

	turn, response, answered, err := a.runToolRounds(ctx, history, turn)
	if err != nil {
		return nil, err
	}

	if answered {
		if response == "" {
			response = fallbackResponse
		}
		if err := callback(response); err != nil {
			return nil, fmt.Errorf("stream callback failed: %w", err)
		}
	} else {
		response, err = a.llm.ChatCompletionStream(ctx, llm.ChatCompletionRequest{
			Messages: a.assemble(history, turn),
		}, callback)
		if err != nil {
			return nil, fmt.Errorf("agent streaming completion failed: %w", err)
		}
		if response == "" {
			response = fallbackResponse
		}
		turn = append(turn, llm.ChatMessage{Role: "assistant", Content: response})
	}

	a.memory.Append(threadID, turn...)

	full := append(history, turn...)
	return &Result{
		Response:     response,
		SearchParams: extractSearchParams(full),
		Sources:      extractSources(full),
	}, nil
}

// runToolRounds drives the tool loop. It returns the turn's messages so far,
// the answer text, and whether the model answered directly. An empty answer
// with answered=true is a completed turn, not rounds exhaustion.
func (a *HousingAgent) runToolRounds(ctx context.Context, history, turn []llm.ChatMessage) ([]llm.ChatMessage, string, bool, error) {
	for round := 0; round < a.maxRounds; round++ {
		resp, err := a.llm.ChatCompletion(ctx, llm.ChatCompletionRequest{
			Messages: a.assemble(history, turn),
			Tools:    a.tools.Definitions(),
		})
		if err != nil {
			return nil, "", false, fmt.Errorf("agent completion failed: %w", err)
		}

		msg := resp.Choices[0].Message
		msg.Role = "assistant"
		turn = append(turn, msg)

		if len(msg.ToolCalls) == 0 {
			return turn, msg.Content, true, nil
		}

		for _, call := range msg.ToolCalls {
			a.logger.WithFields(logrus.Fields{
				"tool": call.Function.Name,
				"args": call.Function.Arguments,
			}).Info("Agent tool call")

			output := a.tools.Execute(ctx, call.Function.Name, call.Function.Arguments)
			turn = append(turn, llm.ChatMessage{
				Role:       "tool",
				ToolCallID: call.ID,
				Name:       call.Function.Name,
				Content:    output,
			})
		}
	}

	return turn, "", false, nil
}

func (a *HousingAgent) assemble(history, turn []llm.ChatMessage) []llm.ChatMessage {
	messages := make([]llm.ChatMessage, 0, 1+len(history)+len(turn))
	messages = append(messages, llm.ChatMessage{Role: "system", Content: systemPrompt})
	messages = append(messages, history...)
	messages = append(messages, turn...)
	return messages
}

// extractSearchParams recovers the property search performed during the
// current turn. The full history comes back on every call, so this is a
// heuristic: scan only the last turnWindow messages, newest first, and take
// the first property-search invocation found. Searches outside the window
// are ignored.
func extractSearchParams(messages []llm.ChatMessage) model.SearchParams {
	window := messages
	if len(window) > turnWindow {
		window = window[len(window)-turnWindow:]
	}

	for i := len(window) - 1; i >= 0; i-- {
		msg := window[i]
		if msg.Role != "assistant" || len(msg.ToolCalls) == 0 {
			continue
		}
		for _, call := range msg.ToolCalls {
			if call.Function.Name != ToolSearchProperties {
				continue
			}
			var params model.SearchParams
			if err := utils.ParseModelJSON(call.Function.Arguments, &params); err != nil {
				continue
			}
			return params
		}
	}
	return model.SearchParams{}
}

// extractSources collects review-search invocations across the history,
// capped to the most recent maxSources.
func extractSources(messages []llm.ChatMessage) []model.Source {
	sources := []model.Source{}
	for _, msg := range messages {
		if msg.Role != "assistant" {
			continue
		}
		for _, call := range msg.ToolCalls {
			if call.Function.Name != ToolSearchTenantReviews {
				continue
			}
			args := map[string]any{}
			if err := utils.ParseModelJSON(call.Function.Arguments, &args); err != nil {
				args = map[string]any{}
			}
			sources = append(sources, model.Source{Tool: call.Function.Name, Args: args})
		}
	}
	if len(sources) > maxSources {
		sources = sources[len(sources)-maxSources:]
	}
	return sources
}

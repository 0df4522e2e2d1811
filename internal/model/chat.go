package model

// ChatMessageRequest is the public chat request body.
type ChatMessageRequest struct {
	Message        string  `json:"message" binding:"required,min=1,max=1000"`
	ConversationID *string `json:"conversation_id,omitempty"`
}

// Source records a retrieval tool the agent invoked while answering.
type Source struct {
	Tool string         `json:"tool"`
	Args map[string]any `json:"args"`
}

// ChatMessageResponse is the merged orchestrator response: the agent's reply
// plus the properties matching the search it performed this turn, if any.
type ChatMessageResponse struct {
	Response       string            `json:"response"`
	ConversationID string            `json:"conversation_id"`
	Sources        []Source          `json:"sources"`
	Properties     []PropertySummary `json:"properties"`
}

// AIChatRequest is the service-to-service request to the AI engine.
type AIChatRequest struct {
	Message        string         `json:"message" binding:"required"`
	Context        map[string]any `json:"context,omitempty"`
	ConversationID *string        `json:"conversation_id,omitempty"`
}

// AIChatResponse is what the AI engine returns for one turn.
type AIChatResponse struct {
	Response       string       `json:"response"`
	ConversationID string       `json:"conversation_id"`
	Sources        []Source     `json:"sources"`
	SearchParams   SearchParams `json:"search_params"`
}

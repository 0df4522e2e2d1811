package agent

import (
	"sync"

	"housing-intel/internal/llm"
)

// ConversationMemory holds per-thread message history in process memory.
// Thread ids are opaque keys; nothing validates or expires them.
type ConversationMemory struct {
	mu      sync.RWMutex
	threads map[string][]llm.ChatMessage
}

// NewConversationMemory creates an empty memory store.
func NewConversationMemory() *ConversationMemory {
	return &ConversationMemory{
		threads: make(map[string][]llm.ChatMessage),
	}
}

// History returns a copy of the thread's message history.
func (m *ConversationMemory) History(threadID string) []llm.ChatMessage {
	m.mu.RLock()
	defer m.mu.RUnlock()

	history := m.threads[threadID]
	out := make([]llm.ChatMessage, len(history))
	copy(out, history)
	return out
}

// Append adds messages to the thread's history.
func (m *ConversationMemory) Append(threadID string, messages ...llm.ChatMessage) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.threads[threadID] = append(m.threads[threadID], messages...)
}

// Len returns the number of messages stored for a thread.
func (m *ConversationMemory) Len(threadID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.threads[threadID])
}

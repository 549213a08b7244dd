package copilot

import (
	"sync"

	"github.com/google/uuid"
)

// Role identifies who produced a conversation message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Action is a follow-up link or button offered with an assistant reply.
type Action struct {
	Label string `json:"label"`
	Route string `json:"route"`
	Icon  string `json:"icon,omitempty"`
}

// Message is one entry of a conversation. Assistant messages may carry
// structured actions and supporting facts alongside the rendered content.
type Message struct {
	Role    Role     `json:"role"`
	Content string   `json:"content"`
	HTML    string   `json:"html,omitempty"`
	Actions []Action `json:"actions,omitempty"`
	Facts   []string `json:"facts,omitempty"`
}

// Conversation is an append-only, thread-safe message sequence scoped to one
// panel session. It lives until the panel is discarded; nothing is persisted.
type Conversation struct {
	id string

	mu       sync.RWMutex
	messages []Message
}

// NewConversation creates an empty conversation with a generated id.
func NewConversation() *Conversation {
	return &Conversation{id: uuid.NewString()}
}

// ID returns the client-visible conversation identifier.
func (c *Conversation) ID() string { return c.id }

// Append adds a message to the end of the conversation.
func (c *Conversation) Append(msg Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, msg)
}

// Messages returns a copy of the conversation so far, in order.
func (c *Conversation) Messages() []Message {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]Message(nil), c.messages...)
}

// Len returns the number of messages appended so far.
func (c *Conversation) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.messages)
}

package session

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"go-akashdhara/internal/domain"
)

// Replier produces the assistant's reply to a conversation
type Replier interface {
	Reply(ctx context.Context, history []domain.ChatMessage) string
}

// Conversation is an append-only chat log. Sends are serialized so replies
// are appended in the order the user asked.
type Conversation struct {
	send     sync.Mutex
	mu       sync.Mutex
	messages []domain.ChatMessage
	now      func() time.Time
}

// NewConversation seeds the log with the assistant's greeting
func NewConversation(greeting string, now func() time.Time) *Conversation {
	c := &Conversation{now: now}
	if greeting != "" {
		c.append(domain.RoleAssistant, greeting)
	}
	return c
}

// Messages returns a copy of the log
func (c *Conversation) Messages() []domain.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.messages)
}

// Send appends the user's message, asks replier with the whole log and
// appends the reply, which is also returned.
func (c *Conversation) Send(ctx context.Context, replier Replier, content string) (domain.ChatMessage, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return domain.ChatMessage{}, &domain.ValidationError{Field: "content", Message: "Message must not be empty."}
	}

	c.send.Lock()
	defer c.send.Unlock()

	c.append(domain.RoleUser, content)
	reply := replier.Reply(ctx, c.Messages())
	return c.append(domain.RoleAssistant, reply), nil
}

func (c *Conversation) append(role domain.ChatRole, content string) domain.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	msg := domain.ChatMessage{Role: role, Content: content, Timestamp: c.now()}
	c.messages = append(c.messages, msg)
	return msg
}

package services

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"go-akashdhara/internal/domain"
	"go-akashdhara/internal/observability"
)

// Greeting seeds every new conversation
const Greeting = "Hello! I'm AstroBot, your space exploration guide! 🚀 I'm here to answer any questions about space missions, astronomy, famous astronauts like Kalpana Chawla, ISRO achievements, cosmic phenomena, or anything else related to space exploration. What would you like to know about the universe?"

var suggestions = []string{
	"Tell me about Chandrayaan missions",
	"Who was Kalpana Chawla?",
	"What is ISRO's Mars mission?",
	"Explain black holes",
	"Recent space discoveries",
	"How do rockets work?",
	"What is the International Space Station?",
	"Tell me about the James Webb Space Telescope",
}

// Suggestions returns the canned starter questions
func Suggestions() []string {
	return slices.Clone(suggestions)
}

// Completer produces the assistant's next message for a conversation
type Completer interface {
	Complete(ctx context.Context, history []domain.ChatMessage) (string, error)
}

// ChatService turns completion failures into in-character replies
type ChatService struct {
	completer Completer
}

// NewChatService creates a new chat service
func NewChatService(completer Completer) *ChatService {
	return &ChatService{completer: completer}
}

// Reply always yields a message to show; it never fails
func (s *ChatService) Reply(ctx context.Context, history []domain.ChatMessage) string {
	reply, err := s.completer.Complete(ctx, history)
	if err != nil {
		observability.LoggerFromContext(ctx).Error("chat completion failed", "error", err)
		return ApologyFor(err)
	}
	return reply
}

// ApologyFor maps a completion failure to the assistant's apology
func ApologyFor(err error) string {
	var reqErr *domain.UpstreamRequestError
	if errors.As(err, &reqErr) {
		switch reqErr.Category {
		case domain.CategoryAuth:
			return "I'm having authentication issues with my AI service. Please check that your OpenAI API key is valid and has sufficient permissions. 🔑"
		case domain.CategoryQuotaExceeded:
			return "🚀 Houston, we have a quota problem! My OpenAI API key has exceeded its usage limits. To get me back online, please visit https://platform.openai.com/account/billing/overview to check your billing details and increase your quota. Once that's sorted, I'll be ready to explore the cosmos with you again! ⭐"
		case domain.CategoryRateLimit:
			return "I'm receiving too many requests right now. Please wait a moment and try again! ⏰"
		case domain.CategoryServer:
			return "The AI service is experiencing technical difficulties. Please try again in a few moments! 🛠️"
		default:
			return fmt.Sprintf("I'm having trouble connecting to my AI service (Error %d). Please try again later! 🚀", reqErr.StatusCode)
		}
	}
	var netErr *domain.NetworkError
	if errors.As(err, &netErr) {
		return "I'm having network connectivity issues. Please check your internet connection and try again! 🌐"
	}
	return "I'm having trouble connecting to my knowledge base right now. Please try again in a moment! 🚀"
}

package clients

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"go-akashdhara/internal/domain"
)

const (
	chatService = "OpenAI API"

	// PlaceholderAPIKey is the sample value shipped in example env files
	PlaceholderAPIKey = "your_openai_api_key_here"

	// NoCredentialReply is returned verbatim when no chat credential is configured
	NoCredentialReply = "I'm AstroBot! I'd love to chat about space, but I need a valid OpenAI API key to be configured. Please check your .env file and add a valid OpenAI API key. Ask me about space missions, astronauts, or cosmic phenomena once it's set up! 🚀"

	// SystemPrompt is the AstroBot persona sent ahead of every conversation
	SystemPrompt = `You are AstroBot, an expert space guide for AkashDhara website. You specialize in:
    - Space missions and discoveries
    - Indian space achievements (ISRO, Chandrayaan, Mangalyaan)
    - Famous astronauts and scientists like Kalpana Chawla, Vikram Sarabhai
    - Cosmic phenomena and astronomy

    Keep responses educational, engaging, and conversational. Use emojis occasionally and maintain an enthusiastic tone about space exploration.`
)

// ChatOptions configures the completion request
type ChatOptions struct {
	Model       string
	MaxTokens   int
	Temperature float64
}

// OpenAIClient sends conversations to a chat-completion endpoint
type OpenAIClient struct {
	http    *HTTPClient
	url     string
	apiKey  string
	options ChatOptions
}

// NewOpenAIClient creates a new chat client
func NewOpenAIClient(httpClient *HTTPClient, url, apiKey string, opts ChatOptions) *OpenAIClient {
	return &OpenAIClient{
		http:    httpClient,
		url:     url,
		apiKey:  strings.TrimSpace(apiKey),
		options: opts,
	}
}

// Configured reports whether a usable credential is present
func (c *OpenAIClient) Configured() bool {
	return c.apiKey != "" && c.apiKey != PlaceholderAPIKey
}

type chatWireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string            `json:"model"`
	Messages    []chatWireMessage `json:"messages"`
	MaxTokens   int               `json:"max_tokens"`
	Temperature float64           `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message *struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type chatErrorBody struct {
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends the persona prompt and the whole history and returns the completion text.
// Without a credential it returns NoCredentialReply and makes no network call.
func (c *OpenAIClient) Complete(ctx context.Context, history []domain.ChatMessage) (string, error) {
	if !c.Configured() {
		return NoCredentialReply, nil
	}

	messages := make([]chatWireMessage, 0, len(history)+1)
	messages = append(messages, chatWireMessage{Role: string(domain.RoleSystem), Content: SystemPrompt})
	for _, m := range history {
		messages = append(messages, chatWireMessage{Role: string(m.Role), Content: m.Content})
	}

	resp, err := c.http.PostJSON(ctx, chatService, c.url,
		map[string]string{"Authorization": "Bearer " + c.apiKey},
		chatRequest{
			Model:       c.options.Model,
			Messages:    messages,
			MaxTokens:   c.options.MaxTokens,
			Temperature: c.options.Temperature,
		})
	if err != nil {
		return "", err
	}
	if !resp.OK() {
		return "", chatStatusError(resp)
	}

	var out chatResponse
	if err := json.Unmarshal(resp.Body, &out); err != nil ||
		len(out.Choices) == 0 || out.Choices[0].Message == nil || out.Choices[0].Message.Content == "" {
		return "", &domain.UpstreamResponseError{Service: chatService, Message: "Invalid response format from OpenAI API"}
	}
	return out.Choices[0].Message.Content, nil
}

func chatStatusError(resp *Response) error {
	detail := ""
	var body chatErrorBody
	if err := json.Unmarshal(resp.Body, &body); err == nil && body.Error != nil {
		detail = body.Error.Message
	}

	msg := fmt.Sprintf("OpenAI API error: %d %s", resp.StatusCode, resp.Status)
	if detail != "" {
		msg += " - " + detail
	}

	e := &domain.UpstreamRequestError{
		Service:    chatService,
		StatusCode: resp.StatusCode,
		Category:   domain.CategoryForStatus(resp.StatusCode),
		Message:    msg,
	}
	switch resp.StatusCode {
	case http.StatusUnauthorized:
		e.Category = domain.CategoryAuth
	case http.StatusTooManyRequests:
		if strings.Contains(detail, "quota") {
			e.Category = domain.CategoryQuotaExceeded
		} else {
			e.Category = domain.CategoryRateLimit
		}
	case http.StatusInternalServerError:
		e.Category = domain.CategoryServer
	default:
		e.Category = domain.CategoryOther
	}
	return e
}

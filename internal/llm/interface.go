package llm

import "context"

// Provider defines the interface for LLM providers
type Provider interface {
	Name() string
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)
}

// ChatRequest holds the request parameters
type ChatRequest struct {
	SystemPrompt string
	Messages     []Message
	MaxTokens    int
	Temperature  float64
	JSONMode     bool
}

// Message represents a chat message
type Message struct {
	Role    string // "user" or "assistant"
	Content string
}

// ChatResponse holds the response from the LLM
type ChatResponse struct {
	Content      string
	Usage        Usage
	FinishReason string
}

// Usage tracks token consumption
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Complete sends a single-turn prompt and returns the text reply.
func Complete(ctx context.Context, p Provider, system, user string, maxTokens int) (string, error) {
	resp, err := p.Chat(ctx, ChatRequest{
		SystemPrompt: system,
		Messages:     []Message{{Role: "user", Content: user}},
		MaxTokens:    maxTokens,
	})
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

// Package llm provides the chat-completion client used by entity extraction
// and answer generation. The Client interface is deliberately tiny so tests
// can substitute canned responses.
package llm

import "context"

// Client is a minimal chat-completion contract: one system prompt, one user
// prompt, one text response.
type Client interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
	Close() error
}

// Config holds common chat client settings.
type Config struct {
	Model       string
	BaseURL     string
	Temperature float32
	MaxTokens   int
}

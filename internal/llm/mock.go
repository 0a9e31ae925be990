package llm

import (
	"context"
	"sync"

	"github.com/valefinance/vale/internal/domain"
)

// MockClient is a configurable LLM client for testing.
// Queued Responses are returned first, then CompleteResponse.
type MockClient struct {
	mu sync.Mutex

	CompleteResponse string
	CompleteError    error
	Responses        []string

	// Call tracking for assertions
	CompleteCalls [][]domain.ChatMessage
	OptionCalls   []domain.CompletionOptions
}

func NewMockClient() *MockClient {
	return &MockClient{
		CompleteResponse: "Mock response",
	}
}

func (c *MockClient) Complete(ctx context.Context, messages []domain.ChatMessage, opts domain.CompletionOptions) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	msgs := make([]domain.ChatMessage, len(messages))
	copy(msgs, messages)
	c.CompleteCalls = append(c.CompleteCalls, msgs)
	c.OptionCalls = append(c.OptionCalls, opts)

	if c.CompleteError != nil {
		return "", c.CompleteError
	}
	if len(c.Responses) > 0 {
		r := c.Responses[0]
		c.Responses = c.Responses[1:]
		return r, nil
	}
	return c.CompleteResponse, nil
}

// Calls returns the number of Complete invocations.
func (c *MockClient) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.CompleteCalls)
}

package llm

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/valefinance/vale/internal/domain"
)

// ErrRateLimited is returned when the provider answers HTTP 429.
var ErrRateLimited = errors.New("llm provider rate limited")

// Provider constants
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderMock      = "mock"
)

type options struct {
	model      string
	baseURL    string
	httpClient *http.Client
}

// Option customizes an HTTP-backed client.
type Option func(*options)

// WithModel overrides the provider's default model.
func WithModel(model string) Option {
	return func(o *options) {
		if model != "" {
			o.model = model
		}
	}
}

// WithBaseURL points the client at a different API root.
func WithBaseURL(u string) Option {
	return func(o *options) {
		if u != "" {
			o.baseURL = u
		}
	}
}

func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		if c != nil {
			o.httpClient = c
		}
	}
}

func buildOptions(model, baseURL string, opts []Option) options {
	o := options{model: model, baseURL: baseURL, httpClient: &http.Client{}}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// NewClient creates an LLM client based on the provider name.
// Returns an error if the provider is unknown or the API key is empty (except for mock).
func NewClient(provider, apiKey string, opts ...Option) (domain.LLMClient, error) {
	switch provider {
	case ProviderOpenAI:
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required for OpenAI provider")
		}
		return NewOpenAIClient(apiKey, opts...), nil

	case ProviderAnthropic:
		if apiKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY is required for Anthropic provider")
		}
		return NewAnthropicClient(apiKey, opts...), nil

	case ProviderMock:
		return NewMockClient(), nil

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (valid options: openai, anthropic, mock)", provider)
	}
}

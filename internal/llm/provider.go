// Package llm talks to hosted and local language models.
package llm

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/archivist/internal/util"
)

var (
	// ErrMissingCredentials is returned when a provider is built without the keys it needs
	ErrMissingCredentials = errors.New("missing LLM credentials")

	// ErrEmptyCompletion is returned when the model answers with no text
	ErrEmptyCompletion = errors.New("empty completion")
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete sends a single prompt and returns the model's text
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// CompletionRequest is one prompt for the model
type CompletionRequest struct {
	Prompt string

	// Model overrides the configured model when set
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// CompletionResponse is the model's reply
type CompletionResponse struct {
	Text       string
	Model      string
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "cloudflare", "openai", "anthropic", "ollama"
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey is the bearer token (Cloudflare API token, OpenAI or Anthropic key)
	APIKey string

	// AccountID is the Cloudflare account that owns the Workers AI binding
	AccountID string

	// BaseURL for custom endpoints
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string

	Logger *zap.Logger
}

// DefaultConfig returns the Workers AI defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "cloudflare",
		Model:     DefaultCloudflareModel,
		Timeout:   60,
		MaxTokens: 1024,
	}
}

func (c Config) timeout(fallback time.Duration) time.Duration {
	if c.Timeout > 0 {
		return time.Duration(c.Timeout) * time.Second
	}
	return fallback
}

func (c Config) maxTokens(requested int) int {
	if requested > 0 {
		return requested
	}
	if c.MaxTokens > 0 {
		return c.MaxTokens
	}
	return 1024
}

func (c Config) logger() *zap.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return zap.NewNop()
}

func (c Config) httpClient(fallback time.Duration) *http.Client {
	return &http.Client{
		Timeout:   c.timeout(fallback),
		Transport: util.NewTransport(c.HTTPProxy, c.HTTPSProxy, c.NoProxy),
	}
}

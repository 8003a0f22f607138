package llm

import (
	"context"
	"fmt"
	"strings"
)

// Summarizer turns entry text into a dossier completion
type Summarizer struct {
	provider Provider
	config   Config
}

// NewSummarizer builds the configured provider. Missing credentials fail here
// rather than on the first request.
func NewSummarizer(config Config) (*Summarizer, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, err
	}
	return NewSummarizerWithProvider(provider, config), nil
}

// NewSummarizerWithProvider wraps an existing provider
func NewSummarizerWithProvider(provider Provider, config Config) *Summarizer {
	return &Summarizer{provider: provider, config: config}
}

// ProviderName returns the provider name
func (s *Summarizer) ProviderName() string {
	if s.provider == nil {
		return ""
	}
	return s.provider.Name()
}

// IsAvailable reports whether the provider answers
func (s *Summarizer) IsAvailable(ctx context.Context) bool {
	return s.provider != nil && s.provider.IsAvailable(ctx)
}

// Summarize asks the model for a dossier of rawText and returns the completion
// text. An empty reply yields ErrEmptyCompletion.
func (s *Summarizer) Summarize(ctx context.Context, rawText string) (string, error) {
	if s.provider == nil {
		return "", fmt.Errorf("no LLM provider configured")
	}

	resp, err := s.provider.Complete(ctx, CompletionRequest{
		Prompt:    BuildPrompt(rawText),
		MaxTokens: s.config.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", s.provider.Name(), err)
	}

	text := strings.TrimSpace(resp.Text)
	if text == "" {
		return "", fmt.Errorf("%s: %w", s.provider.Name(), ErrEmptyCompletion)
	}

	return text, nil
}

package llm

import (
	"fmt"
	"strings"

	"github.com/ppiankov/archivist/internal/model"
)

// NewProvider creates the provider named in config
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "cloudflare", "workers-ai", "":
		return NewCloudflareProvider(config)

	case "openai":
		return NewOpenAIProvider(config)

	case "anthropic", "claude":
		return NewAnthropicProvider(config)

	case "ollama":
		return NewOllamaProvider(config)

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: cloudflare, openai, anthropic, ollama)", config.Provider)
	}
}

// ConfigFromModel converts application settings to a provider config. A Workers
// AI model name is dropped for other providers so they fall back to their own default.
func ConfigFromModel(cfg *model.Config) Config {
	llmCfg := Config{
		Provider:   cfg.LLM.Provider,
		Model:      cfg.LLM.Model,
		APIKey:     cfg.LLM.APIKey,
		AccountID:  cfg.LLM.AccountID,
		BaseURL:    cfg.LLM.BaseURL,
		Timeout:    cfg.LLM.Timeout,
		MaxTokens:  cfg.LLM.MaxTokens,
		HTTPProxy:  cfg.HTTP.HTTPProxy,
		HTTPSProxy: cfg.HTTP.HTTPSProxy,
		NoProxy:    cfg.HTTP.NoProxy,
	}

	provider := strings.ToLower(llmCfg.Provider)
	if provider != "cloudflare" && provider != "workers-ai" && provider != "" && strings.HasPrefix(llmCfg.Model, "@cf/") {
		llmCfg.Model = ""
	}

	return llmCfg
}

package model

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds all archivist settings. Field tags serve both the YAML config file
// (yaml) and viper decoding (mapstructure).
type Config struct {
	HTTP         HTTPConfig         `yaml:"http" mapstructure:"http"`
	Archive      ArchiveConfig      `yaml:"archive" mapstructure:"archive"`
	Cache        CacheConfig        `yaml:"cache" mapstructure:"cache"`
	LLM          LLMConfig          `yaml:"llm" mapstructure:"llm"`
	Server       ServerConfig       `yaml:"server" mapstructure:"server"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Output       OutputConfig       `yaml:"output" mapstructure:"output"`
}

// HTTPConfig controls outbound requests to the wiki
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	InsecureTLS   bool          `yaml:"insecure_tls" mapstructure:"insecure_tls"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
	HTTPProxy     string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy    string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy       string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// ArchiveConfig describes where entries live and how much text is kept
type ArchiveConfig struct {
	BaseURL  string `yaml:"base_url" mapstructure:"base_url"`
	MaxChars int    `yaml:"max_chars" mapstructure:"max_chars"` // Extracted text budget sent to the model
}

// CacheConfig controls caching of fetched pages and generated dossiers
type CacheConfig struct {
	Enabled    bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir        string        `yaml:"dir" mapstructure:"dir"`
	PageTTL    time.Duration `yaml:"page_ttl" mapstructure:"page_ttl"`
	DossierTTL time.Duration `yaml:"dossier_ttl" mapstructure:"dossier_ttl"`
}

// LLMConfig selects and configures the inference provider
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // cloudflare, openai, anthropic, ollama
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"-" mapstructure:"api_key"` // Never written to config files
	AccountID string `yaml:"account_id,omitempty" mapstructure:"account_id"`
	BaseURL   string `yaml:"base_url,omitempty" mapstructure:"base_url"`
	Timeout   int    `yaml:"timeout" mapstructure:"timeout"` // seconds
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// ServerConfig controls the HTTP API
type ServerConfig struct {
	Addr           string        `yaml:"addr" mapstructure:"addr"`
	RequestTimeout time.Duration `yaml:"request_timeout" mapstructure:"request_timeout"`
}

// ConcurrencyConfig controls batch processing
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// RateLimitingConfig limits requests per wiki host
type RateLimitingConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// OutputConfig controls CLI rendering
type OutputConfig struct {
	Verbose bool   `yaml:"verbose" mapstructure:"verbose"`
	Format  string `yaml:"format" mapstructure:"format"` // text, markdown, html, json
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:       30 * time.Second,
			UserAgent:     "Archivist/0.1 (+https://github.com/ppiankov/archivist)",
			MaxBodyBytes:  5_000_000,
			RespectRobots: true,
		},
		Archive: ArchiveConfig{
			BaseURL:  "https://scp-wiki.wikidot.com",
			MaxChars: 8000,
		},
		Cache: CacheConfig{
			Enabled:    true,
			Dir:        defaultCacheDir(),
			PageTTL:    24 * time.Hour,
			DossierTTL: time.Hour,
		},
		LLM: LLMConfig{
			Provider:  "cloudflare",
			Model:     "@cf/meta/llama-3-8b-instruct",
			Timeout:   60,
			MaxTokens: 1024,
		},
		Server: ServerConfig{
			Addr:           ":3000",
			RequestTimeout: 90 * time.Second,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 2,
			BurstSize:         4,
		},
		Output: OutputConfig{
			Format: "text",
		},
	}
}

func defaultCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "archivist")
	}
	return filepath.Join(os.TempDir(), "archivist-cache")
}

package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/archivist/internal/model"
	"github.com/ppiankov/archivist/internal/pipeline"
)

func TestApplyProviderEnv(t *testing.T) {
	env := map[string]string{
		"CLOUDFLARE_ACCOUNT_ID": "acct",
		"CLOUDFLARE_API_TOKEN":  "cf-token",
		"OPENAI_API_KEY":        "sk-openai",
		"ANTHROPIC_API_KEY":     "sk-ant",
		"OLLAMA_BASE_URL":       "http://ollama:11434",
	}
	getenv := func(k string) string { return env[k] }

	tests := []struct {
		provider    string
		presetKey   string
		wantKey     string
		wantAccount string
		wantBaseURL string
	}{
		{provider: "cloudflare", wantKey: "cf-token", wantAccount: "acct"},
		{provider: "", wantKey: "cf-token", wantAccount: "acct"},
		{provider: "openai", wantKey: "sk-openai"},
		{provider: "claude", wantKey: "sk-ant"},
		{provider: "ollama", wantBaseURL: "http://ollama:11434"},
		{provider: "openai", presetKey: "from-archivist-env", wantKey: "from-archivist-env"},
	}

	for _, tt := range tests {
		t.Run(tt.provider+"/"+tt.presetKey, func(t *testing.T) {
			cfg := model.DefaultConfig()
			cfg.LLM.Provider = tt.provider
			cfg.LLM.APIKey = tt.presetKey

			applyProviderEnv(cfg, getenv)

			if cfg.LLM.APIKey != tt.wantKey {
				t.Errorf("APIKey = %q, want %q", cfg.LLM.APIKey, tt.wantKey)
			}
			if cfg.LLM.AccountID != tt.wantAccount {
				t.Errorf("AccountID = %q, want %q", cfg.LLM.AccountID, tt.wantAccount)
			}
			if cfg.LLM.BaseURL != tt.wantBaseURL {
				t.Errorf("BaseURL = %q, want %q", cfg.LLM.BaseURL, tt.wantBaseURL)
			}
		})
	}
}

func TestWriteDefaultConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	if err := writeDefaultConfig(path); err != nil {
		t.Fatalf("writeDefaultConfig failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if !strings.HasPrefix(string(data), "# Archivist Configuration File") {
		t.Error("expected header comment")
	}
	if strings.Contains(string(data), "api_key") {
		t.Error("API keys must never be written to the config file")
	}

	var cfg model.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("written config is not valid YAML: %v", err)
	}
	want := model.DefaultConfig()
	if cfg.Archive.BaseURL != want.Archive.BaseURL || cfg.Server.Addr != want.Server.Addr {
		t.Errorf("round trip lost defaults: %+v", cfg)
	}
	if cfg.Cache.PageTTL != want.Cache.PageTTL {
		t.Errorf("PageTTL = %v, want %v", cfg.Cache.PageTTL, want.Cache.PageTTL)
	}

	if err := writeDefaultConfig(path); err == nil {
		t.Error("expected error when config already exists")
	}
}

func TestCredentialState(t *testing.T) {
	cfg := model.DefaultConfig()
	if got := credentialState(cfg); got != "missing" {
		t.Errorf("credentialState = %q, want missing", got)
	}

	cfg.LLM.APIKey = "secret"
	if got := credentialState(cfg); got != "set" {
		t.Errorf("credentialState = %q, want set", got)
	}

	cfg.LLM.Provider = "ollama"
	if got := credentialState(cfg); !strings.HasPrefix(got, "not required") {
		t.Errorf("credentialState = %q", got)
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{"batch", "config", "lookup", "serve", "terminal", "version"}
	for _, name := range want {
		cmd, _, err := rootCmd.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestFormatDossier(t *testing.T) {
	r := pipeline.NewRenderer("")
	d := &model.Dossier{
		Title:    "The Sculpture",
		Summary:  "Moves when unobserved.",
		Metadata: &model.Metadata{ID: "scp-173", ObjectClass: "Euclid"},
	}

	pretty, err := formatDossier(r, d, formatPretty)
	if err != nil {
		t.Fatalf("formatDossier(pretty) failed: %v", err)
	}
	if !strings.Contains(pretty, "Moves when unobserved.") {
		t.Errorf("pretty output missing summary:\n%s", pretty)
	}

	text, err := formatDossier(r, d, "text")
	if err != nil {
		t.Fatalf("formatDossier(text) failed: %v", err)
	}
	if !strings.Contains(text, "FILE: SCP-173 // CLASS: Euclid") {
		t.Errorf("text output = %q", text)
	}

	if _, err := formatDossier(r, d, "yaml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

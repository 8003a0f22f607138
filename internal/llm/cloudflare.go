package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultCloudflareModel is the Workers AI model used when none is configured
	DefaultCloudflareModel = "@cf/meta/llama-3-8b-instruct"

	defaultCloudflareBaseURL = "https://api.cloudflare.com/client/v4"
)

// CloudflareProvider runs prompts on Cloudflare Workers AI
type CloudflareProvider struct {
	apiToken   string
	accountID  string
	baseURL    string
	httpClient *http.Client
	config     Config
	logger     *zap.Logger
}

type cloudflareRequest struct {
	Prompt    string `json:"prompt"`
	MaxTokens int    `json:"max_tokens,omitempty"`
}

type cloudflareMessage struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type cloudflareResponse struct {
	Result struct {
		Response string `json:"response"`
	} `json:"result"`
	Success bool                `json:"success"`
	Errors  []cloudflareMessage `json:"errors"`
}

type cloudflareVerifyResponse struct {
	Result struct {
		Status string `json:"status"`
	} `json:"result"`
	Success bool `json:"success"`
}

// NewCloudflareProvider creates a Workers AI provider. Both the account ID and
// the API token are required.
func NewCloudflareProvider(config Config) (*CloudflareProvider, error) {
	if config.AccountID == "" || config.APIKey == "" {
		return nil, fmt.Errorf("cloudflare: account ID and API token are required: %w", ErrMissingCredentials)
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = defaultCloudflareBaseURL
	}

	return &CloudflareProvider{
		apiToken:   config.APIKey,
		accountID:  config.AccountID,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: config.httpClient(60 * time.Second),
		config:     config,
		logger:     config.logger(),
	}, nil
}

// Name returns the provider name
func (p *CloudflareProvider) Name() string {
	return "cloudflare"
}

// IsAvailable verifies the API token
func (p *CloudflareProvider) IsAvailable(ctx context.Context) bool {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/user/tokens/verify", nil)
	if err != nil {
		return false
	}
	httpReq.Header.Set("Authorization", "Bearer "+p.apiToken)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		p.logger.Warn("cloudflare availability check failed", zap.Error(err))
		return false
	}
	defer func() { _ = resp.Body.Close() }()

	var verify cloudflareVerifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&verify); err != nil || resp.StatusCode != http.StatusOK {
		p.logger.Warn("cloudflare availability check failed", zap.Int("status", resp.StatusCode))
		return false
	}

	return verify.Success && verify.Result.Status == "active"
}

// Complete runs the prompt through the configured Workers AI model
func (p *CloudflareProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	model := req.Model
	if model == "" {
		model = p.config.Model
	}
	if model == "" {
		model = DefaultCloudflareModel
	}

	body, err := json.Marshal(cloudflareRequest{
		Prompt:    req.Prompt,
		MaxTokens: p.config.maxTokens(req.MaxTokens),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/accounts/%s/ai/run/%s", p.baseURL, p.accountID, model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiToken)

	start := time.Now()
	httpResp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("cloudflare: execute request: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("cloudflare: read response: %w", err)
	}

	var resp cloudflareResponse
	decodeErr := json.Unmarshal(respBody, &resp)

	if httpResp.StatusCode != http.StatusOK {
		if decodeErr == nil && len(resp.Errors) > 0 {
			return nil, fmt.Errorf("cloudflare: API error (%d): %s", httpResp.StatusCode, resp.Errors[0].Message)
		}
		return nil, fmt.Errorf("cloudflare: API error (%d): %s", httpResp.StatusCode, string(respBody))
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("cloudflare: unmarshal response: %w", decodeErr)
	}

	p.logger.Debug("cloudflare completion",
		zap.String("model", model),
		zap.Int("chars", len(resp.Result.Response)),
		zap.Duration("elapsed", time.Since(start)),
	)

	return &CompletionResponse{
		Text:  strings.TrimSpace(resp.Result.Response),
		Model: model,
	}, nil
}

// Package client talks to a running archivist server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ppiankov/archivist/internal/model"
)

// RetrievalMessage is what users see for any failed lookup
const RetrievalMessage = "Failed to retrieve data from archives."

// ErrRetrieval is wrapped by every lookup failure
var ErrRetrieval = errors.New("retrieve data from archives")

const maxResponseBytes = 1 << 20

// Client calls POST /api/ai
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the server at baseURL (e.g. http://localhost:3000)
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 90 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

type lookupRequest struct {
	Query string `json:"query"`
}

// Lookup posts the query and decodes the dossier. Every failure wraps ErrRetrieval.
func (c *Client) Lookup(ctx context.Context, query string) (*model.Dossier, error) {
	body, err := json.Marshal(lookupRequest{Query: query})
	if err != nil {
		return nil, fmt.Errorf("%w: marshal request: %w", ErrRetrieval, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/ai", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %w", ErrRetrieval, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRetrieval, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", ErrRetrieval, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode, Message: serverMessage(respBody)}
	}

	var d model.Dossier
	if err := json.Unmarshal(respBody, &d); err != nil {
		return nil, fmt.Errorf("%w: decode response: %w", ErrRetrieval, err)
	}
	return &d, nil
}

// StatusError is a non-2xx reply
type StatusError struct {
	Code    int
	Message string // server-provided error body, if any
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: status %d: %s", ErrRetrieval, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: status %d", ErrRetrieval, e.Code)
}

func (e *StatusError) Unwrap() error {
	return ErrRetrieval
}

func serverMessage(body []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		return payload.Error
	}
	return ""
}

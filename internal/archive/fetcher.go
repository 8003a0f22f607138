// Package archive fetches entries from the wiki and reduces them to plain text.
package archive

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/archivist/internal/cache"
	"github.com/ppiankov/archivist/internal/scp"
	"github.com/ppiankov/archivist/internal/util"
	"github.com/ppiankov/archivist/internal/worker"
)

// ErrNotFound is returned when an entry page cannot be retrieved
var ErrNotFound = errors.New("entry not found")

const (
	maxFetchAttempts = 3
	baseRetryDelay   = 500 * time.Millisecond
)

// fetchSleepFunc is swapped out in tests
var fetchSleepFunc = time.Sleep

// StatusError reports a non-2xx response
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	if e.Status != "" {
		return "unexpected status: " + e.Status
	}
	return fmt.Sprintf("unexpected status: %d", e.Code)
}

// FetchResult is a raw HTTP fetch
type FetchResult struct {
	HTML        string
	ContentType string
	StatusCode  int
	FinalURL    string
}

// Page is an entry reduced to the text sent to the model
type Page struct {
	Designation scp.Designation
	URL         string
	Text        string
	Adapter     string
	FromCache   bool
	FetchedAt   time.Time
}

// Fetcher retrieves entry pages
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64

	baseURL  string
	maxChars int
	registry *Registry

	robots  *util.RobotsChecker
	limiter *worker.Limiter
	cache   cache.Cache
	pageTTL time.Duration
	logger  *zap.Logger
}

// Option configures a Fetcher
type Option func(*Fetcher)

// WithBaseURL points the fetcher at a wiki mirror
func WithBaseURL(baseURL string) Option {
	return func(f *Fetcher) {
		if baseURL != "" {
			f.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithMaxChars sets the extracted text budget
func WithMaxChars(n int) Option {
	return func(f *Fetcher) { f.maxChars = n }
}

// WithRobots enables robots.txt checks
func WithRobots(r *util.RobotsChecker) Option {
	return func(f *Fetcher) { f.robots = r }
}

// WithLimiter enables per-host rate limiting
func WithLimiter(l *worker.Limiter) Option {
	return func(f *Fetcher) { f.limiter = l }
}

// WithCache stores extracted page text for ttl
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(f *Fetcher) {
		f.cache = c
		f.pageTTL = ttl
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(f *Fetcher) { f.logger = l }
}

// NewFetcher creates a fetcher. Empty proxy settings use the environment.
func NewFetcher(timeout time.Duration, userAgent string, maxBytes int64, insecureTLS bool, httpProxy, httpsProxy, noProxy string, opts ...Option) *Fetcher {
	transport := util.NewTransport(httpProxy, httpsProxy, noProxy)
	if insecureTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // opt-in via config
	}

	f := &Fetcher{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: userAgent,
		maxBytes:  maxBytes,
		baseURL:   scp.DefaultBaseURL,
		maxChars:  DefaultMaxChars,
		registry:  NewRegistry(),
		cache:     cache.Nop{},
		logger:    zap.NewNop(),
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// Fetch retrieves the entry page for d and extracts its text. Every failure
// wraps ErrNotFound.
func (f *Fetcher) Fetch(ctx context.Context, d scp.Designation) (*Page, error) {
	pageURL := d.URL(f.baseURL)
	key := cache.Key("page", pageURL)

	if text, ok := f.cache.Get(key); ok {
		f.logger.Debug("page cache hit", zap.String("url", pageURL))
		return &Page{
			Designation: d,
			URL:         pageURL,
			Text:        string(text),
			Adapter:     "cache",
			FromCache:   true,
		}, nil
	}

	if f.robots != nil {
		delay, err := f.robots.Check(ctx, pageURL)
		if err != nil {
			return nil, fmt.Errorf("%s: %w: %w", pageURL, ErrNotFound, err)
		}
		if f.limiter != nil {
			f.limiter.ApplyCrawlDelay(pageURL, delay)
		}
	}

	if f.limiter != nil {
		if err := f.limiter.Wait(ctx, pageURL); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	start := time.Now()
	result, err := f.FetchWithRetry(ctx, pageURL)
	if err != nil {
		f.logger.Debug("page fetch failed", zap.String("url", pageURL), zap.Error(err))
		return nil, fmt.Errorf("%s: %w: %w", pageURL, ErrNotFound, err)
	}

	adapter := f.registry.FindAdapter(result.FinalURL, result.ContentType)
	text, err := adapter.ExtractText(result.HTML)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: extract: %w", pageURL, ErrNotFound, err)
	}
	if text == "" {
		return nil, fmt.Errorf("%s: %w: page has no content", pageURL, ErrNotFound)
	}
	text = Truncate(text, f.maxChars)

	f.logger.Debug("page fetched",
		zap.String("url", result.FinalURL),
		zap.String("adapter", adapter.Name()),
		zap.Int("chars", len([]rune(text))),
		zap.Duration("elapsed", time.Since(start)),
	)

	if err := f.cache.Set(key, []byte(text), f.pageTTL); err != nil {
		f.logger.Warn("page cache write failed", zap.String("url", pageURL), zap.Error(err))
	}

	return &Page{
		Designation: d,
		URL:         pageURL,
		Text:        text,
		Adapter:     adapter.Name(),
		FetchedAt:   time.Now().UTC(),
	}, nil
}

// FetchWithRetry calls FetchURL, retrying transient failures with exponential backoff
func (f *Fetcher) FetchWithRetry(ctx context.Context, rawURL string) (*FetchResult, error) {
	var lastErr error
	for attempt := 0; attempt < maxFetchAttempts; attempt++ {
		if attempt > 0 {
			fetchSleepFunc(baseRetryDelay * time.Duration(1<<(attempt-1)))
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
		}

		result, err := f.FetchURL(ctx, rawURL)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !isRetryableFetchError(err) {
			return nil, err
		}
	}
	return nil, lastErr
}

// FetchURL performs a single GET
func (f *Fetcher) FetchURL(ctx context.Context, rawURL string) (*FetchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return &FetchResult{
		HTML:        string(body),
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
		FinalURL:    resp.Request.URL.String(),
	}, nil
}

// isRetryableFetchError reports whether err is worth another attempt: 5xx, 429
// and transport errors are, other statuses and local failures are not
func isRetryableFetchError(err error) bool {
	if err == nil {
		return false
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Code >= 500 || statusErr.Code == http.StatusTooManyRequests
	}

	return strings.HasPrefix(err.Error(), "fetch: ")
}

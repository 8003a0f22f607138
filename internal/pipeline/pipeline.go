// Package pipeline turns a free-form query into a dossier: parse, fetch, prompt,
// complete, extract.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/ppiankov/archivist/internal/archive"
	"github.com/ppiankov/archivist/internal/cache"
	"github.com/ppiankov/archivist/internal/dossier"
	"github.com/ppiankov/archivist/internal/llm"
	"github.com/ppiankov/archivist/internal/model"
	"github.com/ppiankov/archivist/internal/scp"
	"github.com/ppiankov/archivist/internal/util"
	"github.com/ppiankov/archivist/internal/worker"
)

var (
	// ErrInvalidDesignation is returned when the query has no numeric designation
	ErrInvalidDesignation = errors.New("invalid SCP designation")

	// ErrNotFound is returned when the entry page cannot be retrieved
	ErrNotFound = errors.New("SCP file not accessible")

	// ErrUpstream is returned when the model call fails
	ErrUpstream = errors.New("upstream failure")
)

const defaultWorkTimeout = 90 * time.Second

// Notices returned in place of a dossier
const (
	InvalidFormatNotice = "Invalid SCP designation format. Please enter numbers only."
	NoCompletionSummary = "AI failed to generate a response."
)

// NotFoundNotice is the notice for an entry whose page could not be read
func NotFoundNotice(d scp.Designation) string {
	return fmt.Sprintf("DATA CORRUPTED: Cannot access file for %s.", d)
}

// Fetcher retrieves entry text
type Fetcher interface {
	Fetch(ctx context.Context, d scp.Designation) (*archive.Page, error)
}

// Summarizer produces the model completion for entry text
type Summarizer interface {
	Summarize(ctx context.Context, rawText string) (string, error)
	ProviderName() string
}

// Pipeline orchestrates a lookup
type Pipeline struct {
	fetcher    Fetcher
	summarizer Summarizer
	cache      cache.Cache
	dossierTTL time.Duration
	logger     *zap.Logger
	now        func() time.Time

	// workTimeout bounds shared work, which outlives the caller that started it
	workTimeout time.Duration

	// concurrent lookups of one designation share a single fetch and completion
	inflight singleflight.Group
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithDossierCache caches finished dossiers for ttl
func WithDossierCache(c cache.Cache, ttl time.Duration) Option {
	return func(p *Pipeline) {
		p.cache = c
		p.dossierTTL = ttl
	}
}

// WithWorkTimeout bounds each shared fetch and completion
func WithWorkTimeout(d time.Duration) Option {
	return func(p *Pipeline) {
		if d > 0 {
			p.workTimeout = d
		}
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// New creates a pipeline from its collaborators
func New(fetcher Fetcher, summarizer Summarizer, opts ...Option) *Pipeline {
	p := &Pipeline{
		fetcher:     fetcher,
		summarizer:  summarizer,
		cache:       cache.Nop{},
		logger:      zap.NewNop(),
		now:         time.Now,
		workTimeout: defaultWorkTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewPipeline wires the fetcher, model provider and caches from configuration.
// It fails when the provider lacks credentials.
func NewPipeline(cfg *model.Config, logger *zap.Logger) (*Pipeline, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	llmCfg := llm.ConfigFromModel(cfg)
	llmCfg.Logger = logger.Named("llm")
	summarizer, err := llm.NewSummarizer(llmCfg)
	if err != nil {
		return nil, fmt.Errorf("init LLM provider: %w", err)
	}

	var pages, dossiers cache.Cache = cache.Nop{}, cache.Nop{}
	if cfg.Cache.Enabled {
		pages = cache.NewLayeredCache(cfg.Cache.PageTTL, filepath.Join(cfg.Cache.Dir, "pages"), cfg.Cache.PageTTL)
		dossiers = cache.NewMemoryCache(cfg.Cache.DossierTTL, 10*time.Minute)
	}

	opts := []archive.Option{
		archive.WithBaseURL(cfg.Archive.BaseURL),
		archive.WithMaxChars(cfg.Archive.MaxChars),
		archive.WithLimiter(worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize)),
		archive.WithCache(pages, cfg.Cache.PageTTL),
		archive.WithLogger(logger.Named("archive")),
	}
	if cfg.HTTP.RespectRobots {
		transport := util.NewTransport(cfg.HTTP.HTTPProxy, cfg.HTTP.HTTPSProxy, cfg.HTTP.NoProxy)
		opts = append(opts, archive.WithRobots(util.NewRobotsChecker(cfg.HTTP.UserAgent, cfg.HTTP.Timeout, transport)))
	}

	fetcher := archive.NewFetcher(
		cfg.HTTP.Timeout,
		cfg.HTTP.UserAgent,
		cfg.HTTP.MaxBodyBytes,
		cfg.HTTP.InsecureTLS,
		cfg.HTTP.HTTPProxy,
		cfg.HTTP.HTTPSProxy,
		cfg.HTTP.NoProxy,
		opts...,
	)

	return New(fetcher, summarizer,
		WithDossierCache(dossiers, cfg.Cache.DossierTTL),
		WithWorkTimeout(cfg.Server.RequestTimeout),
		WithLogger(logger.Named("pipeline")),
	), nil
}

// ProviderName returns the configured model provider
func (p *Pipeline) ProviderName() string {
	return p.summarizer.ProviderName()
}

// ProviderAvailable probes the model provider. Summarizers that cannot be
// probed count as available.
func (p *Pipeline) ProviderAvailable(ctx context.Context) bool {
	checker, ok := p.summarizer.(interface {
		IsAvailable(ctx context.Context) bool
	})
	if !ok {
		return true
	}
	return checker.IsAvailable(ctx)
}

// Lookup resolves query to a dossier. Errors match scp.ErrEmptyQuery,
// ErrInvalidDesignation, ErrNotFound or ErrUpstream with errors.Is.
func (p *Pipeline) Lookup(ctx context.Context, query string) (*model.Dossier, error) {
	d, err := scp.Parse(query)
	if err != nil {
		if errors.Is(err, scp.ErrNoDesignation) {
			return nil, fmt.Errorf("%q: %w: %w", query, ErrInvalidDesignation, err)
		}
		return nil, err
	}

	key := cache.Key("dossier", d.Digits)
	if cached, ok := p.cachedDossier(key); ok {
		p.logger.Debug("dossier cache hit", zap.String("id", d.ID()))
		return cached, nil
	}

	// The work detaches from ctx so one caller giving up doesn't fail the rest
	ch := p.inflight.DoChan(key, func() (any, error) {
		workCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.workTimeout)
		defer cancel()
		return p.generate(workCtx, d, key)
	})
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w: %w", d, ErrUpstream, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			p.logger.Debug("joined in-flight lookup", zap.String("id", d.ID()))
		}
		return res.Val.(*model.Dossier), nil
	}
}

// generate fetches, completes and assembles one dossier
func (p *Pipeline) generate(ctx context.Context, d scp.Designation, key string) (*model.Dossier, error) {
	start := p.now()
	page, err := p.fetcher.Fetch(ctx, d)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%s: %w: %w", d, ErrUpstream, ctx.Err())
		}
		p.logger.Info("entry not accessible", zap.String("id", d.ID()), zap.Error(err))
		return nil, fmt.Errorf("%s: %w: %w", d, ErrNotFound, err)
	}

	completion, err := p.summarizer.Summarize(ctx, page.Text)
	cacheable := true
	switch {
	case errors.Is(err, llm.ErrEmptyCompletion):
		p.logger.Warn("model returned no text", zap.String("id", d.ID()))
		completion = NoCompletionSummary
		cacheable = false
	case err != nil:
		p.logger.Error("completion failed", zap.String("id", d.ID()), zap.Error(err))
		return nil, fmt.Errorf("%s: %w: %w", d, ErrUpstream, err)
	}

	ext, err := dossier.Extract(completion)
	if err != nil {
		p.logger.Debug("completion did not follow the template", zap.String("id", d.ID()))
	}

	generatedAt := p.now().UTC()
	result := &model.Dossier{
		Title:   ext.Title.Or(model.UnknownTitle),
		Summary: completion,
		Metadata: &model.Metadata{
			ID:          d.ID(),
			ObjectClass: ext.ObjectClass.Or(model.UnknownClass),
		},
		RelatedSCPs:  ext.RelatedSCPs,
		RelatedTales: ext.RelatedTales,
		GeneratedAt:  &generatedAt,
		Provider:     p.summarizer.ProviderName(),
		SourceURL:    page.URL,
	}

	p.logger.Info("dossier generated",
		zap.String("id", d.ID()),
		zap.String("object_class", result.Metadata.ObjectClass),
		zap.Bool("page_cached", page.FromCache),
		zap.Duration("elapsed", p.now().Sub(start)),
	)

	if cacheable {
		p.storeDossier(key, result)
	}

	return result, nil
}

// Answer applies the wire semantics of the lookup endpoint: bad designations and
// missing files become notice dossiers, while empty queries and upstream failures
// stay errors.
func (p *Pipeline) Answer(ctx context.Context, query string) (*model.Dossier, error) {
	result, err := p.Lookup(ctx, query)
	switch {
	case err == nil:
		return result, nil
	case errors.Is(err, ErrInvalidDesignation):
		return model.NoticeDossier(InvalidFormatNotice), nil
	case errors.Is(err, ErrNotFound):
		d, _ := scp.Parse(query)
		return model.NoticeDossier(NotFoundNotice(d)), nil
	default:
		return nil, err
	}
}

func (p *Pipeline) cachedDossier(key string) (*model.Dossier, bool) {
	data, ok := p.cache.Get(key)
	if !ok {
		return nil, false
	}
	var d model.Dossier
	if err := json.Unmarshal(data, &d); err != nil {
		_ = p.cache.Delete(key)
		return nil, false
	}
	return &d, true
}

func (p *Pipeline) storeDossier(key string, d *model.Dossier) {
	data, err := json.Marshal(d)
	if err != nil {
		return
	}
	if err := p.cache.Set(key, data, p.dossierTTL); err != nil {
		p.logger.Warn("dossier cache write failed", zap.Error(err))
	}
}

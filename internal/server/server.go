// Package server exposes lookups over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ppiankov/archivist/internal/model"
)

const shutdownTimeout = 30 * time.Second

// Answerer resolves a query to a dossier or notice
type Answerer interface {
	Answer(ctx context.Context, query string) (*model.Dossier, error)
}

// ProviderInfo is implemented by answerers that can report on their model
// provider; /healthz uses it when present
type ProviderInfo interface {
	ProviderName() string
	ProviderAvailable(ctx context.Context) bool
}

// Server is the HTTP API
type Server struct {
	engine   *gin.Engine
	answerer Answerer
	config   model.ServerConfig
	logger   *zap.Logger
}

// New builds the router
func New(answerer Answerer, cfg model.ServerConfig, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		engine:   gin.New(),
		answerer: answerer,
		config:   cfg,
		logger:   logger,
	}

	s.engine.Use(recovery(logger), requestLogger(logger))

	s.engine.GET("/healthz", s.handleHealth)

	api := s.engine.Group("/api")
	api.Use(requestTimeout(cfg.RequestTimeout))
	{
		api.POST("/ai", s.handleLookup)
	}

	return s
}

// Handler returns the router
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", zap.String("addr", s.config.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

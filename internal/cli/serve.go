package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ppiankov/archivist/internal/pipeline"
	"github.com/ppiankov/archivist/internal/server"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the lookup API over HTTP",
	Long: `Serve starts the HTTP API:

  POST /api/ai   {"query":"173"} -> dossier or notice
  GET  /healthz  liveness and active provider (?deep=true probes it)

The server shuts down gracefully on SIGINT/SIGTERM.

Example:
  archivist serve
  archivist serve --addr :8080 --llm-provider ollama`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "listen address (default :3000)")
	serveCmd.Flags().Duration("request-timeout", 0, "per-request timeout (config default when 0)")

	_ = viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("server.request_timeout", serveCmd.Flags().Lookup("request-timeout"))
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	p, err := pipeline.NewPipeline(cfg, logger)
	if err != nil {
		return err
	}

	logger.Info("starting archivist server",
		zap.String("addr", cfg.Server.Addr),
		zap.String("provider", p.ProviderName()),
		zap.Bool("cache", cfg.Cache.Enabled),
	)

	checkCtx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
	if !p.ProviderAvailable(checkCtx) {
		logger.Warn("model provider is not reachable; lookups will fail until it is",
			zap.String("provider", p.ProviderName()))
	}
	cancel()

	srv := server.New(p, cfg.Server, logger.Named("http"))
	if err := srv.Run(cmd.Context()); err != nil {
		return fmt.Errorf("server: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

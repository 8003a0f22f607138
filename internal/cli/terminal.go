package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ppiankov/archivist/internal/client"
	"github.com/ppiankov/archivist/internal/model"
	"github.com/ppiankov/archivist/internal/pipeline"
	"github.com/ppiankov/archivist/internal/tui"
)

var (
	serverURL string
	nightMode bool
)

// terminalCmd represents the terminal command
var terminalCmd = &cobra.Command{
	Use:   "terminal",
	Short: "Open the interactive archival terminal",
	Long: `Terminal opens the interactive SCP archival terminal.

Type a designation and press enter. ctrl+n toggles night mode, esc quits.
Without --server lookups run in-process; with --server they go to a
running "archivist serve" instance.

Logs are written to ~/.archivist/terminal.log.

Example:
  archivist terminal
  archivist terminal --night
  archivist terminal --server http://localhost:3000`,
	Args: cobra.NoArgs,
	RunE: runTerminal,
}

func init() {
	rootCmd.AddCommand(terminalCmd)

	terminalCmd.Flags().StringVar(&serverURL, "server", "", "archivist server URL (in-process lookups when empty)")
	terminalCmd.Flags().BoolVar(&nightMode, "night", false, "start in night mode")
}

func runTerminal(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	l, closeLog, err := terminalLogger(verbose)
	if err != nil {
		return err
	}
	defer closeLog()
	logger = l

	var lookup tui.LookupFunc
	if serverURL != "" {
		lookup = client.New(serverURL, cfg.Server.RequestTimeout).Lookup
	} else {
		p, err := pipeline.NewPipeline(cfg, logger)
		if err != nil {
			return err
		}
		lookup = localLookup(p, cfg.Server.RequestTimeout)
	}

	return tui.Run(cmd.Context(), lookup,
		tui.WithNightMode(nightMode),
		tui.WithBaseURL(cfg.Archive.BaseURL),
	)
}

// localLookup answers in-process and reports failures the way the HTTP client does
func localLookup(p *pipeline.Pipeline, timeout time.Duration) tui.LookupFunc {
	return func(ctx context.Context, query string) (*model.Dossier, error) {
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		d, err := p.Answer(ctx, query)
		if err != nil {
			logger.Error("lookup failed", zap.String("query", query), zap.Error(err))
			return nil, client.ErrRetrieval
		}
		return d, nil
	}
}

// terminalLogger writes to ~/.archivist/terminal.log so the UI keeps the screen
func terminalLogger(verbose bool) (*zap.Logger, func(), error) {
	dir, err := configDir()
	if err != nil {
		return zap.NewNop(), func() {}, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}

	config := zap.NewProductionConfig()
	config.OutputPaths = []string{filepath.Join(dir, "terminal.log")}
	config.ErrorOutputPaths = config.OutputPaths
	if !verbose {
		config.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}

	l, err := config.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return l, func() { _ = l.Sync() }, nil
}

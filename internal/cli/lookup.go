package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ppiankov/archivist/internal/model"
	"github.com/ppiankov/archivist/internal/pipeline"
)

var (
	outJSON       string
	outMD         string
	outHTML       string
	lookupTimeout time.Duration
)

// lookupCmd represents the lookup command
var lookupCmd = &cobra.Command{
	Use:   "lookup <query>",
	Short: "Look up a single SCP entry and print its dossier",
	Long: `Lookup resolves one designation to a dossier:
- Parse the designation ("173", "SCP-173", "scp 049")
- Fetch the entry from the wiki
- Ask the language model for title, class, summary and related files
- Print the dossier with linked references

Example:
  archivist lookup 173
  archivist lookup SCP-682 --format markdown
  archivist lookup 106 --format pretty
  archivist lookup 049 --json scp-049.json --html scp-049.html
  archivist lookup 3000 --llm-provider openai --llm-model gpt-4o-mini`,
	Args: cobra.ExactArgs(1),
	RunE: runLookup,
}

func init() {
	rootCmd.AddCommand(lookupCmd)

	// Output flags
	lookupCmd.Flags().StringP("format", "f", "", "stdout format (text, markdown, html, json, pretty)")
	lookupCmd.Flags().StringVar(&outJSON, "json", "", "also write the dossier as JSON to this path")
	lookupCmd.Flags().StringVar(&outMD, "md", "", "also write the dossier as Markdown to this path")
	lookupCmd.Flags().StringVar(&outHTML, "html", "", "also write the dossier as HTML to this path")
	lookupCmd.Flags().DurationVar(&lookupTimeout, "timeout", 2*time.Minute, "overall lookup timeout")

	_ = viper.BindPFlag("output.format", lookupCmd.Flags().Lookup("format"))
}

func runLookup(cmd *cobra.Command, args []string) error {
	query := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), lookupTimeout)
	defer cancel()

	if verbose {
		fmt.Fprintf(os.Stderr, "Looking up: %s\n", query)
		fmt.Fprintf(os.Stderr, "Provider: %s\n", cfg.LLM.Provider)
		fmt.Fprintf(os.Stderr, "Cache: %v\n", cfg.Cache.Enabled)
		fmt.Fprintln(os.Stderr)
	}

	p, err := pipeline.NewPipeline(cfg, logger)
	if err != nil {
		return err
	}

	d, err := p.Answer(ctx, query)
	if err != nil {
		logger.Debug("lookup failed", zap.String("query", query), zap.Error(err))
		return fmt.Errorf("lookup failed: %w", err)
	}

	renderer := pipeline.NewRenderer(cfg.Archive.BaseURL)
	out, err := formatDossier(renderer, d, cfg.Output.Format)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), out)

	// Optional file outputs
	files := []struct {
		path   string
		render func(string) error
	}{
		{outJSON, func(path string) error { return renderer.RenderJSON(d, path) }},
		{outMD, func(path string) error { return renderer.RenderMarkdown(d, path) }},
		{outHTML, func(path string) error { return renderer.RenderHTML(d, path) }},
	}
	for _, f := range files {
		if f.path == "" {
			continue
		}
		if err := f.render(f.path); err != nil {
			return fmt.Errorf("render failed: %w", err)
		}
		fmt.Fprintf(os.Stderr, "✓ Wrote %s\n", f.path)
	}

	return nil
}

// formatPretty is the styled terminal rendering of the Markdown dossier
const formatPretty = "pretty"

func formatDossier(r *pipeline.Renderer, d *model.Dossier, format string) (string, error) {
	if format != formatPretty {
		return r.Format(d, format)
	}
	tr, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return "", fmt.Errorf("init terminal renderer: %w", err)
	}
	return tr.Render(r.Markdown(d))
}

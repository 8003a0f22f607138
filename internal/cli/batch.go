package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/archivist/internal/model"
	"github.com/ppiankov/archivist/internal/pipeline"
	"github.com/ppiankov/archivist/internal/worker"
)

var (
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Look up many SCP entries from a file in parallel",
	Long: `Batch processes many designations concurrently:
- Read queries from the input file (one per line, # comments allowed)
- Skip blank lines and duplicates
- Look queries up in parallel with a configurable worker count
- Write a JSON and Markdown dossier for each entry found

Example:
  archivist batch queries.txt
  archivist batch queries.txt --concurrency 8 --output-dir ./dossiers
  archivist batch queries.txt --timeout 30m`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().Int("concurrency", 0, "number of concurrent workers (config default when 0)")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./archivist-dossiers", "output directory for dossiers")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")

	_ = viper.BindPFlag("concurrency.workers", batchCmd.Flags().Lookup("concurrency"))
}

// answerLookuper serves batch jobs with notices instead of input and
// not-found errors
type answerLookuper struct {
	pipeline *pipeline.Pipeline
}

func (a answerLookuper) Lookup(ctx context.Context, query string) (*model.Dossier, error) {
	return a.pipeline.Answer(ctx, query)
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	workers := cfg.Concurrency.Workers
	if workers <= 0 {
		workers = model.DefaultConfig().Concurrency.Workers
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), batchTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Archivist Batch Processing\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", workers)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "  LLM:          %s\n", cfg.LLM.Provider)
	fmt.Fprintf(os.Stderr, "\n")

	// Create output directory
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p, err := pipeline.NewPipeline(cfg, logger)
	if err != nil {
		return err
	}

	processor := worker.NewBatchProcessor(answerLookuper{pipeline: p}, workers)

	fmt.Fprintf(os.Stderr, "⚙️  Processing queries with %d workers...\n\n", workers)
	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	renderer := pipeline.NewRenderer(cfg.Archive.BaseURL)
	found, notices, failures := 0, 0, 0

	for _, result := range results {
		renderer.RenderSummary(os.Stderr, result.Query, result.Dossier, result.Error)

		switch {
		case result.Error != nil:
			failures++
			continue
		case result.Dossier.IsNotice():
			notices++
			continue
		}

		base := filepath.Join(outputDir, result.Dossier.Metadata.ID)
		if err := renderer.RenderJSON(result.Dossier, base+".json"); err != nil {
			failures++
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write JSON: %v\n", result.Query, err)
			continue
		}
		if err := renderer.RenderMarkdown(result.Dossier, base+".md"); err != nil {
			failures++
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write Markdown: %v\n", result.Query, err)
			continue
		}
		found++
	}

	// Summary
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d queries\n", len(results))
	fmt.Fprintf(os.Stderr, "  Found:     %d\n", found)
	fmt.Fprintf(os.Stderr, "  Notices:   %d\n", notices)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failures)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}

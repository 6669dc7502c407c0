package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ppiankov/spellbook/internal/worker"
)

var (
	concurrency  int
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Annotate many card texts from a file in parallel",
	Long: `Batch annotates every line of a file concurrently:
- One card text per line ("-" reads stdin)
- Blank lines and lines starting with # are skipped
- Results are written in input order

Example:
  spellbook batch cards.txt
  spellbook batch cards.txt --concurrency 8 --format json
  cat cards.txt | spellbook batch -`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default from config)")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 5*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().StringVar(&catalogFile, "catalog", "", "keyword catalog YAML file (replaces the built-in catalog)")
	batchCmd.Flags().BoolVar(&noReminder, "no-reminder", false, "omit reminder text")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(cmd.Context(), batchTimeout)
	defer cancel()

	applyKeywordFlags()
	if concurrency > 0 {
		config.Concurrency.Workers = concurrency
	}

	p, err := newPipeline()
	if err != nil {
		return err
	}
	defer func() { _ = p.Close() }()

	logger.Info("Processing batch",
		zap.String("file", file),
		zap.Int("workers", config.Concurrency.Workers))

	var results []*worker.AnnotateResult
	if file == "-" {
		results, err = p.AnnotateReader(ctx, cmd.InOrStdin())
	} else {
		results, err = p.AnnotateFile(ctx, file)
	}
	if err != nil {
		return err
	}

	if err := newRenderer().RenderBatch(cmd.OutOrStdout(), results, config.Output.Format); err != nil {
		return fmt.Errorf("render: %w", err)
	}

	keywords, failures := 0, 0
	for _, res := range results {
		if res.Error != nil {
			failures++
			continue
		}
		keywords += len(res.Annotation.Spans)
	}

	if config.Output.Verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "✓ Annotated %d texts (%d keywords, %d failures)\n", len(results), keywords, failures)
	}
	if failures > 0 {
		return fmt.Errorf("%d of %d texts failed", failures, len(results))
	}

	return nil
}

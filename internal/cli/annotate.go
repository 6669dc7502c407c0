package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	catalogFile string
	noReminder  bool
)

// annotateCmd represents the annotate command
var annotateCmd = &cobra.Command{
	Use:   "annotate [text...]",
	Short: "Annotate card text with the keywords it uses",
	Long: `Annotate finds every catalog keyword in a piece of card text and shows
its definition. Arguments are joined with spaces; without arguments the
text is read from stdin.

Example:
  spellbook annotate "Flying, first strike"
  spellbook annotate --format markdown "Flashback {2}{R}"
  echo "Trample, haste" | spellbook annotate --format json`,
	RunE: runAnnotate,
}

func init() {
	rootCmd.AddCommand(annotateCmd)

	annotateCmd.Flags().StringVar(&catalogFile, "catalog", "", "keyword catalog YAML file (replaces the built-in catalog)")
	annotateCmd.Flags().BoolVar(&noReminder, "no-reminder", false, "omit reminder text")
}

func runAnnotate(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")
	if len(args) == 0 {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
		text = strings.TrimRight(string(data), "\r\n")
	}

	applyKeywordFlags()

	p, err := newPipeline()
	if err != nil {
		return err
	}
	defer func() { _ = p.Close() }()

	annotation := p.Annotate(text)
	logger.Debug("Annotated text", zap.Int("bytes", len(text)), zap.Int("keywords", len(annotation.Spans)))

	return newRenderer().RenderAnnotation(cmd.OutOrStdout(), annotation, config.Output.Format)
}

// applyKeywordFlags applies the catalog flags shared by the keyword commands
func applyKeywordFlags() {
	// Keyword commands never read the rules cache
	config.Cache.Enabled = false
	if catalogFile != "" {
		config.Keywords.CatalogFile = catalogFile
	}
	if noReminder {
		config.Output.IncludeReminder = false
	}
}

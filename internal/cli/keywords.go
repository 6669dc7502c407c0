package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppiankov/spellbook/internal/keywords"
	"github.com/ppiankov/spellbook/internal/model"
	"github.com/ppiankov/spellbook/internal/pipeline"
)

var keywordType string

// keywordsCmd represents the keywords command
var keywordsCmd = &cobra.Command{
	Use:   "keywords",
	Short: "Browse the keyword catalog",
	Long: `Browse the keyword catalog used by annotate.

Keywords are abilities (Flying, Ward), actions (Scry, Mill) or mechanics
(Landfall). Replace the built-in catalog with --catalog or
keywords.catalog_file in the config.`,
}

var keywordsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog keywords",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runKeywordSearch(cmd, "")
	},
}

var keywordsSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search keyword names, definitions and reminder text",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runKeywordSearch(cmd, strings.Join(args, " "))
	},
}

var keywordsShowCmd = &cobra.Command{
	Use:     "show <keyword>",
	Short:   "Show one keyword",
	Example: `  spellbook keywords show "first strike"`,
	Args:    cobra.MinimumNArgs(1),
	RunE:    runKeywordShow,
}

func init() {
	rootCmd.AddCommand(keywordsCmd)
	keywordsCmd.AddCommand(keywordsListCmd)
	keywordsCmd.AddCommand(keywordsSearchCmd)
	keywordsCmd.AddCommand(keywordsShowCmd)

	keywordsCmd.PersistentFlags().StringVar(&catalogFile, "catalog", "", "keyword catalog YAML file (replaces the built-in catalog)")
	keywordsCmd.PersistentFlags().BoolVar(&noReminder, "no-reminder", false, "omit reminder text")
	keywordsListCmd.Flags().StringVar(&keywordType, "type", "", "only list keywords of this type: ability, action, mechanic")
	keywordsSearchCmd.Flags().StringVar(&keywordType, "type", "", "only match keywords of this type: ability, action, mechanic")
}

func runKeywordSearch(cmd *cobra.Command, query string) error {
	typ := model.KeywordType(strings.ToLower(keywordType))
	if typ != "" && !typ.Valid() {
		return fmt.Errorf("unknown keyword type %q (supported: ability, action, mechanic)", keywordType)
	}

	applyKeywordFlags()

	p, err := newPipeline()
	if err != nil {
		return err
	}
	defer func() { _ = p.Close() }()

	matches := keywords.Search(p.Catalog(), query, typ)
	if len(matches) == 0 && config.Output.Format != pipeline.FormatJSON {
		fmt.Fprintln(cmd.ErrOrStderr(), "No keywords found")
		return nil
	}

	return newRenderer().RenderKeywords(cmd.OutOrStdout(), matches, config.Output.Format)
}

func runKeywordShow(cmd *cobra.Command, args []string) error {
	applyKeywordFlags()

	p, err := newPipeline()
	if err != nil {
		return err
	}
	defer func() { _ = p.Close() }()

	name := strings.Join(args, " ")
	def, ok := keywords.Lookup(p.Catalog(), name)
	if !ok {
		return fmt.Errorf("unknown keyword: %s", name)
	}

	return newRenderer().RenderKeywords(cmd.OutOrStdout(), []model.KeywordDefinition{*def}, config.Output.Format)
}

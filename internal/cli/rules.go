package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ppiankov/spellbook/internal/model"
	"github.com/ppiankov/spellbook/internal/pipeline"
	"github.com/ppiankov/spellbook/internal/rules"
)

var (
	rulesFile    string
	rulesURL     string
	refreshRules bool
	noCache      bool
	searchLimit  int
)

// rulesCmd represents the rules command
var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Search the Comprehensive Rules",
	Long: `Search and read the Magic: The Gathering Comprehensive Rules.

The rules text is downloaded from rules.url (or read from rules.file) and
cached. After rules.cache_ttl the cached copy is revalidated with the
server before it is downloaded again. Use --refresh to download a fresh copy.

Search ranks rules by where the query appears: in the rule number (3),
the first line (2) or anywhere in the text (1). Ties keep document order.`,
}

var rulesSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search rules by number, title or text",
	Long: `Search rules by number, title or text, best matches first.

Example:
  spellbook rules search "first strike"
  spellbook rules search 702.19 --limit 5`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRulesSearch,
}

var rulesShowCmd = &cobra.Command{
	Use:   "show <rule>",
	Short: "Show a rule and its subrules",
	Long: `Show a rule and its lettered subrules.

Example:
  spellbook rules show 702.9
  spellbook rules show 603.2a`,
	Args: cobra.ExactArgs(1),
	RunE: runRulesShow,
}

var rulesGlossaryCmd = &cobra.Command{
	Use:   "glossary [query]",
	Short: "Search the rules glossary",
	RunE:  runRulesGlossary,
}

var rulesStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show where the rules came from and how many were parsed",
	Args:  cobra.NoArgs,
	RunE:  runRulesStats,
}

func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.AddCommand(rulesSearchCmd)
	rulesCmd.AddCommand(rulesShowCmd)
	rulesCmd.AddCommand(rulesGlossaryCmd)
	rulesCmd.AddCommand(rulesStatsCmd)

	rulesCmd.PersistentFlags().StringVar(&rulesFile, "file", "", "read the rules from a local text file")
	rulesCmd.PersistentFlags().StringVar(&rulesURL, "url", "", "download the rules from this URL")
	rulesCmd.PersistentFlags().BoolVar(&refreshRules, "refresh", false, "ignore the cached copy and download again")
	rulesCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "disable cache (force fresh fetch)")
	rulesSearchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 20, "maximum results (0 for all)")
	rulesGlossaryCmd.Flags().IntVarP(&searchLimit, "limit", "n", 20, "maximum results (0 for all)")
}

// loadRules applies the rules flags and loads the document
func loadRules(ctx context.Context) (*model.RulesDocument, error) {
	if rulesFile != "" {
		config.Rules.File = rulesFile
	}
	if rulesURL != "" {
		config.Rules.URL = rulesURL
		config.Rules.File = ""
	}
	if noCache {
		config.Cache.Enabled = false
	}

	p, err := newPipeline()
	if err != nil {
		return nil, err
	}
	defer func() { _ = p.Close() }()

	doc, err := p.LoadRules(ctx, refreshRules)
	if err != nil {
		return nil, fmt.Errorf("load rules: %w", err)
	}

	logger.Debug("Loaded rules",
		zap.String("source", doc.Source),
		zap.Bool("cached", doc.FromCache),
		zap.Int("sections", len(doc.Sections)),
		zap.Int("glossary", len(doc.Glossary)))

	return doc, nil
}

func runRulesSearch(cmd *cobra.Command, args []string) error {
	doc, err := loadRules(cmd.Context())
	if err != nil {
		return err
	}

	results := limit(rules.Search(doc.Sections, strings.Join(args, " ")), searchLimit)
	if len(results) == 0 && config.Output.Format != pipeline.FormatJSON {
		fmt.Fprintln(cmd.ErrOrStderr(), "No rules found")
		return nil
	}

	return newRenderer().RenderSections(cmd.OutOrStdout(), results, config.Output.Format)
}

func runRulesShow(cmd *cobra.Command, args []string) error {
	doc, err := loadRules(cmd.Context())
	if err != nil {
		return err
	}

	id := strings.TrimSuffix(strings.TrimSpace(args[0]), ".")
	rule, ok := rules.Find(doc.Sections, id)
	if !ok {
		return fmt.Errorf("unknown rule: %s", id)
	}

	// Subrules share the parent number plus a letter: 702.9 -> 702.9a, 702.9b
	sections := []model.RuleSection{rule}
	for _, s := range doc.Sections {
		if len(s.ID) == len(rule.ID)+1 && strings.HasPrefix(s.ID, rule.ID) {
			if last := s.ID[len(s.ID)-1]; last >= 'a' && last <= 'z' {
				sections = append(sections, s)
			}
		}
	}

	return newRenderer().RenderSections(cmd.OutOrStdout(), sections, config.Output.Format)
}

func runRulesGlossary(cmd *cobra.Command, args []string) error {
	doc, err := loadRules(cmd.Context())
	if err != nil {
		return err
	}

	entries := doc.Glossary
	if len(args) > 0 {
		entries = rules.SearchGlossary(entries, strings.Join(args, " "))
	}
	entries = limit(entries, searchLimit)

	if len(entries) == 0 && config.Output.Format != pipeline.FormatJSON {
		fmt.Fprintln(cmd.ErrOrStderr(), "No glossary entries found")
		return nil
	}

	return newRenderer().RenderGlossary(cmd.OutOrStdout(), entries, config.Output.Format)
}

func runRulesStats(cmd *cobra.Command, args []string) error {
	doc, err := loadRules(cmd.Context())
	if err != nil {
		return err
	}
	return newRenderer().RenderStats(cmd.OutOrStdout(), doc, config.Output.Format)
}

func limit[T any](items []T, n int) []T {
	if n > 0 && len(items) > n {
		return items[:n]
	}
	return items
}

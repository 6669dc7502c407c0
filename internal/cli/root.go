package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ppiankov/spellbook/internal/logging"
	"github.com/ppiankov/spellbook/internal/model"
	"github.com/ppiankov/spellbook/internal/pipeline"
)

// version is overridden at build time with -ldflags "-X ...cli.version=..."
var version = "v0.1.0"

var (
	cfgFile      string
	verbose      bool
	outputFormat string

	config *model.Config
	logger = zap.NewNop()
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "spellbook",
	Short: "Spellbook - keyword glossary and rules lookup for Magic card text",
	Long: `Spellbook annotates Magic: The Gathering card text with the keywords it
uses and searches the Comprehensive Rules.

Keyword matching is case-insensitive and whole-word; longer keywords win
over the shorter keywords they contain ("Flashback" over "Flash").

The rules are downloaded once and cached locally; point rules.file at a
local copy to work offline.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if verbose {
			cfg.Output.Verbose = true
		}
		if outputFormat != "" {
			cfg.Output.Format = outputFormat
		}
		if !pipeline.ValidFormat(cfg.Output.Format) {
			return fmt.Errorf("unknown output format %q (supported: text, markdown, json)", cfg.Output.Format)
		}

		l, err := logging.New(cfg.Logging, cfg.Output.Verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		config = cfg
		logger = l
		if used := viper.ConfigFileUsed(); used != "" {
			logger.Debug("Using config file", zap.String("file", used))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number for Spellbook.`,
	Run: func(cmd *cobra.Command, args []string) {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "spellbook %s\n", version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.spellbook/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output (debug logging)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "", "output format: text, markdown, json (default from config)")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		// Search for config in home directory
		viper.AddConfigPath(filepath.Join(home, ".spellbook"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match SPELLBOOK_*, e.g.
	// SPELLBOOK_RULES_FILE for rules.file
	viper.SetEnvPrefix("SPELLBOOK")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	for _, key := range configKeys(reflect.TypeOf(model.Config{}), "") {
		_ = viper.BindEnv(key)
	}

	// A missing config file is fine; an unreadable one is reported
	if err := viper.ReadInConfig(); err != nil && cfgFile != "" && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Error reading config file %s: %v\n", cfgFile, err)
	}
}

// loadConfig decodes viper settings over the built-in defaults
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// configKeys lists the dotted mapstructure keys of every leaf field
func configKeys(t reflect.Type, prefix string) []string {
	var keys []string
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		name := field.Tag.Get("mapstructure")
		if name == "" {
			continue
		}
		if prefix != "" {
			name = prefix + "." + name
		}
		if field.Type.Kind() == reflect.Struct {
			keys = append(keys, configKeys(field.Type, name)...)
			continue
		}
		keys = append(keys, name)
	}
	return keys
}

// newPipeline builds a pipeline from the loaded configuration
func newPipeline() (*pipeline.Pipeline, error) {
	p, err := pipeline.NewPipeline(config, logger)
	if err != nil {
		return nil, fmt.Errorf("initialize: %w", err)
	}
	return p, nil
}

func newRenderer() *pipeline.Renderer {
	return pipeline.NewRenderer(config.Output.IncludeReminder)
}

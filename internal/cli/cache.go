package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppiankov/spellbook/internal/cache"
)

// cacheCmd represents the cache command
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the rules cache",
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove every cached rules download",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !config.Cache.Enabled {
			fmt.Fprintln(cmd.ErrOrStderr(), "Cache is disabled; nothing to clear")
			return nil
		}

		// The memory backend lives only as long as this process
		if strings.EqualFold(config.Cache.Backend, cache.BackendMemory) {
			fmt.Fprintln(cmd.OutOrStdout(), "Memory cache is not persistent; nothing to clear")
			return nil
		}

		p, err := newPipeline()
		if err != nil {
			return err
		}
		defer func() { _ = p.Close() }()

		if err := p.ClearCache(); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✓ Cleared %s cache in %s\n", config.Cache.Backend, config.Cache.Dir)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}

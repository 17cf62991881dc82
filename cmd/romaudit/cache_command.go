package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kotae42/romaudit-cli/internal/fingerprint"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Fingerprint cache utilities",
	}

	cacheCmd.AddCommand(newCacheInfoCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))
	return cacheCmd
}

func newCacheInfoCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show fingerprint cache statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			cache := fingerprint.Open(cfg.CachePath())
			rows := [][]string{
				{"Cache blob", cfg.CachePath()},
				{"On-disk size", fileSize(cfg.CachePath())},
				{"Cached fingerprints", strconv.Itoa(cache.Len())},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Field", "Value"}, rows, nil))
			return nil
		},
	}
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete the fingerprint cache (safe; the next run re-hashes)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			err = os.Remove(cfg.CachePath())
			if err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("remove cache: %w", err)
			}
			if os.IsNotExist(err) {
				fmt.Fprintln(cmd.OutOrStdout(), "Cache was already empty.")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", cfg.CachePath())
			return nil
		},
	}
}

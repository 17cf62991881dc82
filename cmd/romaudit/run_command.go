package main

import (
	"fmt"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kotae42/romaudit-cli/internal/audit"
	"github.com/kotae42/romaudit-cli/internal/logging"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Scan, classify, and organize the collection",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := cfg.EnsureDirectories(); err != nil {
				return fmt.Errorf("ensure directories: %w", err)
			}
			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("initialize logging: %w", err)
			}

			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			engine := audit.New(cfg, logger)
			summary, err := engine.Run(signalCtx)
			if err != nil {
				// Per-file error classes never reach here; anything
				// returned by the engine aborts with a non-zero exit.
				return err
			}

			printSummary(cmd, summary)
			return nil
		},
	}
}

func printSummary(cmd *cobra.Command, summary *audit.Summary) {
	out := cmd.OutOrStdout()

	rows := [][]string{
		{"Groups present", fmt.Sprintf("%d / %d", summary.GroupsPresent, summary.GroupsTotal)},
		{"Files scanned", strconv.Itoa(summary.FilesScanned)},
		{"Skipped (already classified)", strconv.Itoa(summary.SkippedMarked)},
		{"Placed", strconv.Itoa(summary.Placed)},
		{"Duplicates", strconv.Itoa(summary.Duplicates)},
		{"Unknown", strconv.Itoa(summary.Unknowns)},
		{"Input errors", strconv.Itoa(summary.InputErrors)},
		{"Verification failures", strconv.Itoa(summary.VerificationFailures)},
		{"Cache hits / misses", fmt.Sprintf("%d / %d", summary.CacheHits, summary.CacheMisses)},
		{"Data hashed", summary.HashedSize()},
		{"Duration", summary.Duration().Round(10 * time.Millisecond).String()},
	}
	fmt.Fprintln(out, renderTable([]string{"Metric", "Value"}, rows, []columnAlignment{alignLeft, alignRight}))

	if summary.DuplicateDir != "" {
		fmt.Fprintf(out, "Duplicates moved to %s\n", summary.DuplicateDir)
	}
	if summary.UnknownDir != "" {
		fmt.Fprintf(out, "Unknown files moved to %s\n", summary.UnknownDir)
	}
	if summary.Interrupted {
		fmt.Fprintln(out, "Run interrupted; completed work was committed and the next run resumes from it.")
	}
}

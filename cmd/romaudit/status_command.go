package main

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/kotae42/romaudit-cli/internal/fingerprint"
	"github.com/kotae42/romaudit-cli/internal/state"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the durable placement state",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			store, err := state.Load(cfg.StatePath(), cfg.MarkersPath())
			if err != nil {
				return fmt.Errorf("load state: %w", err)
			}
			cache := fingerprint.Open(cfg.CachePath())

			records := store.Placements()
			groups := make(map[string]int)
			for _, record := range records {
				groups[record.Group]++
			}
			names := make([]string, 0, len(groups))
			for name := range groups {
				names = append(names, name)
			}
			sort.Strings(names)

			out := cmd.OutOrStdout()
			rows := [][]string{
				{"State snapshot", cfg.StatePath()},
				{"Placements", strconv.Itoa(len(records))},
				{"Groups present", strconv.Itoa(len(groups))},
				{"Cached fingerprints", strconv.Itoa(cache.Len())},
				{"Output directory", cfg.Paths.OutputDir},
			}
			fmt.Fprintln(out, renderTable([]string{"Field", "Value"}, rows, nil))

			if len(names) == 0 {
				fmt.Fprintln(out, "No placements recorded yet; run `romaudit run` first.")
				return nil
			}

			groupRows := make([][]string, 0, len(names))
			for _, name := range names {
				groupRows = append(groupRows, []string{name, strconv.Itoa(groups[name])})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Group", "Members placed"},
				groupRows,
				[]columnAlignment{alignLeft, alignRight},
			))
			return nil
		},
	}
}

func fileSize(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return "absent"
	}
	return strconv.FormatInt(info.Size(), 10) + " B"
}

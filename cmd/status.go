package cmd

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/landomo-com/landomo-brazil-quintoandar/internal/pkg/frontier"
)

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print a job's frontier counters without running anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.InMemory {
				return fmt.Errorf("in-memory jobs leave no state behind to inspect")
			}

			if err := cfg.EnsureJobPath(); err != nil {
				return err
			}

			f := new(frontier.Frontier)
			if err := f.Init(cfg.JobPath, false); err != nil {
				return fmt.Errorf("cannot open job %s: %w", cfg.Job, err)
			}
			defer f.Close()

			stats := f.GetStats()

			table := uitable.New()
			table.AddRow("Job:", cfg.Job)
			table.AddRow("Discovered:", humanize.Comma(stats.Discovered))
			table.AddRow("Pending:", humanize.Comma(stats.Pending))
			table.AddRow("Processed:", humanize.Comma(stats.Processed))
			table.AddRow("Skipped:", humanize.Comma(stats.Skipped))
			table.AddRow("Failed:", humanize.Comma(stats.Failed))
			if stats.EstimatedCompletion > 0 {
				table.AddRow("Enriched/min:", stats.RatePerMinute)
				table.AddRow("ETA:", stats.EstimatedCompletion.String())
			}
			fmt.Fprintln(os.Stdout, table.String())

			if failed := f.State.FailedIDs(); len(failed) > 0 {
				fmt.Fprintln(os.Stdout, "\nFailed IDs:")
				for _, id := range failed {
					fmt.Fprintln(os.Stdout, " ", id)
				}
			}

			return nil
		},
	}
}

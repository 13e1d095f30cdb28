package cmd

import (
	"github.com/spf13/cobra"
)

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Discover and enrich in one go",
		Long: `Run both phases back to back: discovery fills the frontier, then a
pool of workers drains it. With --in-memory nothing touches the disk and
the job is not resumable, which is the fastest way to do a one-shot pull.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := initScraper(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := discover(cmd.Context(), s); err != nil {
				return err
			}
			s.DiscoveryDone.Set(true)

			return enrich(cmd.Context(), s)
		},
	}
}

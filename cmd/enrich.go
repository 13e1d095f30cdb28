package cmd

import (
	"context"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/landomo-com/landomo-brazil-quintoandar/internal/pkg/scraper"
)

func enrichCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "enrich",
		Short: "Drain the job's frontier with a pool of enrichment workers",
		Long: `Pull listing IDs from the job's frontier with a pool of workers,
fetch and normalize each record and push it to the configured sink. The
command exits once the frontier is drained, failed IDs stay recorded in
the job's state for inspection with "status".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := initScraper(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer s.Close()

			// Standalone enrichment only works on what discovery already
			// queued, so the workers may treat the queue as the whole world
			s.DiscoveryDone.Set(true)

			return enrich(cmd.Context(), s)
		},
	}
}

func enrich(ctx context.Context, s *scraper.Scraper) error {
	summary, err := s.RunEnrichment(ctx, s.Config.WorkersCount)
	if err != nil {
		return err
	}

	fields := log.Fields{
		"total":        summary.TotalIDs,
		"processed":    summary.Processed,
		"skipped":      summary.Skipped,
		"failed":       summary.Failed,
		"success_rate": summary.SuccessRate,
		"elapsed":      summary.Elapsed,
	}

	if failed := s.Frontier.State.FailedIDs(); len(failed) > 0 {
		fields["failed_ids"] = failed
	}

	log.WithFields(fields).Info("Enrichment summary")

	return nil
}

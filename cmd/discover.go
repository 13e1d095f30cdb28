package cmd

import (
	"context"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/landomo-com/landomo-brazil-quintoandar/internal/pkg/scraper"
)

func discoverCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "discover",
		Short: "Walk the query regions and queue every newly seen listing ID",
		Long: `Walk the configured regions (curated cities or a raw grid), page
through each region's search results and push every newly seen listing ID
to the job's frontier. Enrichment is not started, run "enrich" afterwards
or use "run" for both phases.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := initScraper(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer s.Close()

			return discover(cmd.Context(), s)
		},
	}
}

func discover(ctx context.Context, s *scraper.Scraper) error {
	regionList, err := regions(s.Config)
	if err != nil {
		return err
	}

	summary, err := s.RunDiscovery(ctx, regionList)
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"regions":       summary.RegionsProcessed,
		"with_listings": summary.RegionsWithListings,
		"truncated":     summary.TruncatedRegions,
		"unique_ids":    summary.UniqueIDsFound,
		"pending":       s.Frontier.QueueLen(),
	}).Info("Discovery summary")

	return nil
}

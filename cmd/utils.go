package cmd

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/landomo-com/landomo-brazil-quintoandar/internal/pkg/config"
	"github.com/landomo-com/landomo-brazil-quintoandar/internal/pkg/grid"
	"github.com/landomo-com/landomo-brazil-quintoandar/internal/pkg/scraper"
	"github.com/landomo-com/landomo-brazil-quintoandar/internal/pkg/sink"
)

// initScraper build a Scraper from the config: job directory, frontier,
// sink, close handler and the live stats printer.
func initScraper(ctx context.Context, cfg *config.Config) (*scraper.Scraper, error) {
	if !cfg.InMemory {
		if err := cfg.EnsureJobPath(); err != nil {
			return nil, fmt.Errorf("cannot create job directory: %w", err)
		}
	}

	s, err := scraper.Create(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.DBDSN != "" {
		pg, err := sink.NewPostgresSink(ctx, cfg.DBDSN)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("cannot initialize postgres sink: %w", err)
		}
		s.Sink = pg
	}

	s.SetupCloseHandler()

	if cfg.LiveStats {
		go s.PrintLiveStats()
	}

	return s, nil
}

// regions pick the discovery source: a raw coordinate grid when --grid is
// set, the curated city list otherwise.
func regions(cfg *config.Config) ([]grid.Region, error) {
	if cfg.Grid {
		bounds := grid.BoundingBox{
			North: cfg.GridNorth,
			South: cfg.GridSouth,
			East:  cfg.GridEast,
			West:  cfg.GridWest,
		}

		cells, err := grid.Generate(bounds, cfg.GridCellSize)
		if err != nil {
			return nil, err
		}

		log.WithFields(log.Fields{
			"cells":     len(cells),
			"cell_size": cfg.GridCellSize,
		}).Info("Discovering over a coordinate grid")

		return cells, nil
	}

	cities := scraper.CityRegions(cfg.Cities)
	if len(cities) == 0 {
		return nil, fmt.Errorf("no known city matches %v", cfg.Cities)
	}

	return cities, nil
}

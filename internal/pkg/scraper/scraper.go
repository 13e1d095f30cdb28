// Package scraper drives the two-phase pipeline: discovery walks the query
// regions and feeds newly seen listing IDs to the frontier, enrichment pulls
// from the frontier with a pool of workers and pushes every fetched record
// through the transform/sink boundary.
package scraper

import (
	"fmt"
	"time"

	"github.com/paulbellamy/ratecounter"
	log "github.com/sirupsen/logrus"

	"github.com/landomo-com/landomo-brazil-quintoandar/internal/pkg/config"
	"github.com/landomo-com/landomo-brazil-quintoandar/internal/pkg/frontier"
	"github.com/landomo-com/landomo-brazil-quintoandar/internal/pkg/quintoandar"
	"github.com/landomo-com/landomo-brazil-quintoandar/internal/pkg/sink"
	"github.com/landomo-com/landomo-brazil-quintoandar/internal/pkg/utils"
)

// popTimeout bounds how long a worker blocks on an empty queue before
// re-checking its termination condition
var popTimeout = 5 * time.Second

// Scraper define the parameters of a scraping job
type Scraper struct {
	StartTime time.Time
	Config    *config.Config

	// Frontier
	Frontier *frontier.Frontier

	// Collaborators
	Client quintoandar.Client
	Sink   sink.Sink

	// Run state
	Paused        *utils.TAtomBool
	Finished      *utils.TAtomBool
	DiscoveryDone *utils.TAtomBool

	// Real time statistics
	IDsPerSecond  *ratecounter.RateCounter
	ActiveWorkers *ratecounter.Counter
	PagesFetched  *ratecounter.Counter

	// inFlight is the number of IDs popped but not yet terminal or
	// requeued, delayedRequeues the number of backoff timers armed.
	// Workers use both to decide when the pipeline is really drained.
	inFlight        *ratecounter.Counter
	delayedRequeues *ratecounter.Counter

	PromMetrics *PrometheusMetrics
}

// Create initialize a Scraper from the configuration: the frontier (durable
// or in-memory), the portal client and the ingestion sink.
func Create(cfg *config.Config) (*Scraper, error) {
	s := &Scraper{
		StartTime:       time.Now(),
		Config:          cfg,
		Paused:          new(utils.TAtomBool),
		Finished:        new(utils.TAtomBool),
		DiscoveryDone:   new(utils.TAtomBool),
		IDsPerSecond:    ratecounter.NewRateCounter(time.Second),
		ActiveWorkers:   new(ratecounter.Counter),
		PagesFetched:    new(ratecounter.Counter),
		inFlight:        new(ratecounter.Counter),
		delayedRequeues: new(ratecounter.Counter),
	}

	s.Frontier = new(frontier.Frontier)
	if err := s.Frontier.Init(cfg.JobPath, cfg.InMemory); err != nil {
		return nil, fmt.Errorf("scraper: cannot initialize frontier: %w", err)
	}
	s.Frontier.Start()
	s.StartTime = s.Frontier.StartTime

	s.Client = quintoandar.NewHTTPClient(cfg.APIBaseURL, time.Duration(cfg.HTTPTimeout)*time.Second)

	s.Sink = sink.DiscardSink{}

	if cfg.Prometheus {
		s.PromMetrics = newPrometheusMetrics(cfg.PrometheusPrefix)
		s.PromMetrics.register()
	}

	// Prometheus needs the API server to expose /metrics
	if cfg.API || cfg.Prometheus {
		go s.startAPI()
	}

	return s, nil
}

// Close flush and close the frontier and the sink
func (s *Scraper) Close() {
	s.Finished.Set(true)
	s.Frontier.Close()
	s.Sink.Close()

	log.WithFields(log.Fields{
		"job": s.Config.Job,
	}).Info("Scraper closed")
}

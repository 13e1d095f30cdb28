package scraper

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/remeh/sizedwaitgroup"
	log "github.com/sirupsen/logrus"

	"github.com/landomo-com/landomo-brazil-quintoandar/internal/pkg/grid"
	"github.com/landomo-com/landomo-brazil-quintoandar/internal/pkg/quintoandar"
)

// DiscoverySummary is the per-run discovery report
type DiscoverySummary struct {
	RegionsProcessed    int
	UniqueIDsFound      int64
	RegionsWithListings int
	TruncatedRegions    int
}

// RunDiscovery walk all the regions and feed every newly seen listing ID to
// the frontier. Regions are processed with bounded parallelism, per-region
// failures truncate that region only, a frontier failure aborts the run.
func (s *Scraper) RunDiscovery(ctx context.Context, regions []grid.Region) (summary DiscoverySummary, err error) {
	seenBefore := s.Frontier.Seencheck.SeenCount.Value()

	parallelism := s.Config.DiscoveryParallelism
	if parallelism < 1 {
		parallelism = 1
	}

	var summaryMutex sync.Mutex
	var fatalErr error

	swg := sizedwaitgroup.New(parallelism)
	for _, region := range regions {
		if ctx.Err() != nil || s.Finished.Get() {
			break
		}

		// A frontier substrate failure means nothing can be durably
		// recorded anymore, stop feeding regions to it
		summaryMutex.Lock()
		fatal := fatalErr != nil
		summaryMutex.Unlock()
		if fatal {
			break
		}

		region := region
		swg.Add()
		go func() {
			defer swg.Done()

			found, truncated, regionErr := s.discoverRegion(ctx, region)

			summaryMutex.Lock()
			defer summaryMutex.Unlock()

			if regionErr != nil {
				// Only the frontier substrate can error out here, no
				// further progress can be durably recorded
				if fatalErr == nil {
					fatalErr = regionErr
				}
				return
			}

			summary.RegionsProcessed++
			if found > 0 {
				summary.RegionsWithListings++
			}
			if truncated {
				summary.TruncatedRegions++
			}
		}()
	}
	swg.Wait()

	if fatalErr != nil {
		return summary, fatalErr
	}

	summary.UniqueIDsFound = s.Frontier.Seencheck.SeenCount.Value() - seenBefore

	log.WithFields(log.Fields{
		"regions":   summary.RegionsProcessed,
		"unique":    summary.UniqueIDsFound,
		"listed":    summary.RegionsWithListings,
		"truncated": summary.TruncatedRegions,
	}).Info("Discovery pass finished")

	return summary, nil
}

// discoverRegion page through one region's result set. The first page
// establishes the authoritative total: an empty region costs exactly one
// fetch. A page failing all its retries truncates the region, the IDs
// collected so far stay enqueued.
func (s *Scraper) discoverRegion(ctx context.Context, region grid.Region) (found int, truncated bool, err error) {
	regionLog := log.WithFields(log.Fields{
		"region":   region.Label,
		"progress": progress(region),
	})

	pageSize := s.Config.PageSize
	offset := 0
	pages := 0
	total := 0

	for {
		page, fetchErr := s.fetchPageWithRetry(ctx, region, offset, pageSize)
		if fetchErr != nil {
			regionLog.WithFields(log.Fields{
				"error":  fetchErr,
				"offset": offset,
			}).Warning("Pagination truncated, keeping the IDs collected so far")
			return found, true, nil
		}

		pages++
		s.PagesFetched.Incr(1)
		if s.PromMetrics != nil {
			s.PromMetrics.pagesFetched.Inc()
		}

		if offset == 0 {
			total = page.Total
			if total == 0 {
				regionLog.Debug("Empty region")
				return 0, false, nil
			}

			regionLog.WithFields(log.Fields{
				"total": total,
			}).Info("Region reported listings")
		}

		for _, id := range page.IDs {
			isNew, offerErr := s.Frontier.Offer(id)
			if offerErr != nil {
				return found, false, offerErr
			}

			found++
			if isNew {
				s.IDsPerSecond.Incr(1)
				if s.PromMetrics != nil {
					s.PromMetrics.idsDiscovered.Inc()
				}
			}
		}

		offset += pageSize
		if offset >= total {
			return found, false, nil
		}

		// Rotation cadence, detectability policy and not correctness
		if s.Config.RotatePagesEvery > 0 && pages%s.Config.RotatePagesEvery == 0 {
			s.Client.Rotate()
			if s.PromMetrics != nil {
				s.PromMetrics.rotations.Inc()
			}
		}

		s.rateLimitSleep()

		if ctx.Err() != nil || s.Finished.Get() {
			regionLog.Warning("Discovery interrupted, region left partially paged")
			return found, true, nil
		}
	}
}

// fetchPageWithRetry apply the bounded retry with exponential backoff to a
// single page fetch
func (s *Scraper) fetchPageWithRetry(ctx context.Context, region grid.Region, offset, pageSize int) (page *quintoandar.SearchPage, err error) {
	for attempt := 0; attempt <= s.Config.MaxRetry; attempt++ {
		if attempt > 0 {
			time.Sleep(s.backoff(attempt))
		}

		page, err = s.Client.FetchIDs(ctx, region, offset, pageSize)
		if err == nil {
			return page, nil
		}

		if ctx.Err() != nil {
			return nil, err
		}

		log.WithFields(log.Fields{
			"region":  region.Label,
			"offset":  offset,
			"attempt": attempt + 1,
			"error":   err,
		}).Debug("Page fetch failed")
	}

	return nil, err
}

// backoff return the delay before the n-th retry, exponential with a jitter
// multiplier of up to 1.5x to avoid synchronized retry storms
func (s *Scraper) backoff(retryCount int) time.Duration {
	base := s.Config.BackoffBase
	if base <= 0 {
		base = time.Second
	}

	delay := base * time.Duration(1<<(retryCount-1))

	return time.Duration(float64(delay) * (1 + rand.Float64()*0.5))
}

// rateLimitSleep pause between consecutive fetches, jittered between 0.6x
// and 1.6x of the configured delay
func (s *Scraper) rateLimitSleep() {
	if s.Config.RateLimit <= 0 {
		return
	}

	time.Sleep(time.Duration(float64(s.Config.RateLimit) * (0.6 + rand.Float64())))
}

func progress(region grid.Region) string {
	if region.Total == 0 {
		return "?"
	}

	return fmt.Sprintf("%d/%d", region.Index, region.Total)
}

package scraper

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

// EnrichmentSummary is the report emitted when the pipeline drains
type EnrichmentSummary struct {
	TotalIDs    int64
	Processed   int64
	Skipped     int64
	Failed      int64
	Elapsed     time.Duration
	SuccessRate float64
}

// RunEnrichment start a pool of workers against the frontier and wait for
// the pipeline to drain. Callers running enrichment standalone must have
// marked discovery as done beforehand.
func (s *Scraper) RunEnrichment(ctx context.Context, workerCount int) (EnrichmentSummary, error) {
	start := time.Now()

	if workerCount < 1 {
		workerCount = 1
	}

	log.WithFields(log.Fields{
		"workers": workerCount,
		"pending": s.Frontier.QueueLen(),
	}).Info("Starting enrichment")

	var wg sync.WaitGroup
	var errMutex sync.Mutex
	var firstErr error

	for i := 0; i < workerCount; i++ {
		worker := s.newWorker()

		wg.Add(1)
		go func() {
			defer wg.Done()

			if err := worker.Run(ctx); err != nil {
				errMutex.Lock()
				if firstErr == nil {
					firstErr = err
				}
				errMutex.Unlock()

				// One worker dying of a substrate failure means they
				// all should stop
				s.Finished.Set(true)
			}
		}()
	}
	wg.Wait()

	// Armed backoff timers still hold IDs. Wait for them to hand their
	// ID back to the queue before the frontier gets closed, otherwise an
	// interrupted job would lose those IDs for good: the seencheck
	// suppresses their re-discovery.
	for s.delayedRequeues.Value() > 0 {
		time.Sleep(50 * time.Millisecond)
	}

	stats := s.Frontier.GetStats()
	summary := EnrichmentSummary{
		TotalIDs:  stats.Discovered,
		Processed: stats.Processed,
		Skipped:   stats.Skipped,
		Failed:    stats.Failed,
		Elapsed:   time.Since(start),
	}

	if terminal := summary.Processed + summary.Skipped + summary.Failed; terminal > 0 {
		summary.SuccessRate = float64(summary.Processed+summary.Skipped) / float64(terminal)
	}

	log.WithFields(log.Fields{
		"total":     summary.TotalIDs,
		"processed": summary.Processed,
		"skipped":   summary.Skipped,
		"failed":    summary.Failed,
		"elapsed":   summary.Elapsed,
	}).Info("Enrichment finished")

	return summary, firstErr
}

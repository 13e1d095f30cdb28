package scraper

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/landomo-com/landomo-brazil-quintoandar/internal/pkg/quintoandar"
	"github.com/landomo-com/landomo-brazil-quintoandar/internal/pkg/sink"
)

// Worker pulls listing IDs from the frontier and enriches them one at a
// time until the pipeline drains
type Worker struct {
	ID      uuid.UUID
	scraper *Scraper

	successes int
}

func (s *Scraper) newWorker() *Worker {
	return &Worker{
		ID:      uuid.New(),
		scraper: s,
	}
}

// Run is the worker's main loop. It exits when the context is cancelled,
// the job is marked finished, or the pipeline is drained: queue empty,
// nothing in flight, no backoff timer armed and discovery over.
func (w *Worker) Run(ctx context.Context) error {
	s := w.scraper

	workerLog := log.WithFields(log.Fields{
		"worker": w.ID.String()[:8],
	})
	workerLog.Info("Worker started")
	defer workerLog.Info("Worker stopped")

	for {
		if ctx.Err() != nil || s.Finished.Get() {
			return nil
		}

		for s.Paused.Get() {
			time.Sleep(time.Second)
		}

		id, ok, err := s.Frontier.Pop(popTimeout)
		if err != nil {
			// The queue substrate itself is broken, nothing can be
			// durably recorded anymore
			return err
		}

		if !ok {
			if s.drained() {
				// An ID popped by another worker registers as in
				// flight a moment after it leaves the queue, check
				// again after a beat before concluding.
				time.Sleep(popTimeout / 5)
				if s.drained() {
					return nil
				}
			}
			continue
		}

		s.inFlight.Incr(1)
		s.ActiveWorkers.Incr(1)
		err = w.process(ctx, id)
		s.ActiveWorkers.Incr(-1)
		s.inFlight.Incr(-1)

		if err != nil {
			return err
		}
	}
}

// process run one ID through the enrichment state machine:
//
//	processing -> processed  (fetch ok, normalize ok, ingest ok)
//	processing -> pending    (transient failure, retries < max, backoff)
//	processing -> failed     (transient failure, retries >= max)
//	processing -> skipped    (detail gone upstream, terminal non-failure)
func (w *Worker) process(ctx context.Context, id string) error {
	s := w.scraper

	// A resumed or doubly-enqueued ID may already be terminal
	done, err := s.Frontier.State.IsProcessed(id)
	if err != nil {
		return err
	}
	if done {
		return nil
	}

	s.rateLimitSleep()

	raw, fetchErr := s.Client.FetchDetail(ctx, id)
	if fetchErr != nil {
		if errors.Is(fetchErr, quintoandar.ErrNotFound) {
			// The listing is gone, drop silently
			if s.PromMetrics != nil {
				s.PromMetrics.skipped.Inc()
			}
			return s.Frontier.State.MarkSkipped(id)
		}

		return w.failure(id, fetchErr)
	}

	property, normErr := sink.Normalize(id, raw)
	if normErr != nil {
		// Malformed records go through the same bounded-retry path as
		// fetch failures
		return w.failure(id, normErr)
	}

	if ingestErr := s.Sink.Ingest(ctx, property); ingestErr != nil {
		return w.failure(id, ingestErr)
	}

	if err := s.Frontier.State.MarkProcessed(id); err != nil {
		return err
	}

	if s.PromMetrics != nil {
		s.PromMetrics.enriched.Inc()
	}

	w.successes++
	if s.Config.RotateFetchEvery > 0 && w.successes%s.Config.RotateFetchEvery == 0 {
		s.Client.Rotate()
		if s.PromMetrics != nil {
			s.PromMetrics.rotations.Inc()
		}
	}

	return nil
}

// failure increment the ID's retry counter and either arm a delayed requeue
// or record the permanent failure
func (w *Worker) failure(id string, cause error) error {
	s := w.scraper

	retries, err := s.Frontier.State.IncrRetry(id)
	if err != nil {
		return err
	}

	if retries >= s.Config.MaxRetry {
		log.WithFields(log.Fields{
			"id":      id,
			"retries": retries,
			"error":   cause,
		}).Warning("Retries exhausted, recording permanent failure")

		if s.PromMetrics != nil {
			s.PromMetrics.failed.Inc()
		}

		return s.Frontier.State.MarkFailed(id)
	}

	delay := s.backoff(retries)
	log.WithFields(log.Fields{
		"id":    id,
		"retry": retries,
		"delay": delay,
		"error": cause,
	}).Info("Enrichment failed, requeueing with backoff")

	// The ID becomes eligible again once the backoff elapsed. The armed
	// timer is tracked so drain detection doesn't fire early and so a
	// stopping run waits for the requeue instead of losing the ID: an
	// ID is always in exactly one of pending, processing, processed or
	// failed, even across an interruption.
	s.delayedRequeues.Incr(1)
	time.AfterFunc(delay, func() {
		defer s.delayedRequeues.Incr(-1)

		if err := s.Frontier.Requeue(id); err != nil {
			log.WithFields(log.Fields{
				"id":    id,
				"error": err,
			}).Error("Unable to requeue ID")
		}
	})

	return nil
}

// drained return true once no more work can ever show up: discovery is
// over, the queue is empty, no worker holds an ID and no requeue is armed
func (s *Scraper) drained() bool {
	return s.DiscoveryDone.Get() &&
		s.Frontier.QueueLen() == 0 &&
		s.inFlight.Value() == 0 &&
		s.delayedRequeues.Value() == 0
}

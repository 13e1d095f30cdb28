package frontier

import "time"

// Stats is a point-in-time snapshot of the pipeline's accounting
type Stats struct {
	Pending       int64
	Processed     int64
	Skipped       int64
	Failed        int64
	Discovered    int64
	RatePerMinute int64

	// EstimatedCompletion is zero when the processing rate is zero
	EstimatedCompletion time.Duration
}

// GetStats return a snapshot of the frontier's counters. When the queue is
// fully drained, Processed+Skipped+Failed equals Discovered.
func (f *Frontier) GetStats() Stats {
	stats := Stats{
		Pending:       f.QueueLen(),
		Processed:     f.State.ProcessedCount.Value(),
		Skipped:       f.State.SkippedCount.Value(),
		Failed:        f.State.FailedCount.Value(),
		Discovered:    f.Seencheck.SeenCount.Value(),
		RatePerMinute: f.State.EnrichedPerMinute.Rate(),
	}

	if stats.RatePerMinute > 0 {
		stats.EstimatedCompletion = time.Duration(stats.Pending/stats.RatePerMinute) * time.Minute
	}

	return stats
}

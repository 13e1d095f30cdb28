// Package sink is the downstream boundary of the pipeline: it normalizes a
// raw detail record into a portal-agnostic property record, validates it,
// and persists it.
package sink

import (
	"context"
)

// Sink persist normalized property records
type Sink interface {
	Ingest(ctx context.Context, property *Property) error
	Close()
}

// DiscardSink drop every record, used for dry runs and discovery-only jobs
type DiscardSink struct{}

func (DiscardSink) Ingest(ctx context.Context, property *Property) error { return nil }

func (DiscardSink) Close() {}

package frontier

import (
	"path"
	"sync"
	"time"

	"github.com/paulbellamy/ratecounter"
	"github.com/philippgille/gokv"
	"github.com/philippgille/gokv/leveldb"
	"github.com/philippgille/gokv/syncmap"
)

// State tracks the terminal outcome of every popped listing ID and the
// per-ID retry counters. An ID is in exactly one of pending (queue),
// processing (popped, in a worker's hands), processed or failed.
type State struct {
	processed gokv.Store
	failed    gokv.Store
	retries   gokv.Store

	ProcessedCount *ratecounter.Counter
	FailedCount    *ratecounter.Counter
	SkippedCount   *ratecounter.Counter

	// EnrichedPerMinute feeds the processing rate and ETA estimations
	EnrichedPerMinute *ratecounter.RateCounter

	failedMutex sync.Mutex
	failedIDs   []string
}

func newState(jobPath string, inMemory bool) (*State, error) {
	state := &State{
		ProcessedCount:    new(ratecounter.Counter),
		FailedCount:       new(ratecounter.Counter),
		SkippedCount:      new(ratecounter.Counter),
		EnrichedPerMinute: ratecounter.NewRateCounter(time.Minute),
	}

	if inMemory {
		state.processed = syncmap.NewStore(syncmap.DefaultOptions)
		state.failed = syncmap.NewStore(syncmap.DefaultOptions)
		state.retries = syncmap.NewStore(syncmap.DefaultOptions)
		return state, nil
	}

	for _, db := range []struct {
		name  string
		store *gokv.Store
	}{
		{"processed", &state.processed},
		{"failed", &state.failed},
		{"retries", &state.retries},
	} {
		store, err := leveldb.NewStore(leveldb.Options{Path: path.Join(jobPath, db.name)})
		if err != nil {
			return nil, err
		}
		*db.store = store
	}

	return state, nil
}

// IsProcessed return true if the ID already reached a terminal state, it is
// what makes a duplicate enqueue harmless for a resumed job.
func (s *State) IsProcessed(id string) (bool, error) {
	var value bool

	found, err := s.processed.Get(id, &value)
	if err != nil || found {
		return found, err
	}

	return s.failed.Get(id, &value)
}

// MarkProcessed record the terminal success of an ID and reset its retry
// counter.
func (s *State) MarkProcessed(id string) error {
	if err := s.processed.Set(id, true); err != nil {
		return err
	}

	s.ProcessedCount.Incr(1)
	s.EnrichedPerMinute.Incr(1)

	return s.ClearRetry(id)
}

// MarkSkipped record an ID whose detail no longer exists upstream. It is a
// terminal non-failure: the ID leaves the pipeline but is counted apart so
// the operator can tell dead listings from enrichment failures.
func (s *State) MarkSkipped(id string) error {
	if err := s.processed.Set(id, true); err != nil {
		return err
	}

	s.SkippedCount.Incr(1)
	s.EnrichedPerMinute.Incr(1)

	return s.ClearRetry(id)
}

// MarkFailed record the terminal failure of an ID after its retry bound was
// exhausted. Failed IDs are kept around for later inspection and re-runs.
func (s *State) MarkFailed(id string) error {
	if err := s.failed.Set(id, true); err != nil {
		return err
	}

	s.failedMutex.Lock()
	s.failedIDs = append(s.failedIDs, id)
	s.failedMutex.Unlock()

	s.FailedCount.Incr(1)
	s.EnrichedPerMinute.Incr(1)

	return nil
}

// IncrRetry increment and return the ID's enrichment attempt counter
func (s *State) IncrRetry(id string) (int, error) {
	var count int

	if _, err := s.retries.Get(id, &count); err != nil {
		return 0, err
	}

	count++
	if err := s.retries.Set(id, count); err != nil {
		return 0, err
	}

	return count, nil
}

// ClearRetry remove the ID's retry counter
func (s *State) ClearRetry(id string) error {
	return s.retries.Delete(id)
}

// FailedIDs return the IDs that failed permanently since the job started
// or was last resumed
func (s *State) FailedIDs() []string {
	s.failedMutex.Lock()
	defer s.failedMutex.Unlock()

	ids := make([]string, len(s.failedIDs))
	copy(ids, s.failedIDs)

	return ids
}

// Close close the state databases
func (s *State) Close() {
	s.processed.Close()
	s.failed.Close()
	s.retries.Close()
}

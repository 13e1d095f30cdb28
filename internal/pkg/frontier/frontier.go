// Package frontier holds the shared mutable state of a scraping job: the
// durable queue of listing IDs pending enrichment, the seencheck database
// used to deduplicate IDs across overlapping regions, and the processed /
// failed / retry bookkeeping that makes a job resumable across restarts.
package frontier

import (
	"sync"
	"time"

	"github.com/paulbellamy/ratecounter"
	"github.com/sirupsen/logrus"
)

var log = logrus.StandardLogger()

// Frontier decouples the discovery producer from the enrichment workers.
// All mutation of shared state goes through its methods.
type Frontier struct {
	JobPath  string
	InMemory bool

	// StartTime is when the job was first started, it survives restarts
	StartTime time.Time

	// Queue is the FIFO of listing IDs pending enrichment. In durable mode
	// it is a goque (LevelDB-backed) queue living under the job path.
	Queue      workQueue
	QueueCount *ratecounter.Counter

	// Seencheck is the global set of IDs observed so far in the run,
	// overlapping grid cells are expected to report the same listings
	// and this is what suppresses the duplicate work.
	Seencheck *Seencheck

	// State tracks processed/failed IDs and per-ID retry counters.
	State *State

	// offerMutex serializes the seencheck-then-enqueue step so that an ID
	// discovered concurrently from two regions is enqueued exactly once.
	offerMutex sync.Mutex

	finishedSaving chan struct{}
	stopSaving     chan struct{}
	saverStarted   bool
}

// Init initialize the frontier's queue, seencheck and state databases.
// With inMemory set, everything lives in process memory and the job is not
// resumable, otherwise all state is persisted under jobPath.
func (f *Frontier) Init(jobPath string, inMemory bool) (err error) {
	f.JobPath = jobPath
	f.InMemory = inMemory
	f.StartTime = time.Now()
	f.QueueCount = new(ratecounter.Counter)
	f.stopSaving = make(chan struct{})
	f.finishedSaving = make(chan struct{})

	if inMemory {
		f.Queue = newMemoryQueue()
	} else {
		f.Queue, err = newPersistentQueue(jobPath)
		if err != nil {
			return err
		}
		log.Info("Persistent queue initialized")
	}

	f.Seencheck, err = newSeencheck(jobPath, inMemory)
	if err != nil {
		return err
	}
	log.Info("Seencheck initialized")

	f.State, err = newState(jobPath, inMemory)
	if err != nil {
		return err
	}
	log.Info("State databases initialized")

	if !inMemory {
		f.Load()
		f.QueueCount.Incr(int64(f.Queue.length()))
	}

	return nil
}

// Start fire up the background process that periodically dumps the
// frontier's counters to disk so a killed job resumes with sane totals.
func (f *Frontier) Start() {
	if f.InMemory {
		return
	}

	f.saverStarted = true
	go func() {
		defer close(f.finishedSaving)
		for {
			select {
			case <-f.stopSaving:
				return
			case <-time.After(time.Minute):
				f.Save()
			}
		}
	}()
}

// Offer run the seencheck-then-enqueue step for a discovered ID. It returns
// true if the ID was new and has been enqueued, false if it was suppressed
// as a duplicate. The step is atomic with respect to concurrent callers.
func (f *Frontier) Offer(id string) (bool, error) {
	f.offerMutex.Lock()
	defer f.offerMutex.Unlock()

	seen, err := f.Seencheck.IsSeen(id)
	if err != nil {
		return false, err
	}
	if seen {
		return false, nil
	}

	if err := f.Seencheck.Seen(id); err != nil {
		return false, err
	}

	if err := f.Queue.push(id); err != nil {
		return false, err
	}
	f.QueueCount.Incr(1)

	return true, nil
}

// Pop dequeue the next pending ID, blocking up to timeout when the queue is
// empty. The second return value is false if the timeout expired with
// nothing to dequeue, so callers can re-check their termination condition.
func (f *Frontier) Pop(timeout time.Duration) (string, bool, error) {
	deadline := time.Now().Add(timeout)

	for {
		id, err := f.Queue.pop()
		if err == nil {
			f.QueueCount.Incr(-1)
			return id, true, nil
		}

		if err != errQueueEmpty {
			return "", false, err
		}

		if time.Now().After(deadline) {
			return "", false, nil
		}

		time.Sleep(250 * time.Millisecond)
	}
}

// Requeue push back an ID whose enrichment failed transiently. No seencheck
// here, the ID is already a member of the seen set.
func (f *Frontier) Requeue(id string) error {
	if err := f.Queue.push(id); err != nil {
		return err
	}
	f.QueueCount.Incr(1)

	return nil
}

// QueueLen return the number of pending IDs
func (f *Frontier) QueueLen() int64 {
	return int64(f.Queue.length())
}

// Close dump the frontier's state a last time and close the databases
func (f *Frontier) Close() {
	if !f.InMemory {
		if f.saverStarted {
			close(f.stopSaving)
			<-f.finishedSaving
		}
		f.Save()
	}

	if err := f.Queue.close(); err != nil {
		log.WithFields(logrus.Fields{
			"error": err,
		}).Warning("Unable to close the queue")
	}

	f.Seencheck.Close()
	f.State.Close()
}

package frontier

import (
	"errors"
	"path"
	"sync"

	"github.com/beeker1121/goque"
)

// errQueueEmpty is returned by pop when there is nothing to dequeue
var errQueueEmpty = errors.New("frontier: queue is empty")

// workQueue is the narrow FIFO contract shared by the durable and the
// in-memory backends. FIFO order is a courtesy, not a correctness
// requirement, workers are interchangeable.
type workQueue interface {
	push(id string) error
	pop() (string, error)
	length() uint64
	close() error
}

// persistentQueue is a goque FIFO living under the job path, it survives
// the producer and consumer processes.
type persistentQueue struct {
	q *goque.Queue
}

func newPersistentQueue(jobPath string) (*persistentQueue, error) {
	q, err := goque.OpenQueue(path.Join(jobPath, "queue"))
	if err != nil {
		return nil, err
	}

	return &persistentQueue{q: q}, nil
}

func (pq *persistentQueue) push(id string) error {
	_, err := pq.q.EnqueueString(id)
	return err
}

func (pq *persistentQueue) pop() (string, error) {
	item, err := pq.q.Dequeue()
	if err != nil {
		if err == goque.ErrEmpty {
			return "", errQueueEmpty
		}
		return "", err
	}

	return item.ToString(), nil
}

func (pq *persistentQueue) length() uint64 {
	return pq.q.Length()
}

func (pq *persistentQueue) close() error {
	return pq.q.Close()
}

// memoryQueue is the degenerate in-process backend used when a job doesn't
// need to be resumable.
type memoryQueue struct {
	sync.Mutex
	ids []string
}

func newMemoryQueue() *memoryQueue {
	return &memoryQueue{}
}

func (mq *memoryQueue) push(id string) error {
	mq.Lock()
	mq.ids = append(mq.ids, id)
	mq.Unlock()

	return nil
}

func (mq *memoryQueue) pop() (string, error) {
	mq.Lock()
	defer mq.Unlock()

	if len(mq.ids) == 0 {
		return "", errQueueEmpty
	}

	id := mq.ids[0]
	mq.ids = mq.ids[1:]

	return id, nil
}

func (mq *memoryQueue) length() uint64 {
	mq.Lock()
	defer mq.Unlock()

	return uint64(len(mq.ids))
}

func (mq *memoryQueue) close() error {
	return nil
}

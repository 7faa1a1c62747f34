package queue

import (
	"container/list"
	"sync"

	"github.com/pkg/errors"
)

// ErrEmpty is returned by Dequeue when the queue holds no more requests.
var ErrEmpty = errors.New("queue is empty")

// BatchQueue is a FIFO of planned submission requests.  Every entry carries an
// idempotency key; enqueuing a key that is already present is a no-op, which
// keeps resumed runs from planning the same batch twice.
type BatchQueue interface {
	Enqueue(key uint32, x interface{}) (bool, error)
	Dequeue() (interface{}, error)
	Size() int
	Snapshot() ([]interface{}, error)
	Close() error
}

type queuedItem struct {
	Key   uint32
	Value interface{}
}

// MemoryQueue is an in-memory FIFO on a doubly linked list.  Its contents do
// not survive the process; use the journal queue for resumable runs.
type MemoryQueue struct {
	items *list.List
	keys  map[uint32]bool
	size  int
	mutex *sync.RWMutex
}

// NewMemoryQueue creates an empty queue holding at most size requests.
func NewMemoryQueue(size int) *MemoryQueue {
	return &MemoryQueue{
		items: list.New(),
		keys:  map[uint32]bool{},
		size:  size,
		mutex: &sync.RWMutex{},
	}
}

// Enqueue appends a request unless its key is already queued.  A full queue
// returns false; a duplicate key returns true without adding anything.
func (q *MemoryQueue) Enqueue(key uint32, x interface{}) (bool, error) {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	if q.keys[key] {
		return true, nil
	}
	if q.items.Len() >= q.size {
		return false, nil
	}
	q.items.PushBack(&queuedItem{Key: key, Value: x})
	q.keys[key] = true
	return true, nil
}

// Dequeue removes and returns the oldest request, or ErrEmpty.
func (q *MemoryQueue) Dequeue() (interface{}, error) {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	front := q.items.Front()
	if front == nil {
		return nil, ErrEmpty
	}
	item := front.Value.(*queuedItem)
	q.items.Remove(front)
	delete(q.keys, item.Key)
	return item.Value, nil
}

// Size returns the number of queued requests.
func (q *MemoryQueue) Size() int {
	q.mutex.RLock()
	defer q.mutex.RUnlock()
	return q.items.Len()
}

// Snapshot returns the queued requests in order without consuming them.
func (q *MemoryQueue) Snapshot() ([]interface{}, error) {
	q.mutex.RLock()
	defer q.mutex.RUnlock()

	contents := make([]interface{}, 0, q.items.Len())
	for e := q.items.Front(); e != nil; e = e.Next() {
		contents = append(contents, e.Value.(*queuedItem).Value)
	}
	return contents, nil
}

// Close is a no-op for the in-memory queue.
func (q *MemoryQueue) Close() error {
	return nil
}

package queue

import (
	"fmt"
	"os"
	"path"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/uncharted-causemos/dque"
)

const journalSegmentSize = 50

// JournalQueue is a disk-backed FIFO of planned submission requests.  An
// interrupted run leaves its undispatched batches in the journal, and a later
// run with the same journal picks them up instead of re-planning them.
// Dequeued keys are recorded in a sidecar file so a resumed run cannot queue
// a batch the crashed run already dispatched.
type JournalQueue struct {
	queue      *dque.DQue
	keys       map[uint32]bool
	size       int
	mutex      *sync.RWMutex
	dispatched *os.File
}

func journalItemBuilder() interface{} {
	return &queuedItem{}
}

// keyScan rebuilds the idempotency key set from the persisted entries when a
// journal is reopened.
type keyScan struct {
	keys map[uint32]bool
}

// Apply is called on each persisted entry during the scan.
func (k *keyScan) Apply(entry interface{}) error {
	item, ok := entry.(*queuedItem)
	if !ok {
		return errors.Errorf("unexpected journal entry type %s", reflect.TypeOf(entry))
	}
	k.keys[item.Key] = true
	return nil
}

// readDispatchedKeys loads the keys a previous run already dequeued.
func readDispatchedKeys(sidecarPath string) (map[uint32]bool, error) {
	keys := map[uint32]bool{}
	content, err := os.ReadFile(sidecarPath)
	if err != nil {
		if os.IsNotExist(err) {
			return keys, nil
		}
		return nil, errors.Wrapf(err, "failed to read dispatched keys %s", sidecarPath)
	}
	for _, field := range strings.Fields(string(content)) {
		key, err := strconv.ParseUint(field, 10, 32)
		if err != nil {
			return nil, errors.Wrapf(err, "corrupt dispatched key %q in %s", field, sidecarPath)
		}
		keys[uint32(key)] = true
	}
	return keys, nil
}

// NewJournalQueue opens the journal at dir/name, creating it if absent, and
// rebuilds the key set from any entries a previous run left behind.  A
// journal that opens empty starts a fresh run: its dispatched-key record is
// discarded so identical batches can be planned again on purpose later.
func NewJournalQueue(size int, dir string, name string) (*JournalQueue, error) {
	journalPath := path.Join(dir, name)
	sidecarPath := journalPath + ".dispatched"

	var q *dque.DQue
	if _, err := os.Stat(journalPath); err != nil {
		if !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to stat journal %s", journalPath)
		}
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return nil, errors.Wrapf(err, "failed to create journal dir %s", dir)
		}
		q, err = dque.New(name, dir, journalSegmentSize, journalItemBuilder)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to initialize journal %s", journalPath)
		}
	} else {
		q, err = dque.Open(name, dir, journalSegmentSize, journalItemBuilder)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to load journal %s", journalPath)
		}
	}

	scan := keyScan{keys: map[uint32]bool{}}
	if err := q.ApplyToQueue(&scan); err != nil {
		return nil, errors.Wrapf(err, "failed to rebuild key set for %s", journalPath)
	}

	if q.Size() == 0 {
		if err := os.Remove(sidecarPath); err != nil && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to reset dispatched keys %s", sidecarPath)
		}
	} else {
		dispatched, err := readDispatchedKeys(sidecarPath)
		if err != nil {
			return nil, err
		}
		for key := range dispatched {
			scan.keys[key] = true
		}
	}

	sidecar, err := os.OpenFile(sidecarPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open dispatched keys %s", sidecarPath)
	}

	return &JournalQueue{
		queue:      q,
		keys:       scan.keys,
		size:       size,
		mutex:      &sync.RWMutex{},
		dispatched: sidecar,
	}, nil
}

// Enqueue appends a request unless its key is already journaled or was
// already dispatched by this run.  A full journal returns false; a known key
// returns true without adding anything.
func (q *JournalQueue) Enqueue(key uint32, x interface{}) (bool, error) {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	if q.keys[key] {
		return true, nil
	}
	if q.queue.Size() >= q.size {
		return false, nil
	}
	if err := q.queue.Enqueue(&queuedItem{Key: key, Value: x}); err != nil {
		return false, errors.Wrap(err, "failed to enqueue")
	}
	q.keys[key] = true
	return true, nil
}

// Dequeue removes and returns the oldest request, or ErrEmpty.  The key stays
// in the set and is persisted as dispatched, so re-planning after a restart
// cannot queue the same batch twice.
func (q *JournalQueue) Dequeue() (interface{}, error) {
	q.mutex.Lock()
	defer q.mutex.Unlock()

	result, err := q.queue.Dequeue()
	if err != nil {
		if errors.Is(err, dque.ErrEmpty) {
			return nil, ErrEmpty
		}
		return nil, errors.Wrap(err, "failed to dequeue")
	}
	item := result.(*queuedItem)
	if _, err := fmt.Fprintf(q.dispatched, "%d\n", item.Key); err != nil {
		return nil, errors.Wrap(err, "failed to record dispatched key")
	}
	if err := q.dispatched.Sync(); err != nil {
		return nil, errors.Wrap(err, "failed to flush dispatched key")
	}
	return item.Value, nil
}

// Size returns the number of journaled requests.
func (q *JournalQueue) Size() int {
	q.mutex.RLock()
	defer q.mutex.RUnlock()
	return q.queue.Size()
}

// Snapshot returns the journaled requests in order without consuming them.
func (q *JournalQueue) Snapshot() ([]interface{}, error) {
	q.mutex.RLock()
	defer q.mutex.RUnlock()

	contents := make([]interface{}, 0, q.queue.Size())
	collect := func(entry interface{}) error {
		item, ok := entry.(*queuedItem)
		if !ok {
			return errors.Errorf("unexpected journal entry type %s", reflect.TypeOf(entry))
		}
		contents = append(contents, item.Value)
		return nil
	}
	if err := q.queue.ApplyToQueue(applyFunc(collect)); err != nil {
		return nil, err
	}
	return contents, nil
}

// applyFunc adapts a function to dque's queue scanning interface.
type applyFunc func(entry interface{}) error

func (f applyFunc) Apply(entry interface{}) error {
	return f(entry)
}

// Close flushes the journal to disk and disallows any further operations.
func (q *JournalQueue) Close() error {
	if err := q.dispatched.Close(); err != nil {
		return errors.Wrap(err, "failed to close dispatched keys")
	}
	return errors.Wrap(q.queue.Close(), "failed to close journal")
}

package queue

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnqueueDequeue(t *testing.T) {
	queue := NewMemoryQueue(2)

	result, err := queue.Enqueue(1, 10)
	assert.NoError(t, err)
	assert.True(t, result)
	result, err = queue.Enqueue(2, 20)
	assert.NoError(t, err)
	assert.True(t, result)
	result, err = queue.Enqueue(3, 30)
	assert.NoError(t, err)
	assert.False(t, result)

	count := queue.Size()
	assert.Equal(t, 2, count)

	dequeueResult, err := queue.Dequeue()
	assert.NoError(t, err)
	assert.Equal(t, 10, dequeueResult.(int))

	count = queue.Size()
	assert.Equal(t, 1, count)

	dequeueResult, err = queue.Dequeue()
	assert.NoError(t, err)
	assert.Equal(t, 20, dequeueResult.(int))

	count = queue.Size()
	assert.Equal(t, 0, count)
}

func TestDequeueEmpty(t *testing.T) {
	queue := NewMemoryQueue(2)

	result, err := queue.Dequeue()
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestEnqueueDuplicateKey(t *testing.T) {
	queue := NewMemoryQueue(5)

	result, err := queue.Enqueue(1, 10)
	assert.NoError(t, err)
	assert.True(t, result)

	// duplicate key reports success but is not added
	result, err = queue.Enqueue(1, 99)
	assert.NoError(t, err)
	assert.True(t, result)
	assert.Equal(t, 1, queue.Size())

	dequeueResult, err := queue.Dequeue()
	assert.NoError(t, err)
	assert.Equal(t, 10, dequeueResult.(int))

	// once dequeued the key is free again
	result, err = queue.Enqueue(1, 99)
	assert.NoError(t, err)
	assert.True(t, result)
	assert.Equal(t, 1, queue.Size())
}

func TestSnapshot(t *testing.T) {
	queue := NewMemoryQueue(5)

	_, _ = queue.Enqueue(1, 10)
	_, _ = queue.Enqueue(2, 20)
	_, _ = queue.Enqueue(3, 30)

	contents, err := queue.Snapshot()
	assert.NoError(t, err)
	assert.Equal(t, []interface{}{10, 20, 30}, contents)

	// snapshot does not consume
	assert.Equal(t, 3, queue.Size())
}

package containers

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRingQueueWrapsAround(t *testing.T) {
	q := NewRingQueue[string](2)
	assert.True(t, q.IsEmpty())

	require.NoError(t, q.Enqueue("a"))
	require.NoError(t, q.Enqueue("b"))
	assert.True(t, q.IsFull())
	assert.ErrorIs(t, q.Enqueue("c"), ErrQueueFull)

	v, err := q.Dequeue()
	require.NoError(t, err)
	assert.Equal(t, "a", v)

	require.NoError(t, q.Enqueue("c"))
	head, err := q.Peek()
	require.NoError(t, err)
	assert.Equal(t, "b", head)

	for _, want := range []string{"b", "c"} {
		v, err := q.Dequeue()
		require.NoError(t, err)
		assert.Equal(t, want, v)
	}
	_, err = q.Dequeue()
	assert.ErrorIs(t, err, ErrQueueEmpty)
	_, err = q.Peek()
	assert.ErrorIs(t, err, ErrQueueEmpty)
}

func TestRingQueueProducerConsumer(t *testing.T) {
	q := NewRingQueue[int](8)
	const n = 1000

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < n; {
			if q.Enqueue(i) == nil {
				i++
			}
		}
	}()

	for want := 0; want < n; {
		v, err := q.Dequeue()
		if err != nil {
			continue
		}
		require.Equal(t, want, v)
		want++
	}
	wg.Wait()
	assert.Zero(t, q.Len())
}

package pipeline

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueFIFOOrder(t *testing.T) {
	q := newQueue(0)
	q.Put("a")
	q.Put("b")
	q.Put("c")

	assert.Equal(t, "a", q.Get())
	assert.Equal(t, "b", q.Get())
	assert.Equal(t, "c", q.Get())
	assert.Equal(t, 0, q.Len())
}

func TestQueueJoinWaitsForInflightItems(t *testing.T) {
	q := newQueue(0)
	q.Put(1)

	got := q.Get()
	require.Equal(t, 1, got)
	require.Equal(t, 0, q.Len())

	// The item is in flight: Join must not return until Done is called.
	joined := make(chan struct{})
	go func() {
		q.Join()
		close(joined)
	}()

	select {
	case <-joined:
		t.Fatal("Join returned while an item was still in flight")
	case <-time.After(50 * time.Millisecond):
	}

	q.Done()
	select {
	case <-joined:
	case <-time.After(time.Second):
		t.Fatal("Join did not return after Done")
	}
	assert.True(t, q.Idle())
}

func TestQueueBoundedPutBlocks(t *testing.T) {
	q := newQueue(1)
	q.Put(1)

	var second atomic.Bool
	go func() {
		q.Put(2)
		second.Store(true)
	}()

	time.Sleep(50 * time.Millisecond)
	assert.False(t, second.Load(), "Put must block while the queue is full")

	assert.Equal(t, 1, q.Get())
	assert.Eventually(t, second.Load, time.Second, 5*time.Millisecond)
}

func TestQueueConcurrentProducersConsumers(t *testing.T) {
	const producers, perProducer, consumers = 4, 250, 3

	q := newQueue(0)
	var consumed atomic.Int64

	var wg sync.WaitGroup
	for c := 0; c < consumers; c++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				v := q.Get()
				if _, ok := v.(sentinel); ok {
					q.Done()
					return
				}
				consumed.Add(1)
				q.Done()
			}
		}()
	}

	for p := 0; p < producers; p++ {
		go func(p int) {
			for i := 0; i < perProducer; i++ {
				q.Put(p*perProducer + i)
			}
		}(p)
	}

	// All work finished before the sentinels go in.
	waitFor(t, func() bool { return consumed.Load() == producers*perProducer })
	q.Join()

	for c := 0; c < consumers; c++ {
		q.Put(sentinel{})
	}
	wg.Wait()

	assert.Equal(t, int64(producers*perProducer), consumed.Load())
	assert.True(t, q.Idle())
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

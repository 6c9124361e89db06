package coalesce

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vigcoin/cryptonotewallet/internal/engine"
)

type recorder struct {
	mu      sync.Mutex
	batches []Batch
}

func (r *recorder) flush(b Batch) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches = append(r.batches, b)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.batches)
}

func (r *recorder) get(i int) Batch {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.batches[i]
}

func TestDebouncer_BurstYieldsOneFlush(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	d := New(40*time.Millisecond, 5*time.Second, rec.flush)

	const n = 100
	for i := range n {
		require.True(t, d.Add(KindUpdated, engine.TransactionID(i)))
	}

	require.Eventually(t, func() bool { return rec.count() == 1 }, 2*time.Second, 5*time.Millisecond)
	time.Sleep(150 * time.Millisecond)
	require.Equal(t, 1, rec.count())

	b := rec.get(0)
	assert.Equal(t, engine.TransactionID(n-1), b.LastUpdated)
	assert.Equal(t, engine.TransactionID(n-1), b.Last)
	assert.Equal(t, n, b.Count)
	assert.Len(t, b.Updated, n)
	assert.Empty(t, b.Created)
	assert.Equal(t, engine.InvalidTransactionID, b.LastCreated)
}

func TestDebouncer_SpacedEventsFlushSeparately(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	d := New(20*time.Millisecond, time.Second, rec.flush)

	const n = 3
	for i := range n {
		d.Add(KindUpdated, engine.TransactionID(i))
		want := i + 1
		require.Eventually(t, func() bool { return rec.count() == want }, time.Second, 5*time.Millisecond)
	}

	for i := range n {
		b := rec.get(i)
		assert.Equal(t, 1, b.Count)
		assert.Equal(t, engine.TransactionID(i), b.LastUpdated)
	}
}

func TestDebouncer_MaxWaitBoundsContinuousBurst(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	d := New(100*time.Millisecond, 200*time.Millisecond, rec.flush)

	// Events every 10ms would postpone a pure debounce forever.
	start := time.Now()
	firstFlush := time.Duration(0)
	for i := 0; time.Since(start) < 900*time.Millisecond; i++ {
		d.Add(KindUpdated, engine.TransactionID(i))
		if firstFlush == 0 && rec.count() > 0 {
			firstFlush = time.Since(start)
		}
		time.Sleep(10 * time.Millisecond)
	}

	require.NotZero(t, firstFlush, "batch withheld for the whole burst")
	assert.Less(t, firstFlush, 700*time.Millisecond)
	assert.GreaterOrEqual(t, rec.count(), 2)
}

func TestDebouncer_DeduplicatesAndKeepsOrder(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	d := New(time.Hour, time.Hour, rec.flush)

	d.Add(KindCreated, 7)
	d.Add(KindUpdated, 3)
	d.Add(KindUpdated, 5)
	d.Add(KindUpdated, 3)
	d.Add(KindCreated, 8)
	assert.Equal(t, 5, d.Pending())

	d.Flush()
	require.Equal(t, 1, rec.count())

	b := rec.get(0)
	assert.Equal(t, []engine.TransactionID{7, 8}, b.Created)
	assert.Equal(t, []engine.TransactionID{3, 5}, b.Updated)
	assert.Equal(t, engine.TransactionID(8), b.LastCreated)
	assert.Equal(t, engine.TransactionID(3), b.LastUpdated)
	assert.Equal(t, engine.TransactionID(8), b.Last)
	assert.Equal(t, 5, b.Count)
	assert.Zero(t, d.Pending())
}

func TestDebouncer_FlushEmptyIsNoop(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	d := New(0, 0, rec.flush)
	d.Flush()
	assert.Zero(t, rec.count())
}

func TestDebouncer_StopDiscardsBatch(t *testing.T) {
	t.Parallel()

	rec := &recorder{}
	d := New(30*time.Millisecond, time.Second, rec.flush)

	d.Add(KindUpdated, 1)
	d.Add(KindCreated, 2)
	d.Stop()

	assert.False(t, d.Add(KindUpdated, 3))
	d.Flush()
	time.Sleep(120 * time.Millisecond)
	assert.Zero(t, rec.count())
	assert.Zero(t, d.Pending())

	d.Reset()
	require.True(t, d.Add(KindUpdated, 4))
	require.Eventually(t, func() bool { return rec.count() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, engine.TransactionID(4), rec.get(0).Last)
	assert.Equal(t, 1, rec.get(0).Count)
}

func TestDebouncer_StopWaitsForRunningFlush(t *testing.T) {
	t.Parallel()

	entered := make(chan struct{})
	release := make(chan struct{})
	var finished sync.WaitGroup
	finished.Add(1)

	d := New(time.Hour, time.Hour, func(Batch) {
		close(entered)
		<-release
		finished.Done()
	})
	d.Add(KindUpdated, 1)
	go d.Flush()
	<-entered

	stopped := make(chan struct{})
	go func() {
		d.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("Stop returned while a flush was running")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	finished.Wait()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return after the flush finished")
	}
}

func TestDebouncer_AddDuringFlushDoesNotBlock(t *testing.T) {
	t.Parallel()

	entered := make(chan struct{})
	release := make(chan struct{})
	d := New(time.Hour, time.Hour, func(Batch) {
		select {
		case <-entered:
		default:
			close(entered)
		}
		<-release
	})
	d.Add(KindUpdated, 1)
	go d.Flush()
	<-entered

	done := make(chan struct{})
	go func() {
		d.Add(KindUpdated, 2)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Add blocked on a running flush")
	}
	close(release)
	assert.Equal(t, 1, d.Pending())
}

// Package coalesce collapses bursts of transaction events into single batches.
//
// The first event of an idle period arms a timer. Every further event re-arms
// it, but a batch is never held longer than MaxWait after its first event.
package coalesce

import (
	"slices"
	"sync"
	"time"

	"github.com/vigcoin/cryptonotewallet/internal/engine"
)

const (
	// DefaultInterval is the quiet period that ends a burst.
	DefaultInterval = 500 * time.Millisecond

	// DefaultMaxWait bounds how long a batch may be withheld.
	DefaultMaxWait = 2 * time.Second
)

// Kind distinguishes the two coalesced event streams.
type Kind int

// Event kinds.
const (
	KindCreated Kind = iota
	KindUpdated
)

// Batch is the set of transaction events gathered since the last flush.
type Batch struct {
	// Created and Updated hold distinct ids in first-seen order.
	Created []engine.TransactionID
	Updated []engine.TransactionID

	LastCreated engine.TransactionID
	LastUpdated engine.TransactionID

	// Last is the most recent id of either kind.
	Last engine.TransactionID

	// Count is the number of raw events folded into the batch.
	Count int
}

// Empty reports whether the batch holds no events.
func (b Batch) Empty() bool {
	return b.Count == 0
}

func newBatch() Batch {
	return Batch{
		LastCreated: engine.InvalidTransactionID,
		LastUpdated: engine.InvalidTransactionID,
		Last:        engine.InvalidTransactionID,
	}
}

func (b *Batch) add(kind Kind, id engine.TransactionID) {
	switch kind {
	case KindCreated:
		if !slices.Contains(b.Created, id) {
			b.Created = append(b.Created, id)
		}
		b.LastCreated = id
	default:
		if !slices.Contains(b.Updated, id) {
			b.Updated = append(b.Updated, id)
		}
		b.LastUpdated = id
	}
	b.Last = id
	b.Count++
}

// Debouncer gathers events and hands complete batches to a flush function.
// Flushes are serialized and run outside the event lock, so Add never waits
// on a running flush. The flush function must not call Flush or Stop.
type Debouncer struct {
	interval time.Duration
	maxWait  time.Duration
	flush    func(Batch)
	now      func() time.Time

	mu      sync.Mutex
	batch   Batch
	first   time.Time
	timer   *time.Timer
	gen     uint64
	stopped bool

	flushMu sync.Mutex
}

// New creates a Debouncer. Non-positive durations select the defaults; a
// maxWait shorter than interval is raised to interval.
func New(interval, maxWait time.Duration, flush func(Batch)) *Debouncer {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxWait
	}
	if maxWait < interval {
		maxWait = interval
	}
	return &Debouncer{
		interval: interval,
		maxWait:  maxWait,
		flush:    flush,
		now:      time.Now,
		batch:    newBatch(),
	}
}

// Add records one event. It reports false when the debouncer is stopped.
func (d *Debouncer) Add(kind Kind, id engine.TransactionID) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return false
	}

	now := d.now()
	if d.batch.Empty() {
		d.first = now
	}
	d.batch.add(kind, id)

	delay := d.interval
	if remaining := d.maxWait - now.Sub(d.first); remaining < delay {
		delay = max(remaining, 0)
	}
	d.armLocked(delay)
	return true
}

// armLocked replaces any pending timer. The generation counter makes a timer
// that already fired but has not yet taken the lock a no-op.
func (d *Debouncer) armLocked(delay time.Duration) {
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(delay, func() { d.fire(gen) })
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if gen != d.gen || d.stopped {
		d.mu.Unlock()
		return
	}
	d.flushLocked()
}

// flushLocked takes the batch and runs the flush function. It is entered with
// mu held and returns with it released.
func (d *Debouncer) flushLocked() {
	batch := d.batch
	d.batch = newBatch()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++

	if batch.Empty() {
		d.mu.Unlock()
		return
	}

	// flushMu is taken before mu is released so batches leave in order.
	d.flushMu.Lock()
	d.mu.Unlock()
	defer d.flushMu.Unlock()

	if d.flush != nil {
		d.flush(batch)
	}
}

// Flush hands the pending batch to the flush function immediately.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.flushLocked()
}

// Pending returns the number of raw events waiting to be flushed.
func (d *Debouncer) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.batch.Count
}

// Stop disarms the timer and discards the pending batch. It waits for a
// running flush to return, so no batch is delivered after Stop returns.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	d.stopped = true
	d.batch = newBatch()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.gen++
	d.mu.Unlock()

	d.flushMu.Lock()
	d.flushMu.Unlock() //nolint:staticcheck // SA2001: barrier for an in-flight flush
}

// Reset re-enables a stopped debouncer with an empty batch.
func (d *Debouncer) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = false
	d.batch = newBatch()
}

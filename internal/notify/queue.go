package notify

import (
	"sync"
	"time"
)

const (
	// DefaultBuffer is the capacity of the consumer channel.
	DefaultBuffer = 64

	// DefaultHighWater is the backlog above which progress entries are shed.
	DefaultHighWater = 1024
)

// Queue is a multi-producer, single-consumer notification queue. Publish
// appends under a mutex and returns at once; a pump goroutine moves entries to
// the bounded consumer channel.
//
// Progress entries are the only ones that may be lost: a new SyncProgress
// replaces a SyncProgress still waiting at the tail, and once the backlog
// passes the high-water mark new progress entries are dropped.
type Queue struct {
	out  chan Notification
	wake chan struct{}
	done chan struct{}
	now  func() time.Time

	highWater int

	mu        sync.Mutex
	pending   []Notification
	seq       uint64
	closed    bool
	dropped   uint64
	collapsed uint64
}

// NewQueue creates a queue and starts its pump. Non-positive sizes select
// the defaults.
func NewQueue(buffer, highWater int) *Queue {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	if highWater <= 0 {
		highWater = DefaultHighWater
	}
	q := &Queue{
		out:       make(chan Notification, buffer),
		wake:      make(chan struct{}, 1),
		done:      make(chan struct{}),
		now:       time.Now,
		highWater: highWater,
	}
	go q.pump()
	return q
}

// C returns the consumer channel. It is closed after Close once every
// accepted notification has been delivered.
func (q *Queue) C() <-chan Notification {
	return q.out
}

// Done is closed when the pump has exited.
func (q *Queue) Done() <-chan struct{} {
	return q.done
}

// Publish enqueues n, assigning its sequence number and timestamp. It never
// blocks and reports whether n was accepted.
func (q *Queue) Publish(n Notification) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}

	if n.Kind == SyncProgress {
		if last := len(q.pending) - 1; last >= 0 && q.pending[last].Kind == SyncProgress {
			q.seq++
			n.Seq = q.seq
			n.At = q.stamp(n.At)
			q.pending[last] = n
			q.collapsed++
			q.mu.Unlock()
			return true
		}
		if len(q.pending) >= q.highWater {
			q.dropped++
			q.mu.Unlock()
			return false
		}
	}

	q.seq++
	n.Seq = q.seq
	n.At = q.stamp(n.At)
	q.pending = append(q.pending, n)
	q.mu.Unlock()

	q.signal()
	return true
}

func (q *Queue) stamp(at time.Time) time.Time {
	if at.IsZero() {
		return q.now()
	}
	return at
}

func (q *Queue) signal() {
	select {
	case q.wake <- struct{}{}:
	default:
	}
}

func (q *Queue) pump() {
	defer close(q.done)
	defer close(q.out)

	for {
		q.mu.Lock()
		if len(q.pending) == 0 {
			closed := q.closed
			q.mu.Unlock()
			if closed {
				return
			}
			<-q.wake
			continue
		}
		n := q.pending[0]
		q.pending[0] = Notification{}
		q.pending = q.pending[1:]
		q.mu.Unlock()

		q.out <- n
	}
}

// Close stops accepting notifications. Entries already accepted are still
// delivered before C is closed.
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.signal()
}

// Len returns the number of entries waiting for the pump.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Stats returns how many progress entries were dropped at the high-water
// mark and how many were replaced by a newer one.
func (q *Queue) Stats() (dropped, collapsed uint64) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped, q.collapsed
}

// Package metrics counts session operations and notification flow using
// atomic counters.
package metrics

import (
	"sync/atomic"
	"time"
)

// Op is a session operation tracked by Metrics.
type Op int

// Tracked operations.
const (
	OpOpen Op = iota
	OpClose
	OpSave
	OpBackup
	OpChangePassword
	OpSend
	opCount
)

var opNames = [opCount]string{"open", "close", "save", "backup", "change_password", "send"}

func (o Op) String() string {
	if o < 0 || o >= opCount {
		return "unknown"
	}
	return opNames[o]
}

type opCounters struct {
	total        atomic.Int64
	errors       atomic.Int64
	rejected     atomic.Int64
	latencyNanos atomic.Int64
}

// Metrics holds session metrics. The zero value is ready to use.
type Metrics struct {
	ops [opCount]opCounters

	// Notification flow
	published     atomic.Int64
	txEvents      atomic.Int64
	txBatches     atomic.Int64
	droppedNotify atomic.Int64
}

// RecordOp records a completed operation with its duration and outcome.
func (m *Metrics) RecordOp(op Op, duration time.Duration, err error) {
	if m == nil || op < 0 || op >= opCount {
		return
	}
	c := &m.ops[op]
	c.total.Add(1)
	c.latencyNanos.Add(duration.Nanoseconds())
	if err != nil {
		c.errors.Add(1)
	}
}

// RecordRejected records an operation refused because another write-side
// operation held the session.
func (m *Metrics) RecordRejected(op Op) {
	if m == nil || op < 0 || op >= opCount {
		return
	}
	m.ops[op].rejected.Add(1)
}

// RecordPublished records a notification handed to the consumer queue.
func (m *Metrics) RecordPublished() {
	if m == nil {
		return
	}
	m.published.Add(1)
}

// RecordDropped records a notification shed by the queue.
func (m *Metrics) RecordDropped() {
	if m == nil {
		return
	}
	m.droppedNotify.Add(1)
}

// RecordBatch records one coalesced batch made of events raw events.
func (m *Metrics) RecordBatch(events int) {
	if m == nil {
		return
	}
	m.txBatches.Add(1)
	m.txEvents.Add(int64(events))
}

// OpSnapshot is a point-in-time copy of one operation's counters.
type OpSnapshot struct {
	Total        int64
	Errors       int64
	Rejected     int64
	AvgLatencyMs float64
}

// Snapshot is a point-in-time copy of all metrics.
type Snapshot struct {
	Ops                  map[string]OpSnapshot
	NotificationsSent    int64
	NotificationsDropped int64
	TxEvents             int64
	TxBatches            int64
}

// Snapshot returns a point-in-time copy of all metrics.
func (m *Metrics) Snapshot() Snapshot {
	s := Snapshot{
		Ops:                  make(map[string]OpSnapshot, opCount),
		NotificationsSent:    m.published.Load(),
		NotificationsDropped: m.droppedNotify.Load(),
		TxEvents:             m.txEvents.Load(),
		TxBatches:            m.txBatches.Load(),
	}
	for op := range opCount {
		c := &m.ops[op]
		snap := OpSnapshot{
			Total:    c.total.Load(),
			Errors:   c.errors.Load(),
			Rejected: c.rejected.Load(),
		}
		if snap.Total > 0 {
			snap.AvgLatencyMs = float64(c.latencyNanos.Load()) / float64(snap.Total) / 1e6
		}
		s.Ops[op.String()] = snap
	}
	return s
}

// CoalesceRatio returns raw transaction events per delivered batch.
// Returns 0 if no batch has been delivered.
func (m *Metrics) CoalesceRatio() float64 {
	batches := m.txBatches.Load()
	if batches == 0 {
		return 0
	}
	return float64(m.txEvents.Load()) / float64(batches)
}

// Reset resets all metrics to zero.
// Useful for testing.
func (m *Metrics) Reset() {
	for op := range opCount {
		c := &m.ops[op]
		c.total.Store(0)
		c.errors.Store(0)
		c.rejected.Store(0)
		c.latencyNanos.Store(0)
	}
	m.published.Store(0)
	m.droppedNotify.Store(0)
	m.txEvents.Store(0)
	m.txBatches.Store(0)
}

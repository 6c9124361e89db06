package metrics

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	cnerr "github.com/vigcoin/cryptonotewallet/pkg/errors"
)

func TestMetrics_RecordOp(t *testing.T) {
	t.Parallel()
	m := &Metrics{}

	m.RecordOp(OpSave, 100*time.Millisecond, nil)
	m.RecordOp(OpSave, 300*time.Millisecond, cnerr.ErrIO)
	m.RecordRejected(OpSave)

	snap := m.Snapshot().Ops["save"]
	assert.Equal(t, int64(2), snap.Total)
	assert.Equal(t, int64(1), snap.Errors)
	assert.Equal(t, int64(1), snap.Rejected)
	assert.InDelta(t, 200.0, snap.AvgLatencyMs, 0.001)

	assert.Zero(t, m.Snapshot().Ops["backup"].Total)
}

func TestMetrics_CoalesceRatio(t *testing.T) {
	t.Parallel()
	m := &Metrics{}

	// No batches
	assert.InDelta(t, 0.0, m.CoalesceRatio(), 0.001)

	m.RecordBatch(10)
	m.RecordBatch(2)
	assert.InDelta(t, 6.0, m.CoalesceRatio(), 0.001)
}

func TestMetrics_NilAndOutOfRange(t *testing.T) {
	t.Parallel()
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordOp(OpOpen, time.Second, nil)
		m.RecordRejected(OpOpen)
		m.RecordPublished()
		m.RecordDropped()
		m.RecordBatch(1)
	})

	m2 := &Metrics{}
	m2.RecordOp(Op(42), time.Second, nil)
	m2.RecordRejected(Op(-1))
	assert.Equal(t, "unknown", Op(42).String())
	assert.Equal(t, "change_password", OpChangePassword.String())
}

func TestMetrics_Concurrent(t *testing.T) {
	t.Parallel()
	m := &Metrics{}

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.RecordOp(OpSend, time.Millisecond, nil)
			m.RecordPublished()
		}()
	}
	wg.Wait()

	snap := m.Snapshot()
	assert.Equal(t, int64(50), snap.Ops["send"].Total)
	assert.Equal(t, int64(50), snap.NotificationsSent)
}

func TestMetrics_Reset(t *testing.T) {
	t.Parallel()
	m := &Metrics{}
	m.RecordOp(OpOpen, time.Second, nil)
	m.RecordBatch(3)
	m.RecordDropped()

	m.Reset()
	snap := m.Snapshot()
	assert.Zero(t, snap.Ops["open"].Total)
	assert.Zero(t, snap.TxBatches)
	assert.Zero(t, snap.NotificationsDropped)
}

package local

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vigcoin/cryptonotewallet/internal/crypto"
	"github.com/vigcoin/cryptonotewallet/internal/engine"
)

func TestMain(m *testing.M) {
	crypto.SetScryptWorkFactor(10) // Fast for tests
	os.Exit(m.Run())
}

// recorder is an engine.Observer that records every callback.
type recorder struct {
	mu     sync.Mutex
	events []string

	init chan error
	save chan error
	sync chan error
	sent chan error
}

func newRecorder() *recorder {
	return &recorder{
		init: make(chan error, 4),
		save: make(chan error, 4),
		sync: make(chan error, 16),
		sent: make(chan error, 4),
	}
}

func (r *recorder) add(ev string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) has(prefix string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ev := range r.events {
		if strings.HasPrefix(ev, prefix) {
			return true
		}
	}
	return false
}

func (r *recorder) count(prefix string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, ev := range r.events {
		if strings.HasPrefix(ev, prefix) {
			n++
		}
	}
	return n
}

func (r *recorder) InitCompleted(err error) {
	r.add("init")
	r.init <- err
}

func (r *recorder) SaveCompleted(err error) {
	r.add("save")
	r.save <- err
}

func (r *recorder) SynchronizationProgressUpdated(uint32, uint32) {
	r.add("progress")
}

func (r *recorder) SynchronizationCompleted(err error) {
	r.add("synced")
	select {
	case r.sync <- err:
	default:
	}
}

func (r *recorder) ActualBalanceUpdated(uint64)  { r.add("actual") }
func (r *recorder) PendingBalanceUpdated(uint64) { r.add("pending") }
func (r *recorder) ExternalTransactionCreated(engine.TransactionID) {
	r.add("created")
}

func (r *recorder) SendTransactionCompleted(_ engine.TransactionID, err error) {
	r.add("sent")
	r.sent <- err
}

func (r *recorder) TransactionUpdated(engine.TransactionID) { r.add("updated") }

func wait(t *testing.T, ch <-chan error) error {
	t.Helper()
	select {
	case err := <-ch:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for callback")
		return nil
	}
}

func testOptions() Options {
	return Options{
		Node:         NewSimNode(5, time.Minute, time.Now()),
		BlockDelay:   time.Millisecond,
		SendDelay:    5 * time.Millisecond,
		ConfirmDelay: 5 * time.Millisecond,
		PollInterval: 20 * time.Millisecond,
	}
}

func newEngine(t *testing.T) (*Engine, *recorder) {
	t.Helper()
	e := New(testOptions())
	t.Cleanup(e.Shutdown)
	rec := newRecorder()
	e.AddObserver(rec)
	return e, rec
}

func generated(t *testing.T, password string) (*Engine, *recorder) {
	t.Helper()
	e, rec := newEngine(t)
	require.NoError(t, e.InitAndGenerate(password))
	require.NoError(t, wait(t, rec.init))
	return e, rec
}

func saveTo(t *testing.T, e *Engine, rec *recorder, details, cache bool) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, e.Save(&buf, details, cache))
	require.NoError(t, wait(t, rec.save))
	return buf.Bytes()
}

func TestEngine_GenerateSyncSaveLoad(t *testing.T) {
	t.Parallel()

	e, rec := generated(t, "pw")
	require.NoError(t, ValidateAddress(e.Address()))
	assert.Len(t, strings.Fields(e.Mnemonic()), 12)

	require.NoError(t, wait(t, rec.sync))
	assert.Equal(t, 5, rec.count("progress"))
	height, ts := e.LastBlock()
	assert.Equal(t, uint64(5), height)
	assert.False(t, ts.IsZero())

	data := saveTo(t, e, rec, true, true)
	assert.NotContains(t, string(data), e.Mnemonic(), "payload is encrypted")

	addr, err := ReadAddress(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, e.Address(), addr)

	loaded, rec2 := newEngine(t)
	require.NoError(t, loaded.InitAndLoad(bytes.NewReader(data), "pw"))
	require.NoError(t, wait(t, rec2.init))
	assert.Equal(t, e.Address(), loaded.Address())
	assert.Equal(t, e.Mnemonic(), loaded.Mnemonic())

	// Already at the tip: synchronization completes without progress.
	require.NoError(t, wait(t, rec2.sync))
	assert.Zero(t, rec2.count("progress"))
}

func TestEngine_LoadWrongPassword(t *testing.T) {
	t.Parallel()

	e, rec := generated(t, "right")
	data := saveTo(t, e, rec, true, true)

	for _, pw := range []string{"wrong", ""} {
		loaded, rec2 := newEngine(t)
		require.NoError(t, loaded.InitAndLoad(bytes.NewReader(data), pw))
		err := wait(t, rec2.init)
		require.ErrorIs(t, err, engine.ErrWrongPassword, "password %q", pw)
		assert.Empty(t, loaded.Address())

		// A failed init leaves the engine reusable.
		require.NoError(t, loaded.InitAndLoad(bytes.NewReader(data), "right"))
		require.NoError(t, wait(t, rec2.init))
	}
}

func TestEngine_PlainWallet(t *testing.T) {
	t.Parallel()

	e, rec := generated(t, "")
	data := saveTo(t, e, rec, true, true)
	assert.Contains(t, string(data), `"encrypted": false`)

	loaded, rec2 := newEngine(t)
	require.NoError(t, loaded.InitAndLoad(bytes.NewReader(data), "something"))
	require.ErrorIs(t, wait(t, rec2.init), engine.ErrWrongPassword)
}

func TestEngine_LoadCorrupted(t *testing.T) {
	t.Parallel()

	e, rec := newEngine(t)
	require.NoError(t, e.InitAndLoad(strings.NewReader("{not json"), "pw"))
	err := wait(t, rec.init)
	assert.Equal(t, engine.CodeCorruptedWallet, engine.CodeOf(err))
}

func TestEngine_InitTwice(t *testing.T) {
	t.Parallel()

	e, _ := generated(t, "pw")
	require.ErrorIs(t, e.InitAndGenerate("pw"), engine.ErrAlreadyInitialized)
	require.ErrorIs(t, e.InitAndLoad(strings.NewReader(""), "pw"), engine.ErrAlreadyInitialized)
}

func TestEngine_NotInitialized(t *testing.T) {
	t.Parallel()

	e, _ := newEngine(t)
	require.ErrorIs(t, e.Save(&bytes.Buffer{}, true, true), engine.ErrNotInitialized)
	require.ErrorIs(t, e.ChangePassword("", "x"), engine.ErrNotInitialized)
	_, err := e.SendTransaction([]engine.Transfer{{Address: "a", Amount: 1}}, 10, "", 0)
	require.ErrorIs(t, err, engine.ErrNotInitialized)
	_, err = e.Deposit(5)
	require.ErrorIs(t, err, engine.ErrNotInitialized)

	assert.Zero(t, e.ActualBalance())
	assert.Zero(t, e.TransactionCount())
	_, ok := e.Transaction(0)
	assert.False(t, ok)
}

func TestEngine_ChangePassword(t *testing.T) {
	t.Parallel()

	e, rec := generated(t, "a")
	require.ErrorIs(t, e.ChangePassword("wrong", "b"), engine.ErrWrongPassword)
	require.NoError(t, e.ChangePassword("a", "b"))
	data := saveTo(t, e, rec, true, true)

	loaded, rec2 := newEngine(t)
	require.NoError(t, loaded.InitAndLoad(bytes.NewReader(data), "a"))
	require.ErrorIs(t, wait(t, rec2.init), engine.ErrWrongPassword)
	require.NoError(t, loaded.InitAndLoad(bytes.NewReader(data), "b"))
	require.NoError(t, wait(t, rec2.init))
}

func TestEngine_DepositAndSend(t *testing.T) {
	t.Parallel()

	e, rec := generated(t, "pw")
	dest, _ := generated(t, "")

	_, err := e.Deposit(1000)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return e.ActualBalance() == 1000 }, 5*time.Second, 5*time.Millisecond)
	assert.Zero(t, e.PendingBalance())
	assert.True(t, rec.has("created"))

	id, err := e.SendTransaction([]engine.Transfer{{Address: dest.Address(), Amount: 300}}, 10, strings.Repeat("ab", 32), 3)
	require.NoError(t, err)
	assert.Equal(t, uint64(690), e.ActualBalance())
	require.NoError(t, wait(t, rec.sent))

	tx, ok := e.Transaction(id)
	require.True(t, ok)
	assert.Equal(t, engine.StateActive, tx.State)
	assert.Equal(t, int64(-310), tx.TotalAmount)
	assert.Equal(t, uint64(2), e.TransactionCount())
	assert.Equal(t, uint64(2), e.TransferCount())

	tr, ok := e.Transfer(tx.FirstTransfer)
	require.True(t, ok)
	assert.Equal(t, dest.Address(), tr.Address)

	// Saving without details drops history but keeps balances.
	data := saveTo(t, e, rec, false, false)
	loaded, rec2 := newEngine(t)
	require.NoError(t, loaded.InitAndLoad(bytes.NewReader(data), "pw"))
	require.NoError(t, wait(t, rec2.init))
	assert.Zero(t, loaded.TransactionCount())
	assert.Equal(t, uint64(690), loaded.ActualBalance())
	require.NoError(t, wait(t, rec2.sync))
	assert.Equal(t, 5, rec2.count("progress"), "no cache means a full resync")
}

func TestEngine_SendValidation(t *testing.T) {
	t.Parallel()

	e, _ := generated(t, "pw")
	dest, _ := generated(t, "")
	_, err := e.Deposit(100)
	require.NoError(t, err)
	require.Eventually(t, func() bool { return e.ActualBalance() == 100 }, 5*time.Second, 5*time.Millisecond)

	ok := []engine.Transfer{{Address: dest.Address(), Amount: 10}}
	tests := []struct {
		name      string
		transfers []engine.Transfer
		fee       uint64
		paymentID string
		mixin     uint64
		want      engine.Code
	}{
		{"no destinations", nil, 10, "", 0, engine.CodeZeroDestination},
		{"fee too small", ok, 1, "", 0, engine.CodeFeeTooSmall},
		{"mixin too big", ok, 10, "", 99, engine.CodeMixinCountTooBig},
		{"short payment id", ok, 10, "abc", 0, engine.CodeBadPaymentID},
		{"non hex payment id", ok, 10, strings.Repeat("zz", 32), 0, engine.CodeBadPaymentID},
		{"zero amount", []engine.Transfer{{Address: dest.Address()}}, 10, "", 0, engine.CodeWrongAmount},
		{"bad address", []engine.Transfer{{Address: "nope", Amount: 1}}, 10, "", 0, engine.CodeBadAddress},
		{"not enough money", []engine.Transfer{{Address: dest.Address(), Amount: 95}}, 10, "", 0, engine.CodeWrongAmount},
		{"too many destinations", make([]engine.Transfer, maxTransfers+1), 10, "", 0, engine.CodeTransactionTooBig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := e.SendTransaction(tt.transfers, tt.fee, tt.paymentID, tt.mixin)
			require.Error(t, err)
			assert.Equal(t, engine.InvalidTransactionID, id)
			assert.Equal(t, tt.want, engine.CodeOf(err))
			assert.True(t, tt.want.IsValidation())
		})
	}
	assert.Equal(t, uint64(100), e.ActualBalance(), "rejected sends leave the balance alone")
}

func TestEngine_ShutdownStopsCallbacks(t *testing.T) {
	t.Parallel()

	opts := testOptions()
	opts.Node = NewSimNode(10_000, time.Minute, time.Now())
	e := New(opts)
	rec := newRecorder()
	e.AddObserver(rec)

	require.NoError(t, e.InitAndGenerate("pw"))
	require.NoError(t, wait(t, rec.init))
	require.Eventually(t, func() bool { return rec.has("progress") }, 5*time.Second, time.Millisecond)

	e.Shutdown()
	n := rec.count("progress")
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, n, rec.count("progress"))
	assert.False(t, rec.has("synced"))

	err := e.Save(&bytes.Buffer{}, true, true)
	require.ErrorIs(t, err, engine.ErrOperationCancelled)
	e.Shutdown()
}

func TestEngine_RemoveObserver(t *testing.T) {
	t.Parallel()

	e, rec := newEngine(t)
	other := newRecorder()
	e.AddObserver(other)
	e.RemoveObserver(rec)

	require.NoError(t, e.InitAndGenerate("pw"))
	require.NoError(t, wait(t, other.init))
	assert.False(t, rec.has("init"))
}

func TestEngine_SaveWriterFailure(t *testing.T) {
	t.Parallel()

	e, rec := generated(t, "pw")
	boom := errors.New("disk full")
	require.NoError(t, e.Save(failingWriter{boom}, true, true))
	require.ErrorIs(t, wait(t, rec.save), boom)
}

type failingWriter struct{ err error }

func (w failingWriter) Write([]byte) (int, error) { return 0, w.err }

func TestSimNode(t *testing.T) {
	t.Parallel()

	tip := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	n := NewSimNode(10, time.Minute, tip)
	assert.Equal(t, uint64(10), n.Height())
	assert.Equal(t, tip, n.BlockTime(10))
	assert.Equal(t, tip.Add(-3*time.Minute), n.BlockTime(7))

	n.Mine(2, tip.Add(time.Hour))
	assert.Equal(t, uint64(12), n.Height())
	assert.Equal(t, tip.Add(time.Hour), n.BlockTime(12))
}

func TestNewTxHash(t *testing.T) {
	t.Parallel()
	out := []engine.Transfer{{Address: "cn1dest", Amount: 5}}

	a, err := newTxHash(10, "", out...)
	require.NoError(t, err)
	b, err := newTxHash(10, "", out...)
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.NotEqual(t, a, b)
}

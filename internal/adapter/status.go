package adapter

import (
	"fmt"
	"sync"
	"time"

	"github.com/vigcoin/cryptonotewallet/internal/engine"
	"github.com/vigcoin/cryptonotewallet/internal/notify"
)

const statusTimeLayout = "2006-01-02 15:04:05"

// statusReporter periodically publishes the synchronized status text while a
// wallet is open and caught up.
type statusReporter struct {
	s *Session

	mu     sync.Mutex
	stopCh chan struct{}
	done   chan struct{}
}

// start launches the reporter. It is a no-op while one is running.
func (r *statusReporter) start(eng engine.Engine) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopCh != nil {
		return
	}
	r.stopCh = make(chan struct{})
	r.done = make(chan struct{})
	go r.run(eng, r.stopCh, r.done)
}

// stop ends the reporter and waits for it to exit.
func (r *statusReporter) stop() {
	r.mu.Lock()
	stopCh, done := r.stopCh, r.done
	r.stopCh, r.done = nil, nil
	r.mu.Unlock()

	if stopCh == nil {
		return
	}
	close(stopCh)
	<-done
}

func (r *statusReporter) run(eng engine.Engine, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(r.s.opts.StatusInterval)
	defer ticker.Stop()

	for {
		if r.s.synchronized.Load() {
			height, ts := eng.LastBlock()
			r.s.publish(notify.Notification{
				Kind: notify.StateChanged,
				Text: StatusText(height, ts, r.s.opts.Now(), r.s.opts.BlockAgeWarning),
			})
		}

		select {
		case <-stop:
			return
		case <-ticker.C:
		}
	}
}

// StatusText formats the synchronized status line. A warning is appended
// when the last block is older than warnAfter.
func StatusText(height uint64, blockTime, now time.Time, warnAfter time.Duration) string {
	text := fmt.Sprintf("Wallet synchronized. Height: %d | Time (UTC): %s",
		height, blockTime.UTC().Format(statusTimeLayout))

	if age := now.Sub(blockTime); age > warnAfter {
		hours := int(age / time.Hour)
		minutes := int(age % time.Hour / time.Minute)
		text += fmt.Sprintf(" | Warning: last block was received %d hours %d minutes ago", hours, minutes)
	}
	return text
}

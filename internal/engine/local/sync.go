package local

import (
	"sync"
	"time"

	"github.com/vigcoin/cryptonotewallet/internal/engine"
)

const (
	// DefaultSimHeight is the chain height of a default SimNode.
	DefaultSimHeight = 200

	// DefaultBlockTarget is the block spacing of a default SimNode.
	DefaultBlockTarget = 2 * time.Minute
)

// Node is the chain view the engine synchronizes against.
type Node interface {
	// Height returns the current chain height.
	Height() uint64

	// BlockTime returns the timestamp of the block at height.
	BlockTime(height uint64) time.Time
}

// SimNode is a Node with evenly spaced blocks ending at a fixed tip time.
type SimNode struct {
	mu     sync.Mutex
	height uint64
	target time.Duration
	tip    time.Time
}

// NewSimNode creates a chain of height blocks, target apart, whose newest
// block was produced at tip.
func NewSimNode(height uint64, target time.Duration, tip time.Time) *SimNode {
	return &SimNode{height: height, target: target, tip: tip}
}

func (n *SimNode) Height() uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.height
}

func (n *SimNode) BlockTime(height uint64) time.Time {
	n.mu.Lock()
	defer n.mu.Unlock()
	if height >= n.height {
		return n.tip
	}
	return n.tip.Add(-time.Duration(n.height-height) * n.target)
}

// Mine appends count blocks, the newest produced at tip.
func (n *SimNode) Mine(count uint64, tip time.Time) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.height += count
	n.tip = tip
}

// startSync launches the synchronization loop. It is called once per engine
// after a successful init.
func (e *Engine) startSync() {
	e.spawn(e.syncLoop)
}

func (e *Engine) syncLoop() {
	for {
		if !e.syncToTip() {
			return
		}
		e.notify(func(o engine.Observer) { o.SynchronizationCompleted(nil) })

		// Wait for the node to grow.
		for {
			if !e.sleep(e.opts.PollInterval) {
				return
			}
			if e.opts.Node.Height() > e.height() {
				break
			}
		}
	}
}

func (e *Engine) height() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.wallet.Height
}

// syncToTip processes blocks one by one up to the node height. It reports
// false when the engine shut down.
func (e *Engine) syncToTip() bool {
	total := e.opts.Node.Height()
	for h := e.height() + 1; h <= total; h++ {
		if !e.sleep(e.opts.BlockDelay) {
			return false
		}

		ts := e.opts.Node.BlockTime(h)
		e.mu.Lock()
		e.wallet.Height = h
		e.lastBlock = ts
		e.mu.Unlock()

		current, all := clampHeight(h), clampHeight(total)
		e.notify(func(o engine.Observer) { o.SynchronizationProgressUpdated(current, all) })
	}
	return !e.stopping()
}

func clampHeight(h uint64) uint32 {
	if h > uint64(^uint32(0)) {
		return ^uint32(0)
	}
	return uint32(h)
}

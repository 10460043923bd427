package rpc

import (
	"context"
	"math/big"
	"sync"
	"time"
)

// ChainIDSource is the part of the client the watcher polls.
type ChainIDSource interface {
	ChainID(ctx context.Context) (*big.Int, error)
}

// ChainWatcher polls the node's chain ID and reports when it differs from
// the last value seen. Poll errors are skipped; the next tick retries.
type ChainWatcher struct {
	src      ChainIDSource
	interval time.Duration

	mu      sync.Mutex
	current *big.Int

	stop     chan struct{}
	stopOnce sync.Once
}

// NewChainWatcher creates a watcher that starts from the known chain ID
func NewChainWatcher(src ChainIDSource, current *big.Int, interval time.Duration) *ChainWatcher {
	return &ChainWatcher{
		src:      src,
		interval: interval,
		current:  current,
		stop:     make(chan struct{}),
	}
}

// Run polls until Stop is called, invoking onChange with every new chain ID.
// A zero interval disables polling.
func (w *ChainWatcher) Run(onChange func(*big.Int)) {
	if w.interval <= 0 {
		<-w.stop
		return
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stop:
			return
		case <-ticker.C:
			if id, changed := w.poll(); changed {
				onChange(id)
			}
		}
	}
}

func (w *ChainWatcher) poll() (*big.Int, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), w.interval)
	defer cancel()

	id, err := w.src.ChainID(ctx)
	if err != nil || id == nil {
		return nil, false
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.current != nil && w.current.Cmp(id) == 0 {
		return nil, false
	}
	w.current = id
	return id, true
}

// Current returns the last chain ID seen
func (w *ChainWatcher) Current() *big.Int {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.current == nil {
		return nil
	}
	return new(big.Int).Set(w.current)
}

// Stop ends polling. It is safe to call more than once.
func (w *ChainWatcher) Stop() {
	w.stopOnce.Do(func() { close(w.stop) })
}

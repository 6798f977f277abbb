// Package matcher runs an engine tree over a pool snapshot with a pool of
// workers, streaming sorted batches of matches to the consumer. Each Run is
// one session; a session is cancelled by Stop, which joins every worker
// before returning so a successor can never observe interleaved batches.
package matcher

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kk-code-lab/sift/internal/engine"
	"github.com/kk-code-lab/sift/internal/item"
)

const (
	chunkTarget   = 4096
	flushInterval = 50 * time.Millisecond
	flushCount    = 1024
	// A runaway session gives up and emits what it has.
	sessionTimeout = 10 * time.Second
)

// Control supervises one matcher session.
type Control struct {
	stop      atomic.Bool
	stopped   atomic.Bool
	processed atomic.Int64
	done      chan struct{}
}

// Stop cancels the session and joins all workers. Safe to call on a
// finished session; returns once every worker has exited.
func (c *Control) Stop() {
	c.stop.Store(true)
	<-c.done
}

// Stopped reports whether all workers have exited.
func (c *Control) Stopped() bool { return c.stopped.Load() }

// Processed returns how many snapshot items have been examined.
func (c *Control) Processed() int { return int(c.processed.Load()) }

// Run starts a session over snapshot. onBatch receives sorted batches as
// workers flush; a final onBatch(nil, true) marks completion. A cancelled
// session publishes nothing further and never emits the completion batch.
func Run(eng engine.Engine, snapshot []*item.Item, order item.Order, onBatch func(batch []item.MatchedItem, done bool)) *Control {
	c := &Control{done: make(chan struct{})}

	n := len(snapshot)
	workers := (n + chunkTarget - 1) / chunkTarget
	if cores := runtime.NumCPU(); workers > cores {
		workers = cores
	}
	if workers < 1 {
		workers = 1
	}
	chunk := (n + workers - 1) / workers

	var publishMu sync.Mutex
	publish := func(batch []item.MatchedItem) {
		if len(batch) == 0 || c.stop.Load() {
			return
		}
		order.Sort(batch)
		publishMu.Lock()
		defer publishMu.Unlock()
		if c.stop.Load() {
			return
		}
		onBatch(batch, false)
	}

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if end > n {
			end = n
		}
		if start >= end {
			continue
		}
		wg.Add(1)
		go func(items []*item.Item) {
			defer wg.Done()
			local := make([]item.MatchedItem, 0, flushCount)
			lastFlush := time.Now()
			for _, it := range items {
				if c.stop.Load() {
					return
				}
				if res, ok := eng.MatchItem(it); ok {
					local = append(local, item.MatchedItem{
						Item:      it,
						Rank:      res.Rank,
						Positions: res.Positions,
					})
				}
				c.processed.Add(1)
				if len(local) >= flushCount || time.Since(lastFlush) >= flushInterval {
					publish(local)
					local = make([]item.MatchedItem, 0, flushCount)
					lastFlush = time.Now()
				}
			}
			publish(local)
		}(snapshot[start:end])
	}

	timeout := time.AfterFunc(sessionTimeout, func() { c.stop.Store(true) })

	go func() {
		wg.Wait()
		timeout.Stop()
		if !c.stop.Load() {
			onBatch(nil, true)
		}
		c.stopped.Store(true)
		close(c.done)
	}()
	return c
}

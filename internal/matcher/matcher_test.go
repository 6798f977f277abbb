package matcher

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/kk-code-lab/sift/internal/engine"
	"github.com/kk-code-lab/sift/internal/item"
)

func snapshot(n int) []*item.Item {
	items := make([]*item.Item, n)
	for i := range items {
		text := fmt.Sprintf("item-%d", i)
		items[i] = item.New(text, text, i, nil, nil)
	}
	return items
}

type collector struct {
	mu      sync.Mutex
	batches [][]item.MatchedItem
	done    chan struct{}
}

func newCollector() *collector {
	return &collector{done: make(chan struct{})}
}

func (c *collector) onBatch(batch []item.MatchedItem, done bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if done {
		close(c.done)
		return
	}
	c.batches = append(c.batches, batch)
}

func (c *collector) waitDone(t *testing.T) {
	t.Helper()
	select {
	case <-c.done:
	case <-time.After(5 * time.Second):
		t.Fatal("matcher session did not complete")
	}
}

func (c *collector) total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, b := range c.batches {
		n += len(b)
	}
	return n
}

func TestRunMatchesAll(t *testing.T) {
	f := engine.NewFactory(engine.Options{})
	snap := snapshot(10000)
	col := newCollector()

	ctrl := Run(f.Build(""), snap, item.Order{}, col.onBatch)
	col.waitDone(t)

	if got := col.total(); got != len(snap) {
		t.Errorf("matched %d items, want %d", got, len(snap))
	}
	if got := ctrl.Processed(); got != len(snap) {
		t.Errorf("processed %d, want %d", got, len(snap))
	}
	if !ctrl.Stopped() {
		t.Error("session should report stopped after completion")
	}
}

func TestRunFilters(t *testing.T) {
	f := engine.NewFactory(engine.Options{})
	snap := snapshot(200)
	col := newCollector()

	// "'item-9" is an exact term: it matches item-9 and item-90 .. item-99.
	ctrl := Run(f.Build("'item-9"), snap, item.Order{}, col.onBatch)
	col.waitDone(t)
	_ = ctrl

	want := 0
	for i := 0; i < 200; i++ {
		if containsSub(fmt.Sprintf("item-%d", i), "item-9") {
			want++
		}
	}
	if got := col.total(); got != want {
		t.Errorf("matched %d, want %d", got, want)
	}
}

func containsSub(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}

func TestBatchesSorted(t *testing.T) {
	f := engine.NewFactory(engine.Options{})
	snap := snapshot(5000)
	col := newCollector()

	Run(f.Build("item"), snap, item.Order{}, col.onBatch)
	col.waitDone(t)

	col.mu.Lock()
	defer col.mu.Unlock()
	for _, batch := range col.batches {
		for i := 1; i < len(batch); i++ {
			if item.CompareMatched(batch[i-1], batch[i]) > 0 {
				t.Fatal("batch not sorted ascending by rank then index")
			}
		}
	}
}

func TestStopJoins(t *testing.T) {
	f := engine.NewFactory(engine.Options{})
	snap := snapshot(200000)
	col := newCollector()

	ctrl := Run(f.Build("item"), snap, item.Order{}, col.onBatch)
	ctrl.Stop()
	if !ctrl.Stopped() {
		t.Error("Stop must join all workers before returning")
	}

	// No publishes may land after Stop returns.
	before := col.total()
	time.Sleep(100 * time.Millisecond)
	if after := col.total(); after != before {
		t.Errorf("batches published after Stop: %d -> %d", before, after)
	}
}

func TestStopAfterFinishIsSafe(t *testing.T) {
	f := engine.NewFactory(engine.Options{})
	col := newCollector()
	ctrl := Run(f.Build(""), snapshot(10), item.Order{}, col.onBatch)
	col.waitDone(t)
	ctrl.Stop()
	ctrl.Stop()
}

func TestDeterministicResult(t *testing.T) {
	f := engine.NewFactory(engine.Options{})
	snap := snapshot(20000)

	gather := func() []int {
		col := newCollector()
		Run(f.Build("item-1"), snap, item.Order{}, col.onBatch)
		col.waitDone(t)
		col.mu.Lock()
		defer col.mu.Unlock()
		var all []item.MatchedItem
		for _, b := range col.batches {
			all = item.MergeMatched(all, b)
		}
		out := make([]int, len(all))
		for i, m := range all {
			out[i] = m.Item.Index()
		}
		return out
	}

	first := gather()
	second := gather()
	if len(first) != len(second) {
		t.Fatalf("run sizes differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("ranked order differs at %d: %d vs %d", i, first[i], second[i])
		}
	}
}

package app

import (
	"io"
	"time"

	"github.com/kk-code-lab/sift/internal/item"
	"github.com/kk-code-lab/sift/internal/matcher"
	"github.com/kk-code-lab/sift/internal/reader"
)

// Filter runs batch mode: consume the whole source, match once, return the
// ranked matches. No terminal is involved.
func Filter(opts Options, pattern string, source io.Reader) ([]item.MatchedItem, error) {
	pool := item.NewPool(opts.HeaderLines, opts.Tac)

	r := reader.New(reader.Options{
		Cmd:       opts.Cmd,
		Shell:     opts.Shell,
		Read0:     opts.Read0,
		Ansi:      opts.Ansi,
		Delimiter: opts.Delimiter,
		Nth:       opts.Nth,
		WithNth:   opts.WithNth,
		ShowError: opts.ShowCmdErr,
		Source:    source,
	})
	ctrl, err := r.Run(pool, 0, func() {})
	if err != nil {
		return nil, err
	}
	for !ctrl.Done() {
		time.Sleep(time.Millisecond)
	}

	factory := newFactory(opts)
	order := item.Order{Tac: opts.Tac}

	resultCh := make(chan []item.MatchedItem, 64)
	doneCh := make(chan struct{})
	mctrl := matcher.Run(factory.Build(pattern), pool.Take(), order, func(batch []item.MatchedItem, done bool) {
		if done {
			close(doneCh)
			return
		}
		resultCh <- batch
	})

	var matched []item.MatchedItem
collect:
	for {
		select {
		case batch := <-resultCh:
			matched = order.Merge(matched, batch)
		case <-doneCh:
			// Drain what the workers flushed before completing.
			for {
				select {
				case batch := <-resultCh:
					matched = order.Merge(matched, batch)
				default:
					break collect
				}
			}
		}
	}
	mctrl.Stop()
	return matched, nil
}

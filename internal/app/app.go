// Package app is the coordinator: it owns the UI state, drains the
// high-priority input channel before anything else, schedules matcher
// sessions against pool snapshots, and keeps redraws inside the frame
// budget.
package app

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/kk-code-lab/sift/internal/engine"
	"github.com/kk-code-lab/sift/internal/item"
	"github.com/kk-code-lab/sift/internal/matcher"
	"github.com/kk-code-lab/sift/internal/preview"
	"github.com/kk-code-lab/sift/internal/query"
	"github.com/kk-code-lab/sift/internal/reader"
	"github.com/kk-code-lab/sift/internal/selection"
	"github.com/kk-code-lab/sift/internal/shellutil"
	"github.com/kk-code-lab/sift/internal/ui/input"
	"github.com/kk-code-lab/sift/internal/ui/render"
)

const (
	normalReceiveTimeout = 10 * time.Millisecond
	searchDebounce       = 50 * time.Millisecond
	frameBudget          = 16 * time.Millisecond
)

// App wires reader, matcher, preview and renderer together. All UI state is
// owned by the event-loop goroutine; background work communicates through
// the two event channels only.
type App struct {
	opts     Options
	screen   tcell.Screen
	renderer *render.Renderer
	keymap   *input.Keymap
	expect   map[input.Chord]string

	hiCh chan event
	loCh chan event

	pool        *item.Pool
	rdr         *reader.Reader
	readerCtrl  *reader.Control
	nextIndex   int

	factory *engine.Factory
	order   item.Order

	q       *query.Query
	cmdQ    *query.Query
	cmdMode bool

	session      int
	matcherCtrl  *matcher.Control
	matched      []item.MatchedItem
	matching     bool
	deltaPending bool

	pendingSearch   bool
	lastQueryChange time.Time
	cmdPending      bool
	lastCmdChange   time.Time

	sel *selection.Selection

	previewCtl     *preview.Controller
	previewBuf     []byte
	previewScroll  int
	previewVisible bool
	lastPreviewCmd string

	statusMsg    string
	shouldQuit   bool
	syntheticSeq int
	result       Result

	needRedraw bool
	lastDraw   time.Time

	debugLog *log.Logger
	debugLogFile *os.File
}

// New builds the application around an initialized screen. Passing a
// SimulationScreen keeps it testable.
func New(opts Options, screen tcell.Screen) (*App, error) {
	keymap := input.DefaultKeymap()
	if opts.History != nil || opts.CmdHistory != nil {
		keymap.EnableHistoryBindings()
	}
	for _, b := range opts.Binds {
		if err := keymap.ApplyBinds(b); err != nil {
			return nil, err
		}
	}

	expect := map[input.Chord]string{}
	for _, k := range opts.Expect {
		c, err := input.ParseChord(k)
		if err != nil {
			return nil, fmt.Errorf("--expect: %w", err)
		}
		expect[c] = k
	}

	if opts.Prompt == "" {
		opts.Prompt = "> "
	}
	if opts.CmdPrompt == "" {
		opts.CmdPrompt = "c> "
	}

	factory := newFactory(opts)

	app := &App{
		opts:     opts,
		screen:   screen,
		keymap:   keymap,
		expect:   expect,
		hiCh:     make(chan event, 128),
		loCh:     make(chan event, 128),
		pool:     item.NewPool(opts.HeaderLines, opts.Tac),
		factory:  factory,
		order:    item.Order{Tac: opts.Tac},
		q:        query.New(opts.Query),
		cmdQ:     query.New(opts.CmdQuery),
		cmdMode:  opts.Interactive,
		sel:      selection.New(opts.Multi, opts.Cycle),
		renderer: render.NewRenderer(screen, render.Options{
			Reverse:    opts.Reverse,
			Preview:    opts.PreviewWindow,
			HasPreview: opts.Preview != "",
		}),
		previewVisible: opts.Preview != "" && !opts.PreviewWindow.Hidden,
	}
	app.previewCtl = preview.NewController(opts.Shell, func(out []byte) {
		dispatch(app.loCh, event{typ: evPreviewReady, preview: out})
	})
	app.initDebugLog()
	app.sel.SetHeight(app.renderer.ListHeight(opts.HeaderLines, app.previewVisible))
	return app, nil
}

func newFactory(opts Options) *engine.Factory {
	return engine.NewFactory(engine.Options{
		Case:           opts.Case,
		Algo:           opts.Algo,
		Regex:          opts.Regex,
		Exact:          opts.Exact,
		Normalize:      opts.Normalize,
		SplitDelimiter: opts.SplitDelimiter,
		Rank:           item.NewRankBuilder(opts.Tiebreak),
	})
}

func (app *App) initDebugLog() {
	if os.Getenv("SIFT_DEBUG") == "" {
		return
	}
	path := filepath.Join(os.TempDir(), "sift_debug.log")
	if f, err := os.Create(path); err == nil {
		app.debugLogFile = f
		app.debugLog = log.New(f, "", 0)
	} else {
		app.debugLog = log.New(os.Stderr, "", 0)
	}
}

func (app *App) logf(format string, args ...any) {
	if app.debugLog != nil {
		app.debugLog.Printf(format, args...)
	}
}

// Run drives the session to completion and returns the result for the CLI
// layer to print.
func (app *App) Run() (Result, error) {
	defer app.shutdown()

	app.startPoller()

	app.startReader(app.initialCmd())
	app.restartMatcher(true)
	app.updatePreview(true)
	app.render()

	for !app.shouldQuit {
		app.drainHighPriority()
		if app.shouldQuit {
			break
		}

		select {
		case ev := <-app.loCh:
			app.handleEvent(ev)
		case <-time.After(normalReceiveTimeout):
		}

		app.tick()

		if app.needRedraw && time.Since(app.lastDraw) >= frameBudget {
			app.render()
		}
	}
	return app.result, nil
}

func (app *App) initialCmd() string {
	if app.opts.Interactive && app.opts.Cmd != "" {
		return app.expandCmd()
	}
	return app.opts.Cmd
}

func (app *App) expandCmd() string {
	return strings.ReplaceAll(app.opts.Cmd, "{}", shellutil.Quote(app.cmdQ.String()))
}

// startPoller forwards terminal events into the high-priority channel.
func (app *App) startPoller() {
	go func() {
		for {
			ev := app.screen.PollEvent()
			if ev == nil {
				return
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				dispatch(app.hiCh, event{typ: evKey, key: ev})
			case *tcell.EventResize:
				dispatch(app.hiCh, event{typ: evResize})
			}
		}
	}()
}

func (app *App) startReader(cmd string) {
	app.rdr = reader.New(reader.Options{
		Cmd:       cmd,
		Shell:     app.opts.Shell,
		Read0:     app.opts.Read0,
		Ansi:      app.opts.Ansi,
		Delimiter: app.opts.Delimiter,
		Nth:       app.opts.Nth,
		WithNth:   app.opts.WithNth,
		ShowError: app.opts.ShowCmdErr,
		Source:    app.opts.Source,
	})
	ctrl, err := app.rdr.Run(app.pool, app.nextIndex, func() {
		dispatch(app.loCh, event{typ: evReaderProgress})
	})
	if err != nil {
		// Spawn failure is recoverable: report and keep the UI usable.
		dispatch(app.loCh, event{typ: evError, message: err.Error()})
		app.readerCtrl = nil
		return
	}
	app.readerCtrl = ctrl
}

// reload replaces the source: stop producer, clear the pool, restart reader
// and matcher from zero.
func (app *App) reload(cmd string) {
	if app.readerCtrl != nil {
		app.readerCtrl.Stop()
	}
	app.logf("reload cmd=%q", cmd)
	app.pool.Clear()
	app.nextIndex = 0
	app.matched = nil
	app.statusMsg = ""
	app.startReader(cmd)
	app.restartMatcher(true)
}

// restartMatcher starts a session. A full restart rescans the whole pool;
// otherwise only the delta since the last Take is scanned and merged.
func (app *App) restartMatcher(full bool) {
	if app.matcherCtrl != nil {
		app.matcherCtrl.Stop()
	}
	app.session++
	if full {
		app.pool.Reset()
		app.matched = nil
		app.sel.First(0)
	}
	items := app.pool.Take()
	if !full && len(items) == 0 {
		return
	}

	sess := app.session
	app.matching = true
	app.logf("matcher session=%d full=%v items=%d query=%q", sess, full, len(items), app.q.String())
	app.matcherCtrl = matcher.Run(app.buildEngine(), items, app.order, func(batch []item.MatchedItem, done bool) {
		if done {
			dispatch(app.loCh, event{typ: evMatchDone, session: sess})
			return
		}
		dispatch(app.loCh, event{typ: evMatchBatch, session: sess, batch: batch})
	})
}

func (app *App) buildEngine() engine.Engine {
	if min := app.opts.MinQueryLength; min > 0 && app.q.Len() < min {
		return engine.MatchNone{}
	}
	return app.factory.Build(app.q.String())
}

func (app *App) drainHighPriority() {
	for {
		select {
		case ev := <-app.hiCh:
			app.handleEvent(ev)
			if app.shouldQuit {
				return
			}
		default:
			return
		}
	}
}

func (app *App) handleEvent(ev event) {
	switch ev.typ {
	case evKey:
		app.handleKey(ev.key)
	case evResize:
		app.screen.Sync()
		app.sel.SetHeight(app.renderer.ListHeight(app.opts.HeaderLines, app.previewVisible))
		app.sel.Clamp(len(app.matched))
		app.needRedraw = true
	case evReaderProgress:
		if app.matching {
			app.deltaPending = true
		} else if !app.pendingSearch {
			app.restartMatcher(false)
		}
		app.needRedraw = true
	case evMatchBatch:
		if ev.session != app.session {
			return
		}
		if app.opts.NoSort {
			app.matched = append(app.matched, ev.batch...)
		} else {
			app.matched = app.order.Merge(app.matched, ev.batch)
		}
		app.sel.Clamp(len(app.matched))
		app.updatePreview(false)
		app.needRedraw = true
	case evMatchDone:
		if ev.session != app.session {
			return
		}
		app.matching = false
		if app.deltaPending {
			app.deltaPending = false
			if !app.pendingSearch {
				app.restartMatcher(false)
			}
		}
		app.updatePreview(false)
		app.needRedraw = true
	case evPreviewReady:
		app.previewBuf = ev.preview
		app.previewScroll = 0
		app.needRedraw = true
	case evError:
		app.statusMsg = ev.message
		app.needRedraw = true
	case evQuit:
		app.result.IsAbort = true
		app.shouldQuit = true
	}
}

func (app *App) handleKey(ev *tcell.EventKey) {
	// Clear a transient status message on the next keystroke.
	app.statusMsg = ""

	if key, ok := app.expect[input.FromEvent(ev)]; ok {
		app.accept(key)
		return
	}
	app.executeActions(app.keymap.Resolve(ev))
	app.needRedraw = true
}

// tick runs the debounced work: search restart and interactive reload.
func (app *App) tick() {
	if app.pendingSearch && time.Since(app.lastQueryChange) >= searchDebounce {
		app.pendingSearch = false
		app.restartMatcher(true)
	}
	if app.cmdPending && time.Since(app.lastCmdChange) >= searchDebounce {
		app.cmdPending = false
		app.reload(app.expandCmd())
	}
	if app.reading() || app.matching {
		// Keep the spinner turning.
		app.needRedraw = true
	}
}

func (app *App) reading() bool {
	return app.readerCtrl != nil && !app.readerCtrl.Done()
}

func (app *App) queryChanged() {
	if app.cmdMode && app.opts.Interactive {
		app.cmdPending = true
		app.lastCmdChange = time.Now()
		return
	}
	app.pendingSearch = true
	app.lastQueryChange = time.Now()
}

// currentItem returns the item under the cursor, nil when the list is empty.
func (app *App) currentItem() *item.Item {
	if len(app.matched) == 0 || app.sel.Cursor() >= len(app.matched) {
		return nil
	}
	return app.matched[app.sel.Cursor()].Item
}

func (app *App) matchedItems() []*item.Item {
	out := make([]*item.Item, len(app.matched))
	for i, m := range app.matched {
		out[i] = m.Item
	}
	return out
}

func (app *App) accept(key string) {
	app.result.AcceptKey = key
	app.result.Query = app.q.String()
	app.result.CmdQuery = app.cmdQ.String()
	if app.opts.Multi && app.sel.NumMarked() > 0 {
		app.result.Selected = app.sel.Marked()
	} else if cur := app.currentItem(); cur != nil {
		app.result.Selected = []*item.Item{cur}
	}
	if h := app.opts.History; h != nil {
		h.Append(app.q.String())
	}
	if h := app.opts.CmdHistory; h != nil {
		h.Append(app.cmdQ.String())
	}
	app.shouldQuit = true
}

func (app *App) abort() {
	app.result.IsAbort = true
	app.result.Query = app.q.String()
	app.result.CmdQuery = app.cmdQ.String()
	app.shouldQuit = true
}

// updatePreview re-runs the preview command when the expansion changed.
func (app *App) updatePreview(force bool) {
	if app.opts.Preview == "" || !app.previewVisible {
		return
	}
	cmdline := shellutil.Expand(app.opts.Preview, app.previewContext())
	if !force && cmdline == app.lastPreviewCmd {
		return
	}
	app.lastPreviewCmd = cmdline
	app.previewCtl.Run(cmdline)
}

func (app *App) previewContext() shellutil.Context {
	return shellutil.Context{
		Item:      app.currentItem(),
		Marked:    app.sel.Marked(),
		Query:     app.q.String(),
		CmdQuery:  app.cmdQ.String(),
		Delimiter: app.opts.Delimiter,
	}
}

func (app *App) render() {
	headerItems := app.pool.Header()
	st := &render.State{
		Prompt:         app.opts.Prompt,
		CmdPrompt:      app.opts.CmdPrompt,
		Query:          app.q.String(),
		Caret:          app.q.Caret(),
		CmdQuery:       app.cmdQ.String(),
		CmdCaret:       app.cmdQ.Caret(),
		CmdMode:        app.cmdMode && app.opts.Interactive,
		Matched:        app.matched,
		MatchedCount:   len(app.matched),
		Total:          app.pool.Len(),
		Reading:        app.reading(),
		Matching:       app.matching,
		Cursor:         app.sel.Cursor(),
		Offset:         app.sel.Offset(),
		Marked:         app.sel.IsMarked,
		NumMarked:      app.sel.NumMarked(),
		Multi:          app.opts.Multi,
		Header:         headerItems,
		StatusMessage:  app.statusMsg,
		PreviewVisible: app.previewVisible,
		PreviewText:    app.previewBuf,
		PreviewScroll:  app.previewScroll,
		SpinnerFrame:   int(time.Now().UnixMilli() / 120),
	}
	app.renderer.Render(st)
	app.lastDraw = time.Now()
	app.needRedraw = false
}

// shutdown is cooperative: stop every session, join, release the terminal.
func (app *App) shutdown() {
	if app.matcherCtrl != nil {
		app.matcherCtrl.Stop()
	}
	if app.readerCtrl != nil {
		app.readerCtrl.Stop()
	}
	app.previewCtl.Stop()
	if h := app.opts.History; h != nil {
		_ = h.Save()
	}
	if h := app.opts.CmdHistory; h != nil {
		_ = h.Save()
	}
	app.screen.Fini()
	if app.debugLogFile != nil {
		_ = app.debugLogFile.Close()
	}
}

package app

import (
	"os"
	"os/exec"

	"github.com/kk-code-lab/sift/internal/item"
	"github.com/kk-code-lab/sift/internal/query"
	"github.com/kk-code-lab/sift/internal/shellutil"
	"github.com/kk-code-lab/sift/internal/ui/input"
)

// executeActions interprets a resolved action list. An action may append
// further actions (if-query-empty and friends); those run in the same tick.
func (app *App) executeActions(actions []input.Action) {
	queue := append([]input.Action(nil), actions...)
	for i := 0; i < len(queue); i++ {
		act := queue[i]
		switch act.Type {
		case input.ActIgnore:

		case input.ActAbort:
			app.abort()
			return
		case input.ActAccept:
			app.accept("")
			return

		case input.ActAddChar:
			app.activeQuery().AddChar(act.Char)
			app.queryChanged()
		case input.ActBackwardDeleteChar:
			if app.activeQuery().Backspace() {
				app.queryChanged()
			}
		case input.ActDeleteChar:
			if app.activeQuery().Delete() {
				app.queryChanged()
			}
		case input.ActBackwardChar:
			app.activeQuery().MoveLeft()
		case input.ActForwardChar:
			app.activeQuery().MoveRight()
		case input.ActBackwardWord:
			app.activeQuery().MoveWordLeft()
		case input.ActForwardWord:
			app.activeQuery().MoveWordRight()
		case input.ActBeginningOfLine:
			app.activeQuery().Home()
		case input.ActEndOfLine:
			app.activeQuery().End()
		case input.ActKillLine:
			app.activeQuery().KillLine()
			app.queryChanged()
		case input.ActKillWord:
			app.activeQuery().KillWord()
			app.queryChanged()
		case input.ActBackwardKillWord:
			app.activeQuery().BackwardKillWord()
			app.queryChanged()
		case input.ActUnixLineDiscard:
			app.activeQuery().DiscardLine()
			app.queryChanged()
		case input.ActUnixWordRubout:
			app.activeQuery().RuboutWord()
			app.queryChanged()
		case input.ActYank:
			app.activeQuery().Yank()
			app.queryChanged()

		case input.ActUp:
			app.moveCursor(1)
		case input.ActDown:
			app.moveCursor(-1)
		case input.ActPageUp:
			app.sel.Page(app.visualDir(1), len(app.matched))
			app.updatePreview(false)
		case input.ActPageDown:
			app.sel.Page(app.visualDir(-1), len(app.matched))
			app.updatePreview(false)
		case input.ActHalfPageUp:
			app.sel.HalfPage(app.visualDir(1), len(app.matched))
			app.updatePreview(false)
		case input.ActHalfPageDown:
			app.sel.HalfPage(app.visualDir(-1), len(app.matched))
			app.updatePreview(false)
		case input.ActFirst:
			app.sel.First(len(app.matched))
			app.updatePreview(false)
		case input.ActLast:
			app.sel.Last(len(app.matched))
			app.updatePreview(false)
		case input.ActSelectRow:
			if row, ok := parseRow(act.Arg); ok {
				app.sel.SelectRow(row, len(app.matched))
				app.updatePreview(false)
			}

		case input.ActToggle:
			app.sel.Toggle(app.currentItem())
		case input.ActToggleOut:
			app.sel.Toggle(app.currentItem())
			app.moveCursor(-1)
		case input.ActToggleIn:
			app.sel.Toggle(app.currentItem())
			app.moveCursor(1)
		case input.ActToggleAll:
			app.sel.ToggleAll(app.matchedItems())
		case input.ActSelectAll:
			app.sel.SelectAll(app.matchedItems())
		case input.ActDeselectAll:
			app.sel.DeselectAll()
		case input.ActAppendAndSelect:
			app.appendAndSelect()

		case input.ActPreviousHistory:
			app.recallHistory(true)
		case input.ActNextHistory:
			app.recallHistory(false)

		case input.ActTogglePreview:
			app.previewVisible = !app.previewVisible
			app.sel.SetHeight(app.renderer.ListHeight(app.opts.HeaderLines, app.previewVisible))
			app.sel.Clamp(len(app.matched))
			app.updatePreview(true)
		case input.ActRefreshPreview:
			app.updatePreview(true)
		case input.ActPreviewUp:
			app.scrollPreview(-1)
		case input.ActPreviewDown:
			app.scrollPreview(1)
		case input.ActPreviewPageUp:
			app.scrollPreview(-10)
		case input.ActPreviewPageDown:
			app.scrollPreview(10)
		case input.ActTogglePreviewWrap:
			// Wrap is fixed per session in the layout options; flipping it
			// just forces a redraw with the preview re-run.
			app.updatePreview(true)

		case input.ActToggleInteractive:
			if app.opts.Interactive {
				app.cmdMode = !app.cmdMode
			}
		case input.ActToggleSort:
			app.opts.NoSort = !app.opts.NoSort
			app.restartMatcher(true)

		case input.ActExecute:
			app.runExternal(act.Arg, false)
		case input.ActExecuteSilent:
			app.runExternal(act.Arg, true)
		case input.ActReload:
			cmd := act.Arg
			if cmd == "" {
				cmd = app.initialCmd()
			}
			app.reload(shellutil.Expand(cmd, app.previewContext()))
		case input.ActRefreshCmd:
			if app.opts.Interactive {
				app.reload(app.expandCmd())
			}

		case input.ActClearScreen:
			app.screen.Sync()

		case input.ActRedraw:
			app.needRedraw = true

		case input.ActIfQueryEmpty:
			if app.q.Empty() {
				queue = appendParsed(queue, act.Arg)
			}
		case input.ActIfQueryNotEmpty:
			if !app.q.Empty() {
				queue = appendParsed(queue, act.Arg)
			}
		case input.ActIfNonMatched:
			if len(app.matched) == 0 {
				queue = appendParsed(queue, act.Arg)
			}
		}
	}
}

func appendParsed(queue []input.Action, spec string) []input.Action {
	actions, err := input.ParseActionList(spec)
	if err != nil {
		return queue
	}
	return append(queue, actions...)
}

func parseRow(arg string) (int, bool) {
	row := 0
	for _, r := range arg {
		if r < '0' || r > '9' {
			return 0, false
		}
		row = row*10 + int(r-'0')
	}
	return row, arg != ""
}

func (app *App) activeQuery() *query.Query {
	if app.cmdMode && app.opts.Interactive {
		return app.cmdQ
	}
	return app.q
}

// visualDir maps a visual direction (+1 = up) onto a matched-list delta.
// In the default bottom-up layout the best match sits next to the prompt,
// so moving up means moving down the ranking.
func (app *App) visualDir(up int) int {
	if app.opts.Reverse {
		return -up
	}
	return up
}

func (app *App) moveCursor(up int) {
	app.sel.Move(app.visualDir(up), len(app.matched))
	app.updatePreview(false)
}

func (app *App) scrollPreview(delta int) {
	app.previewScroll += delta
	if app.previewScroll < 0 {
		app.previewScroll = 0
	}
}

// syntheticBase keeps indexes of query-born items clear of reader-assigned
// ones.
const syntheticBase = 1 << 28

// appendAndSelect pushes the current query into the pool as a synthetic
// item and marks it, for picking values that aren't in the input.
func (app *App) appendAndSelect() {
	text := app.q.String()
	if text == "" {
		return
	}
	app.syntheticSeq++
	it := item.New(text, text, syntheticBase+app.syntheticSeq, nil, nil)
	app.pool.Append([]*item.Item{it})
	app.sel.Toggle(it)
	app.restartMatcher(true)
}

func (app *App) runExternal(template string, silent bool) {
	cmdline := shellutil.Expand(template, app.previewContext())
	shell := app.opts.Shell
	if shell == "" {
		shell = shellutil.Shell()
	}
	cmd := exec.Command(shell, "-c", cmdline)

	if silent {
		// No TTY handoff; output is discarded.
		_ = cmd.Run()
		return
	}

	// Hand over the terminal until the child exits, then repaint.
	if err := app.screen.Suspend(); err != nil {
		return
	}
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	_ = cmd.Run()
	_ = app.screen.Resume()
	app.screen.Sync()
	app.needRedraw = true
}

func (app *App) recallHistory(previous bool) {
	var h *query.History
	target := app.q
	if app.cmdMode && app.opts.Interactive {
		h = app.opts.CmdHistory
		target = app.cmdQ
	} else {
		h = app.opts.History
	}
	if h == nil {
		return
	}
	var entry string
	var ok bool
	if previous {
		entry, ok = h.Previous(target.String())
	} else {
		entry, ok = h.Next()
	}
	if !ok {
		return
	}
	target.Set(entry)
	app.queryChanged()
}

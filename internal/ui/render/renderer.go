// Package render draws the filter UI onto a tcell screen: prompt, status
// line, ranked list, header lines, and the preview pane. The renderer is
// driven only by the event-loop goroutine.
package render

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/kk-code-lab/sift/internal/ansi"
	"github.com/kk-code-lab/sift/internal/item"
	"github.com/kk-code-lab/sift/internal/textutil"
)

const tabWidth = 8

// State is the read-only snapshot the coordinator hands to Render.
type State struct {
	Prompt    string
	CmdPrompt string
	Query     string
	Caret     int // grapheme offset into Query
	CmdQuery  string
	CmdCaret  int
	CmdMode   bool // editing the command query (interactive mode)

	Matched      []item.MatchedItem
	MatchedCount int
	Total        int
	Processed    int
	Reading      bool
	Matching     bool

	Cursor int
	Offset int

	Marked    func(index int) bool
	NumMarked int
	Multi     bool

	Header []*item.Item

	StatusMessage string // error or notice; overrides the counters

	PreviewVisible bool
	PreviewText    []byte
	PreviewScroll  int

	SpinnerFrame int
}

// Options fix the renderer's layout at startup.
type Options struct {
	Reverse    bool // query line on top, list growing downward
	Preview    PreviewWindow
	HasPreview bool
	Theme      Theme
}

// Renderer owns the screen. Only the event-loop goroutine may call it.
type Renderer struct {
	screen tcell.Screen
	opts   Options
}

var spinnerFrames = []rune{'◐', '◓', '◑', '◒'}

// NewRenderer wraps an initialized screen.
func NewRenderer(screen tcell.Screen, opts Options) *Renderer {
	if opts.Theme == (Theme{}) {
		opts.Theme = DefaultTheme()
	}
	return &Renderer{screen: screen, opts: opts}
}

// ListHeight returns how many matched rows fit, for viewport sizing.
func (r *Renderer) ListHeight(headerLines int, previewVisible bool) int {
	w, h := r.screen.Size()
	main, _ := r.opts.Preview.split(w, h, r.opts.HasPreview && previewVisible)
	rows := main.H - 2 - headerLines
	if rows < 1 {
		rows = 1
	}
	return rows
}

// Render draws the whole UI.
func (r *Renderer) Render(st *State) {
	r.screen.Clear()
	w, h := r.screen.Size()
	if w == 0 || h == 0 {
		return
	}

	previewVisible := r.opts.HasPreview && st.PreviewVisible
	main, preview := r.opts.Preview.split(w, h, previewVisible)

	r.drawMain(st, main)
	if previewVisible {
		r.drawPreview(st, preview)
	}
	r.screen.Show()
}

func (r *Renderer) drawMain(st *State, area Rect) {
	var promptRow, statusRow int
	if r.opts.Reverse {
		promptRow = area.Y
		statusRow = area.Y + 1
	} else {
		promptRow = area.Y + area.H - 1
		statusRow = area.Y + area.H - 2
	}

	r.drawPrompt(st, area, promptRow)
	r.drawStatus(st, area, statusRow)

	listRows := area.H - 2 - len(st.Header)
	if listRows < 1 {
		listRows = 1
	}

	// Header lines sit between the status line and the list.
	for i, head := range st.Header {
		var row int
		if r.opts.Reverse {
			row = statusRow + 1 + i
		} else {
			row = statusRow - 1 - i
		}
		if row < area.Y || row >= area.Y+area.H {
			continue
		}
		text := textutil.ExpandTabs(textutil.Sanitize(head.Display()), tabWidth)
		r.drawText(area.X+2, row, area.W-2, text, r.opts.Theme.Header)
	}

	// Matched rows: row 0 of the viewport is adjacent to the header.
	for vi := 0; vi < listRows; vi++ {
		idx := st.Offset + vi
		if idx >= len(st.Matched) {
			break
		}
		var row int
		if r.opts.Reverse {
			row = statusRow + 1 + len(st.Header) + vi
		} else {
			row = statusRow - 1 - len(st.Header) - vi
		}
		if row < area.Y || row >= area.Y+area.H {
			continue
		}
		r.drawMatchedLine(st, area, row, st.Matched[idx], idx == st.Cursor)
	}
}

func (r *Renderer) drawPrompt(st *State, area Rect, row int) {
	theme := r.opts.Theme
	prompt := st.Prompt
	queryText := st.Query
	caret := st.Caret
	if st.CmdMode {
		prompt = st.CmdPrompt
		queryText = st.CmdQuery
		caret = st.CmdCaret
	}
	x := area.X
	x = r.drawText(x, row, area.W, prompt, theme.Prompt)
	r.drawText(x, row, area.X+area.W-x, queryText, theme.Normal)

	// Caret column: prompt width plus the width of the graphemes before it.
	graphemes := splitQueryGraphemes(queryText)
	col := x
	for i := 0; i < caret && i < len(graphemes); i++ {
		col += textutil.DisplayWidth(graphemes[i])
	}
	r.screen.ShowCursor(col, row)
}

func (r *Renderer) drawStatus(st *State, area Rect, row int) {
	theme := r.opts.Theme
	if st.StatusMessage != "" {
		r.drawText(area.X+2, row, area.W-2, st.StatusMessage, theme.StatusError)
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d/%d", st.MatchedCount, st.Total)
	if st.Multi && st.NumMarked > 0 {
		fmt.Fprintf(&b, " (%d)", st.NumMarked)
	}
	if st.Reading || st.Matching {
		b.WriteByte(' ')
		b.WriteRune(spinnerFrames[st.SpinnerFrame%len(spinnerFrames)])
	}
	r.drawText(area.X+2, row, area.W-2, b.String(), theme.Status)
}

func (r *Renderer) drawMatchedLine(st *State, area Rect, row int, m item.MatchedItem, current bool) {
	theme := r.opts.Theme

	base := theme.Normal
	matched := theme.Matched
	if current {
		base = theme.Current
		matched = theme.CurrentMatched
		// Paint the row background first.
		for x := area.X; x < area.X+area.W; x++ {
			r.screen.SetContent(x, row, ' ', nil, base)
		}
		r.screen.SetContent(area.X, row, '>', nil, theme.CursorArrow)
	}
	if st.Marked != nil && st.Marked(m.Item.Index()) {
		r.screen.SetContent(area.X+1, row, '>', nil, theme.Marker)
	}

	display := textutil.Sanitize(m.Item.Display())
	positions := map[int]bool{}
	for _, p := range m.Positions {
		positions[p] = true
	}

	// Positions and spans index runes; a grapheme cluster may cover
	// several of them, so carry the rune offset alongside the iteration.
	x := area.X + 2
	limit := area.X + area.W
	runeOff := 0
	for _, g := range splitQueryGraphemes(display) {
		runes := []rune(g)
		if x >= limit {
			break
		}
		style := base
		if coversPosition(positions, runeOff, len(runes)) {
			style = matched
		} else if spanStyle, ok := spanAt(m.Item.Spans(), runeOff); ok && !current {
			style = spanStyle
		}
		r.screen.SetContent(x, row, runes[0], runes[1:], style)
		x += textutil.DisplayWidth(g)
		runeOff += len(runes)
	}
}

// coversPosition reports whether any rune of the cluster starting at
// runeOff is a matched position.
func coversPosition(positions map[int]bool, runeOff, runeLen int) bool {
	for i := 0; i < runeLen; i++ {
		if positions[runeOff+i] {
			return true
		}
	}
	return false
}

// spanAt finds the style span covering rune position pos.
func spanAt(spans []ansi.Span, pos int) (tcell.Style, bool) {
	for _, s := range spans {
		if pos >= s.Start && pos < s.End {
			return s.Style, true
		}
	}
	return tcell.StyleDefault, false
}

func (r *Renderer) drawPreview(st *State, area Rect) {
	theme := r.opts.Theme

	// Left border separates the pane when side-by-side.
	if area.X > 0 {
		for y := area.Y; y < area.Y+area.H; y++ {
			r.screen.SetContent(area.X, y, '│', nil, theme.Border)
		}
		area.X++
		area.W--
	}
	if area.W <= 0 {
		return
	}

	lines := strings.Split(string(st.PreviewText), "\n")
	start := st.PreviewScroll
	if start < 0 {
		start = 0
	}
	if start >= len(lines) {
		start = len(lines) - 1
	}
	wrap := r.opts.Preview.Wrap

	row := area.Y
	for _, line := range lines[start:] {
		if row >= area.Y+area.H {
			break
		}
		stripped, spans := ansi.Parse(line)
		stripped = textutil.ExpandTabs(stripped, tabWidth)
		row = r.drawPreviewLine(area, row, stripped, spans, wrap)
	}
}

func (r *Renderer) drawPreviewLine(area Rect, row int, line string, spans []ansi.Span, wrap bool) int {
	theme := r.opts.Theme
	x := area.X
	runeOff := 0
	for _, g := range splitQueryGraphemes(line) {
		runes := []rune(g)
		w := textutil.DisplayWidth(g)
		if x+w > area.X+area.W {
			if !wrap {
				break
			}
			x = area.X
			row++
			if row >= area.Y+area.H {
				return row
			}
		}
		style := theme.Normal
		if s, ok := spanAt(spans, runeOff); ok {
			style = s
		}
		r.screen.SetContent(x, row, runes[0], runes[1:], style)
		x += w
		runeOff += len(runes)
	}
	return row + 1
}

func (r *Renderer) drawText(x, row, maxWidth int, text string, style tcell.Style) int {
	if maxWidth <= 0 {
		return x
	}
	text = textutil.Truncate(text, maxWidth)
	for _, g := range splitQueryGraphemes(text) {
		runes := []rune(g)
		if len(runes) == 0 {
			continue
		}
		r.screen.SetContent(x, row, runes[0], runes[1:], style)
		x += textutil.DisplayWidth(g)
	}
	return x
}

func splitQueryGraphemes(text string) []string {
	if text == "" {
		return nil
	}
	var out []string
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		out = append(out, g.Str())
	}
	return out
}

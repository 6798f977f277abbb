package render

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/kk-code-lab/sift/internal/item"
)

func newSimScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}
	s.SetSize(w, h)
	return s
}

func screenRow(s tcell.SimulationScreen, row int) string {
	cells, w, _ := s.GetContents()
	var b strings.Builder
	for x := 0; x < w; x++ {
		b.WriteString(string(cells[row*w+x].Runes))
	}
	return strings.TrimRight(b.String(), " ")
}

func matchedList(texts ...string) []item.MatchedItem {
	b := item.DefaultRankBuilder()
	out := make([]item.MatchedItem, len(texts))
	for i, text := range texts {
		out[i] = item.MatchedItem{
			Item: item.New(text, text, i, nil, nil),
			Rank: b.Build(0, 0, 0, len(text), i),
		}
	}
	return out
}

func TestRenderDefaultLayout(t *testing.T) {
	s := newSimScreen(t, 40, 6)
	defer s.Fini()
	r := NewRenderer(s, Options{})

	st := &State{
		Prompt:       "> ",
		Query:        "qq",
		Matched:      matchedList("alpha", "beta"),
		MatchedCount: 2,
		Total:        2,
	}
	r.Render(st)

	// Default layout: prompt on the bottom row, status above it, then the
	// list growing upward.
	if got := screenRow(s, 5); !strings.HasPrefix(got, "> qq") {
		t.Errorf("bottom row = %q, want prompt line", got)
	}
	if got := screenRow(s, 4); !strings.Contains(got, "2/2") {
		t.Errorf("status row = %q, want counters", got)
	}
	if got := screenRow(s, 3); !strings.Contains(got, "alpha") {
		t.Errorf("first item row = %q, want alpha", got)
	}
	if got := screenRow(s, 2); !strings.Contains(got, "beta") {
		t.Errorf("second item row = %q, want beta", got)
	}
}

func TestRenderReverseLayout(t *testing.T) {
	s := newSimScreen(t, 40, 6)
	defer s.Fini()
	r := NewRenderer(s, Options{Reverse: true})

	st := &State{
		Prompt:       "> ",
		Matched:      matchedList("alpha"),
		MatchedCount: 1,
		Total:        1,
	}
	r.Render(st)

	if got := screenRow(s, 0); !strings.HasPrefix(got, ">") {
		t.Errorf("top row = %q, want prompt line", got)
	}
	if got := screenRow(s, 2); !strings.Contains(got, "alpha") {
		t.Errorf("row 2 = %q, want alpha", got)
	}
}

func TestRenderHeaderLines(t *testing.T) {
	s := newSimScreen(t, 40, 8)
	defer s.Fini()
	r := NewRenderer(s, Options{})

	st := &State{
		Prompt:  "> ",
		Header:  []*item.Item{item.New("COL1 COL2", "COL1 COL2", 0, nil, nil)},
		Matched: matchedList("row"),
		Total:   1, MatchedCount: 1,
	}
	r.Render(st)

	if got := screenRow(s, 5); !strings.Contains(got, "COL1 COL2") {
		t.Errorf("header row = %q", got)
	}
	if got := screenRow(s, 4); !strings.Contains(got, "row") {
		t.Errorf("item row = %q", got)
	}
}

func TestRenderStatusMessageOverridesCounters(t *testing.T) {
	s := newSimScreen(t, 40, 6)
	defer s.Fini()
	r := NewRenderer(s, Options{})

	st := &State{Prompt: "> ", StatusMessage: "spawn failed", Total: 9, MatchedCount: 9}
	r.Render(st)
	row := screenRow(s, 4)
	if !strings.Contains(row, "spawn failed") || strings.Contains(row, "9/9") {
		t.Errorf("status row = %q", row)
	}
}

func TestRenderPreviewPane(t *testing.T) {
	s := newSimScreen(t, 40, 6)
	defer s.Fini()
	r := NewRenderer(s, Options{HasPreview: true, Preview: DefaultPreviewWindow()})

	st := &State{
		Prompt:         "> ",
		Matched:        matchedList("x"),
		Total:          1,
		MatchedCount:   1,
		PreviewVisible: true,
		PreviewText:    []byte("preview line\n"),
	}
	r.Render(st)

	found := false
	for row := 0; row < 6; row++ {
		if strings.Contains(screenRow(s, row), "preview line") {
			found = true
		}
	}
	if !found {
		t.Error("preview text not rendered")
	}
}

func TestMatchHighlightUsesRuneIndices(t *testing.T) {
	s := newSimScreen(t, 40, 6)
	defer s.Fini()
	r := NewRenderer(s, Options{})

	// é spelled e + combining acute: one grapheme covering two runes. The
	// match position names the rune index of x (2), not its grapheme
	// index (1); the highlight must land on x.
	display := "e\u0301x"
	b := item.DefaultRankBuilder()
	m := item.MatchedItem{
		Item:      item.New(display, display, 0, nil, nil),
		Rank:      b.Build(0, 2, 3, 3, 0),
		Positions: []int{2},
	}
	st := &State{Prompt: "> ", Matched: []item.MatchedItem{m}, MatchedCount: 1, Total: 1}
	r.Render(st)

	cells, w, _ := s.GetContents()
	const row = 3 // first item row in the default layout at height 6
	var clusterStyle, xStyle tcell.Style
	foundX := false
	for col := 0; col < w; col++ {
		c := cells[row*w+col]
		if len(c.Runes) == 0 {
			continue
		}
		switch c.Runes[0] {
		case 'e':
			clusterStyle = c.Style
		case 'x':
			xStyle = c.Style
			foundX = true
		}
	}
	if !foundX {
		t.Fatal("x was not drawn")
	}
	if xStyle == clusterStyle {
		t.Error("match highlight must follow rune positions, not grapheme indexes")
	}
}

func TestListHeightAccountsForChrome(t *testing.T) {
	s := newSimScreen(t, 40, 10)
	defer s.Fini()
	r := NewRenderer(s, Options{})
	if got := r.ListHeight(1, false); got != 7 {
		t.Errorf("ListHeight(1) = %d, want 7", got)
	}
}

func TestParsePreviewWindow(t *testing.T) {
	w, err := ParsePreviewWindow("up:30%:hidden")
	if err != nil {
		t.Fatal(err)
	}
	if w.Position != "up" || w.Size != 30 || !w.Percent || !w.Hidden {
		t.Errorf("parsed = %+v", w)
	}

	w, err = ParsePreviewWindow("left:40")
	if err != nil {
		t.Fatal(err)
	}
	if w.Position != "left" || w.Size != 40 || w.Percent {
		t.Errorf("parsed = %+v", w)
	}

	if _, err := ParsePreviewWindow("right:banana"); err == nil {
		t.Error("expected error for invalid size")
	}
}

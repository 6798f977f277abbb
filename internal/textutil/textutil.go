// Package textutil prepares candidate text for terminal display: control
// characters are defanged, tabs become spaces, and lines are clipped to
// column budgets grapheme-wise.
package textutil

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Sanitize replaces control characters so candidate text cannot inject
// terminal escape sequences when rendered. Tabs survive for ExpandTabs.
func Sanitize(text string) string {
	clean := true
	for _, r := range text {
		if r != '\t' && (r < 0x20 || r == 0x7f) {
			clean = false
			break
		}
	}
	if clean {
		return text
	}
	var b strings.Builder
	for _, r := range text {
		switch {
		case r == '\t':
			b.WriteByte('\t')
		case r == '\n' || r == '\r':
			b.WriteByte(' ')
		case r < 0x20 || r == 0x7f:
			b.WriteByte('?')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ExpandTabs replaces tabs with spaces up to the next tab stop. The column
// advances grapheme-wise, so combining sequences and emoji between tabs
// keep the stops aligned with what the terminal actually shows.
func ExpandTabs(text string, tabWidth int) string {
	if tabWidth <= 0 || !strings.ContainsRune(text, '\t') {
		return text
	}
	var b strings.Builder
	b.Grow(len(text) + tabWidth)
	column := 0
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		cluster := g.Str()
		if cluster == "\t" {
			pad := tabWidth - column%tabWidth
			b.WriteString(strings.Repeat(" ", pad))
			column += pad
			continue
		}
		b.WriteString(cluster)
		column += graphemeWidth(cluster)
	}
	return b.String()
}

// DisplayWidth measures text in terminal columns, counting each grapheme
// cluster once so emoji and combining sequences don't over-count.
func DisplayWidth(text string) int {
	total := 0
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		total += graphemeWidth(g.Str())
	}
	return total
}

func graphemeWidth(cluster string) int {
	w := runewidth.StringWidth(cluster)
	if w > 2 {
		w = 2
	}
	if w < 1 {
		w = 1
	}
	return w
}

// Truncate clips text to at most width columns, appending ellipsis when
// clipped. Clipping happens at grapheme boundaries.
func Truncate(text string, width int) string {
	if width <= 0 {
		return ""
	}
	if DisplayWidth(text) <= width {
		return text
	}
	const ellipsis = "…"
	budget := width - 1
	var b strings.Builder
	used := 0
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		w := graphemeWidth(g.Str())
		if used+w > budget {
			break
		}
		b.WriteString(g.Str())
		used += w
	}
	return b.String() + ellipsis
}

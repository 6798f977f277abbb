// Package item holds the candidate records flowing through the filter: the
// immutable Item, the shared ItemPool, and the rank model used to order
// matches.
package item

import (
	"github.com/kk-code-lab/sift/internal/ansi"
)

// CharRange is a half-open [Start, End) range of rune offsets.
type CharRange struct {
	Start int
	End   int
}

// Item is one input record. Immutable once created; shared read-only across
// goroutines.
type Item struct {
	output  string          // raw input record, emitted verbatim on accept
	display string          // text shown and matched (ANSI stripped, --with-nth applied)
	index   int             // stable insertion index
	mask    []CharRange     // optional --nth restriction on display text
	spans   []ansi.Span     // pre-parsed SGR styling of display text
	width   int             // cached rune length of display
}

// New builds an item. output is the raw record; display the matchable text.
func New(output, display string, index int, mask []CharRange, spans []ansi.Span) *Item {
	return &Item{
		output:  output,
		display: display,
		index:   index,
		mask:    mask,
		spans:   spans,
		width:   len([]rune(display)),
	}
}

// Plain wraps a bare string, for synthetic items used inside engines.
func Plain(text string) *Item {
	return &Item{output: text, display: text, width: len([]rune(text))}
}

// Output returns the raw record for stdout emission.
func (it *Item) Output() string { return it.output }

// Display returns the text that is matched and rendered.
func (it *Item) Display() string { return it.display }

// Index returns the stable insertion index.
func (it *Item) Index() int { return it.index }

// Mask returns the matching-range restriction, nil when the whole display
// text is matchable.
func (it *Item) Mask() []CharRange { return it.mask }

// Spans returns the pre-parsed style spans of the display text.
func (it *Item) Spans() []ansi.Span { return it.spans }

// DisplayLen returns the rune length of the display text.
func (it *Item) DisplayLen() int { return it.width }

// InMask reports whether rune position pos is matchable.
func (it *Item) InMask(pos int) bool {
	if len(it.mask) == 0 {
		return true
	}
	for _, r := range it.mask {
		if pos >= r.Start && pos < r.End {
			return true
		}
	}
	return false
}

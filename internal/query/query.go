// Package query holds the editable query line. The caret moves over
// grapheme clusters, not runes, so combining sequences and emoji behave as
// single units.
package query

import (
	"strings"
	"unicode"

	"github.com/rivo/uniseg"
)

// Query is one editable line with a caret. The zero value is an empty query.
type Query struct {
	graphemes []string
	caret     int
	yanked    string
}

// New seeds a query with initial text, caret at the end.
func New(initial string) *Query {
	q := &Query{}
	q.Set(initial)
	return q
}

// Set replaces the text and clamps the caret to the end.
func (q *Query) Set(text string) {
	q.graphemes = splitGraphemes(text)
	q.caret = len(q.graphemes)
}

func splitGraphemes(text string) []string {
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

// String returns the query text.
func (q *Query) String() string {
	return strings.Join(q.graphemes, "")
}

// Caret returns the caret position in grapheme clusters.
func (q *Query) Caret() int { return q.caret }

// Len returns the number of grapheme clusters in the query.
func (q *Query) Len() int { return len(q.graphemes) }

// Empty reports whether the query has no text.
func (q *Query) Empty() bool { return len(q.graphemes) == 0 }

// AddChar inserts a rune at the caret.
func (q *Query) AddChar(r rune) {
	q.insert(string(r))
}

func (q *Query) insert(s string) {
	for _, g := range splitGraphemes(s) {
		q.graphemes = append(q.graphemes, "")
		copy(q.graphemes[q.caret+1:], q.graphemes[q.caret:])
		q.graphemes[q.caret] = g
		q.caret++
	}
}

// Backspace deletes the grapheme before the caret.
func (q *Query) Backspace() bool {
	if q.caret == 0 {
		return false
	}
	q.graphemes = append(q.graphemes[:q.caret-1], q.graphemes[q.caret:]...)
	q.caret--
	return true
}

// Delete removes the grapheme under the caret.
func (q *Query) Delete() bool {
	if q.caret >= len(q.graphemes) {
		return false
	}
	q.graphemes = append(q.graphemes[:q.caret], q.graphemes[q.caret+1:]...)
	return true
}

// MoveLeft and MoveRight step the caret one grapheme.
func (q *Query) MoveLeft() {
	if q.caret > 0 {
		q.caret--
	}
}

func (q *Query) MoveRight() {
	if q.caret < len(q.graphemes) {
		q.caret++
	}
}

// Home and End jump the caret to the line edges.
func (q *Query) Home() { q.caret = 0 }
func (q *Query) End()  { q.caret = len(q.graphemes) }

func isWordGrapheme(g string) bool {
	for _, r := range g {
		return unicode.IsLetter(r) || unicode.IsDigit(r)
	}
	return false
}

// MoveWordLeft jumps to the start of the previous word.
func (q *Query) MoveWordLeft() {
	for q.caret > 0 && !isWordGrapheme(q.graphemes[q.caret-1]) {
		q.caret--
	}
	for q.caret > 0 && isWordGrapheme(q.graphemes[q.caret-1]) {
		q.caret--
	}
}

// MoveWordRight jumps past the end of the next word.
func (q *Query) MoveWordRight() {
	n := len(q.graphemes)
	for q.caret < n && !isWordGrapheme(q.graphemes[q.caret]) {
		q.caret++
	}
	for q.caret < n && isWordGrapheme(q.graphemes[q.caret]) {
		q.caret++
	}
}

// KillLine deletes from the caret to the end, saving it for Yank.
func (q *Query) KillLine() {
	if q.caret >= len(q.graphemes) {
		return
	}
	q.yanked = strings.Join(q.graphemes[q.caret:], "")
	q.graphemes = q.graphemes[:q.caret]
}

// DiscardLine deletes from the start to the caret, saving it for Yank.
func (q *Query) DiscardLine() {
	if q.caret == 0 {
		return
	}
	q.yanked = strings.Join(q.graphemes[:q.caret], "")
	q.graphemes = append([]string(nil), q.graphemes[q.caret:]...)
	q.caret = 0
}

// KillWord deletes the word after the caret.
func (q *Query) KillWord() {
	end := q.caret
	n := len(q.graphemes)
	for end < n && !isWordGrapheme(q.graphemes[end]) {
		end++
	}
	for end < n && isWordGrapheme(q.graphemes[end]) {
		end++
	}
	if end == q.caret {
		return
	}
	q.yanked = strings.Join(q.graphemes[q.caret:end], "")
	q.graphemes = append(q.graphemes[:q.caret], q.graphemes[end:]...)
}

// BackwardKillWord deletes the word before the caret.
func (q *Query) BackwardKillWord() {
	start := q.caret
	for start > 0 && !isWordGrapheme(q.graphemes[start-1]) {
		start--
	}
	for start > 0 && isWordGrapheme(q.graphemes[start-1]) {
		start--
	}
	q.removeBack(start)
}

// RuboutWord deletes back to the previous whitespace (unix-word-rubout).
func (q *Query) RuboutWord() {
	start := q.caret
	for start > 0 && strings.TrimSpace(q.graphemes[start-1]) == "" {
		start--
	}
	for start > 0 && strings.TrimSpace(q.graphemes[start-1]) != "" {
		start--
	}
	q.removeBack(start)
}

func (q *Query) removeBack(start int) {
	if start == q.caret {
		return
	}
	q.yanked = strings.Join(q.graphemes[start:q.caret], "")
	q.graphemes = append(q.graphemes[:start], q.graphemes[q.caret:]...)
	q.caret = start
}

// Yank re-inserts the last killed text at the caret.
func (q *Query) Yank() {
	if q.yanked != "" {
		q.insert(q.yanked)
	}
}

package engine

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/kk-code-lab/sift/internal/item"
)

// Normalized wraps another engine and matches against the NFD-decomposed,
// mark-stripped form of the item text, mapping matched positions back onto
// the original text. The factory normalizes the query before building the
// inner engine.
type Normalized struct {
	Inner Engine
}

func (e *Normalized) MatchItem(it *item.Item) (MatchResult, bool) {
	normalized, mapping := NormalizeWithMapping(it.Display())
	res, ok := e.Inner.MatchItem(item.Plain(normalized))
	if !ok {
		return MatchResult{}, false
	}

	mapped := make([]int, 0, len(res.Positions))
	for _, p := range res.Positions {
		if p >= 0 && p < len(mapping) {
			mapped = append(mapped, mapping[p])
		}
	}
	mapped = sortedUnique(mapped)
	mapped = maskPositions(it, mapped)

	// Only the positions are mapped back; the inner rank, computed over the
	// normalized text, is returned as is.
	res.Positions = mapped
	return res, true
}

func (e *Normalized) String() string {
	return "(Normalized: " + e.Inner.String() + ")"
}

// NormalizeWithMapping decomposes s with NFD, drops combining marks, and
// returns the normalized string plus a mapping from normalized rune index to
// the originating rune index in s. Combining marks never produce their own
// position.
func NormalizeWithMapping(s string) (string, []int) {
	var b strings.Builder
	var mapping []int
	for origIdx, r := range []rune(s) {
		for _, dr := range norm.NFD.String(string(r)) {
			if unicode.Is(unicode.Mn, dr) {
				continue
			}
			b.WriteRune(dr)
			mapping = append(mapping, origIdx)
		}
	}
	return b.String(), mapping
}

// NormalizeQuery strips combining marks from a query term.
func NormalizeQuery(s string) string {
	normalized, _ := NormalizeWithMapping(s)
	return normalized
}

package engine

import (
	"fmt"
	"unicode"

	"github.com/kk-code-lab/sift/internal/fuzzy"
	"github.com/kk-code-lab/sift/internal/item"
)

// Anchor restricts where an exact term may land in the display text.
type Anchor int

const (
	// AnchorNone matches the pattern anywhere as a plain substring.
	AnchorNone Anchor = iota
	// AnchorPrefix requires the pattern at the start of the text.
	AnchorPrefix
	// AnchorSuffix requires the pattern at the end of the text.
	AnchorSuffix
	// AnchorExact requires the whole text to equal the pattern.
	AnchorExact
)

const (
	exactScoreMatch    = 16
	exactBonusBoundary = 8
	exactBonusPrefix   = 8
)

// Exact matches the pattern as a contiguous substring under an anchor
// policy.
type Exact struct {
	pattern       []rune
	display       string
	caseSensitive bool
	anchor        Anchor
	rank          *item.RankBuilder
}

// NewExact builds an exact leaf engine.
func NewExact(pattern string, caseSensitive bool, anchor Anchor, rank *item.RankBuilder) *Exact {
	pr := []rune(pattern)
	if !caseSensitive {
		pr = fuzzy.FoldRunes(pr)
	}
	return &Exact{
		pattern:       pr,
		display:       pattern,
		caseSensitive: caseSensitive,
		anchor:        anchor,
		rank:          rank,
	}
}

func (e *Exact) MatchItem(it *item.Item) (MatchResult, bool) {
	text := []rune(it.Display())
	if !e.caseSensitive {
		text = fuzzy.FoldRunes(text)
	}

	start, ok := e.locate(text)
	if !ok {
		return MatchResult{}, false
	}

	positions := make([]int, len(e.pattern))
	for i := range positions {
		positions[i] = start + i
	}
	positions = maskPositions(it, positions)
	if len(positions) == 0 && len(e.pattern) > 0 {
		return MatchResult{}, false
	}

	score := len(e.pattern) * exactScoreMatch
	if start == 0 {
		score += exactBonusPrefix + exactBonusBoundary
	} else if !isWordRune(text[start-1]) {
		score += exactBonusBoundary
	}

	begin, end := positionExtent(positions)
	return MatchResult{
		Rank:      e.rank.Build(score, begin, end, it.DisplayLen(), it.Index()),
		Positions: positions,
	}, true
}

func (e *Exact) locate(text []rune) (int, bool) {
	pl := len(e.pattern)
	tl := len(text)
	if pl == 0 {
		return 0, true
	}
	switch e.anchor {
	case AnchorPrefix:
		return 0, pl <= tl && runesEqual(text[:pl], e.pattern)
	case AnchorSuffix:
		return tl - pl, pl <= tl && runesEqual(text[tl-pl:], e.pattern)
	case AnchorExact:
		return 0, pl == tl && runesEqual(text, e.pattern)
	default:
		for i := 0; i+pl <= tl; i++ {
			if runesEqual(text[i:i+pl], e.pattern) {
				return i, true
			}
		}
		return 0, false
	}
}

func runesEqual(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func (e *Exact) String() string {
	switch e.anchor {
	case AnchorPrefix:
		return fmt.Sprintf("(Prefix: %s)", e.display)
	case AnchorSuffix:
		return fmt.Sprintf("(Suffix: %s)", e.display)
	case AnchorExact:
		return fmt.Sprintf("(Equal: %s)", e.display)
	default:
		return fmt.Sprintf("(Exact: %s)", e.display)
	}
}

package engine

import (
	"fmt"

	"github.com/kk-code-lab/sift/internal/fuzzy"
	"github.com/kk-code-lab/sift/internal/item"
)

// Fuzzy scores the pattern against the display text with the configured
// algorithm.
type Fuzzy struct {
	pattern       []rune
	display       string
	caseSensitive bool
	matcher       *fuzzy.Matcher
	rank          *item.RankBuilder
}

// NewFuzzy builds a fuzzy leaf engine. pattern is the raw term text; case
// folding is applied here according to caseSensitive.
func NewFuzzy(pattern string, caseSensitive bool, matcher *fuzzy.Matcher, rank *item.RankBuilder) *Fuzzy {
	pr := []rune(pattern)
	if !caseSensitive {
		pr = fuzzy.FoldRunes(pr)
	}
	return &Fuzzy{
		pattern:       pr,
		display:       pattern,
		caseSensitive: caseSensitive,
		matcher:       matcher,
		rank:          rank,
	}
}

func (e *Fuzzy) MatchItem(it *item.Item) (MatchResult, bool) {
	text := []rune(it.Display())
	if !e.caseSensitive {
		text = fuzzy.FoldRunes(text)
	}
	score, positions, ok := e.matcher.MatchPositions(text, e.pattern)
	if !ok {
		return MatchResult{}, false
	}
	positions = maskPositions(it, positions)
	if len(positions) == 0 && len(e.pattern) > 0 {
		return MatchResult{}, false
	}
	begin, end := positionExtent(positions)
	return MatchResult{
		Rank:      e.rank.Build(score, begin, end, it.DisplayLen(), it.Index()),
		Positions: positions,
	}, true
}

func (e *Fuzzy) String() string {
	return fmt.Sprintf("(Fuzzy: %s)", e.display)
}

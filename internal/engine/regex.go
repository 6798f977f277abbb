package engine

import (
	"fmt"
	"regexp"

	"github.com/kk-code-lab/sift/internal/item"
)

// Regex matches the whole query as a regular expression. A pattern that
// fails to compile matches nothing; the failure is not fatal.
type Regex struct {
	pattern string
	re      *regexp.Regexp
	rank    *item.RankBuilder
}

// NewRegex compiles the pattern once per query. caseSensitive=false prepends
// the (?i) flag.
func NewRegex(pattern string, caseSensitive bool, rank *item.RankBuilder) *Regex {
	expr := pattern
	if !caseSensitive {
		expr = "(?i)" + expr
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		re = nil
	}
	return &Regex{pattern: pattern, re: re, rank: rank}
}

// Valid reports whether the pattern compiled.
func (e *Regex) Valid() bool { return e.re != nil }

func (e *Regex) MatchItem(it *item.Item) (MatchResult, bool) {
	if e.re == nil {
		return MatchResult{}, false
	}
	text := it.Display()
	loc := e.re.FindStringIndex(text)
	if loc == nil {
		return MatchResult{}, false
	}

	// First full match, reported as a contiguous rune range.
	begin := len([]rune(text[:loc[0]]))
	end := begin + len([]rune(text[loc[0]:loc[1]]))
	positions := make([]int, 0, end-begin)
	for p := begin; p < end; p++ {
		positions = append(positions, p)
	}
	positions = maskPositions(it, positions)
	if len(positions) == 0 && end > begin {
		return MatchResult{}, false
	}

	begin, end = positionExtent(positions)
	return MatchResult{
		Rank:      e.rank.Build(0, begin, end, it.DisplayLen(), it.Index()),
		Positions: positions,
	}, true
}

func (e *Regex) String() string {
	return fmt.Sprintf("(Regex: %s)", e.pattern)
}

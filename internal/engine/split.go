package engine

import (
	"fmt"

	"github.com/kk-code-lab/sift/internal/item"
)

// Split matches the two halves of the query against the two halves of the
// item, cut at the first occurrence of the delimiter. An item without the
// delimiter never matches a delimited query.
type Split struct {
	Delimiter rune
	Left      Engine
	Right     Engine
}

func (e *Split) MatchItem(it *item.Item) (MatchResult, bool) {
	text := []rune(it.Display())
	delim := -1
	for i, r := range text {
		if r == e.Delimiter {
			delim = i
			break
		}
	}
	if delim < 0 {
		return MatchResult{}, false
	}

	left, ok := e.Left.MatchItem(item.Plain(string(text[:delim])))
	if !ok {
		return MatchResult{}, false
	}
	right, ok := e.Right.MatchItem(item.Plain(string(text[delim+1:])))
	if !ok {
		return MatchResult{}, false
	}

	// Offset the right half's positions past the delimiter and merge.
	positions := append([]int(nil), left.Positions...)
	for _, p := range right.Positions {
		positions = append(positions, p+delim+1)
	}
	return MatchResult{
		Rank:      left.Rank,
		Positions: sortedUnique(positions),
	}, true
}

func (e *Split) String() string {
	return fmt.Sprintf("(Split[%c]: %s | %s)", e.Delimiter, e.Left, e.Right)
}

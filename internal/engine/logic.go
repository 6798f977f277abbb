package engine

import (
	"strings"

	"github.com/kk-code-lab/sift/internal/item"
)

// And matches when every child matches. Positions are the union of the
// children's positions; the rank is inherited from the first child for a
// stable tiebreak.
type And struct {
	Children []Engine
}

func (e *And) MatchItem(it *item.Item) (MatchResult, bool) {
	var positions []int
	var rank item.Rank
	for i, child := range e.Children {
		res, ok := child.MatchItem(it)
		if !ok {
			return MatchResult{}, false
		}
		if i == 0 {
			rank = res.Rank
		}
		positions = append(positions, res.Positions...)
	}
	return MatchResult{Rank: rank, Positions: sortedUnique(positions)}, true
}

func (e *And) String() string {
	parts := make([]string, len(e.Children))
	for i, c := range e.Children {
		parts[i] = c.String()
	}
	return "(And: " + strings.Join(parts, " ") + ")"
}

// Or matches when any child matches; the first matching child supplies rank
// and positions.
type Or struct {
	Children []Engine
}

func (e *Or) MatchItem(it *item.Item) (MatchResult, bool) {
	for _, child := range e.Children {
		if res, ok := child.MatchItem(it); ok {
			return res, true
		}
	}
	return MatchResult{}, false
}

func (e *Or) String() string {
	parts := make([]string, len(e.Children))
	for i, c := range e.Children {
		parts[i] = c.String()
	}
	return "(Or: " + strings.Join(parts, " ") + ")"
}

// Not matches exactly when the inner engine does not. It contributes no
// positions and a neutral rank.
type Not struct {
	Inner Engine
}

func (e *Not) MatchItem(it *item.Item) (MatchResult, bool) {
	if _, ok := e.Inner.MatchItem(it); ok {
		return MatchResult{}, false
	}
	return MatchResult{}, true
}

func (e *Not) String() string {
	return "(Not: " + e.Inner.String() + ")"
}

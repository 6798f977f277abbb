// Package engine composes a query string into a tree of match predicates.
// Parsing builds the tree once per query; matching is a pure traversal,
// safe to run from many matcher workers at once.
package engine

import (
	"sort"

	"github.com/kk-code-lab/sift/internal/item"
)

// MatchResult carries the rank and the sorted rune positions of a match on
// the item's display text.
type MatchResult struct {
	Rank      item.Rank
	Positions []int
}

// Engine decides whether an item matches and how well.
type Engine interface {
	MatchItem(it *item.Item) (MatchResult, bool)
	String() string
}

// positionExtent returns begin = min position and end = max position + 1.
func positionExtent(positions []int) (int, int) {
	if len(positions) == 0 {
		return 0, 0
	}
	begin, end := positions[0], positions[0]
	for _, p := range positions[1:] {
		if p < begin {
			begin = p
		}
		if p > end {
			end = p
		}
	}
	return begin, end + 1
}

// maskPositions drops positions outside the item's matching-range mask.
// Scoring has already used the whole text; only in-mask positions count.
func maskPositions(it *item.Item, positions []int) []int {
	if len(it.Mask()) == 0 {
		return positions
	}
	kept := positions[:0:0]
	for _, p := range positions {
		if it.InMask(p) {
			kept = append(kept, p)
		}
	}
	return kept
}

func sortedUnique(positions []int) []int {
	if len(positions) < 2 {
		return positions
	}
	sort.Ints(positions)
	out := positions[:1]
	for _, p := range positions[1:] {
		if p != out[len(out)-1] {
			out = append(out, p)
		}
	}
	return out
}

// MatchAll accepts every item; its rank carries tiebreak fields only.
// It backs the empty query.
type MatchAll struct {
	Rank *item.RankBuilder
}

func (e *MatchAll) MatchItem(it *item.Item) (MatchResult, bool) {
	return MatchResult{
		Rank: e.Rank.Build(0, 0, 0, it.DisplayLen(), it.Index()),
	}, true
}

func (e *MatchAll) String() string { return "(All)" }

// MatchNone rejects every item. It backs queries shorter than
// --min-query-length.
type MatchNone struct{}

func (MatchNone) MatchItem(it *item.Item) (MatchResult, bool) {
	return MatchResult{}, false
}

func (MatchNone) String() string { return "(None)" }

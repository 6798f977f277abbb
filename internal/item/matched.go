package item

import "sort"

// MatchedItem pairs an item with its rank and the rune positions of the
// match on the display text. It lives only in transient result buffers.
type MatchedItem struct {
	Item      *Item
	Rank      Rank
	Positions []int
}

// Order fixes how exact rank ties are broken so the final list is
// deterministic. Under tac the display follows pool order, which is
// descending insertion index.
type Order struct {
	Tac bool
}

// Compare orders by rank, breaking exact ties by insertion index.
func (o Order) Compare(a, b MatchedItem) int {
	if c := a.Rank.Compare(b.Rank); c != 0 {
		return c
	}
	ai, bi := a.Item.Index(), b.Item.Index()
	if o.Tac {
		ai, bi = bi, ai
	}
	switch {
	case ai < bi:
		return -1
	case ai > bi:
		return 1
	default:
		return 0
	}
}

// Sort sorts in place, best first.
func (o Order) Sort(items []MatchedItem) {
	sort.Slice(items, func(i, j int) bool {
		return o.Compare(items[i], items[j]) < 0
	})
}

// Merge merges two sorted runs into one sorted slice.
func (o Order) Merge(a, b []MatchedItem) []MatchedItem {
	if len(a) == 0 {
		return b
	}
	if len(b) == 0 {
		return a
	}
	out := make([]MatchedItem, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if o.Compare(a[i], b[j]) <= 0 {
			out = append(out, a[i])
			i++
		} else {
			out = append(out, b[j])
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}

// CompareMatched, SortMatched and MergeMatched use input order for ties.
func CompareMatched(a, b MatchedItem) int { return Order{}.Compare(a, b) }

func SortMatched(items []MatchedItem) { Order{}.Sort(items) }

func MergeMatched(a, b []MatchedItem) []MatchedItem { return Order{}.Merge(a, b) }

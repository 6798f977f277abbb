// Package selection tracks the cursor, the multi-select marks, and the
// viewport over the current matched list. The viewport offset is derived
// state: it is recomputed to keep the cursor visible rather than stored as
// authoritative.
package selection

import (
	"sort"

	"github.com/kk-code-lab/sift/internal/item"
)

// Selection is mutated only by the event-loop goroutine.
type Selection struct {
	cursor int
	offset int
	height int
	multi  bool
	cycle  bool

	// marked maps item index to the order it was marked in.
	marked  map[int]int
	markSeq int
	byIndex map[int]*item.Item
}

// New creates a selection over an empty list.
func New(multi, cycle bool) *Selection {
	return &Selection{
		multi:   multi,
		cycle:   cycle,
		height:  1,
		marked:  make(map[int]int),
		byIndex: make(map[int]*item.Item),
	}
}

// SetHeight sets the viewport height in rows.
func (s *Selection) SetHeight(h int) {
	if h < 1 {
		h = 1
	}
	s.height = h
}

// Multi reports whether multi-select is enabled.
func (s *Selection) Multi() bool { return s.multi }

// Cursor returns the cursor position in the matched list.
func (s *Selection) Cursor() int { return s.cursor }

// Offset returns the viewport offset after the last Clamp.
func (s *Selection) Offset() int { return s.offset }

// Clamp restores the invariants against a matched list of length total:
// cursor in [0, total) and offset <= cursor < offset+height.
func (s *Selection) Clamp(total int) {
	if total == 0 {
		s.cursor = 0
		s.offset = 0
		return
	}
	if s.cursor >= total {
		s.cursor = total - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
	if s.cursor < s.offset {
		s.offset = s.cursor
	}
	if s.cursor >= s.offset+s.height {
		s.offset = s.cursor - s.height + 1
	}
	if s.offset < 0 {
		s.offset = 0
	}
}

// Move steps the cursor by delta rows, wrapping when cycle is set.
func (s *Selection) Move(delta, total int) {
	if total == 0 {
		return
	}
	next := s.cursor + delta
	if s.cycle {
		next %= total
		if next < 0 {
			next += total
		}
	} else {
		if next < 0 {
			next = 0
		}
		if next >= total {
			next = total - 1
		}
	}
	s.cursor = next
	s.Clamp(total)
}

// Page moves by a full viewport; HalfPage by height/2+1 rows.
func (s *Selection) Page(dir, total int)     { s.Move(dir*s.height, total) }
func (s *Selection) HalfPage(dir, total int) { s.Move(dir*(s.height/2+1), total) }

// First and Last jump to the list edges.
func (s *Selection) First(total int) { s.cursor = 0; s.Clamp(total) }
func (s *Selection) Last(total int) {
	if total > 0 {
		s.cursor = total - 1
	}
	s.Clamp(total)
}

// SelectRow places the cursor on an absolute row.
func (s *Selection) SelectRow(row, total int) {
	s.cursor = row
	s.Clamp(total)
}

// Toggle flips the mark on the given item. No-op outside multi mode.
func (s *Selection) Toggle(it *item.Item) {
	if !s.multi || it == nil {
		return
	}
	idx := it.Index()
	if _, ok := s.marked[idx]; ok {
		delete(s.marked, idx)
		delete(s.byIndex, idx)
		return
	}
	s.markSeq++
	s.marked[idx] = s.markSeq
	s.byIndex[idx] = it
}

// ToggleAll flips every item of the current matched list, in list order.
func (s *Selection) ToggleAll(list []*item.Item) {
	if !s.multi {
		return
	}
	for _, it := range list {
		s.Toggle(it)
	}
}

// SelectAll marks every item of the list that is not yet marked.
func (s *Selection) SelectAll(list []*item.Item) {
	if !s.multi {
		return
	}
	for _, it := range list {
		if _, ok := s.marked[it.Index()]; !ok {
			s.Toggle(it)
		}
	}
}

// DeselectAll clears every mark.
func (s *Selection) DeselectAll() {
	s.marked = make(map[int]int)
	s.byIndex = make(map[int]*item.Item)
}

// IsMarked reports whether the item index carries a mark.
func (s *Selection) IsMarked(index int) bool {
	_, ok := s.marked[index]
	return ok
}

// NumMarked returns the number of marked items.
func (s *Selection) NumMarked() int { return len(s.marked) }

// Marked returns the marked items, most recently marked first.
func (s *Selection) Marked() []*item.Item {
	type entry struct {
		seq int
		it  *item.Item
	}
	entries := make([]entry, 0, len(s.marked))
	for idx, seq := range s.marked {
		entries = append(entries, entry{seq: seq, it: s.byIndex[idx]})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq > entries[j].seq })
	out := make([]*item.Item, len(entries))
	for i, e := range entries {
		out[i] = e.it
	}
	return out
}

package query

import (
	"os"
	"strings"
)

// History is an append-only sequence of committed queries, optionally
// persisted to a line-delimited UTF-8 file. In-memory order matches file
// order.
type History struct {
	path    string
	maxSize int
	entries []string
	// cursor: len(entries) means "editing a fresh query".
	cursor  int
	pending string
}

// NewHistory loads the file at path when it exists. maxSize bounds the
// persisted sequence; zero or negative means a default of 1000.
func NewHistory(path string, maxSize int) (*History, error) {
	if maxSize <= 0 {
		maxSize = 1000
	}
	h := &History{path: path, maxSize: maxSize}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, err
		}
		for _, line := range strings.Split(string(data), "\n") {
			if line != "" {
				h.entries = append(h.entries, line)
			}
		}
	}
	h.cursor = len(h.entries)
	return h, nil
}

// Append records a committed query. Empty and immediately-repeated queries
// are not recorded.
func (h *History) Append(entry string) {
	if entry == "" {
		return
	}
	if n := len(h.entries); n > 0 && h.entries[n-1] == entry {
		h.cursor = len(h.entries)
		return
	}
	h.entries = append(h.entries, entry)
	if len(h.entries) > h.maxSize {
		h.entries = h.entries[len(h.entries)-h.maxSize:]
	}
	h.cursor = len(h.entries)
}

// Previous recalls the previous entry, remembering the in-progress query so
// Next can restore it. Recall wraps at the oldest entry.
func (h *History) Previous(current string) (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	if h.cursor == len(h.entries) {
		h.pending = current
	}
	if h.cursor == 0 {
		h.cursor = len(h.entries) - 1
	} else {
		h.cursor--
	}
	return h.entries[h.cursor], true
}

// Next recalls the next entry, returning the pending query past the newest.
func (h *History) Next() (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	if h.cursor >= len(h.entries) {
		h.cursor = 0
		return h.entries[0], true
	}
	h.cursor++
	if h.cursor == len(h.entries) {
		return h.pending, true
	}
	return h.entries[h.cursor], true
}

// Save writes the sequence back to its path, truncated to maxSize.
func (h *History) Save() error {
	if h.path == "" {
		return nil
	}
	entries := h.entries
	if len(entries) > h.maxSize {
		entries = entries[len(entries)-h.maxSize:]
	}
	var b strings.Builder
	for _, e := range entries {
		b.WriteString(e)
		b.WriteByte('\n')
	}
	return os.WriteFile(h.path, []byte(b.String()), 0o600)
}

// Entries exposes the in-memory sequence, oldest first.
func (h *History) Entries() []string {
	return append([]string(nil), h.entries...)
}

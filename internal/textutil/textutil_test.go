package textutil

import "testing"

func TestSanitizeLeavesSafeInput(t *testing.T) {
	input := "safe candidate.txt"
	if got := Sanitize(input); got != input {
		t.Errorf("Sanitize(%q) = %q", input, got)
	}
}

func TestSanitizeReplacesEscapes(t *testing.T) {
	got := Sanitize("bad\x1b[31m\npath")
	if got != "bad?[31m path" {
		t.Errorf("Sanitize = %q", got)
	}
}

func TestExpandTabs(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"a\tb", "a       b"},
		{"\tx", "        x"},
		{"plain", "plain"},
	}
	for _, tt := range tests {
		if got := ExpandTabs(tt.in, 8); got != tt.want {
			t.Errorf("ExpandTabs(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExpandTabsCountsGraphemesOnce(t *testing.T) {
	// A decomposed é is two runes but one column; the tab stop must not
	// drift.
	got := ExpandTabs("e\u0301\tb", 8)
	want := "e\u0301       b"
	if got != want {
		t.Errorf("ExpandTabs = %q, want %q", got, want)
	}
}

func TestDisplayWidth(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"abc", 3},
		{"日本", 4},
		{"café", 4},
		{"", 0},
	}
	for _, tt := range tests {
		if got := DisplayWidth(tt.in); got != tt.want {
			t.Errorf("DisplayWidth(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("abcdef", 4); got != "abc…" {
		t.Errorf("Truncate = %q", got)
	}
	if got := Truncate("ab", 4); got != "ab" {
		t.Errorf("Truncate must not clip short text, got %q", got)
	}
	if got := Truncate("日本語", 4); got != "日…" {
		t.Errorf("wide truncate = %q", got)
	}
}

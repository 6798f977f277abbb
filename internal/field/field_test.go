package field

import (
	"regexp"
	"testing"
)

func TestParseRanges(t *testing.T) {
	ranges, err := ParseRanges("1,3..-2,..4,2..")
	if err != nil {
		t.Fatal(err)
	}
	want := []Range{{1, 1}, {3, -2}, {0, 4}, {2, 0}}
	if len(ranges) != len(want) {
		t.Fatalf("ranges = %v", ranges)
	}
	for i := range want {
		if ranges[i] != want[i] {
			t.Errorf("ranges[%d] = %v, want %v", i, ranges[i], want[i])
		}
	}

	for _, bad := range []string{"0", "a", "1..b", ","} {
		if _, err := ParseRanges(bad); err == nil {
			t.Errorf("ParseRanges(%q): expected error", bad)
		}
	}

	if ranges, _ := ParseRanges("  "); ranges != nil {
		t.Error("blank spec must parse to no ranges")
	}
}

func TestTokenizeKeepsDelimiters(t *testing.T) {
	tokens := Tokenize("aa  bb cc", nil)
	if len(tokens) != 3 {
		t.Fatalf("tokens = %+v", tokens)
	}
	if tokens[0].Text != "aa  " || tokens[0].Start != 0 {
		t.Errorf("token 0 = %+v", tokens[0])
	}
	if tokens[1].Text != "bb " || tokens[1].Start != 4 {
		t.Errorf("token 1 = %+v", tokens[1])
	}
	if tokens[2].Text != "cc" || tokens[2].Start != 7 {
		t.Errorf("token 2 = %+v", tokens[2])
	}
}

func TestTokenizeCustomDelimiter(t *testing.T) {
	tokens := Tokenize("a:b:c", regexp.MustCompile(":"))
	if len(tokens) != 3 || tokens[1].Text != "b:" || tokens[1].Start != 2 {
		t.Errorf("tokens = %+v", tokens)
	}
}

func TestSelectAndJoin(t *testing.T) {
	tokens := Tokenize("one two three", nil)

	ranges, _ := ParseRanges("2..")
	if got := JoinTokens(Select(tokens, ranges)); got != "two three" {
		t.Errorf("2.. = %q", got)
	}

	ranges, _ = ParseRanges("-1")
	if got := JoinTokens(Select(tokens, ranges)); got != "three" {
		t.Errorf("-1 = %q", got)
	}

	ranges, _ = ParseRanges("3,1")
	if got := JoinTokens(Select(tokens, ranges)); got != "threeone" {
		t.Errorf("3,1 = %q", got)
	}
}

func TestField(t *testing.T) {
	if got := Field("alpha beta gamma", 2, nil); got != "beta" {
		t.Errorf("Field 2 = %q", got)
	}
	if got := Field("alpha", 5, nil); got != "" {
		t.Errorf("missing field = %q", got)
	}
}

package engine

import (
	"sort"
	"strings"
	"testing"

	"github.com/kk-code-lab/sift/internal/fuzzy"
	"github.com/kk-code-lab/sift/internal/item"
)

func newFactory(opts Options) *Factory {
	return NewFactory(opts)
}

func plain(text string, index int) *item.Item {
	return item.New(text, text, index, nil, nil)
}

func TestEmptyQueryMatchesAll(t *testing.T) {
	f := newFactory(Options{})
	eng := f.Build("")
	for _, text := range []string{"a", "b", ""} {
		res, ok := eng.MatchItem(plain(text, 0))
		if !ok {
			t.Fatalf("empty query must match %q", text)
		}
		if len(res.Positions) != 0 {
			t.Errorf("empty query must yield no positions, got %v", res.Positions)
		}
	}
}

func TestFuzzyTermMatching(t *testing.T) {
	f := newFactory(Options{})
	eng := f.Build("abc")

	if _, ok := eng.MatchItem(plain("axbycz", 0)); !ok {
		t.Error("fuzzy term should match scattered characters")
	}
	if _, ok := eng.MatchItem(plain("acb", 0)); ok {
		t.Error("fuzzy term must respect character order")
	}
}

func TestSmartCase(t *testing.T) {
	f := newFactory(Options{Case: fuzzy.CaseSmart})

	if _, ok := f.Build("abc").MatchItem(plain("aBcDeF", 0)); !ok {
		t.Error("lowercase query must match case-insensitively")
	}
	if _, ok := f.Build("Abc").MatchItem(plain("aBcDeF", 0)); ok {
		t.Error("uppercase in query must force case-sensitive matching")
	}
}

func TestExactAnchors(t *testing.T) {
	f := newFactory(Options{})
	tests := []struct {
		query string
		text  string
		want  bool
	}{
		{"'bc", "abcd", true},
		{"'bc", "bdc", false},
		{"^ab", "abcd", true},
		{"^bc", "abcd", false},
		{"cd$", "abcd", true},
		{"bc$", "abcd", false},
		{"^abcd$", "abcd", true},
		{"^abc$", "abcd", false},
	}
	for _, tt := range tests {
		_, ok := f.Build(tt.query).MatchItem(plain(tt.text, 0))
		if ok != tt.want {
			t.Errorf("query %q on %q = %v, want %v", tt.query, tt.text, ok, tt.want)
		}
	}
}

func TestExactModeDefault(t *testing.T) {
	f := newFactory(Options{Exact: true})
	if _, ok := f.Build("bd").MatchItem(plain("abcd", 0)); ok {
		t.Error("--exact must disable fuzzy matching for bare terms")
	}
	if _, ok := f.Build("bc").MatchItem(plain("abcd", 0)); !ok {
		t.Error("--exact substring should match")
	}
	// Quote flips back to fuzzy under --exact.
	if _, ok := f.Build("'bd").MatchItem(plain("abcd", 0)); !ok {
		t.Error("quoted term under --exact should fuzzy-match")
	}
}

func TestNotTerm(t *testing.T) {
	f := newFactory(Options{})
	eng := f.Build("!br")

	res, ok := eng.MatchItem(plain("apple", 0))
	if !ok {
		t.Fatal("!br should match apple")
	}
	if len(res.Positions) != 0 {
		t.Errorf("Not match must carry no positions, got %v", res.Positions)
	}
	if _, ok := eng.MatchItem(plain("bar", 0)); ok {
		t.Error("!br must reject bar")
	}
}

func TestAndCombinesTerms(t *testing.T) {
	f := newFactory(Options{})
	eng := f.Build("foo bar")

	res, ok := eng.MatchItem(plain("foo bar", 0))
	if !ok {
		t.Fatal("both terms present, should match")
	}
	checkPositionInvariant(t, res.Positions, len("foo bar"))
	if _, ok := eng.MatchItem(plain("foo baz", 0)); ok {
		t.Error("AND must reject item missing one term")
	}
}

func TestOrAlternatives(t *testing.T) {
	f := newFactory(Options{})
	for _, query := range []string{"foo|bar", "foo | bar"} {
		eng := f.Build(query)
		if _, ok := eng.MatchItem(plain("a bar", 0)); !ok {
			t.Errorf("query %q should match via second alternative", query)
		}
		if _, ok := eng.MatchItem(plain("baz", 0)); ok {
			t.Errorf("query %q must reject non-matching item", query)
		}
	}
}

func TestEscapedSpaceIsLiteral(t *testing.T) {
	f := newFactory(Options{})
	eng := f.Build(`foo\ bar`)
	if _, ok := eng.MatchItem(plain("xfoo barx", 0)); !ok {
		t.Error("escaped space must be part of the term")
	}
	if _, ok := eng.MatchItem(plain("foo", 0)); ok {
		t.Error("escaped-space term must not split into two terms")
	}
}

func TestRegexEngine(t *testing.T) {
	f := newFactory(Options{Regex: true})
	eng := f.Build(`^a.c`)

	res, ok := eng.MatchItem(plain("abcd", 0))
	if !ok {
		t.Fatal("regex should match")
	}
	if got := res.Positions; len(got) != 3 || got[0] != 0 || got[2] != 2 {
		t.Errorf("regex positions = %v, want [0 1 2]", got)
	}

	// A pattern that fails to compile matches nothing, not fatally.
	bad := f.Build(`a(`)
	if _, ok := bad.MatchItem(plain("a(", 0)); ok {
		t.Error("invalid regex must match nothing")
	}
}

func TestNormalizedMatching(t *testing.T) {
	f := newFactory(Options{Normalize: true})
	eng := f.Build("cafe")

	for _, text := range []string{"café", "cafe"} {
		res, ok := eng.MatchItem(plain(text, 0))
		if !ok {
			t.Fatalf("normalized query should match %q", text)
		}
		checkPositionInvariant(t, res.Positions, len([]rune(text)))
		if len(res.Positions) != 4 {
			t.Errorf("%q: got %d positions, want 4", text, len(res.Positions))
		}
	}
}

func TestNormalizedPositionsMapBack(t *testing.T) {
	// é decomposes to e + combining acute; positions must map to the
	// original runes, never to a combining mark.
	normalized, mapping := NormalizeWithMapping("café")
	if normalized != "cafe" {
		t.Fatalf("NormalizeWithMapping = %q, want cafe", normalized)
	}
	if len(mapping) != 4 || mapping[3] != 3 {
		t.Fatalf("mapping = %v", mapping)
	}
}

func TestSplitMatch(t *testing.T) {
	f := newFactory(Options{SplitDelimiter: ':'})

	// Query with delimiter: halves match the item halves.
	eng := f.Build("foo:bar")
	res, ok := eng.MatchItem(plain("foo.go:barbaz", 0))
	if !ok {
		t.Fatal("split query should match delimited item")
	}
	checkPositionInvariant(t, res.Positions, len("foo.go:barbaz"))
	for _, p := range res.Positions {
		if p == len("foo.go") {
			t.Error("delimiter itself must not be a matched position")
		}
	}

	// Item without the delimiter never matches a delimited query.
	if _, ok := eng.MatchItem(plain("foobar", 0)); ok {
		t.Error("item without delimiter must not match a delimited query")
	}

	// Query without the delimiter matches the whole item via the inner engine.
	whole := f.Build("foobar")
	if _, ok := whole.MatchItem(plain("xfooxbarx", 0)); !ok {
		t.Error("undelimited query should match whole item")
	}
}

func TestMaskRestrictsPositions(t *testing.T) {
	f := newFactory(Options{})
	// Only the second field is matchable.
	masked := item.New("alpha beta", "alpha beta", 0, []item.CharRange{{Start: 6, End: 10}}, nil)

	eng := f.Build("beta")
	res, ok := eng.MatchItem(masked)
	if !ok {
		t.Fatal("match inside mask should succeed")
	}
	for _, p := range res.Positions {
		if p < 6 || p >= 10 {
			t.Errorf("position %d escapes the mask", p)
		}
	}

	if _, ok := f.Build("alpha").MatchItem(masked); ok {
		t.Error("match entirely outside the mask must fail")
	}
}

// checkPositionInvariant asserts the match position guarantees: sorted,
// unique, within the display text length.
func checkPositionInvariant(t *testing.T, positions []int, length int) {
	t.Helper()
	if !sort.IntsAreSorted(positions) {
		t.Fatalf("positions not sorted: %v", positions)
	}
	seen := map[int]bool{}
	for _, p := range positions {
		if p < 0 || p >= length {
			t.Fatalf("position %d out of bounds (len %d)", p, length)
		}
		if seen[p] {
			t.Fatalf("duplicate position %d in %v", p, positions)
		}
		seen[p] = true
	}
}

func TestEngineTreeString(t *testing.T) {
	f := newFactory(Options{})
	eng := f.Build("foo !bar baz|qux")
	s := eng.String()
	for _, want := range []string{"And", "Not", "Or"} {
		if !strings.Contains(s, want) {
			t.Errorf("engine tree %q missing %s node", s, want)
		}
	}
}

package engine

import (
	"strings"

	"github.com/kk-code-lab/sift/internal/fuzzy"
	"github.com/kk-code-lab/sift/internal/item"
)

// Options configure how query strings become engine trees.
type Options struct {
	Case      fuzzy.Case
	Algo      fuzzy.Algo
	Regex     bool // whole query is one regular expression
	Exact     bool // default term type is exact instead of fuzzy
	Normalize bool // match diacritic-stripped text
	// SplitDelimiter splits query and item at this rune; 0 disables.
	SplitDelimiter rune
	Rank           *item.RankBuilder
}

// Factory turns query strings into engine trees per the configured options.
type Factory struct {
	opts    Options
	matcher *fuzzy.Matcher
}

// NewFactory builds a factory; the fuzzy matcher is shared by every engine
// it creates.
func NewFactory(opts Options) *Factory {
	if opts.Rank == nil {
		opts.Rank = item.DefaultRankBuilder()
	}
	return &Factory{opts: opts, matcher: fuzzy.NewMatcher(opts.Algo)}
}

// Rank exposes the rank builder shared with the engines.
func (f *Factory) Rank() *item.RankBuilder { return f.opts.Rank }

// Build parses query into an engine tree. The empty query yields an engine
// matching every item with rank derived from tiebreak fields only.
func (f *Factory) Build(query string) Engine {
	if d := f.opts.SplitDelimiter; d != 0 {
		if idx := strings.IndexRune(query, d); idx >= 0 {
			left := f.buildCore(query[:idx])
			right := f.buildCore(query[idx+len(string(d)):])
			return &Split{Delimiter: d, Left: left, Right: right}
		}
	}
	return f.buildCore(query)
}

func (f *Factory) buildCore(query string) Engine {
	if strings.TrimSpace(query) == "" {
		return &MatchAll{Rank: f.opts.Rank}
	}
	if f.opts.Regex {
		return NewRegex(query, f.opts.Case.Sensitive(query), f.opts.Rank)
	}

	var terms []Engine
	for _, set := range splitTermSets(query) {
		var alts []Engine
		for _, alt := range set {
			if eng := f.buildTerm(alt); eng != nil {
				alts = append(alts, eng)
			}
		}
		switch len(alts) {
		case 0:
		case 1:
			terms = append(terms, alts[0])
		default:
			terms = append(terms, &Or{Children: alts})
		}
	}

	switch len(terms) {
	case 0:
		return &MatchAll{Rank: f.opts.Rank}
	case 1:
		return terms[0]
	default:
		return &And{Children: terms}
	}
}

// buildTerm resolves one term's prefixes and suffix into a leaf engine.
// Grammar: !term inverts; 'term toggles exact matching (exact by default,
// fuzzy under --exact); ^term anchors to the prefix; term$ anchors to the
// suffix; ^term$ requires whole-string equality.
func (f *Factory) buildTerm(text string) Engine {
	inverse := false
	if strings.HasPrefix(text, "!") {
		inverse = true
		text = text[1:]
	}

	typ := AnchorNone
	isExact := f.opts.Exact
	if text != "$" && strings.HasSuffix(text, "$") {
		isExact = true
		typ = AnchorSuffix
		text = text[:len(text)-1]
	}
	switch {
	case strings.HasPrefix(text, "'"):
		if typ == AnchorNone {
			isExact = !isExact
		}
		text = text[1:]
	case strings.HasPrefix(text, "^"):
		if typ == AnchorSuffix {
			typ = AnchorExact
		} else {
			typ = AnchorPrefix
		}
		isExact = true
		text = text[1:]
	}
	if text == "" {
		return nil
	}

	caseSensitive := f.opts.Case.Sensitive(text)
	if f.opts.Normalize {
		text = NormalizeQuery(text)
	}

	var leaf Engine
	if isExact {
		leaf = NewExact(text, caseSensitive, typ, f.opts.Rank)
	} else {
		leaf = NewFuzzy(text, caseSensitive, f.matcher, f.opts.Rank)
	}
	if f.opts.Normalize {
		leaf = &Normalized{Inner: leaf}
	}
	if inverse {
		leaf = &Not{Inner: leaf}
	}
	return leaf
}

// splitTermSets tokenizes the query into AND-ed term sets of OR-ed
// alternatives. Backslash-escaped and quoted spaces are literal; a
// standalone | or an embedded unescaped | separates alternatives.
func splitTermSets(query string) [][]string {
	tokens := tokenizeQuery(query)

	var sets [][]string
	var current []string
	afterBar := false
	for _, tok := range tokens {
		if tok == "|" && len(current) > 0 && !afterBar {
			afterBar = true
			continue
		}
		if !afterBar && len(current) > 0 {
			sets = append(sets, current)
			current = nil
		}
		afterBar = false
		for _, alt := range splitAlternatives(tok) {
			if alt != "" {
				current = append(current, alt)
			}
		}
	}
	if len(current) > 0 {
		sets = append(sets, current)
	}
	return sets
}

// tokenizeQuery splits on whitespace, honoring backslash escapes and double
// quotes.
func tokenizeQuery(query string) []string {
	var tokens []string
	var b strings.Builder
	inQuote := false
	escaped := false
	flush := func() {
		if b.Len() > 0 {
			tokens = append(tokens, b.String())
			b.Reset()
		}
	}
	for _, r := range query {
		switch {
		case escaped:
			if r == '|' {
				// Keep escaped pipes out of alternative splitting.
				b.WriteRune(escapedPipe)
			} else {
				b.WriteRune(r)
			}
			escaped = false
		case r == '\\':
			escaped = true
		case r == '"':
			inQuote = !inQuote
		case (r == ' ' || r == '\t') && !inQuote:
			flush()
		default:
			b.WriteRune(r)
		}
	}
	if escaped {
		b.WriteRune('\\')
	}
	flush()
	return tokens
}

const escapedPipe = '\x00'

// splitAlternatives cuts a token at unescaped pipes.
func splitAlternatives(tok string) []string {
	var alts []string
	if strings.ContainsRune(tok, '|') {
		alts = strings.Split(tok, "|")
	} else {
		alts = []string{tok}
	}
	for i, a := range alts {
		alts[i] = strings.ReplaceAll(a, string(escapedPipe), "|")
	}
	return alts
}

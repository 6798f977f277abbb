package item

import (
	"fmt"
	"strings"
)

// Rank orders matched items; smaller compares first. Position 0 carries the
// (negated) score unless the tiebreak list names other criteria before it,
// so the best match sorts to the top under the default criteria.
type Rank [5]int32

// Compare returns -1, 0 or 1 ordering r against other.
func (r Rank) Compare(other Rank) int {
	for i := range r {
		if r[i] < other[i] {
			return -1
		}
		if r[i] > other[i] {
			return 1
		}
	}
	return 0
}

// Criterion is one tiebreak key for ordering matches.
type Criterion int

const (
	ByScore Criterion = iota
	ByNegScore
	ByBegin
	ByNegBegin
	ByEnd
	ByNegEnd
	ByLength
	ByNegLength
	ByIndex
	ByNegIndex
)

var criterionNames = map[string]Criterion{
	"score":   ByScore,
	"-score":  ByNegScore,
	"begin":   ByBegin,
	"-begin":  ByNegBegin,
	"end":     ByEnd,
	"-end":    ByNegEnd,
	"length":  ByLength,
	"-length": ByNegLength,
	"index":   ByIndex,
	"-index":  ByNegIndex,
}

// ParseCriteria parses a --tiebreak list such as "score,begin,-end".
func ParseCriteria(spec string) ([]Criterion, error) {
	if strings.TrimSpace(spec) == "" {
		return nil, nil
	}
	var out []Criterion
	for _, tok := range strings.Split(spec, ",") {
		c, ok := criterionNames[strings.TrimSpace(tok)]
		if !ok {
			return nil, fmt.Errorf("unknown tiebreak criterion %q", tok)
		}
		out = append(out, c)
	}
	return out, nil
}

// RankBuilder derives ranks from match metadata according to the configured
// tiebreak criteria.
type RankBuilder struct {
	criteria []Criterion
}

// NewRankBuilder deduplicates the criteria preserving first occurrence and
// inserts score at position 0 when absent.
func NewRankBuilder(criteria []Criterion) *RankBuilder {
	hasScore := false
	for _, c := range criteria {
		if c == ByScore || c == ByNegScore {
			hasScore = true
			break
		}
	}
	if !hasScore {
		criteria = append([]Criterion{ByScore}, criteria...)
	}
	seen := make(map[Criterion]bool, len(criteria))
	deduped := criteria[:0:0]
	for _, c := range criteria {
		if seen[c] {
			continue
		}
		seen[c] = true
		deduped = append(deduped, c)
	}
	return &RankBuilder{criteria: deduped}
}

// DefaultRankBuilder orders by score, begin, end.
func DefaultRankBuilder() *RankBuilder {
	return NewRankBuilder([]Criterion{ByScore, ByBegin, ByEnd})
}

// Criteria returns the effective criteria list.
func (b *RankBuilder) Criteria() []Criterion { return b.criteria }

// Build converts match metadata into a rank tuple. score follows the
// "greater is better" contract of the matchers; begin/end are rune
// positions on the display text.
func (b *RankBuilder) Build(score, begin, end, length, index int) Rank {
	var rank Rank
	for i, c := range b.criteria {
		if i >= len(rank) {
			break
		}
		var v int32
		switch c {
		case ByScore:
			v = int32(-score)
		case ByNegScore:
			v = int32(score)
		case ByBegin:
			v = int32(begin)
		case ByNegBegin:
			v = int32(-begin)
		case ByEnd:
			v = int32(end)
		case ByNegEnd:
			v = int32(-end)
		case ByLength:
			v = int32(length)
		case ByNegLength:
			v = int32(-length)
		case ByIndex:
			v = int32(index)
		case ByNegIndex:
			v = int32(-index)
		}
		rank[i] = v
	}
	return rank
}

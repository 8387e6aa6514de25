package matching

import (
	"context"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/spigell/profile-matcher/internal/records"
	"github.com/spigell/profile-matcher/internal/searchconfig"
)

// BaseWeights scale the score of each rule type.
type BaseWeights struct {
	Exact    float64 `mapstructure:"exact"`
	Range    float64 `mapstructure:"range"`
	Partial  float64 `mapstructure:"partial"`
	Optional float64 `mapstructure:"optional"`
}

// DefaultBaseWeights are used for every zero field of BaseWeights.
var DefaultBaseWeights = BaseWeights{
	Exact:    1.0,
	Range:    0.8,
	Partial:  0.6,
	Optional: 0.4,
}

// DefaultFuzzyThreshold is the minimum similarity accepted by the fuzzy rule.
const DefaultFuzzyThreshold = 0.7

// Engine is the rule based Scorer.
type Engine struct {
	base           BaseWeights
	fuzzyThreshold float64
}

// NewEngine creates an engine. Zero base weights and a non-positive threshold
// fall back to the defaults.
func NewEngine(base BaseWeights, fuzzyThreshold float64) *Engine {
	if base.Exact <= 0 {
		base.Exact = DefaultBaseWeights.Exact
	}
	if base.Range <= 0 {
		base.Range = DefaultBaseWeights.Range
	}
	if base.Partial <= 0 {
		base.Partial = DefaultBaseWeights.Partial
	}
	if base.Optional <= 0 {
		base.Optional = DefaultBaseWeights.Optional
	}
	if fuzzyThreshold <= 0 || fuzzyThreshold > 1 {
		fuzzyThreshold = DefaultFuzzyThreshold
	}
	return &Engine{base: base, fuzzyThreshold: fuzzyThreshold}
}

// Score compares rec with query. Attributes without a rule are skipped; the
// result is the weighted score over the weighted maximum, as a percentage.
func (e *Engine) Score(_ context.Context, cfg searchconfig.Config, query Query, rec records.Record) (*Score, error) {
	var total, possible float64
	breakdown := make(map[string]float64, len(query))

	for attr, want := range query {
		rule, ok := cfg.Rule(attr)
		if !ok {
			continue
		}

		weight := cfg.Weight(attr)
		got := rec.String(attr)

		var s float64
		switch rule {
		case searchconfig.RuleExact:
			s = e.exact(want, got)
		case searchconfig.RuleRange:
			s = e.inRange(want, got, cfg.Tolerance(attr))
		case searchconfig.RulePartial:
			s = e.partial(want, got)
		case searchconfig.RuleFuzzy:
			s = e.fuzzy(want, got)
		case searchconfig.RuleOptional:
			s = e.optional(want, got)
		}

		breakdown[attr] = s * weight
		total += s * weight
		possible += e.base.Exact * weight
	}

	percentage := 0.0
	if possible > 0 {
		percentage = total / possible * 100
	}

	return &Score{Percentage: percentage, Breakdown: breakdown}, nil
}

func (e *Engine) exact(a, b string) float64 {
	if normalize(a) == normalize(b) {
		return e.base.Exact
	}
	return 0
}

func (e *Engine) inRange(a, b string, tolerance float64) float64 {
	x, err := strconv.ParseFloat(strings.TrimSpace(a), 64)
	if err != nil {
		return 0
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(b), 64)
	if err != nil {
		return 0
	}
	d := x - y
	if d < 0 {
		d = -d
	}
	if d <= tolerance {
		return e.base.Range
	}
	return 0
}

func (e *Engine) partial(a, b string) float64 {
	x := strings.ToLower(normalize(a))
	y := strings.ToLower(normalize(b))
	if x == "" || y == "" {
		return 0
	}
	if strings.Contains(x, y) || strings.Contains(y, x) {
		return e.base.Partial
	}
	return 0
}

func (e *Engine) fuzzy(a, b string) float64 {
	if s := e.partial(a, b); s > 0 {
		return s
	}
	x := strings.ToLower(normalize(a))
	y := strings.ToLower(normalize(b))
	if x == "" || y == "" {
		return 0
	}
	if Similarity(x, y) >= e.fuzzyThreshold {
		return e.base.Partial
	}
	return 0
}

func (e *Engine) optional(a, b string) float64 {
	if strings.TrimSpace(a) != "" && strings.TrimSpace(b) != "" {
		return e.base.Optional
	}
	return 0
}

func normalize(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}

// Similarity is 1 - levenshtein(a, b) / max(len(a), len(b)) over runes.
func Similarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	longest := len(ra)
	if len(rb) > longest {
		longest = len(rb)
	}
	if longest == 0 {
		return 1
	}
	return 1 - float64(Levenshtein(a, b))/float64(longest)
}

// Levenshtein returns the edit distance between a and b over runes.
func Levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// Package searchconfig derives the attribute, weight and matching-rule set handed
// to a matcher from a sample of imported records.
package searchconfig

import (
	"maps"
	"slices"
)

// Rule is the comparison strategy applied to one attribute.
type Rule string

const (
	RuleExact    Rule = "exact"
	RulePartial  Rule = "partial"
	RuleFuzzy    Rule = "fuzzy"
	RuleRange    Rule = "range"
	RuleOptional Rule = "optional"
)

const (
	DefaultWeight = 1.0
	DefaultRule   = RuleExact
)

// Config is the packaged search configuration.
type Config struct {
	Attributes    []string           `json:"attributes"`
	Weights       map[string]float64 `json:"weights"`
	MatchingRules map[string]Rule    `json:"matchingRules"`
	// Tolerances is only consulted for range rules.
	Tolerances map[string]float64 `json:"tolerances,omitempty"`
}

// Empty returns a config with no attributes.
func Empty() Config {
	return Config{
		Attributes:    []string{},
		Weights:       map[string]float64{},
		MatchingRules: map[string]Rule{},
		Tolerances:    map[string]float64{},
	}
}

// Clone returns a deep copy of c.
func (c Config) Clone() Config {
	return Config{
		Attributes:    slices.Clone(c.Attributes),
		Weights:       maps.Clone(c.Weights),
		MatchingRules: maps.Clone(c.MatchingRules),
		Tolerances:    maps.Clone(c.Tolerances),
	}
}

// Weight returns the weight of attribute, DefaultWeight when unset.
func (c Config) Weight(attribute string) float64 {
	if w, ok := c.Weights[attribute]; ok {
		return w
	}
	return DefaultWeight
}

// Rule returns the rule of attribute and whether one is configured.
func (c Config) Rule(attribute string) (Rule, bool) {
	r, ok := c.MatchingRules[attribute]
	return r, ok
}

// Tolerance returns the range tolerance of attribute, zero when unset.
func (c Config) Tolerance(attribute string) float64 {
	return c.Tolerances[attribute]
}

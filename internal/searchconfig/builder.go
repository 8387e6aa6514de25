package searchconfig

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/profile-matcher/internal/records"
	"github.com/spigell/profile-matcher/internal/validation"
)

// KeyStrategy selects which records contribute attribute names.
type KeyStrategy string

const (
	// KeysFirst takes the keys of the first record only.
	KeysFirst KeyStrategy = "first"
	// KeysUnion takes the keys of every record in first-seen order.
	KeysUnion KeyStrategy = "union"
)

// ParseKeyStrategy maps a configuration value onto a KeyStrategy. Empty means KeysFirst.
func ParseKeyStrategy(s string) (KeyStrategy, error) {
	switch KeyStrategy(s) {
	case "", KeysFirst:
		return KeysFirst, nil
	case KeysUnion:
		return KeysUnion, nil
	default:
		return "", fmt.Errorf("unknown key strategy %q", s)
	}
}

// Builder accumulates a Config. Every mutating call replaces the held config
// with a fresh copy and returns it, so returned configs are never changed later.
type Builder struct {
	cfg      Config
	strategy KeyStrategy
	logger   *zap.Logger
}

// Option configures a Builder.
type Option func(*Builder)

// WithKeyStrategy sets how attributes are inferred.
func WithKeyStrategy(s KeyStrategy) Option {
	return func(b *Builder) { b.strategy = s }
}

// WithLogger sets the builder logger.
func WithLogger(logger *zap.Logger) Option {
	return func(b *Builder) { b.logger = logger }
}

// NewBuilder creates a builder holding an empty config.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{cfg: Empty(), strategy: KeysFirst}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = zap.NewNop()
	}
	return b
}

// Import derives attributes from rs, giving each the default weight and rule.
// Earlier weight and rule choices are dropped. An empty rs leaves the current
// config untouched.
func (b *Builder) Import(rs []records.Record) Config {
	if len(rs) == 0 {
		b.logger.Debug("no records to infer attributes from")
		return b.cfg.Clone()
	}

	var attributes []string
	switch b.strategy {
	case KeysUnion:
		attributes = records.Union(rs)
	default:
		attributes = rs[0].Keys()
	}

	cfg := Empty()
	for _, attr := range attributes {
		cfg.Attributes = append(cfg.Attributes, attr)
		cfg.Weights[attr] = DefaultWeight
		cfg.MatchingRules[attr] = DefaultRule
	}

	b.logger.Debug("attributes inferred",
		zap.String("strategy", string(b.strategy)),
		zap.Int("records", len(rs)),
		zap.Strings("attributes", cfg.Attributes),
	)

	b.cfg = cfg
	return b.cfg.Clone()
}

// SetWeight parses raw and stores it under attribute. Input that is not a number
// in [0, 1] is rejected and the config stays as it was.
func (b *Builder) SetWeight(attribute, raw string) (Config, error) {
	w, err := validation.ParseWeight(raw)
	if err != nil {
		return b.cfg.Clone(), fmt.Errorf("weight of %q: %w", attribute, err)
	}

	next := b.cfg.Clone()
	next.Weights[attribute] = w
	b.cfg = next
	return b.cfg.Clone(), nil
}

// ApplyWeights stores every weight that passes validation and returns the
// errors of the rejected ones.
func (b *Builder) ApplyWeights(weights map[string]float64) (Config, []error) {
	var errs []error
	next := b.cfg.Clone()
	for attr, w := range weights {
		if err := validation.CheckWeight(w); err != nil {
			errs = append(errs, fmt.Errorf("weight of %q: %w", attr, err))
			continue
		}
		next.Weights[attr] = w
	}
	b.cfg = next
	return b.cfg.Clone(), errs
}

// SetRule stores rule under attribute. The value is stored verbatim.
func (b *Builder) SetRule(attribute string, rule Rule) Config {
	if err := validation.ValidateRule(string(rule)); err != nil {
		b.logger.Debug("storing unrecognised rule", zap.String("attribute", attribute), zap.Error(err))
	}

	next := b.cfg.Clone()
	next.MatchingRules[attribute] = rule
	b.cfg = next
	return b.cfg.Clone()
}

// SetTolerance stores the tolerance used by a range rule on attribute.
func (b *Builder) SetTolerance(attribute string, tolerance float64) Config {
	next := b.cfg.Clone()
	if next.Tolerances == nil {
		next.Tolerances = map[string]float64{}
	}
	next.Tolerances[attribute] = tolerance
	b.cfg = next
	return b.cfg.Clone()
}

// Build returns the packaged config.
func (b *Builder) Build() Config {
	return b.cfg.Clone()
}

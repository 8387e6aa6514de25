package searchconfig

import (
	"fmt"
	"sort"

	"github.com/mitchellh/mapstructure"
)

// RuleSpec is the configuration form of a rule.
type RuleSpec struct {
	Type      Rule    `mapstructure:"type"`
	Tolerance float64 `mapstructure:"tolerance"`
}

// DecodeRules converts an untyped rules section into rule specs. A bare string
// value is read as the rule type.
func DecodeRules(raw map[string]any) (map[string]RuleSpec, error) {
	specs := make(map[string]RuleSpec, len(raw))
	for attr, value := range raw {
		if s, ok := value.(string); ok {
			specs[attr] = RuleSpec{Type: Rule(s)}
			continue
		}

		var spec RuleSpec
		cfg := &mapstructure.DecoderConfig{
			Result:           &spec,
			WeaklyTypedInput: true,
			ErrorUnused:      true,
		}
		decoder, err := mapstructure.NewDecoder(cfg)
		if err != nil {
			return nil, err
		}
		if err := decoder.Decode(value); err != nil {
			return nil, fmt.Errorf("rule for %q: %w", attr, err)
		}
		if spec.Type == "" {
			return nil, fmt.Errorf("rule for %q: type is required", attr)
		}
		specs[attr] = spec
	}
	return specs, nil
}

// ApplyRules stores every spec on the builder in attribute order.
func (b *Builder) ApplyRules(specs map[string]RuleSpec) Config {
	attrs := make([]string, 0, len(specs))
	for attr := range specs {
		attrs = append(attrs, attr)
	}
	sort.Strings(attrs)

	for _, attr := range attrs {
		spec := specs[attr]
		b.SetRule(attr, spec.Type)
		if spec.Type == RuleRange || spec.Tolerance != 0 {
			b.SetTolerance(attr, spec.Tolerance)
		}
	}
	return b.Build()
}

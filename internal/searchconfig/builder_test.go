package searchconfig

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/spigell/profile-matcher/internal/records"
	"github.com/spigell/profile-matcher/internal/validation"
)

func TestImportUsesFirstRecordKeys(t *testing.T) {
	b := NewBuilder()

	cfg := b.Import([]records.Record{
		records.New("title", "X", "year", 2020),
		records.New("title", "Y", "rating", 8),
	})

	if diff := cmp.Diff([]string{"title", "year"}, cfg.Attributes); diff != "" {
		t.Fatalf("attributes mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]float64{"title": 1.0, "year": 1.0}, cfg.Weights); diff != "" {
		t.Fatalf("weights mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(map[string]Rule{"title": RuleExact, "year": RuleExact}, cfg.MatchingRules); diff != "" {
		t.Fatalf("rules mismatch (-want +got):\n%s", diff)
	}
}

func TestImportUnionStrategy(t *testing.T) {
	b := NewBuilder(WithKeyStrategy(KeysUnion))

	cfg := b.Import([]records.Record{
		records.New("title", "X"),
		records.New("year", 2020, "title", "Y"),
	})

	if diff := cmp.Diff([]string{"title", "year"}, cfg.Attributes); diff != "" {
		t.Fatalf("attributes mismatch (-want +got):\n%s", diff)
	}
}

func TestImportEmptyKeepsPriorConfig(t *testing.T) {
	b := NewBuilder()
	if cfg := b.Import(nil); len(cfg.Attributes) != 0 {
		t.Fatalf("expected no attributes, got %v", cfg.Attributes)
	}

	b.Import([]records.Record{records.New("title", "X")})
	if _, err := b.SetWeight("title", "0.4"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg := b.Import([]records.Record{})
	if diff := cmp.Diff([]string{"title"}, cfg.Attributes); diff != "" {
		t.Fatalf("attributes changed (-want +got):\n%s", diff)
	}
	if cfg.Weights["title"] != 0.4 {
		t.Fatalf("weights changed: %v", cfg.Weights)
	}
}

func TestSetWeight(t *testing.T) {
	b := NewBuilder()
	b.Import([]records.Record{records.New("title", "X", "year", 2020)})

	cfg, err := b.SetWeight("year", "0.5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Weights["year"] != 0.5 || cfg.Weights["title"] != 1.0 {
		t.Fatalf("unexpected weights %v", cfg.Weights)
	}

	for _, raw := range []string{"abc", "NaN", "1.1", "-1"} {
		cfg, err = b.SetWeight("year", raw)
		if !errors.Is(err, validation.ErrInvalidWeight) {
			t.Fatalf("expected %q to be rejected, got %v", raw, err)
		}
		if cfg.Weights["year"] != 0.5 {
			t.Fatalf("rejected weight %q changed config: %v", raw, cfg.Weights)
		}
	}
}

func TestReturnedConfigsAreIndependent(t *testing.T) {
	b := NewBuilder()
	first := b.Import([]records.Record{records.New("title", "X")})
	first.Weights["title"] = 0.1

	if got := b.Build().Weights["title"]; got != 1.0 {
		t.Fatalf("builder state leaked through returned config: %v", got)
	}

	second, _ := b.SetWeight("title", "0.3")
	if first.Weights["title"] != 0.1 || second.Weights["title"] != 0.3 {
		t.Fatalf("configs share storage: %v %v", first.Weights, second.Weights)
	}
}

func TestApplyWeights(t *testing.T) {
	b := NewBuilder()
	b.Import([]records.Record{records.New("title", "X", "year", 2020)})

	cfg, errs := b.ApplyWeights(map[string]float64{"title": 0.2, "year": 3})
	if len(errs) != 1 || !errors.Is(errs[0], validation.ErrInvalidWeight) {
		t.Fatalf("expected one weight error, got %v", errs)
	}
	if cfg.Weights["title"] != 0.2 || cfg.Weights["year"] != 1.0 {
		t.Fatalf("unexpected weights %v", cfg.Weights)
	}
}

func TestSetRuleStoresVerbatim(t *testing.T) {
	b := NewBuilder()
	b.Import([]records.Record{records.New("title", "X")})

	cfg := b.SetRule("title", RuleFuzzy)
	if cfg.MatchingRules["title"] != RuleFuzzy {
		t.Fatalf("unexpected rule %q", cfg.MatchingRules["title"])
	}

	cfg = b.SetRule("title", Rule("soundex"))
	if cfg.MatchingRules["title"] != "soundex" {
		t.Fatalf("expected unknown rule to be stored verbatim, got %q", cfg.MatchingRules["title"])
	}
}

func TestParseKeyStrategy(t *testing.T) {
	if s, err := ParseKeyStrategy(""); err != nil || s != KeysFirst {
		t.Fatalf("unexpected %q, %v", s, err)
	}
	if s, err := ParseKeyStrategy("union"); err != nil || s != KeysUnion {
		t.Fatalf("unexpected %q, %v", s, err)
	}
	if _, err := ParseKeyStrategy("all"); err == nil {
		t.Fatalf("expected unknown strategy to fail")
	}
}

func TestDecodeAndApplyRules(t *testing.T) {
	specs, err := DecodeRules(map[string]any{
		"Age":      map[string]any{"type": "range", "tolerance": "5"},
		"Location": map[string]any{"type": "partial"},
		"email":    "exact",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[string]RuleSpec{
		"Age":      {Type: RuleRange, Tolerance: 5},
		"Location": {Type: RulePartial},
		"email":    {Type: RuleExact},
	}
	if diff := cmp.Diff(want, specs); diff != "" {
		t.Fatalf("specs mismatch (-want +got):\n%s", diff)
	}

	b := NewBuilder()
	b.Import([]records.Record{records.New("Age", "30", "Location", "Berlin", "email", "a@b.c")})
	cfg := b.ApplyRules(specs)

	if cfg.MatchingRules["Age"] != RuleRange || cfg.Tolerance("Age") != 5 {
		t.Fatalf("unexpected age rule: %v %v", cfg.MatchingRules, cfg.Tolerances)
	}
	if cfg.MatchingRules["Location"] != RulePartial {
		t.Fatalf("unexpected location rule %q", cfg.MatchingRules["Location"])
	}

	if _, err := DecodeRules(map[string]any{"Age": map[string]any{"tolerance": 1}}); err == nil {
		t.Fatalf("expected missing type to fail")
	}
	if _, err := DecodeRules(map[string]any{"Age": map[string]any{"type": "range", "bogus": 1}}); err == nil {
		t.Fatalf("expected unused key to fail")
	}
}

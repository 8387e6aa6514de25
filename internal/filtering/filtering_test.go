package filtering

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/profile-matcher/internal/matching"
)

func sampleResults() *matching.Results {
	return &matching.Results{Items: []*matching.Result{
		{ID: "a", Percentage: 40},
		{ID: "b", Percentage: 90},
		{ID: "c", Error: "boom"},
		{ID: "d", Percentage: 75},
		{ID: "e", Percentage: 75},
	}}
}

func ids(r *matching.Results) []string {
	out := make([]string, 0, r.Len())
	for _, item := range r.Items {
		out = append(out, item.ID)
	}
	return out
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "exclude.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write exclude file: %v", err)
	}
	return path
}

func TestRun(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  *Config
		want []string
	}{
		{name: "defaults only sort", cfg: &Config{}, want: []string{"b", "d", "e", "a", "c"}},
		{name: "drop failed", cfg: &Config{DropFailed: true}, want: []string{"b", "d", "e", "a"}},
		{name: "minimum score keeps failed", cfg: &Config{MinimumScore: 75}, want: []string{"b", "d", "e", "c"}},
		{name: "limit", cfg: &Config{Limit: 2, DropFailed: true}, want: []string{"b", "d"}},
		{name: "nil config", cfg: nil, want: []string{"b", "d", "e", "a", "c"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Run(context.Background(), tt.cfg, Deps{}, Default(), sampleResults())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, ids(got)); diff != "" {
				t.Fatalf("result mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRunExcludeFile(t *testing.T) {
	t.Parallel()

	core, observed := observer.New(zapcore.InfoLevel)
	cfg := &Config{ExcludeFile: writeFile(t, `["a", "zzz", "d"]`)}

	got, err := Run(context.Background(), cfg, Deps{Logger: zap.New(core)}, Default(), sampleResults())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"b", "e", "c"}, ids(got)); diff != "" {
		t.Fatalf("result mismatch (-want +got):\n%s", diff)
	}

	entries := observed.FilterMessage("filter step").All()
	if len(entries) != 4 {
		t.Fatalf("expected 4 step log entries, got %d", len(entries))
	}
	exclude := entries[1].ContextMap()
	if exclude["name"] != "exclude_file" || exclude["dropped"] != int64(2) {
		t.Fatalf("unexpected exclude step entry: %v", exclude)
	}
}

func TestExcludedIDsFromDump(t *testing.T) {
	t.Parallel()

	path := writeFile(t, `{"items": [{"id": "x", "percentage": 10}, {"id": "y"}]}`)
	got, err := ExcludedIDsFromFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"x", "y"}, got); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}

	if _, err := ExcludedIDsFromFile(writeFile(t, "not json")); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestRunValidation(t *testing.T) {
	t.Parallel()

	for _, cfg := range []*Config{{MinimumScore: 120}, {MinimumScore: -1}, {Limit: -1}} {
		if _, err := Run(context.Background(), cfg, Deps{}, Default(), sampleResults()); err == nil {
			t.Fatalf("expected validation error for %+v", cfg)
		}
	}

	if _, err := Run(context.Background(), &Config{ExcludeFile: "/does/not/exist"}, Deps{}, Default(), sampleResults()); err == nil {
		t.Fatal("expected error for missing exclude file")
	}
}

func TestDisableByName(t *testing.T) {
	t.Parallel()

	core, observed := observer.New(zapcore.InfoLevel)
	steps := Default()
	DisableByName(steps, "limit", "interactive session")

	got, err := Run(context.Background(), &Config{Limit: 1}, Deps{Logger: zap.New(core)}, steps, sampleResults())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Len() != 5 {
		t.Fatalf("expected disabled limit to keep all results, got %d", got.Len())
	}
	if n := observed.FilterMessage("filter disabled").Len(); n != 1 {
		t.Fatalf("expected 1 disabled entry, got %d", n)
	}

	statuses := Describe(steps)
	last := statuses[len(statuses)-1]
	if last.Name != "limit" || last.Enabled || last.Reason != "interactive session" {
		t.Fatalf("unexpected limit status: %+v", last)
	}
}

package summary

import "testing"

func ptr(v float64) *float64 { return &v }

func TestFormatPercent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value *float64
		want  string
	}{
		{name: "absent", value: nil, want: "0.0%"},
		{name: "one decimal", value: ptr(83.456), want: "83.5%"},
		{name: "zero", value: ptr(0), want: "0.0%"},
		{name: "whole", value: ptr(100), want: "100.0%"},
		{name: "rounds down", value: ptr(66.6666), want: "66.7%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := FormatPercent(tt.value); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestSummarize(t *testing.T) {
	s := Summarize([]float64{40, 80, 60})

	if s.TotalMatches != 3 {
		t.Fatalf("expected 3 matches, got %d", s.TotalMatches)
	}
	if s.AverageMatchPercentage == nil || *s.AverageMatchPercentage != 60 {
		t.Fatalf("unexpected average %v", s.AverageMatchPercentage)
	}
	if s.Best() != "80.0%" || s.Average() != "60.0%" {
		t.Fatalf("unexpected formatting %q %q", s.Average(), s.Best())
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)

	if s.TotalMatches != 0 || s.AverageMatchPercentage != nil || s.HighestMatch != nil {
		t.Fatalf("expected empty summary, got %+v", s)
	}

	lines := s.Lines()
	if lines[1] != "Avg Match: 0.0%" || lines[2] != "Best Match: 0.0%" {
		t.Fatalf("unexpected lines %v", lines)
	}
}

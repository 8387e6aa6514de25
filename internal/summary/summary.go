// Package summary projects match results into display aggregates.
package summary

import (
	"fmt"
	"strconv"
)

// Summary is the aggregate of a set of match percentages. Absent statistics are nil.
type Summary struct {
	TotalMatches           int      `json:"totalMatches"`
	AverageMatchPercentage *float64 `json:"averageMatchPercentage,omitempty"`
	HighestMatch           *float64 `json:"highestMatch,omitempty"`
}

// Summarize aggregates percentages. With no percentages the average and the
// highest match are absent.
func Summarize(percentages []float64) Summary {
	s := Summary{TotalMatches: len(percentages)}
	if len(percentages) == 0 {
		return s
	}

	sum, best := 0.0, percentages[0]
	for _, p := range percentages {
		sum += p
		best = max(best, p)
	}
	avg := sum / float64(len(percentages))

	s.AverageMatchPercentage = &avg
	s.HighestMatch = &best
	return s
}

// FormatPercent renders v with one decimal and a percent sign, "0.0%" when v is absent.
func FormatPercent(v *float64) string {
	if v == nil {
		return "0.0%"
	}
	return strconv.FormatFloat(*v, 'f', 1, 64) + "%"
}

// Average returns the formatted average match.
func (s Summary) Average() string {
	return FormatPercent(s.AverageMatchPercentage)
}

// Best returns the formatted highest match.
func (s Summary) Best() string {
	return FormatPercent(s.HighestMatch)
}

// Lines returns the summary as label/value display rows.
func (s Summary) Lines() []string {
	return []string{
		fmt.Sprintf("Matches: %d", s.TotalMatches),
		fmt.Sprintf("Avg Match: %s", s.Average()),
		fmt.Sprintf("Best Match: %s", s.Best()),
	}
}

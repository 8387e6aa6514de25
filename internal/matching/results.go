package matching

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/spigell/profile-matcher/internal/records"
)

// Results is an ordered list of scored records.
type Results struct {
	Items []*Result `json:"items"`
}

// Result is the score of one imported record.
type Result struct {
	Index      int                `json:"index"`
	ID         string             `json:"id"`
	Record     records.Record     `json:"record"`
	Percentage float64            `json:"percentage"`
	Breakdown  map[string]float64 `json:"breakdown,omitempty"`
	Reason     string             `json:"reason,omitempty"`
	Error      string             `json:"error,omitempty"`
}

// Failed reports whether scoring of the record failed.
func (r *Result) Failed() bool {
	return r.Error != ""
}

func (r *Results) Len() int {
	return len(r.Items)
}

// Failed returns the number of results whose scoring failed.
func (r *Results) Failed() int {
	n := 0
	for _, item := range r.Items {
		if item.Failed() {
			n++
		}
	}
	return n
}

// SortByScore orders results by percentage, highest first. Ties keep import order.
func (r *Results) SortByScore() {
	sort.SliceStable(r.Items, func(i, j int) bool {
		return r.Items[i].Percentage > r.Items[j].Percentage
	})
}

// Percentages returns the percentages of the successfully scored results.
func (r *Results) Percentages() []float64 {
	out := make([]float64, 0, len(r.Items))
	for _, item := range r.Items {
		if !item.Failed() {
			out = append(out, item.Percentage)
		}
	}
	return out
}

// FindByID returns the result with id or nil.
func (r *Results) FindByID(id string) *Result {
	for _, item := range r.Items {
		if item.ID == id {
			return item
		}
	}
	return nil
}

// Exclude removes results whose ID is in ids, preserving order, and returns the removed IDs.
func (r *Results) Exclude(ids []string) []string {
	drop := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}

	var excluded []string
	kept := r.Items[:0]
	for _, item := range r.Items {
		if _, ok := drop[item.ID]; ok {
			excluded = append(excluded, item.ID)
			continue
		}
		kept = append(kept, item)
	}
	r.Items = kept
	return excluded
}

// Keep retains only the results for which keep returns true and returns the IDs of the others.
func (r *Results) Keep(keep func(*Result) bool) []string {
	var dropped []string
	kept := r.Items[:0]
	for _, item := range r.Items {
		if keep(item) {
			kept = append(kept, item)
			continue
		}
		dropped = append(dropped, item.ID)
	}
	r.Items = kept
	return dropped
}

// DumpToTmpFile writes the results as indented JSON to a new temporary file.
func (r *Results) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "matches_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return "", err
	}
	return file.Name(), nil
}

// ReportByAttribute lists, for every compared attribute, the weighted
// contribution it made to each result.
func (r *Results) ReportByAttribute() map[string][]map[string]string {
	report := make(map[string][]map[string]string)
	for _, item := range r.Items {
		if item.Failed() {
			report["failed"] = append(report["failed"], map[string]string{
				"id":    item.ID,
				"error": item.Error,
			})
			continue
		}
		for attr, contribution := range item.Breakdown {
			report[attr] = append(report[attr], map[string]string{
				"id":           item.ID,
				"value":        item.Record.String(attr),
				"contribution": strconv.FormatFloat(contribution, 'f', 2, 64),
				"match":        fmt.Sprintf("%.1f%%", item.Percentage),
			})
		}
	}
	return report
}

// Package search models the criteria entry state and the transitions applied to it.
//
// State values are treated as immutable: every transition returns a new State and
// leaves the previous one untouched, so older states can be kept for undo.
package search

import (
	"maps"
	"slices"
	"strings"
)

// Criterion is a single attribute:value constraint. Attribute keeps its trailing colon.
type Criterion struct {
	Attribute string `json:"attribute" mapstructure:"attribute"`
	Value     string `json:"value" mapstructure:"value"`
}

// Name returns the attribute without its trailing colon.
func (c Criterion) Name() string {
	return strings.TrimSpace(strings.TrimSuffix(c.Attribute, ":"))
}

// String formats the criterion as it was typed.
func (c Criterion) String() string {
	return c.Attribute + c.Value
}

// UIState holds presentation flags driven by the reducer.
type UIState struct {
	ShowWeightModal bool `json:"showWeightModal"`
	// ActiveCriterion is empty when no criterion is selected.
	ActiveCriterion string `json:"activeCriterion,omitempty"`
}

// State is the search criteria record.
type State struct {
	Input    string             `json:"input"`
	Draft    string             `json:"draft"`
	Criteria []Criterion        `json:"criteria"`
	Weights  map[string]float64 `json:"weights"`
	Errors   []string           `json:"errors"`
	UI       UIState            `json:"uiState"`
}

// NewState returns the empty start-up state.
func NewState() State {
	return State{
		Criteria: []Criterion{},
		Weights:  map[string]float64{},
		Errors:   []string{},
	}
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	out := s
	out.Criteria = slices.Clone(s.Criteria)
	out.Weights = maps.Clone(s.Weights)
	out.Errors = slices.Clone(s.Errors)
	return out
}

// Query returns the active criteria as attribute name -> value. Later criteria win.
func (s State) Query() map[string]string {
	query := make(map[string]string, len(s.Criteria))
	for _, c := range s.Criteria {
		query[c.Name()] = strings.TrimSpace(c.Value)
	}
	return query
}

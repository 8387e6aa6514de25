package search

import "maps"

// Reduce applies a to s and returns the resulting state. It never modifies s:
// fields touched by the transition are replaced with fresh copies, untouched
// fields are shared with s. Unknown actions return s unchanged.
func Reduce(s State, a Action) State {
	switch act := a.(type) {
	case InputChange:
		s.Input = act.Text
	case SetErrors:
		s.Errors = append(make([]string, 0, len(act.Errors)), act.Errors...)
	case AddCriterion:
		s.Criteria = appendCriterion(s.Criteria, act.Criterion)
		s.Input = ""
	case RemoveCriterion:
		s.Criteria = removeAt(s.Criteria, act.Index)
	case UpdateWeight:
		s.Weights = withWeight(s.Weights, act.Criterion, act.Weight)
	case ToggleWeightModal:
		s.UI = UIState{
			ShowWeightModal: !s.UI.ShowWeightModal,
			ActiveCriterion: act.Criterion,
		}

	case UpdateDraft:
		s.Draft = act.Text
	case CommitCriteria:
		s.Criteria = appendCriterion(s.Criteria, act.Criterion)
		s.Draft = ""
	case RemoveCriteria:
		s.Criteria = removeAt(s.Criteria, act.ID)
	case UpdateCriteriaWeight:
		if act.ID < 0 || act.ID >= len(s.Criteria) {
			return s
		}
		s.Weights = withWeight(s.Weights, s.Criteria[act.ID].Name(), act.Weight)
	case ShowWeightModal:
		s.UI = UIState{ShowWeightModal: true, ActiveCriterion: act.Criterion}
	case HideWeightModal:
		s.UI = UIState{}
	}

	return s
}

func appendCriterion(criteria []Criterion, c Criterion) []Criterion {
	out := make([]Criterion, 0, len(criteria)+1)
	out = append(out, criteria...)
	return append(out, c)
}

// removeAt keeps the relative order of the remaining criteria. An index out of
// range yields an equal copy.
func removeAt(criteria []Criterion, index int) []Criterion {
	out := make([]Criterion, 0, len(criteria))
	for i, c := range criteria {
		if i != index {
			out = append(out, c)
		}
	}
	return out
}

func withWeight(weights map[string]float64, key string, weight float64) map[string]float64 {
	out := maps.Clone(weights)
	if out == nil {
		out = make(map[string]float64, 1)
	}
	out[key] = weight
	return out
}

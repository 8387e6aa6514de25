package search

import (
	"errors"
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// ErrUnknownPayload is returned when a known action type carries a payload of the wrong shape.
var ErrUnknownPayload = errors.New("unexpected action payload")

// RawAction is the untyped {type, payload} record accepted at the dispatch boundary.
type RawAction struct {
	Type    string `json:"type" mapstructure:"type"`
	Payload any    `json:"payload,omitempty" mapstructure:"payload"`
}

// Decode converts a raw action into its typed form. Types Reduce does not know
// become Unknown so they can still be dispatched as identity transitions.
func Decode(raw RawAction) (Action, error) {
	switch ActionType(raw.Type) {
	case TypeInputChange:
		var text string
		if err := decodePayload(raw, &text); err != nil {
			return nil, err
		}
		return InputChange{Text: text}, nil
	case TypeUpdateDraft:
		var text string
		if err := decodePayload(raw, &text); err != nil {
			return nil, err
		}
		return UpdateDraft{Text: text}, nil
	case TypeSetErrors:
		var errs []string
		if err := decodePayload(raw, &errs); err != nil {
			return nil, err
		}
		return SetErrors{Errors: errs}, nil
	case TypeAddCriterion, TypeCommitCriteria:
		var c Criterion
		if err := decodePayload(raw, &c); err != nil {
			return nil, err
		}
		if ActionType(raw.Type) == TypeCommitCriteria {
			return CommitCriteria{Criterion: c}, nil
		}
		return AddCriterion{Criterion: c}, nil
	case TypeRemoveCriterion, TypeRemoveCriteria:
		var idx int
		if err := decodePayload(raw, &idx); err != nil {
			return nil, err
		}
		if ActionType(raw.Type) == TypeRemoveCriteria {
			return RemoveCriteria{ID: idx}, nil
		}
		return RemoveCriterion{Index: idx}, nil
	case TypeUpdateWeight:
		var p struct {
			Criterion string  `mapstructure:"criterion"`
			Weight    float64 `mapstructure:"weight"`
		}
		if err := decodePayload(raw, &p); err != nil {
			return nil, err
		}
		return UpdateWeight{Criterion: p.Criterion, Weight: p.Weight}, nil
	case TypeUpdateCriteria:
		var p struct {
			ID     int     `mapstructure:"id"`
			Weight float64 `mapstructure:"weight"`
		}
		if err := decodePayload(raw, &p); err != nil {
			return nil, err
		}
		return UpdateCriteriaWeight{ID: p.ID, Weight: p.Weight}, nil
	case TypeToggleWeightModal, TypeShowWeightModal:
		var criterion string
		if raw.Payload != nil {
			if err := decodePayload(raw, &criterion); err != nil {
				return nil, err
			}
		}
		if ActionType(raw.Type) == TypeShowWeightModal {
			return ShowWeightModal{Criterion: criterion}, nil
		}
		return ToggleWeightModal{Criterion: criterion}, nil
	case TypeHideWeightModal:
		return HideWeightModal{}, nil
	default:
		return Unknown{Name: raw.Type}, nil
	}
}

func decodePayload(raw RawAction, target any) error {
	cfg := &mapstructure.DecoderConfig{
		Result:           target,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return err
	}

	if err := decoder.Decode(raw.Payload); err != nil {
		return fmt.Errorf("%w for %s: %w", ErrUnknownPayload, raw.Type, err)
	}
	return nil
}

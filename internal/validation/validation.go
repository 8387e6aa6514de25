// Package validation holds the predicates applied to user-entered criteria and weights.
package validation

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	// MinValueLength is the number of characters a value must exceed.
	MinValueLength = 2
	// MinWeight and MaxWeight bound an accepted weight.
	MinWeight = 0.0
	MaxWeight = 1.0
)

var (
	ErrInvalidAttribute = errors.New("invalid attribute format")
	ErrValueTooShort    = errors.New("value too short")
	ErrInvalidWeight    = errors.New("invalid weight")
	ErrUnknownRule      = errors.New("unknown matching rule")
)

var attributePrefix = regexp.MustCompile(`^[a-zA-Z0-9_]+:`)

// KnownRules lists the matching rules a matcher understands.
var KnownRules = []string{"exact", "partial", "fuzzy", "range", "optional"}

// ValidateAttribute checks that input starts with an attribute name followed by a colon.
func ValidateAttribute(input string) error {
	if !attributePrefix.MatchString(input) {
		return fmt.Errorf("%w: %q", ErrInvalidAttribute, input)
	}
	return nil
}

// ValidateValue checks that input is longer than MinValueLength characters.
func ValidateValue(input string) error {
	if utf8.RuneCountInString(input) <= MinValueLength {
		return fmt.Errorf("%w: %q", ErrValueTooShort, input)
	}
	return nil
}

// ParseWeight parses raw as a float and rejects anything outside [MinWeight, MaxWeight].
func ParseWeight(raw string) (float64, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, fmt.Errorf("%w: empty value", ErrInvalidWeight)
	}

	w, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidWeight, raw)
	}

	return w, CheckWeight(w)
}

// CheckWeight reports whether an already numeric weight is admissible.
func CheckWeight(w float64) error {
	if math.IsNaN(w) || math.IsInf(w, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidWeight, w)
	}
	if w < MinWeight || w > MaxWeight {
		return fmt.Errorf("%w: %v is outside [%v, %v]", ErrInvalidWeight, w, MinWeight, MaxWeight)
	}
	return nil
}

// ValidateRule reports whether rule is one of KnownRules.
func ValidateRule(rule string) error {
	for _, known := range KnownRules {
		if rule == known {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownRule, rule)
}

// Messages returns the human readable text of the non-nil errors.
func Messages(errs ...error) []string {
	messages := make([]string, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			messages = append(messages, err.Error())
		}
	}
	return messages
}

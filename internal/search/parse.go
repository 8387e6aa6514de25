package search

import (
	"strings"

	"github.com/spigell/profile-matcher/internal/validation"
)

// Stage tells which half of an attribute:value pair is being typed.
type Stage string

const (
	StageAttribute Stage = "attribute"
	StageValue     Stage = "value"
)

// ParsedInput is the result of ParseInput.
type ParsedInput struct {
	Stage Stage
	// Attribute is the name before the colon, empty while Stage is StageAttribute.
	Attribute string
	// Partial is the text being typed for the current stage.
	Partial string
}

// ParseInput splits free text on the first colon. Without a value part the user
// is still choosing the attribute.
func ParseInput(text string) ParsedInput {
	left, right, _ := strings.Cut(text, ":")
	left = strings.TrimSpace(left)
	right = strings.TrimSpace(right)

	if right == "" {
		return ParsedInput{Stage: StageAttribute, Partial: left}
	}

	return ParsedInput{Stage: StageValue, Attribute: left, Partial: right}
}

// SplitCriterion turns "attr:value" into a Criterion. The attribute keeps its colon;
// text without a colon yields an attribute-less criterion carrying the whole text.
func SplitCriterion(text string) Criterion {
	idx := strings.Index(text, ":")
	if idx < 0 {
		return Criterion{Value: strings.TrimSpace(text)}
	}
	return Criterion{
		Attribute: text[:idx+1],
		Value:     strings.TrimSpace(text[idx+1:]),
	}
}

// Check runs both validators over text and returns the collected messages.
// An empty result means the text can be admitted as a criterion.
func Check(text string) []string {
	c := SplitCriterion(text)
	return validation.Messages(
		validation.ValidateAttribute(text),
		validation.ValidateValue(c.Value),
	)
}

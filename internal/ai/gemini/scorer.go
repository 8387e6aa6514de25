package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/profile-matcher/internal/logger"
	"github.com/spigell/profile-matcher/internal/matching"
	"github.com/spigell/profile-matcher/internal/records"
	"github.com/spigell/profile-matcher/internal/searchconfig"
	"github.com/spigell/profile-matcher/internal/utils"
)

const (
	Provider = "gemini"

	defaultMaxLogLength = 200
	systemInstruction   = "You are a strict matching engine. You compare structured records with weighted search criteria and reply with JSON only."
)

//go:embed prompt.md
var promptTemplate string

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
	Model() string
}

// Scorer asks Gemini to rate a record against the query.
type Scorer struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

var _ matching.Scorer = (*Scorer)(nil)

func NewScorer(generator contentGenerator, log *zap.Logger, maxLogLength int) *Scorer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Scorer{
		generator: generator,
		logger:    logger.WithScorerFields(log, Provider, generator.Model()),
		maxLogLen: maxLogLength,
	}
}

func (s *Scorer) Score(ctx context.Context, cfg searchconfig.Config, query matching.Query, rec records.Record) (*matching.Score, error) {
	if len(query) == 0 {
		return nil, fmt.Errorf("query is empty")
	}

	queryJSON, err := json.MarshalIndent(query, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal query: %w", err)
	}
	cfgJSON, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal search config: %w", err)
	}
	recJSON, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}

	prompt := buildPrompt(string(queryJSON), string(cfgJSON), string(recJSON))

	s.logger.Debug("gemini generate content request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, s.maxLogLen)),
	)

	raw, err := s.generator.GenerateContent(ctx, systemInstruction, prompt)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("gemini generate content response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, s.maxLogLen)),
	)

	score, err := parseResponse(raw)
	if err != nil {
		return nil, err
	}
	score.Raw = raw
	return score, nil
}

func buildPrompt(queryJSON, cfgJSON, recJSON string) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Query:\n{{QUERY_JSON}}\n\nConfig:\n{{CONFIG_JSON}}\n\nRecord:\n{{RECORD_JSON}}\n\nJSON Response:"
	}
	return strings.NewReplacer(
		"{{QUERY_JSON}}", queryJSON,
		"{{CONFIG_JSON}}", cfgJSON,
		"{{RECORD_JSON}}", recJSON,
	).Replace(template)
}

func parseResponse(raw string) (*matching.Score, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	score := coerceFloat(data["score"])
	if math.IsNaN(score) {
		return nil, fmt.Errorf("gemini response has no numeric score")
	}

	out := &matching.Score{
		Percentage: min(max(score, 0), 100),
		Reason:     coerceString(data["reason"]),
	}

	if breakdown, ok := data["breakdown"].(map[string]any); ok {
		out.Breakdown = make(map[string]float64, len(breakdown))
		for attr, v := range breakdown {
			if f := coerceFloat(v); !math.IsNaN(f) {
				out.Breakdown[attr] = f
			}
		}
	}

	return out, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func coerceFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case int:
		return float64(val)
	case string:
		trimmed := strings.TrimSuffix(strings.TrimSpace(val), "%")
		if trimmed == "" {
			return math.NaN()
		}
		f, err := strconv.ParseFloat(trimmed, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case nil:
		return ""
	default:
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}

package cmd

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/profile-matcher/internal/ai/gemini"
	"github.com/spigell/profile-matcher/internal/filtering"
	"github.com/spigell/profile-matcher/internal/logger"
	"github.com/spigell/profile-matcher/internal/matching"
	"github.com/spigell/profile-matcher/internal/records"
	"github.com/spigell/profile-matcher/internal/search"
	"github.com/spigell/profile-matcher/internal/searchconfig"
	"github.com/spigell/profile-matcher/internal/secrets"
	"github.com/spigell/profile-matcher/internal/suggest"
	"github.com/spigell/profile-matcher/internal/summary"
)

const (
	scorerRules  = "rules"
	scorerGemini = "gemini"
)

// session is the state shared by the commands: config, dataset, the derived
// search config and the criteria store.
type session struct {
	config  *Config
	logger  *zap.Logger
	records []records.Record
	builder *searchconfig.Builder
	store   *search.Store
	index   *suggest.Index
}

func newSession(ctx context.Context) (*session, error) {
	log, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		return nil, fmt.Errorf("creating a logger: %w", err)
	}

	config, err := getConfig()
	if err != nil {
		return nil, fmt.Errorf("getting a config: %w", err)
	}

	s := &session{config: config, logger: log, store: search.NewStore(log)}
	if err := s.load(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *session) load(ctx context.Context) error {
	rs, err := s.loadRecords(ctx)
	if err != nil {
		return fmt.Errorf("loading dataset: %w", err)
	}
	s.records = rs
	s.index = suggest.NewIndex(rs)

	s.logger.Info("dataset loaded",
		zap.String("path", s.config.Data),
		zap.Int("records", len(rs)),
	)

	strategy, err := searchconfig.ParseKeyStrategy(s.config.KeyStrategy)
	if err != nil {
		return err
	}
	s.builder = searchconfig.NewBuilder(
		searchconfig.WithKeyStrategy(strategy),
		searchconfig.WithLogger(s.logger),
	)
	cfg := s.builder.Import(rs)

	specs, err := searchconfig.DecodeRules(s.config.Rules)
	if err != nil {
		return fmt.Errorf("decoding rules: %w", err)
	}
	resolved := make(map[string]searchconfig.RuleSpec, len(specs))
	for attr, spec := range specs {
		resolved[resolveAttribute(cfg.Attributes, attr)] = spec
	}
	s.builder.ApplyRules(resolved)

	for _, attr := range sortedKeys(s.config.Weights) {
		if _, err := s.builder.SetWeight(resolveAttribute(cfg.Attributes, attr), s.config.Weights[attr]); err != nil {
			s.logger.Warn("ignoring configured weight", zap.Error(err))
		}
	}

	for _, text := range s.config.Criteria {
		s.enter(text)
	}

	return nil
}

func (s *session) loadRecords(ctx context.Context) ([]records.Record, error) {
	location := strings.TrimSpace(s.config.Data)
	if location == "" {
		return nil, errors.New("dataset is not configured (set data, --data or PM_DATA_FILE)")
	}
	if !records.IsRemote(location) {
		return records.Load(location)
	}

	var token string
	if strings.TrimSpace(s.config.DataTokenFile) != "" {
		var err error
		token, err = secrets.Load(secrets.Source{Name: "dataset token", File: s.config.DataTokenFile})
		if err != nil {
			return nil, err
		}
	}
	return records.NewFetcher(s.logger, token).Fetch(ctx, location)
}

// enter submits text as a criterion and reports what went wrong, if anything.
func (s *session) enter(text string) bool {
	if !s.store.Enter(text) {
		s.logger.Warn("criterion rejected",
			zap.String("criterion", text),
			zap.Strings("errors", s.store.State().Errors),
		)
		return false
	}

	c := search.SplitCriterion(text)
	if problems := s.index.Check(c); len(problems) > 0 {
		s.logger.Warn("criterion does not match the dataset",
			zap.String("criterion", text),
			zap.Strings("problems", problems),
		)
	}
	return true
}

// searchConfig returns the built config with weights chosen during the session
// merged in.
func (s *session) searchConfig() searchconfig.Config {
	cfg := s.builder.Build()

	weights := make(map[string]float64)
	for attr, w := range s.store.State().Weights {
		weights[resolveAttribute(cfg.Attributes, strings.TrimSuffix(attr, ":"))] = w
	}
	if len(weights) == 0 {
		return cfg
	}

	cfg, errs := s.builder.ApplyWeights(weights)
	for _, err := range errs {
		s.logger.Warn("ignoring session weight", zap.Error(err))
	}
	return cfg
}

func (s *session) query(cfg searchconfig.Config) matching.Query {
	query := make(matching.Query)
	for attr, value := range s.store.State().Query() {
		query[resolveAttribute(cfg.Attributes, attr)] = value
	}
	return query
}

// match scores the dataset against the current criteria and runs the filters.
func (s *session) match(ctx context.Context, steps []filtering.Filter) (*matching.Results, summary.Summary, error) {
	cfg := s.searchConfig()
	query := s.query(cfg)
	if len(query) == 0 {
		return nil, summary.Summary{}, errors.New("no criteria to match")
	}

	scorer, err := newScorer(ctx, s.config, s.logger)
	if err != nil {
		return nil, summary.Summary{}, fmt.Errorf("building scorer: %w", err)
	}

	s.logger.Info("starting the match",
		zap.Any("query", query),
		zap.Int("records", len(s.records)),
	)

	runLogger := logger.WithScorerFields(s.logger, scorerProvider(s.config), "")
	results, err := matching.Run(ctx, scorer, cfg, query, s.records, s.config.IDAttribute, runLogger)
	if err != nil {
		return nil, summary.Summary{}, err
	}

	// The summary describes every scored record, before filters narrow the list.
	sum := summary.Summarize(results.Percentages())

	results, err = filtering.Run(ctx, filterConfig(s.config), filtering.Deps{Logger: s.logger}, steps, results)
	if err != nil {
		return nil, summary.Summary{}, fmt.Errorf("filtering failed: %w", err)
	}

	return results, sum, nil
}

func scorerProvider(config *Config) string {
	if config.Matching == nil || strings.TrimSpace(config.Matching.Scorer) == "" {
		return scorerRules
	}
	return strings.ToLower(strings.TrimSpace(config.Matching.Scorer))
}

func newScorer(ctx context.Context, config *Config, log *zap.Logger) (matching.Scorer, error) {
	matchingCfg := config.Matching
	if matchingCfg == nil {
		matchingCfg = &MatchingConfig{}
	}

	switch scorerProvider(config) {
	case scorerRules:
		var base matching.BaseWeights
		if matchingCfg.BaseWeights != nil {
			base = matching.BaseWeights(*matchingCfg.BaseWeights)
		}
		return matching.NewEngine(base, matchingCfg.FuzzyThreshold), nil
	case scorerGemini:
		return newGeminiScorer(ctx, config.AI, log)
	default:
		return nil, fmt.Errorf("unsupported scorer: %s", matchingCfg.Scorer)
	}
}

func newGeminiScorer(ctx context.Context, cfg *AIConfig, log *zap.Logger) (matching.Scorer, error) {
	if cfg == nil || cfg.Gemini == nil {
		cfg = &AIConfig{Gemini: &GeminiConfig{}}
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
		Env:  "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	genLogger := log.With(zap.Int("ai_retry_attempts", cfg.Gemini.MaxRetries))

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries,
		logger.WithScorerFields(genLogger, gemini.Provider, cfg.Gemini.Model))
	if err != nil {
		return nil, err
	}

	return gemini.NewScorer(generator, log, cfg.Gemini.MaxLogLength), nil
}

func filterConfig(config *Config) *filtering.Config {
	if config.Filters == nil {
		return &filtering.Config{}
	}
	return &filtering.Config{
		MinimumScore: config.Filters.MinimumScore,
		Limit:        config.Filters.Limit,
		ExcludeFile:  config.Filters.ExcludeFile,
		DropFailed:   config.Filters.DropFailed,
	}
}

// resolveAttribute maps name onto a dataset attribute ignoring case. Viper
// lowercases configuration keys, dataset headers keep theirs.
func resolveAttribute(attributes []string, name string) string {
	name = strings.TrimSpace(name)
	for _, attr := range attributes {
		if attr == name {
			return attr
		}
	}
	for _, attr := range attributes {
		if strings.EqualFold(attr, name) {
			return attr
		}
	}
	return name
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

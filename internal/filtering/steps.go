package filtering

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/spigell/profile-matcher/internal/matching"
)

type failedFilter struct {
	toggle
	drop bool
}

// NewFailed creates a filter that removes results whose scoring failed.
func NewFailed() Filter {
	return &failedFilter{}
}

func (f *failedFilter) Name() string { return "failed" }

func (f *failedFilter) Validate(cfg *Config) error {
	f.drop = cfg.DropFailed
	return nil
}

func (f *failedFilter) Apply(_ context.Context, deps Deps, r *matching.Results) (*matching.Results, Step, error) {
	initial := r.Len()
	if !f.drop {
		return r, Step{Initial: initial, Left: initial}, nil
	}

	dropped := r.Keep(func(res *matching.Result) bool { return !res.Failed() })
	if len(dropped) > 0 {
		deps.Logger.Info("excluding records that could not be scored",
			zap.Strings("excluded_records", dropped),
			zap.Int("records_left", r.Len()),
		)
	}

	return r, Step{Initial: initial, Dropped: len(dropped), Left: r.Len()}, nil
}

func (f *failedFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"drop_failed": strconv.FormatBool(f.drop)},
	}
}

type minimumScoreFilter struct {
	toggle
	threshold float64
}

// NewMinimumScore creates a filter that removes results scoring below the configured percentage.
func NewMinimumScore() Filter {
	return &minimumScoreFilter{}
}

func (f *minimumScoreFilter) Name() string { return "minimum_score" }

func (f *minimumScoreFilter) Validate(cfg *Config) error {
	if cfg.MinimumScore < 0 || cfg.MinimumScore > 100 {
		return fmt.Errorf("minimum score must be within [0, 100], got %v", cfg.MinimumScore)
	}
	f.threshold = cfg.MinimumScore
	return nil
}

func (f *minimumScoreFilter) Apply(_ context.Context, deps Deps, r *matching.Results) (*matching.Results, Step, error) {
	initial := r.Len()
	if f.threshold == 0 {
		return r, Step{Initial: initial, Left: initial}, nil
	}

	dropped := r.Keep(func(res *matching.Result) bool {
		return res.Failed() || res.Percentage >= f.threshold
	})
	if len(dropped) > 0 {
		deps.Logger.Debug("excluding records below the minimum score",
			zap.Float64("threshold", f.threshold),
			zap.Strings("excluded_records", dropped),
		)
	}

	return r, Step{Initial: initial, Dropped: len(dropped), Left: r.Len()}, nil
}

func (f *minimumScoreFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"threshold": strconv.FormatFloat(f.threshold, 'f', -1, 64)},
	}
}

type limitFilter struct {
	toggle
	limit int
}

// NewLimit creates a filter that sorts results by score and keeps the best ones.
func NewLimit() Filter {
	return &limitFilter{}
}

func (f *limitFilter) Name() string { return "limit" }

func (f *limitFilter) Validate(cfg *Config) error {
	if cfg.Limit < 0 {
		return fmt.Errorf("limit must not be negative, got %d", cfg.Limit)
	}
	f.limit = cfg.Limit
	return nil
}

func (f *limitFilter) Apply(_ context.Context, _ Deps, r *matching.Results) (*matching.Results, Step, error) {
	initial := r.Len()
	r.SortByScore()
	if f.limit > 0 && r.Len() > f.limit {
		r.Items = r.Items[:f.limit]
	}
	return r, Step{Initial: initial, Dropped: initial - r.Len(), Left: r.Len()}, nil
}

func (f *limitFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.IsEnabled(),
		Reason:  f.reason,
		Details: map[string]string{"limit": strconv.Itoa(f.limit)},
	}
}

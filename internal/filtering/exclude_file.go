package filtering

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/profile-matcher/internal/matching"
)

type excludeFileFilter struct {
	toggle
	path string
}

// NewExcludeFile creates a filter that removes records listed in an exclude file.
func NewExcludeFile() Filter {
	return &excludeFileFilter{}
}

func (f *excludeFileFilter) Name() string { return "exclude_file" }

func (f *excludeFileFilter) Validate(cfg *Config) error {
	f.path = strings.TrimSpace(cfg.ExcludeFile)
	return nil
}

func (f *excludeFileFilter) Apply(_ context.Context, deps Deps, r *matching.Results) (*matching.Results, Step, error) {
	initial := r.Len()
	if f.path == "" {
		return r, Step{Initial: initial, Left: initial}, nil
	}

	ids, err := ExcludedIDsFromFile(f.path)
	if err != nil {
		return r, Step{}, fmt.Errorf("getting excluded records from file: %w", err)
	}

	removed := r.Exclude(ids)
	if len(removed) > 0 {
		deps.Logger.Info("excluding records based on exclude file",
			zap.String("path", f.path),
			zap.Strings("excluded_records", removed),
			zap.Int("records_left", r.Len()),
		)
	}

	return r, Step{Initial: initial, Dropped: len(removed), Left: r.Len()}, nil
}

func (f *excludeFileFilter) Status() Status {
	details := map[string]string{}
	if f.path != "" {
		details["path"] = f.path
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}

// ExcludedIDsFromFile reads record IDs from path. The file is either a JSON
// array of IDs or a results dump, whose item IDs are used.
func ExcludedIDsFromFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err == nil {
		return ids, nil
	}

	var dump matching.Results
	if err := json.Unmarshal(data, &dump); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	ids = make([]string, 0, len(dump.Items))
	for _, item := range dump.Items {
		ids = append(ids, item.ID)
	}
	return ids, nil
}

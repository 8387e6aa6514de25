// Package matching scores imported records against search criteria.
package matching

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/profile-matcher/internal/records"
	"github.com/spigell/profile-matcher/internal/searchconfig"
)

// Query maps attribute names to the searched value.
type Query map[string]string

// Score is the outcome of comparing one record with a query.
type Score struct {
	// Percentage is in [0, 100].
	Percentage float64
	// Breakdown holds the weighted contribution of each compared attribute.
	Breakdown map[string]float64
	Reason    string
	Raw       string
}

// Scorer compares a single record with a query.
type Scorer interface {
	Score(ctx context.Context, cfg searchconfig.Config, query Query, rec records.Record) (*Score, error)
}

// Run scores every record with scorer. A failure on one record is kept on its
// result and does not stop the run; a cancelled context does.
func Run(ctx context.Context, scorer Scorer, cfg searchconfig.Config, query Query, rs []records.Record, idAttribute string, logger *zap.Logger) (*Results, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if scorer == nil {
		return nil, fmt.Errorf("scorer is required")
	}

	results := &Results{Items: make([]*Result, 0, len(rs))}
	for i, rec := range rs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		res := &Result{Index: i, ID: recordID(rec, idAttribute, i), Record: rec}

		score, err := scorer.Score(ctx, cfg, query, rec)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logger.Warn("scoring failed",
				zap.String("record_id", res.ID),
				zap.Error(err),
			)
			res.Error = err.Error()
			results.Items = append(results.Items, res)
			continue
		}

		res.Percentage = score.Percentage
		res.Breakdown = score.Breakdown
		res.Reason = score.Reason

		logger.Debug("record scored",
			zap.String("record_id", res.ID),
			zap.Float64("percentage", res.Percentage),
		)
		results.Items = append(results.Items, res)
	}

	logger.Info("matching completed",
		zap.Int("records", len(rs)),
		zap.Int("failed", results.Failed()),
	)

	return results, nil
}

func recordID(rec records.Record, idAttribute string, index int) string {
	if idAttribute != "" {
		if id := rec.String(idAttribute); id != "" {
			return id
		}
	}
	return fmt.Sprintf("#%d", index)
}

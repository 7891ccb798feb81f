package linking

import (
	"context"
	"fmt"
	"time"

	"github.com/agenthands/linkbench/internal/core/model"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Runner links every example of a dataset.
type Runner struct {
	Predictor   Predictor
	Concurrency int
	// SkipFailed keeps going when an example cannot be linked; the example
	// gets an empty list and is recorded in Predictions.Failed.
	SkipFailed bool
	Logger     *zap.Logger
}

func NewRunner(p Predictor, concurrency int, skipFailed bool, logger *zap.Logger) *Runner {
	if concurrency < 1 {
		concurrency = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{Predictor: p, Concurrency: concurrency, SkipFailed: skipFailed, Logger: logger}
}

// Run returns the predictions keyed by example id in dataset order. When an
// id repeats, the later example's prediction replaces the earlier one.
func (r *Runner) Run(ctx context.Context, examples []model.Example) (*Predictions, error) {
	start := time.Now()
	results := make([][]string, len(examples))
	failed := make([]bool, len(examples))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.Concurrency)
	for i, ex := range examples {
		g.Go(func() error {
			ids, err := Link(gctx, r.Predictor, ex.Utterance)
			if err != nil {
				if !r.SkipFailed || gctx.Err() != nil {
					return fmt.Errorf("example %s: %w", ex.ID, err)
				}
				r.Logger.Warn("linking failed, skipping example", zap.String("id", ex.ID), zap.Error(err))
				failed[i] = true
				return nil
			}
			r.Logger.Debug("linked example", zap.String("id", ex.ID), zap.Strings("entities", ids))
			results[i] = ids
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	preds := NewPredictions()
	for i, ex := range examples {
		preds.Set(ex.ID, results[i])
		if failed[i] {
			preds.Failed = append(preds.Failed, ex.ID)
		}
	}

	r.Logger.Info("linking finished",
		zap.Int("examples", len(examples)),
		zap.Int("failed", len(preds.Failed)),
		zap.Duration("elapsed", time.Since(start)))
	return preds, nil
}

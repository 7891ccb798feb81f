package linking

import (
	"context"
	"fmt"
	"time"

	"github.com/agenthands/linkbench/internal/core/model"
	"go.uber.org/zap"
)

const (
	DefaultMaxAttempts = 2
	DefaultRetryWait   = 500 * time.Millisecond
)

// Retrying retries a failing predictor a fixed number of times.
type Retrying struct {
	Next        Predictor
	MaxAttempts int
	Wait        time.Duration
	Logger      *zap.Logger
}

func NewRetrying(next Predictor, maxAttempts int, wait time.Duration, logger *zap.Logger) *Retrying {
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Retrying{Next: next, MaxAttempts: maxAttempts, Wait: wait, Logger: logger}
}

func (r *Retrying) Predict(ctx context.Context, utterance string) ([]model.Span, error) {
	var lastErr error
	for attempt := 1; attempt <= r.MaxAttempts; attempt++ {
		spans, err := r.Next.Predict(ctx, utterance)
		if err == nil {
			return spans, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = err
		r.Logger.Warn("linker attempt failed",
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", r.MaxAttempts),
			zap.Error(err))

		if attempt == r.MaxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(r.Wait):
		}
	}
	return nil, fmt.Errorf("linker failed after %d attempts: %w", r.MaxAttempts, lastErr)
}

func (r *Retrying) Warmup(ctx context.Context) error {
	_, err := Warmup(ctx, r.Next)
	return err
}

func (r *Retrying) Relations(ctx context.Context, utterance string) ([]model.Relation, error) {
	return Relations(ctx, r.Next, utterance)
}

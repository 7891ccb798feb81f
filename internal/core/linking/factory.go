package linking

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/agenthands/linkbench/internal/config"
	"github.com/agenthands/linkbench/internal/llm"
	"go.uber.org/zap"
)

// Stack is the configured predictor with its decorators. Close releases the
// cache and the provider client, if they hold resources.
type Stack struct {
	Predictor Predictor
	Name      string
	closers   []io.Closer
}

func (s *Stack) Close() error {
	var errs []error
	for _, c := range s.closers {
		errs = append(errs, c.Close())
	}
	s.closers = nil
	return errors.Join(errs...)
}

// NewPredictor builds the bare provider client selected by cfg.Linker.
func NewPredictor(ctx context.Context, cfg *config.Config) (Predictor, string, error) {
	lc := cfg.Linker
	switch lc.Provider {
	case "refined":
		p := NewRefinedPredictor(lc.BaseURL, lc.Model, lc.EntitySet, lc.Timeout.Duration)
		p.APIKey = lc.APIKey
		return p, "refined:" + p.Model, nil

	case "falcon":
		p := NewFalconPredictor(lc.BaseURL, lc.Timeout.Duration)
		p.APIKey = lc.APIKey
		return p, "falcon", nil

	case "llm":
		client, err := llm.NewClient(ctx, cfg.LLM)
		if err != nil {
			return nil, "", fmt.Errorf("failed to initialize LLM client: %w", err)
		}
		return NewLLMPredictor(client, ""), "llm:" + cfg.LLM.Provider + ":" + cfg.LLM.Model, nil

	default:
		return nil, "", fmt.Errorf("linker %q: %w", lc.Provider, config.ErrUnknownProvider)
	}
}

// Build wraps the provider client in retries and, when enabled, the cache.
// The cache sits outside the retries so hits never reach the network.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Stack, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	base, name, err := NewPredictor(ctx, cfg)
	if err != nil {
		return nil, err
	}

	stack := &Stack{Name: name}
	if c, ok := base.(io.Closer); ok {
		stack.closers = append(stack.closers, c)
	}
	stack.Predictor = NewRetrying(base, cfg.Retry.MaxAttempts, cfg.Retry.Wait.Duration, logger)

	if cfg.Cache.Enabled {
		cache, err := OpenCache(cfg.Cache.Path)
		if err != nil {
			_ = stack.Close()
			return nil, err
		}
		stack.closers = append(stack.closers, cache)
		stack.Predictor = &Cached{Next: stack.Predictor, Cache: cache, Name: name}
	}

	logger.Debug("linker ready",
		zap.String("linker", name),
		zap.Bool("cache", cfg.Cache.Enabled),
		zap.Int("max_attempts", cfg.Retry.MaxAttempts))
	return stack, nil
}

package core

import (
	"context"
	"io"

	"github.com/agenthands/linkbench/internal/config"
	"github.com/agenthands/linkbench/internal/core/experiment"
	"github.com/agenthands/linkbench/internal/core/linking"
	"github.com/agenthands/linkbench/internal/core/model"
	"github.com/agenthands/linkbench/internal/core/resultset"
	"go.uber.org/zap"
)

// Bench ties the experiment tree to the configured linker.
type Bench struct {
	Layout    experiment.Layout
	Options   resultset.Options
	Predictor linking.Predictor
	Logger    *zap.Logger
}

func NewBench(cfg *config.Config, predictor linking.Predictor, logger *zap.Logger) *Bench {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bench{
		Layout:    experiment.NewLayout(cfg.Experiments.Root, cfg.Experiments.Ext),
		Options:   resultset.Options{AllowSingleField: cfg.Experiments.AllowSingleField},
		Predictor: predictor,
		Logger:    logger,
	}
}

// Compare streams to w the identifiers of base that fail in dirB but not in dirA.
func (b *Bench) Compare(w io.Writer, base, dirA, dirB string) (int, error) {
	b.Logger.Debug("comparing runs",
		zap.String("a", b.Layout.Path(dirA, base)),
		zap.String("b", b.Layout.Path(dirB, base)))
	return b.Layout.Compare(w, base, dirA, dirB, b.Options)
}

func (b *Bench) Missing(base, dirA, dirB string) ([]string, error) {
	return b.Layout.Missing(base, dirA, dirB, b.Options)
}

func (b *Bench) Link(ctx context.Context, utterance string) ([]model.Span, error) {
	return b.Predictor.Predict(ctx, utterance)
}

// Resolve links utterance and also reports the result as entity records,
// plus the relations found when the linker detects them.
func (b *Bench) Resolve(ctx context.Context, utterance string) ([]model.Span, model.LinkerResult, error) {
	spans, err := b.Link(ctx, utterance)
	if err != nil {
		return nil, model.LinkerResult{}, err
	}
	if spans == nil {
		spans = []model.Span{}
	}

	rels, err := linking.Relations(ctx, b.Predictor, utterance)
	if err != nil {
		return nil, model.LinkerResult{}, err
	}
	return spans, model.LinkerResult{Entities: model.Entities(spans), Relations: rels}, nil
}

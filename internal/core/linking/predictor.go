// Package linking runs an external entity linker over datasets of utterances
// and collects the predicted Wikidata identifiers per example.
package linking

import (
	"context"
	"errors"

	"github.com/agenthands/linkbench/internal/core/model"
)

// ErrNoPrediction is returned when a linker answers without a usable payload.
var ErrNoPrediction = errors.New("linker returned no prediction")

// Predictor detects mentions in an utterance and links them to entities.
type Predictor interface {
	Predict(ctx context.Context, utterance string) ([]model.Span, error)
}

// Warmer is implemented by predictors whose model must be loaded or
// downloaded before the first call.
type Warmer interface {
	Warmup(ctx context.Context) error
}

// Relater is implemented by predictors that also detect relations, as
// Falcon does.
type Relater interface {
	Relations(ctx context.Context, utterance string) ([]model.Relation, error)
}

// Relations returns the relations p detects in utterance, or an empty list
// when p does not detect relations.
func Relations(ctx context.Context, p Predictor, utterance string) ([]model.Relation, error) {
	r, ok := p.(Relater)
	if !ok {
		return []model.Relation{}, nil
	}
	rels, err := r.Relations(ctx, utterance)
	if err != nil {
		return nil, err
	}
	if rels == nil {
		rels = []model.Relation{}
	}
	return rels, nil
}

// Warmup loads the model behind p if it needs it.
func Warmup(ctx context.Context, p Predictor) (bool, error) {
	w, ok := p.(Warmer)
	if !ok {
		return false, nil
	}
	return true, w.Warmup(ctx)
}

// Link runs p and returns the predicted ids in span order.
func Link(ctx context.Context, p Predictor, utterance string) ([]string, error) {
	spans, err := p.Predict(ctx, utterance)
	if err != nil {
		return nil, err
	}
	return model.EntityIDs(spans), nil
}

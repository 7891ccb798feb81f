package core

import (
	"context"
	"fmt"
	"time"

	"github.com/agenthands/linkbench/internal/core/linking"
	"github.com/agenthands/linkbench/internal/core/model"
	"github.com/agenthands/linkbench/internal/driver"
	"github.com/google/uuid"
)

// Exporter writes a linking run into the graph database as
// (:Run)-[:HAS_UTTERANCE]->(:Utterance)-[:MENTIONS]->(:WikidataEntity).
type Exporter struct {
	Driver        driver.GraphDriver
	UUIDGenerator func() string
	Now           func() time.Time
}

func NewExporter(d driver.GraphDriver) *Exporter {
	return &Exporter{
		Driver:        d,
		UUIDGenerator: func() string { return uuid.New().String() },
		Now:           func() time.Time { return time.Now().UTC() },
	}
}

// Export stores preds and returns the new run id. Predictions without a
// matching example are stored without text.
func (e *Exporter) Export(ctx context.Context, linker, dataset string, examples []model.Example, preds *linking.Predictions) (string, error) {
	runID := e.UUIDGenerator()

	_, err := e.Driver.ExecuteQuery(ctx, driver.SaveRunQuery, map[string]interface{}{
		"uuid":       runID,
		"created_at": e.Now().Format(time.RFC3339),
		"linker":     linker,
		"dataset":    dataset,
	})
	if err != nil {
		return "", fmt.Errorf("failed to save run: %w", err)
	}

	byID := make(map[string]model.Example, len(examples))
	for _, ex := range examples {
		byID[ex.ID] = ex
	}

	for _, id := range preds.Keys() {
		ex := byID[id]
		_, err := e.Driver.ExecuteQuery(ctx, driver.SaveUtteranceQuery, map[string]interface{}{
			"run_id":    runID,
			"id":        id,
			"text":      ex.Utterance,
			"thingtalk": ex.ThingTalk,
		})
		if err != nil {
			return "", fmt.Errorf("failed to save utterance %s: %w", id, err)
		}

		entities, _ := preds.Get(id)
		if len(entities) == 0 {
			continue
		}
		_, err = e.Driver.ExecuteQuery(ctx, driver.SaveMentionsQuery, map[string]interface{}{
			"run_id":   runID,
			"id":       id,
			"entities": entities,
		})
		if err != nil {
			return "", fmt.Errorf("failed to link utterance %s: %w", id, err)
		}
	}

	return runID, nil
}

// Mentions reads back the entity ids stored for a run, keyed by utterance id.
func (e *Exporter) Mentions(ctx context.Context, runID string) (map[string][]string, error) {
	res, err := e.Driver.ExecuteQuery(ctx, driver.GetRunMentionsQuery, map[string]interface{}{"run_id": runID})
	if err != nil {
		return nil, err
	}

	out := make(map[string][]string)
	for _, rec := range res.Records {
		id, _ := rec.Get("id")
		qid, _ := rec.Get("wikidata_id")
		sid, ok1 := id.(string)
		sq, ok2 := qid.(string)
		if !ok1 || !ok2 {
			continue
		}
		out[sid] = append(out[sid], sq)
	}
	return out, nil
}

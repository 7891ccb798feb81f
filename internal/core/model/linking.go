package model

// Example is one row of a linking dataset: id, utterance and its target program.
type Example struct {
	ID        string `json:"id"`
	Utterance string `json:"utterance"`
	ThingTalk string `json:"thingtalk"`
}

// PredictedEntity is the linker's choice for a span. WikidataID is empty when
// the linker found a mention but could not resolve it.
type PredictedEntity struct {
	WikidataID string  `json:"wikidata_entity_id"`
	Title      string  `json:"wikipedia_entity_title,omitempty"`
	Confidence float64 `json:"confidence,omitempty"`
}

// Span is a mention detected in an utterance.
type Span struct {
	Text            string           `json:"text"`
	Start           int              `json:"start"`
	Length          int              `json:"ln"`
	PredictedEntity *PredictedEntity `json:"predicted_entity,omitempty"`
}

// EntityIDs lists the predicted Wikidata ids of spans in order, skipping
// spans without a prediction.
func EntityIDs(spans []Span) []string {
	ids := []string{}
	for _, s := range spans {
		if s.PredictedEntity == nil || s.PredictedEntity.WikidataID == "" {
			continue
		}
		ids = append(ids, s.PredictedEntity.WikidataID)
	}
	return ids
}

type Entity struct {
	ID     string `json:"id"`
	Label  string `json:"label"`
	Domain string `json:"domain,omitempty"`
	Type   string `json:"type"`
}

type Relation struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Type  string `json:"type"`
}

// LinkerResult is the linker output as records, the shape Falcon reports.
type LinkerResult struct {
	Entities  []Entity   `json:"entities"`
	Relations []Relation `json:"relations"`
}

// Entities converts predicted spans to entity records labelled with the
// surface text of their mention.
func Entities(spans []Span) []Entity {
	out := []Entity{}
	for _, s := range spans {
		if s.PredictedEntity == nil || s.PredictedEntity.WikidataID == "" {
			continue
		}
		out = append(out, Entity{
			ID:    s.PredictedEntity.WikidataID,
			Label: s.Text,
			Type:  "entity",
		})
	}
	return out
}

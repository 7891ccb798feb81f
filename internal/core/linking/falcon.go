package linking

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/agenthands/linkbench/internal/core/model"
)

const (
	DefaultFalconURL = "https://labs.tib.eu/falcon/falcon2/api"
	EntityPrefix     = "http://www.wikidata.org/entity/"
)

// FalconPredictor calls the Falcon 2.0 API in long mode.
type FalconPredictor struct {
	URL    string
	APIKey string
	Client *http.Client
}

func NewFalconPredictor(url string, timeout time.Duration) *FalconPredictor {
	if url == "" {
		url = DefaultFalconURL
	}
	return &FalconPredictor{
		URL:    url,
		Client: &http.Client{Timeout: timeout},
	}
}

type falconItem struct {
	URI         string `json:"URI"`
	SurfaceForm string `json:"surface form"`
}

type falconResponse struct {
	Entities  []falconItem `json:"entities_wikidata"`
	Relations []falconItem `json:"relations_wikidata"`
}

func (p *FalconPredictor) query(ctx context.Context, utterance string) (*falconResponse, error) {
	var resp falconResponse
	err := postJSON(ctx, p.Client, p.URL+"?mode=long", p.APIKey, map[string]string{"text": utterance}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (p *FalconPredictor) Predict(ctx context.Context, utterance string) ([]model.Span, error) {
	resp, err := p.query(ctx, utterance)
	if err != nil {
		return nil, err
	}

	spans := make([]model.Span, 0, len(resp.Entities))
	for _, e := range resp.Entities {
		spans = append(spans, spanFor(utterance, e.SurfaceForm, strings.TrimPrefix(e.URI, EntityPrefix)))
	}
	return spans, nil
}

// Relations returns the Wikidata properties Falcon detects alongside the
// entities.
func (p *FalconPredictor) Relations(ctx context.Context, utterance string) ([]model.Relation, error) {
	resp, err := p.query(ctx, utterance)
	if err != nil {
		return nil, err
	}

	out := make([]model.Relation, 0, len(resp.Relations))
	for _, r := range resp.Relations {
		id := r.URI[strings.LastIndexByte(r.URI, '/')+1:]
		out = append(out, model.Relation{ID: id, Label: r.SurfaceForm, Type: "relation"})
	}
	return out, nil
}

// spanFor locates text in utterance case-insensitively. Start is -1 when the
// mention cannot be found verbatim.
func spanFor(utterance, text, id string) model.Span {
	s := model.Span{Text: text, Start: -1, Length: len(text)}
	if text != "" {
		s.Start = strings.Index(strings.ToLower(utterance), strings.ToLower(text))
	}
	if id != "" {
		s.PredictedEntity = &model.PredictedEntity{WikidataID: id}
	}
	return s
}

package linking

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/agenthands/linkbench/internal/core/model"
)

const (
	DefaultRefinedURL       = "http://localhost:8000"
	DefaultRefinedModel     = "questions_model"
	DefaultRefinedEntitySet = "wikidata"
)

// RefinedPredictor calls a ReFinED inference service over HTTP.
type RefinedPredictor struct {
	BaseURL   string
	Model     string
	EntitySet string
	APIKey    string
	Client    *http.Client
}

func NewRefinedPredictor(baseURL, modelName, entitySet string, timeout time.Duration) *RefinedPredictor {
	if baseURL == "" {
		baseURL = DefaultRefinedURL
	}
	if modelName == "" {
		modelName = DefaultRefinedModel
	}
	if entitySet == "" {
		entitySet = DefaultRefinedEntitySet
	}
	return &RefinedPredictor{
		BaseURL:   strings.TrimRight(baseURL, "/"),
		Model:     modelName,
		EntitySet: entitySet,
		Client:    &http.Client{Timeout: timeout},
	}
}

type refinedRequest struct {
	Text      string `json:"text"`
	Model     string `json:"model"`
	EntitySet string `json:"entity_set"`
}

type refinedResponse struct {
	Spans *[]model.Span `json:"spans"`
}

type refinedLoadRequest struct {
	Model                      string `json:"model"`
	EntitySet                  string `json:"entity_set"`
	DownloadFiles              bool   `json:"download_files"`
	UsePrecomputedDescriptions bool   `json:"use_precomputed_descriptions"`
}

func (p *RefinedPredictor) Predict(ctx context.Context, utterance string) ([]model.Span, error) {
	var resp refinedResponse
	err := postJSON(ctx, p.Client, p.BaseURL+"/process_text", p.APIKey, refinedRequest{
		Text:      utterance,
		Model:     p.Model,
		EntitySet: p.EntitySet,
	}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Spans == nil {
		return nil, ErrNoPrediction
	}
	return *resp.Spans, nil
}

// Warmup asks the service to load the pretrained model, downloading its
// files on first use.
func (p *RefinedPredictor) Warmup(ctx context.Context) error {
	return postJSON(ctx, p.Client, p.BaseURL+"/load", p.APIKey, refinedLoadRequest{
		Model:                      p.Model,
		EntitySet:                  p.EntitySet,
		DownloadFiles:              true,
		UsePrecomputedDescriptions: true,
	}, nil)
}

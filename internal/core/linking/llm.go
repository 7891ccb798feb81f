package linking

import (
	"context"
	"fmt"
	"io"

	"github.com/agenthands/linkbench/internal/core/common"
	"github.com/agenthands/linkbench/internal/core/model"
	"github.com/agenthands/linkbench/internal/llm"
)

const DefaultLinkPrompt = `You are an entity linker for Wikidata.
Find every mention of a named entity in the question below and link it to its Wikidata item.
Return a JSON object with key "spans": a list of objects with "text" (the mention exactly as
written in the question) and "wikidata_id" (the Q identifier, or "" when unsure).
Do not output any other text.

Question: %s`

type llmSpan struct {
	Text       string `json:"text"`
	WikidataID string `json:"wikidata_id"`
}

type llmSpans struct {
	Spans []llmSpan `json:"spans"`
}

// LLMPredictor asks a chat model to do the linking.
type LLMPredictor struct {
	LLM    llm.LLMClient
	Prompt string
}

func NewLLMPredictor(client llm.LLMClient, prompt string) *LLMPredictor {
	if prompt == "" {
		prompt = DefaultLinkPrompt
	}
	return &LLMPredictor{
		LLM:    client,
		Prompt: prompt,
	}
}

func (p *LLMPredictor) Predict(ctx context.Context, utterance string) ([]model.Span, error) {
	prompt := fmt.Sprintf(p.Prompt, utterance)

	response, err := p.LLM.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate spans: %w", err)
	}

	result, err := common.ParseJSON[llmSpans](response)
	if err != nil {
		return nil, fmt.Errorf("failed to extract spans: %w", err)
	}

	spans := make([]model.Span, 0, len(result.Spans))
	for _, s := range result.Spans {
		spans = append(spans, spanFor(utterance, s.Text, s.WikidataID))
	}
	return spans, nil
}

// Close releases the model client when it holds a connection, as the Gemini
// client does.
func (p *LLMPredictor) Close() error {
	if c, ok := p.LLM.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

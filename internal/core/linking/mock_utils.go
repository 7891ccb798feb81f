package linking

import (
	"context"
	"sync"

	"github.com/agenthands/linkbench/internal/core/model"
)

type MockLLMClient struct {
	Response string
	Err      error
	Prompts  []string
}

func (m *MockLLMClient) Generate(ctx context.Context, prompt string) (string, error) {
	m.Prompts = append(m.Prompts, prompt)
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}

// MockPredictor answers from a fixed table keyed by utterance. Failures
// counts down per utterance before the real answer is returned.
type MockPredictor struct {
	mu       sync.Mutex
	Spans    map[string][]model.Span
	Relates  map[string][]model.Relation
	Failures map[string]int
	Err      error
	Calls    int
	Warmed   bool
}

func (m *MockPredictor) Predict(ctx context.Context, utterance string) ([]model.Span, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	if m.Failures[utterance] > 0 {
		m.Failures[utterance]--
		return nil, m.Err
	}
	return m.Spans[utterance], nil
}

func (m *MockPredictor) Relations(ctx context.Context, utterance string) ([]model.Relation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Relates[utterance], nil
}

func (m *MockPredictor) Warmup(ctx context.Context) error {
	m.Warmed = true
	return nil
}

func (m *MockPredictor) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls
}

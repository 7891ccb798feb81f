package linking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/agenthands/linkbench/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

var errFlaky = errors.New("connection reset")

func TestRetryingRecovers(t *testing.T) {
	mock := &MockPredictor{
		Spans:    map[string][]model.Span{"q": {{Text: "x", PredictedEntity: &model.PredictedEntity{WikidataID: "Q1"}}}},
		Failures: map[string]int{"q": 1},
		Err:      errFlaky,
	}
	r := NewRetrying(mock, 2, time.Millisecond, zaptest.NewLogger(t))

	ids, err := Link(context.Background(), r, "q")
	require.NoError(t, err)
	assert.Equal(t, []string{"Q1"}, ids)
	assert.Equal(t, 2, mock.CallCount())
}

func TestRetryingGivesUp(t *testing.T) {
	mock := &MockPredictor{Failures: map[string]int{"q": 5}, Err: errFlaky}
	r := NewRetrying(mock, 2, 0, nil)

	_, err := r.Predict(context.Background(), "q")
	assert.ErrorIs(t, err, errFlaky)
	assert.Equal(t, 2, mock.CallCount())
}

func TestRetryingStopsOnCancel(t *testing.T) {
	mock := &MockPredictor{Failures: map[string]int{"q": 5}, Err: errFlaky}
	r := NewRetrying(mock, 3, time.Hour, nil)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		for mock.CallCount() == 0 {
			time.Sleep(time.Millisecond)
		}
		cancel()
	}()

	_, err := r.Predict(ctx, "q")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, mock.CallCount())
}

func TestRetryingWarmupPassesThrough(t *testing.T) {
	mock := &MockPredictor{}
	warmed, err := Warmup(context.Background(), NewRetrying(mock, 1, 0, nil))
	require.NoError(t, err)
	assert.True(t, warmed)
	assert.True(t, mock.Warmed)
}

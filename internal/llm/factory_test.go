package llm

import (
	"context"
	"testing"

	"github.com/agenthands/linkbench/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	ctx := context.Background()

	c, err := NewClient(ctx, config.LLMConfig{Provider: "OpenAI", Model: "gpt-4o-mini", APIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &OpenAIClient{}, c)

	c, err = NewClient(ctx, config.LLMConfig{Provider: "claude", Model: "claude-3-5-haiku-latest", APIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &ClaudeClient{}, c)

	c, err = NewClient(ctx, config.LLMConfig{Provider: "ollama", Model: "llama3"})
	require.NoError(t, err)
	assert.IsType(t, &OpenAIClient{}, c)

	_, err = NewClient(ctx, config.LLMConfig{Provider: "azure"})
	assert.ErrorIs(t, err, config.ErrUnknownProvider)
}

func TestOllamaBaseURL(t *testing.T) {
	assert.Equal(t, "http://localhost:11434/v1", OllamaBaseURL(""))
	assert.Equal(t, "http://gpu:11434/v1", OllamaBaseURL("http://gpu:11434/"))
	assert.Equal(t, "http://gpu:11434/v1", OllamaBaseURL("http://gpu:11434/v1"))
}

package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/agenthands/linkbench/internal/config"
)

func NewClient(ctx context.Context, cfg config.LLMConfig) (LLMClient, error) {
	provider := strings.ToLower(cfg.Provider)

	switch provider {
	case "openai":
		return NewOpenAIClient(cfg.APIKey, cfg.Model, cfg.BaseURL), nil

	case "gemini":
		return NewGeminiClient(ctx, cfg.APIKey, cfg.Model)

	case "claude":
		return NewClaudeClient(cfg.APIKey, cfg.Model, cfg.BaseURL), nil

	case "ollama":
		// Ollama speaks the OpenAI API under /v1 and ignores the key.
		apiKey := cfg.APIKey
		if apiKey == "" {
			apiKey = "ollama"
		}
		return NewOpenAIClient(apiKey, cfg.Model, OllamaBaseURL(cfg.BaseURL)), nil

	default:
		return nil, fmt.Errorf("llm provider %q: %w", provider, config.ErrUnknownProvider)
	}
}

func OllamaBaseURL(baseURL string) string {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if strings.HasSuffix(baseURL, "/v1") {
		return baseURL
	}
	return strings.TrimRight(baseURL, "/") + "/v1"
}

package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Alexlaaa/GitLLM/internal/config"
)

// Supported planning-model providers.
const (
	ProviderVertex = "vertex"
	ProviderOllama = "ollama"
	ProviderDummy  = "dummy"
)

// TextGenerator abstracts the language model behind the planner and the
// comparator: one prompt in, one text completion out. Implementations must
// honor ctx cancellation.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// NewTextGenerator selects a provider from configuration. Vertex AI is the
// hosted default, Ollama serves local development, and the dummy provider
// keeps the pipeline runnable offline.
func NewTextGenerator(ctx context.Context, cfg *config.Config) (TextGenerator, error) {
	provider := strings.ToLower(cfg.LLMProvider)
	switch provider {
	case ProviderVertex:
		return NewVertexLLM(ctx, cfg.GCPProjectID, cfg.GCPLocation, cfg.GeminiModel)
	case ProviderOllama:
		return NewOllamaLLM(cfg.OllamaURL, cfg.OllamaModel)
	case ProviderDummy:
		return NewDummyLLM(), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.LLMProvider)
	}
}

package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

// OllamaLLM implements TextGenerator against a local Ollama server, for
// development without GCP credentials.
type OllamaLLM struct {
	llm *ollama.LLM
}

// NewOllamaLLM creates a new Ollama-backed text generator.
func NewOllamaLLM(serverURL, modelName string) (*OllamaLLM, error) {
	l, err := ollama.New(ollama.WithModel(modelName), ollama.WithServerURL(serverURL))
	if err != nil {
		return nil, fmt.Errorf("failed to init ollama: %w", err)
	}

	return &OllamaLLM{llm: l}, nil
}

// Generate produces a single completion for the prompt. JSON mode is forced
// because every prompt in this pipeline expects a JSON answer.
func (l *OllamaLLM) Generate(ctx context.Context, prompt string) (string, error) {
	res, err := l.llm.Call(ctx, prompt, llms.WithJSONMode())
	if err != nil {
		return "", fmt.Errorf("failed to generate response: %w", err)
	}
	return strings.TrimSpace(res), nil
}

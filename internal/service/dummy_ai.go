package service

import (
	"context"
	"strings"
)

type dummyLLM struct{}

// NewDummyLLM returns a TextGenerator with canned JSON answers so the full
// pipeline stays runnable without a model backend (LLM_PROVIDER=dummy).
func NewDummyLLM() TextGenerator {
	return dummyLLM{}
}

func (d dummyLLM) Generate(_ context.Context, prompt string) (string, error) {
	// Comparison prompts ask for a quality_score; planning prompts do not.
	if strings.Contains(prompt, "quality_score") {
		return `{"schema_version": 1, "similarities": "both follow the same overall pattern", "differences": "none identified", "strengths": "straightforward structure", "improvements": "none identified", "verdict": "comparable implementations", "quality_score": 5}`, nil
	}
	return `{"target": "content", "query_string": "placeholder language:go", "rationale": "canned plan from the dummy provider", "assessment": "offline placeholder results", "intent": "development"}`, nil
}

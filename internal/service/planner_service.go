package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/Alexlaaa/GitLLM/internal/models"
)

// plannerPrompt embeds the user query plus the strict output schema. The
// sanitizer only tolerates fencing, so the instructions insist on bare JSON.
const plannerPrompt = `You are the query planner for a GitHub code search tool.
Turn the user's request into one GitHub search call.

Respond with a single JSON object and nothing else (no markdown fences, no prose):
{
  "target": "content" | "repository" | "none",
  "query_string": "the GitHub search query, using qualifiers like language:, repo:, user:, filename:, stars:",
  "rationale": "one sentence on why this query serves the request",
  "assessment": "one sentence on how useful the results will likely be",
  "intent": "a short label for what the user is trying to do"
}

Rules:
- Use target "content" to find code inside files, "repository" to find whole projects.
- Use target "none" only when no GitHub search could answer the request; then query_string may be empty.
- query_string must be a plain GitHub search query with no surrounding quotes.
- Keep the user's topic words as search terms. Add language: only for an actual
  programming language the request names (react is a topic, not a language:).

User request: %q`

// ---- Service interface + implementation ------------------------------------

// PlannerService turns a natural-language query into a validated SearchPlan.
type PlannerService interface {
	Plan(ctx context.Context, query string) (*models.SearchPlan, error)
}

type plannerService struct {
	generator TextGenerator
	provider  string
}

// NewPlannerService wires the text generator. provider is only used to label
// errors, so callers can tell which backend misbehaved.
func NewPlannerService(generator TextGenerator, provider string) PlannerService {
	return &plannerService{generator: generator, provider: provider}
}

// Plan builds the instruction prompt, invokes the model exactly once, and
// parses the response. Empty input is rejected before any model call, and no
// fallback plan is synthesized when the model fails.
func (s *plannerService) Plan(ctx context.Context, query string) (*models.SearchPlan, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	log.Printf("[Planner] planning query: %q", query)

	raw, err := s.generator.Generate(ctx, fmt.Sprintf(plannerPrompt, query))
	if err != nil {
		return nil, &PlanningServiceError{Provider: s.provider, Err: err}
	}

	plan, err := parseSearchPlan(raw)
	if err != nil {
		return nil, err
	}

	log.Printf("[Planner] target=%s query=%q", plan.Target, plan.QueryString)
	return plan, nil
}

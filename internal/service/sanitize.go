package service

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Alexlaaa/GitLLM/internal/models"
)

// sanitizeModelJSON strips the markdown fencing models wrap around JSON
// answers and trims surrounding whitespace.
func sanitizeModelJSON(resp string) string {
	resp = strings.TrimSpace(resp)
	resp = strings.TrimPrefix(resp, "```json")
	resp = strings.TrimPrefix(resp, "```")
	resp = strings.TrimSuffix(resp, "```")
	return strings.TrimSpace(resp)
}

// parseSearchPlan sanitizes and parses a planning response. Parsing either
// fully succeeds or fails; there is no partial-plan recovery.
func parseSearchPlan(raw string) (*models.SearchPlan, error) {
	cleaned := sanitizeModelJSON(raw)
	if cleaned == "" {
		return nil, newPlanParseError("empty response", raw)
	}

	var plan models.SearchPlan
	if err := json.Unmarshal([]byte(cleaned), &plan); err != nil {
		return nil, newPlanParseError(fmt.Sprintf("invalid JSON: %v", err), raw)
	}

	if !plan.Target.Valid() {
		return nil, newPlanParseError(fmt.Sprintf("unknown target %q", plan.Target), raw)
	}
	if plan.Target != models.TargetNone && strings.TrimSpace(plan.QueryString) == "" {
		return nil, newPlanParseError("missing query_string", raw)
	}

	return &plan, nil
}

// analysisPayload decodes the model's comparison answer leniently: the score
// is kept raw so a mis-typed value degrades to the default instead of
// failing the whole parse.
type analysisPayload struct {
	Similarities string          `json:"similarities"`
	Differences  string          `json:"differences"`
	Strengths    string          `json:"strengths"`
	Improvements string          `json:"improvements"`
	Verdict      string          `json:"verdict"`
	QualityScore json.RawMessage `json:"quality_score"`
}

// parseAnalysis sanitizes and parses a comparison response into the fixed
// AnalysisFields schema. Missing insight fields get the placeholder text;
// the score is clamped into its documented range with 0 as the failure value.
func parseAnalysis(raw string) (models.AnalysisFields, error) {
	cleaned := sanitizeModelJSON(raw)
	if cleaned == "" {
		return models.AnalysisFields{}, newPlanParseError("empty response", raw)
	}

	var payload analysisPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return models.AnalysisFields{}, newPlanParseError(fmt.Sprintf("invalid JSON: %v", err), raw)
	}

	return models.AnalysisFields{
		SchemaVersion: models.AnalysisSchemaVersion,
		Similarities:  orPlaceholder(payload.Similarities),
		Differences:   orPlaceholder(payload.Differences),
		Strengths:     orPlaceholder(payload.Strengths),
		Improvements:  orPlaceholder(payload.Improvements),
		Verdict:       orPlaceholder(payload.Verdict),
		QualityScore:  clampScore(payload.QualityScore),
	}, nil
}

func orPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return models.AnalysisPlaceholder
	}
	return s
}

// clampScore turns whatever the model put under quality_score into an int
// within [QualityScoreMin, QualityScoreMax]. Missing, quoted, fractional,
// and out-of-range values all resolve to a usable number, never NaN.
func clampScore(raw json.RawMessage) int {
	if len(raw) == 0 {
		return models.QualityScoreDefault
	}

	text := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return models.QualityScoreDefault
	}

	score := int(f)
	if score < models.QualityScoreMin {
		return models.QualityScoreMin
	}
	if score > models.QualityScoreMax {
		return models.QualityScoreMax
	}
	return score
}

package models

// AnalysisSchemaVersion tags AnalysisFields so the frontend can detect which
// insight categories to expect.
const AnalysisSchemaVersion = 1

// AnalysisPlaceholder replaces any insight field the model failed to produce.
const AnalysisPlaceholder = "analysis unavailable"

// Bounds for the model-assigned quality score. Out-of-range or missing
// scores are clamped; QualityScoreDefault is the neutral failure value.
const (
	QualityScoreMin     = 0
	QualityScoreMax     = 10
	QualityScoreDefault = 0
)

// AnalysisFields is the fixed schema distilled from the model's free-form
// comparison response. Every field is always populated: absent or invalid
// values are replaced with AnalysisPlaceholder or the clamped default score.
type AnalysisFields struct {
	SchemaVersion int    `json:"schema_version"`
	Similarities  string `json:"similarities"`
	Differences   string `json:"differences"`
	Strengths     string `json:"strengths"`
	Improvements  string `json:"improvements"`
	Verdict       string `json:"verdict"`
	QualityScore  int    `json:"quality_score"`
}

// ComparisonResult pairs one public implementation with the model's analysis
// of it against the user's reference snippet.
type ComparisonResult struct {
	Score       float64           `json:"score"`
	Name        string            `json:"name"`
	Path        string            `json:"path"`
	Repository  RepositorySummary `json:"repository"`
	CodeContent string            `json:"code_content"`
	Analysis    AnalysisFields    `json:"analysis"`
}

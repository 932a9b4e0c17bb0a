package models

// Target names the GitHub search surface a plan is aimed at.
type Target string

const (
	// TargetContent searches file contents through the code-search endpoint.
	TargetContent Target = "content"
	// TargetRepository searches repository metadata.
	TargetRepository Target = "repository"
	// TargetNone means the planner judged the query unanswerable by search.
	TargetNone Target = "none"
)

// Valid reports whether t is one of the three planner outcomes.
func (t Target) Valid() bool {
	switch t {
	case TargetContent, TargetRepository, TargetNone:
		return true
	}
	return false
}

// SearchPlan is the structured interpretation of a natural-language query.
// The planner produces exactly one per query; it is never mutated afterwards.
// A Target of "none" short-circuits the pipeline before dispatch.
type SearchPlan struct {
	Target      Target `json:"target"`
	QueryString string `json:"query_string"`
	Rationale   string `json:"rationale"`
	Assessment  string `json:"assessment"`
	Intent      string `json:"intent"`
}

package models

// SearchRequest is the payload for POST /api/v1/search and POST /api/v1/plan.
type SearchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"` // optional; lowers the enrichment bound for this call
}

// CompareRequest is the payload for POST /api/v1/compare. RepoFilter and
// UserFilter scope the candidate search; invalid values are ignored.
type CompareRequest struct {
	Snippet    string `json:"snippet"`
	Language   string `json:"language"`
	RepoFilter string `json:"repo_filter"` // owner/name
	UserFilter string `json:"user_filter"`
	Limit      int    `json:"limit"` // optional; lowers the comparison bound for this call
}

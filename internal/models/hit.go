package models

// RepositorySummary carries enough repository metadata to render a result
// card without a second API call. For repository-target searches it is the
// whole result; for content hits it is the summary GitHub embeds in the item.
type RepositorySummary struct {
	Name        string `json:"name"`
	FullName    string `json:"full_name"`
	Description string `json:"description"`
	HTMLURL     string `json:"html_url"`
	Owner       string `json:"owner"`
	Stars       int    `json:"stars"`
	Forks       int    `json:"forks"`
	Language    string `json:"language"`
}

// ContentHit is one raw item returned by the code-search endpoint, before
// enrichment. APIURL points at the contents resource for the matched file.
type ContentHit struct {
	Path       string            `json:"path"`
	Name       string            `json:"name"`
	Sha        string            `json:"sha"`
	APIURL     string            `json:"api_url"`
	HTMLURL    string            `json:"html_url"`
	Score      float64           `json:"score"`
	Repository RepositorySummary `json:"repository"`
}

// RepositoryHit is one raw item returned by the repository-search endpoint.
type RepositoryHit struct {
	Name        string  `json:"name"`
	FullName    string  `json:"full_name"`
	Description string  `json:"description"`
	HTMLURL     string  `json:"html_url"`
	Score       float64 `json:"score"`
	Owner       string  `json:"owner"`
	Stars       int     `json:"stars"`
	Forks       int     `json:"forks"`
	Language    string  `json:"language"`
}

// SearchResults is the normalized outcome of one dispatched search.
// Exactly one of the two hit slices is populated, matching Target.
// An empty slice is a valid zero-result outcome, not an error.
type SearchResults struct {
	Target      Target          `json:"target"`
	TotalCount  int             `json:"total_count"`
	ContentHits []ContentHit    `json:"content_hits,omitempty"`
	RepoHits    []RepositoryHit `json:"repository_hits,omitempty"`
}

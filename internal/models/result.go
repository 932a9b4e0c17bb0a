package models

// FetchStatus records how content enrichment went for a single hit.
// A failed fetch never removes a result from the batch; it is tagged here
// and carries placeholder content instead.
type FetchStatus string

const (
	FetchOK                 FetchStatus = "ok"
	FetchContentUnavailable FetchStatus = "content_unavailable"
	FetchLimitReached       FetchStatus = "limit_reached"
	FetchFailed             FetchStatus = "error"
)

// Placeholder content for results that carry no fetched file.
const (
	ContentUnavailablePlaceholder = "// file content unavailable"
	ContentLimitPlaceholder       = "// content not fetched (result limit reached)"
	ContentErrorPlaceholder       = "// content fetch failed"
)

// SnippetPreviewLines is how many leading lines of a file make the preview.
const SnippetPreviewLines = 10

// Snippet is the line-bounded preview shown on a result card.
type Snippet struct {
	Code      string `json:"code"`
	Language  string `json:"language"`
	LineStart int    `json:"line_start"`
	LineEnd   int    `json:"line_end"`
}

// EnrichedResult is a ContentHit plus fetched, decoded file content.
// Instances are built once per hit at enrichment time and never mutated.
type EnrichedResult struct {
	ID          string            `json:"id"`
	Repository  RepositorySummary `json:"repository"`
	Path        string            `json:"path"`
	Name        string            `json:"name"`
	URL         string            `json:"url"`
	HTMLURL     string            `json:"html_url"`
	Snippet     Snippet           `json:"snippet"`
	TotalLines  int               `json:"total_lines"`
	MatchScore  float64           `json:"match_score"`
	FullContent string            `json:"full_content"`
	FetchStatus FetchStatus       `json:"fetch_status"`
	FetchError  string            `json:"fetch_error,omitempty"`
}

package github

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

const (
	// DefaultBaseURL is the public GitHub REST API root.
	DefaultBaseURL = "https://api.github.com"

	// DefaultTimeout is the transport-level request timeout. Individual
	// enrichment tasks apply their own (shorter) context deadlines on top.
	DefaultTimeout = 30 * time.Second

	// maxErrorBody caps how much of an error response we keep for messages.
	maxErrorBody = 4 << 10

	userAgent = "gitllm-server"
)

// Client is a minimal wrapper around the subset of GitHub's REST API v3 this
// service uses: code search, repository search, the contents endpoint, and
// single-repository metadata.
type Client struct {
	http    *http.Client
	baseURL string
	limiter *Limiter
}

// NewClient returns a ready-to-use GitHub API client. token may be empty,
// which works but is subject to very low unauthenticated rate limits.
// baseURL overrides the API root; pass "" for api.github.com.
func NewClient(ctx context.Context, token, baseURL string) *Client {
	httpClient := &http.Client{Timeout: DefaultTimeout}
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(ctx, ts)
		httpClient.Timeout = DefaultTimeout
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		http:    httpClient,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		limiter: NewLimiter(),
	}
}

// Limiter exposes the client's rate limiter, mainly for health reporting.
func (c *Client) Limiter() *Limiter { return c.limiter }

// ---- Wire types ----------------------------------------------------------

// Repository is the repository object as GitHub returns it, both as a
// standalone search item and embedded inside a code-search item.
type Repository struct {
	Name        string  `json:"name"`
	FullName    string  `json:"full_name"`
	Description string  `json:"description"`
	HTMLURL     string  `json:"html_url"`
	Language    string  `json:"language"`
	Stargazers  int     `json:"stargazers_count"`
	Forks       int     `json:"forks_count"`
	Score       float64 `json:"score"`
	Owner       struct {
		Login string `json:"login"`
	} `json:"owner"`
}

// CodeItem is one item from GET /search/code. URL points at the contents
// resource for the matched file.
type CodeItem struct {
	Name       string     `json:"name"`
	Path       string     `json:"path"`
	Sha        string     `json:"sha"`
	URL        string     `json:"url"`
	HTMLURL    string     `json:"html_url"`
	Score      float64    `json:"score"`
	Repository Repository `json:"repository"`
}

// CodeSearchResult is the payload of GET /search/code.
type CodeSearchResult struct {
	TotalCount        int        `json:"total_count"`
	IncompleteResults bool       `json:"incomplete_results"`
	Items             []CodeItem `json:"items"`
}

// RepoSearchResult is the payload of GET /search/repositories.
type RepoSearchResult struct {
	TotalCount        int          `json:"total_count"`
	IncompleteResults bool         `json:"incomplete_results"`
	Items             []Repository `json:"items"`
}

// FileContent is the payload of the contents endpoint for a single file:
// metadata plus the (usually base64-encoded) content in one response.
type FileContent struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	Sha         string `json:"sha"`
	Size        int    `json:"size"`
	Encoding    string `json:"encoding"`
	Content     string `json:"content"`
	HTMLURL     string `json:"html_url"`
	DownloadURL string `json:"download_url"`
}

// Decode reverses the declared transfer encoding and returns the file text.
// GitHub wraps base64 payloads at 60 columns, so newlines are stripped first.
// An empty payload (encoding "none" is used for oversized files) returns
// ErrNoContent.
func (f *FileContent) Decode() (string, error) {
	switch f.Encoding {
	case "base64":
		raw := strings.ReplaceAll(f.Content, "\n", "")
		decoded, err := base64.StdEncoding.DecodeString(raw)
		if err != nil {
			return "", fmt.Errorf("github: decode base64 content: %w", err)
		}
		return string(decoded), nil
	case "", "none":
		if f.Content == "" {
			return "", ErrNoContent
		}
		return f.Content, nil
	default:
		return "", fmt.Errorf("github: unsupported content encoding %q", f.Encoding)
	}
}

// ---- API calls -------------------------------------------------------------

// SearchCode runs a code search. The query is percent-encoded here; callers
// pass it raw, qualifiers included.
func (c *Client) SearchCode(ctx context.Context, query string, perPage int) (*CodeSearchResult, error) {
	u := fmt.Sprintf("%s/search/code?q=%s&per_page=%d", c.baseURL, url.QueryEscape(query), perPage)
	var out CodeSearchResult
	if err := c.get(ctx, u, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchRepositories runs a repository search ordered by best match.
func (c *Client) SearchRepositories(ctx context.Context, query string, perPage int) (*RepoSearchResult, error) {
	u := fmt.Sprintf("%s/search/repositories?q=%s&per_page=%d", c.baseURL, url.QueryEscape(query), perPage)
	var out RepoSearchResult
	if err := c.get(ctx, u, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetContentsURL fetches a contents resource by the absolute URL a search
// item carries, returning file metadata plus encoded content.
func (c *Client) GetContentsURL(ctx context.Context, rawURL string) (*FileContent, error) {
	var out FileContent
	if err := c.get(ctx, rawURL, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetRepository fetches full metadata for "owner/name". Code-search items
// embed only a repository summary; this fills in stars, forks and language.
func (c *Client) GetRepository(ctx context.Context, fullName string) (*Repository, error) {
	u := fmt.Sprintf("%s/repos/%s", c.baseURL, fullName)
	var out Repository
	if err := c.get(ctx, u, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ---- Plumbing --------------------------------------------------------------

// get performs one rate-limited GET and decodes the JSON payload into v.
func (c *Client) get(ctx context.Context, rawURL string, v interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("github: build request: %w", err)
	}
	c.addHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("github: request failed: %w", err)
	}
	defer resp.Body.Close()

	c.limiter.UpdateFromResponse(resp)

	if err := checkResponse(resp); err != nil {
		return err
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

// addHeaders sets the media type and User-Agent headers. Authentication is
// handled by the oauth2 transport when a token was configured.
func (c *Client) addHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	req.Header.Set("User-Agent", userAgent)
}

// checkResponse converts non-success responses into the error taxonomy:
// quota exhaustion (429, or 403 with zero remaining) becomes RateLimitError,
// anything else becomes APIError with the upstream message preserved.
func checkResponse(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	if resp.StatusCode == http.StatusTooManyRequests ||
		(resp.StatusCode == http.StatusForbidden && resp.Header.Get(headerRateRemaining) == "0") {
		return rateLimitErrorFrom(resp)
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var payload struct {
		Message string `json:"message"`
	}
	message := ""
	if err := json.Unmarshal(body, &payload); err == nil {
		message = payload.Message
	}
	if message == "" {
		message = strings.TrimSpace(string(body))
	}
	if message == "" {
		message = resp.Status
	}

	reqURL := ""
	if resp.Request != nil && resp.Request.URL != nil {
		reqURL = resp.Request.URL.String()
	}
	return &APIError{StatusCode: resp.StatusCode, Message: message, URL: reqURL}
}

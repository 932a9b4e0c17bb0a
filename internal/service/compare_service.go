package service

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Alexlaaa/GitLLM/internal/github"
	"github.com/Alexlaaa/GitLLM/internal/models"
)

// comparePrompt embeds the reference snippet, one fetched candidate, and the
// fixed analysis schema the sanitizer parses.
const comparePrompt = `You are reviewing two implementations of the same coding pattern.

Reference snippet (provided by the user):
%s

Candidate implementation from %s (%s):
%s

Respond with a single JSON object and nothing else (no markdown fences, no prose):
{
  "schema_version": 1,
  "similarities": "what both implementations share",
  "differences": "where they diverge",
  "strengths": "what the candidate does better than the reference",
  "improvements": "what the candidate could take from the reference",
  "verdict": "one-sentence overall judgement",
  "quality_score": <integer 0-10 rating the candidate>
}`

const (
	// maxPromptCode caps how much of either snippet goes into the prompt.
	maxPromptCode = 8000

	// maxQueryTokens caps how many snippet identifiers seed the search.
	maxQueryTokens = 6
)

var (
	// identifierPattern matches identifier-like tokens worth searching for.
	identifierPattern = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]{2,}`)

	// repoFilterPattern validates an owner/name repository qualifier.
	repoFilterPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+/[A-Za-z0-9_.-]+$`)

	// userFilterPattern validates a user or organization qualifier.
	userFilterPattern = regexp.MustCompile(`^[A-Za-z0-9-]+$`)
)

// codeStopwords are tokens too generic to discriminate between codebases.
var codeStopwords = map[string]bool{
	"async": true, "await": true, "bool": true, "break": true, "case": true,
	"catch": true, "class": true, "const": true, "continue": true, "def": true,
	"default": true, "else": true, "except": true, "export": true, "false": true,
	"for": true, "from": true, "func": true, "function": true, "import": true,
	"int": true, "interface": true, "let": true, "new": true, "nil": true,
	"null": true, "package": true, "print": true, "private": true, "public": true,
	"raise": true, "range": true, "return": true, "self": true, "static": true,
	"string": true, "struct": true, "switch": true, "the": true, "this": true,
	"throw": true, "true": true, "try": true, "type": true, "var": true,
	"void": true, "while": true,
}

// ---- Collaborator contracts --------------------------------------------------

// RepoContentFetcher is the slice of the GitHub client the comparator needs:
// file contents plus the owning repository's metadata.
type RepoContentFetcher interface {
	ContentFetcher
	GetRepository(ctx context.Context, fullName string) (*github.Repository, error)
}

// ---- Service interface + implementation ------------------------------------

// CompareRequest carries the reference snippet and optional search scoping.
type CompareRequest struct {
	Snippet    string
	Language   string
	RepoFilter string // owner/name
	UserFilter string
	Limit      int // lowers the candidate bound for one call; 0 keeps the default
}

// CompareService finds public implementations resembling a reference snippet
// and asks the model to analyze each one against it. The returned string is
// the code-search query that was dispatched.
type CompareService interface {
	Compare(ctx context.Context, req CompareRequest) (string, []models.ComparisonResult, error)
}

type compareService struct {
	search      SearchService
	github      RepoContentFetcher
	cache       ContentCache
	generator   TextGenerator
	provider    string
	limit       int
	workers     int
	taskTimeout time.Duration // per-candidate deadline covering fetch + model call
}

// NewCompareService wires the dispatcher, the GitHub client, the optional
// content cache, and the text generator.
func NewCompareService(search SearchService, client RepoContentFetcher, cache ContentCache,
	generator TextGenerator, provider string, limit, workers int, taskTimeout time.Duration) CompareService {
	if limit <= 0 {
		limit = 5
	}
	if workers <= 0 {
		workers = 4
	}
	if taskTimeout <= 0 {
		taskTimeout = 45 * time.Second
	}
	return &compareService{
		search:      search,
		github:      client,
		cache:       cache,
		generator:   generator,
		provider:    provider,
		limit:       limit,
		workers:     workers,
		taskTimeout: taskTimeout,
	}
}

// Compare dispatches a content search seeded from the snippet, then runs
// each of the first M hits through an isolated analysis task. A failed
// candidate is dropped from the output; the batch itself always completes.
func (s *compareService) Compare(ctx context.Context, req CompareRequest) (string, []models.ComparisonResult, error) {
	if strings.TrimSpace(req.Snippet) == "" {
		return "", nil, ErrEmptySnippet
	}

	query := buildCompareQuery(req)
	if query == "" {
		return "", nil, ErrNoSearchTerms
	}

	plan := &models.SearchPlan{Target: models.TargetContent, QueryString: query}
	found, err := s.search.Dispatch(ctx, plan)
	if err != nil {
		return query, nil, err
	}

	bound := s.limit
	if req.Limit > 0 && req.Limit < bound {
		bound = req.Limit
	}
	hits := found.ContentHits
	if len(hits) > bound {
		hits = hits[:bound]
	}
	if len(hits) == 0 {
		return query, []models.ComparisonResult{}, nil
	}

	log.Printf("[Compare] analyzing %d candidates for query %q", len(hits), query)

	// Positional slots keep the original hit order; nils mark dropped
	// candidates and are filtered below.
	slots := make([]*models.ComparisonResult, len(hits))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, hit := range hits {
		g.Go(func() error {
			taskCtx, cancel := context.WithTimeout(gctx, s.taskTimeout)
			defer cancel()

			result, err := s.compareOne(taskCtx, req.Snippet, hit)
			if err != nil {
				log.Printf("[Compare] dropping %s/%s: %v", hit.Repository.FullName, hit.Path, err)
				return nil
			}
			slots[i] = result
			return nil
		})
	}
	_ = g.Wait()

	results := make([]models.ComparisonResult, 0, len(slots))
	for _, r := range slots {
		if r != nil {
			results = append(results, *r)
		}
	}
	return query, results, nil
}

// compareOne runs the full per-candidate chain: content fetch + decode,
// repository metadata fetch, model analysis. Any failure drops the candidate.
func (s *compareService) compareOne(ctx context.Context, reference string, hit models.ContentHit) (*models.ComparisonResult, error) {
	content, err := fetchFileContent(ctx, s.github, s.cache, hit)
	if err != nil {
		return nil, err
	}

	repo, err := s.github.GetRepository(ctx, hit.Repository.FullName)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch repository metadata: %w", err)
	}

	prompt := fmt.Sprintf(comparePrompt,
		truncateForPrompt(reference),
		hit.Repository.FullName, hit.Path,
		truncateForPrompt(content))

	raw, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, &PlanningServiceError{Provider: s.provider, Err: err}
	}

	analysis, err := parseAnalysis(raw)
	if err != nil {
		return nil, err
	}

	return &models.ComparisonResult{
		Score:       hit.Score,
		Name:        hit.Name,
		Path:        hit.Path,
		Repository:  summaryFromRepository(*repo),
		CodeContent: content,
		Analysis:    analysis,
	}, nil
}

// ---- Query construction --------------------------------------------------------

// buildCompareQuery extracts identifier tokens from the snippet and scopes
// them with the validated qualifiers. Invalid filters are omitted, never
// sent upstream.
func buildCompareQuery(req CompareRequest) string {
	tokens := identifierPattern.FindAllString(req.Snippet, -1)

	seen := make(map[string]bool)
	var parts []string
	for _, tok := range tokens {
		lower := strings.ToLower(tok)
		if codeStopwords[lower] || seen[lower] {
			continue
		}
		seen[lower] = true
		parts = append(parts, tok)
		if len(parts) == maxQueryTokens {
			break
		}
	}

	// Code search rejects qualifier-only queries, so without at least one
	// search term the filters are moot.
	if len(parts) == 0 {
		return ""
	}

	if lang := strings.TrimSpace(req.Language); lang != "" {
		parts = append(parts, "language:"+lang)
	}
	if repo := strings.TrimSpace(req.RepoFilter); repo != "" {
		if repoFilterPattern.MatchString(repo) {
			parts = append(parts, "repo:"+repo)
		} else {
			log.Printf("[Compare] ignoring invalid repo filter %q", repo)
		}
	}
	if user := strings.TrimSpace(req.UserFilter); user != "" {
		if userFilterPattern.MatchString(user) {
			parts = append(parts, "user:"+user)
		} else {
			log.Printf("[Compare] ignoring invalid user filter %q", user)
		}
	}

	return strings.Join(parts, " ")
}

func truncateForPrompt(code string) string {
	if len(code) > maxPromptCode {
		return code[:maxPromptCode]
	}
	return code
}

package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Alexlaaa/GitLLM/internal/github"
	"github.com/Alexlaaa/GitLLM/internal/models"
)

// ---- Collaborator contracts --------------------------------------------------

// ContentFetcher is the slice of the GitHub client the enricher needs.
type ContentFetcher interface {
	GetContentsURL(ctx context.Context, rawURL string) (*github.FileContent, error)
}

// ContentCache is an optional read-through cache for fetched file content,
// keyed by repository full name, file path, and blob sha. A nil cache
// disables caching entirely.
type ContentCache interface {
	Get(ctx context.Context, fullName, path, sha string) (string, bool, error)
	Put(ctx context.Context, fullName, path, sha, content string) error
}

// ---- Service interface + implementation ------------------------------------

// EnrichService fetches and decodes file content for a bounded prefix of
// code-search hits. It never fails as a whole: per-item failures are
// recorded on the result, and hits beyond the prefix get placeholders.
//
// limit lowers the prefix bound for one call; zero or anything at or above
// the configured bound keeps the default. Raising it is not possible, so
// worst-case fan-out stays capped.
type EnrichService interface {
	Enrich(ctx context.Context, hits []models.ContentHit, limit int) []models.EnrichedResult
}

type enrichService struct {
	github       ContentFetcher
	cache        ContentCache
	limit        int           // prefix bound: hits beyond it are never fetched
	workers      int           // in-flight fetch cap, independent of the bound
	fetchTimeout time.Duration // per-item deadline
}

// NewEnrichService wires the GitHub client and the optional content cache.
func NewEnrichService(client ContentFetcher, cache ContentCache, limit, workers int, fetchTimeout time.Duration) EnrichService {
	if limit <= 0 {
		limit = 10
	}
	if workers <= 0 {
		workers = 4
	}
	if fetchTimeout <= 0 {
		fetchTimeout = 15 * time.Second
	}
	return &enrichService{
		github:       client,
		cache:        cache,
		limit:        limit,
		workers:      workers,
		fetchTimeout: fetchTimeout,
	}
}

// Enrich partitions hits into a fetched head and a placeholder tail. Head
// fetches run through a bounded worker pool and land in positional slots, so
// output order always equals input order no matter which fetch finishes
// first.
func (s *enrichService) Enrich(ctx context.Context, hits []models.ContentHit, limit int) []models.EnrichedResult {
	if len(hits) == 0 {
		return []models.EnrichedResult{}
	}

	bound := s.limit
	if limit > 0 && limit < bound {
		bound = limit
	}
	if bound > len(hits) {
		bound = len(hits)
	}
	head, tail := hits[:bound], hits[bound:]

	log.Printf("[Enrich] fetching %d of %d hits (workers=%d)", len(head), len(hits), s.workers)

	results := make([]models.EnrichedResult, len(hits))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, hit := range head {
		g.Go(func() error {
			taskCtx, cancel := context.WithTimeout(gctx, s.fetchTimeout)
			defer cancel()

			results[i] = s.enrichOne(taskCtx, hit)
			// Failures are recorded on the result, never raised, so no
			// task can cancel its siblings.
			return nil
		})
	}
	_ = g.Wait()

	for i, hit := range tail {
		results[bound+i] = placeholderResult(hit, models.FetchLimitReached, models.ContentLimitPlaceholder, "")
	}

	return results
}

func (s *enrichService) enrichOne(ctx context.Context, hit models.ContentHit) models.EnrichedResult {
	content, err := s.fetchContent(ctx, hit)
	if err != nil {
		if errors.Is(err, github.ErrNoContent) {
			return placeholderResult(hit, models.FetchContentUnavailable, models.ContentUnavailablePlaceholder, "")
		}
		log.Printf("[Enrich] fetch failed for %s/%s: %v", hit.Repository.FullName, hit.Path, err)
		return placeholderResult(hit, models.FetchFailed, models.ContentErrorPlaceholder, err.Error())
	}
	return enrichedFromContent(hit, content)
}

func (s *enrichService) fetchContent(ctx context.Context, hit models.ContentHit) (string, error) {
	return fetchFileContent(ctx, s.github, s.cache, hit)
}

// fetchFileContent resolves a hit's file content, preferring the cache when
// one is configured. Cache errors degrade to a plain fetch, never to a
// failure. Both enrichment pipelines share this path.
func fetchFileContent(ctx context.Context, client ContentFetcher, cache ContentCache, hit models.ContentHit) (string, error) {
	if cache != nil {
		content, ok, err := cache.Get(ctx, hit.Repository.FullName, hit.Path, hit.Sha)
		if err != nil {
			log.Printf("[Enrich] cache get failed for %s/%s: %v", hit.Repository.FullName, hit.Path, err)
		} else if ok {
			return content, nil
		}
	}

	file, err := client.GetContentsURL(ctx, hit.APIURL)
	if err != nil {
		return "", err
	}
	content, err := file.Decode()
	if err != nil {
		return "", err
	}

	if cache != nil {
		if err := cache.Put(ctx, hit.Repository.FullName, hit.Path, hit.Sha, content); err != nil {
			log.Printf("[Enrich] cache put failed for %s/%s: %v", hit.Repository.FullName, hit.Path, err)
		}
	}
	return content, nil
}

// ---- Result construction -----------------------------------------------------

func enrichedFromContent(hit models.ContentHit, content string) models.EnrichedResult {
	lines := strings.Split(content, "\n")
	end := models.SnippetPreviewLines
	if end > len(lines) {
		end = len(lines)
	}

	return models.EnrichedResult{
		ID:         uuid.New().String(),
		Repository: hit.Repository,
		Path:       hit.Path,
		Name:       hit.Name,
		URL:        hit.APIURL,
		HTMLURL:    hit.HTMLURL,
		Snippet: models.Snippet{
			Code:      strings.Join(lines[:end], "\n"),
			Language:  hit.Repository.Language,
			LineStart: 1,
			LineEnd:   end,
		},
		TotalLines:  len(lines),
		MatchScore:  hit.Score,
		FullContent: content,
		FetchStatus: models.FetchOK,
	}
}

func placeholderResult(hit models.ContentHit, status models.FetchStatus, placeholder, fetchErr string) models.EnrichedResult {
	return models.EnrichedResult{
		ID:         uuid.New().String(),
		Repository: hit.Repository,
		Path:       hit.Path,
		Name:       hit.Name,
		URL:        hit.APIURL,
		HTMLURL:    hit.HTMLURL,
		Snippet: models.Snippet{
			Code:     placeholder,
			Language: hit.Repository.Language,
		},
		MatchScore:  hit.Score,
		FullContent: placeholder,
		FetchStatus: status,
		FetchError:  fetchErr,
	}
}

package service

import (
	"context"
	"fmt"
	"log"

	"github.com/Alexlaaa/GitLLM/internal/github"
	"github.com/Alexlaaa/GitLLM/internal/models"
)

// defaultPerPage matches GitHub's default search page size.
const defaultPerPage = 30

// ---- GitHub contract ---------------------------------------------------------

// CodeSearcher is the slice of the GitHub client the dispatcher needs.
type CodeSearcher interface {
	SearchCode(ctx context.Context, query string, perPage int) (*github.CodeSearchResult, error)
	SearchRepositories(ctx context.Context, query string, perPage int) (*github.RepoSearchResult, error)
}

// ---- Service interface + implementation ------------------------------------

// SearchService dispatches a validated plan against one of GitHub's two
// search surfaces and normalizes the raw item list.
type SearchService interface {
	Dispatch(ctx context.Context, plan *models.SearchPlan) (*models.SearchResults, error)
}

type searchService struct {
	github  CodeSearcher
	perPage int
}

// NewSearchService wires the GitHub client. perPage <= 0 falls back to
// GitHub's default page size.
func NewSearchService(client CodeSearcher, perPage int) SearchService {
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	return &searchService{github: client, perPage: perPage}
}

// Dispatch issues one search request for the plan's target. GitHub errors
// pass through typed (RateLimitError, APIError) so callers can tell quota
// exhaustion from everything else. An empty item list is a valid outcome.
func (s *searchService) Dispatch(ctx context.Context, plan *models.SearchPlan) (*models.SearchResults, error) {
	if plan == nil || (plan.Target != models.TargetContent && plan.Target != models.TargetRepository) {
		return nil, fmt.Errorf("dispatch requires a content or repository target")
	}

	log.Printf("[Dispatch] target=%s query=%q", plan.Target, plan.QueryString)

	if plan.Target == models.TargetContent {
		res, err := s.github.SearchCode(ctx, plan.QueryString, s.perPage)
		if err != nil {
			return nil, err
		}

		hits := make([]models.ContentHit, 0, len(res.Items))
		for _, item := range res.Items {
			hits = append(hits, contentHitFromItem(item))
		}
		log.Printf("[Dispatch] code search returned %d hits (total %d)", len(hits), res.TotalCount)

		return &models.SearchResults{
			Target:      plan.Target,
			TotalCount:  res.TotalCount,
			ContentHits: hits,
		}, nil
	}

	res, err := s.github.SearchRepositories(ctx, plan.QueryString, s.perPage)
	if err != nil {
		return nil, err
	}

	hits := make([]models.RepositoryHit, 0, len(res.Items))
	for _, repo := range res.Items {
		hits = append(hits, models.RepositoryHit{
			Name:        repo.Name,
			FullName:    repo.FullName,
			Description: repo.Description,
			HTMLURL:     repo.HTMLURL,
			Score:       repo.Score,
			Owner:       repo.Owner.Login,
			Stars:       repo.Stargazers,
			Forks:       repo.Forks,
			Language:    repo.Language,
		})
	}
	log.Printf("[Dispatch] repository search returned %d hits (total %d)", len(hits), res.TotalCount)

	return &models.SearchResults{
		Target:     plan.Target,
		TotalCount: res.TotalCount,
		RepoHits:   hits,
	}, nil
}

// ---- Normalization helpers ---------------------------------------------------

func contentHitFromItem(item github.CodeItem) models.ContentHit {
	return models.ContentHit{
		Path:       item.Path,
		Name:       item.Name,
		Sha:        item.Sha,
		APIURL:     item.URL,
		HTMLURL:    item.HTMLURL,
		Score:      item.Score,
		Repository: summaryFromRepository(item.Repository),
	}
}

func summaryFromRepository(repo github.Repository) models.RepositorySummary {
	return models.RepositorySummary{
		Name:        repo.Name,
		FullName:    repo.FullName,
		Description: repo.Description,
		HTMLURL:     repo.HTMLURL,
		Owner:       repo.Owner.Login,
		Stars:       repo.Stargazers,
		Forks:       repo.Forks,
		Language:    repo.Language,
	}
}

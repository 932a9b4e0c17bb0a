package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alexlaaa/GitLLM/internal/github"
	"github.com/Alexlaaa/GitLLM/internal/models"
)

// --- Mock GitHub client for dispatcher testing ---

type dispatchMockSearcher struct {
	codeResult  *github.CodeSearchResult
	repoResult  *github.RepoSearchResult
	err         error
	codeQueries []string
	repoQueries []string
}

func (m *dispatchMockSearcher) SearchCode(_ context.Context, query string, _ int) (*github.CodeSearchResult, error) {
	m.codeQueries = append(m.codeQueries, query)
	if m.err != nil {
		return nil, m.err
	}
	return m.codeResult, nil
}

func (m *dispatchMockSearcher) SearchRepositories(_ context.Context, query string, _ int) (*github.RepoSearchResult, error) {
	m.repoQueries = append(m.repoQueries, query)
	if m.err != nil {
		return nil, m.err
	}
	return m.repoResult, nil
}

func testCodeItem(path string) github.CodeItem {
	item := github.CodeItem{
		Name:    "useForm.ts",
		Path:    path,
		Sha:     "abc123",
		URL:     "https://api.example.com/repos/acme/forms/contents/" + path,
		HTMLURL: "https://example.com/acme/forms/blob/main/" + path,
		Score:   12.5,
	}
	item.Repository.Name = "forms"
	item.Repository.FullName = "acme/forms"
	item.Repository.Description = "form helpers"
	item.Repository.HTMLURL = "https://example.com/acme/forms"
	item.Repository.Owner.Login = "acme"
	return item
}

func TestDispatch(t *testing.T) {
	t.Run("content target normalizes code items", func(t *testing.T) {
		mock := &dispatchMockSearcher{codeResult: &github.CodeSearchResult{
			TotalCount: 1,
			Items:      []github.CodeItem{testCodeItem("src/useForm.ts")},
		}}
		svc := NewSearchService(mock, 30)

		results, err := svc.Dispatch(context.Background(), &models.SearchPlan{
			Target:      models.TargetContent,
			QueryString: "useForm language:typescript",
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"useForm language:typescript"}, mock.codeQueries)
		assert.Empty(t, mock.repoQueries)
		assert.Equal(t, models.TargetContent, results.Target)
		assert.Nil(t, results.RepoHits)
		require.Len(t, results.ContentHits, 1)

		hit := results.ContentHits[0]
		assert.Equal(t, "src/useForm.ts", hit.Path)
		assert.Equal(t, "abc123", hit.Sha)
		assert.Equal(t, "https://api.example.com/repos/acme/forms/contents/src/useForm.ts", hit.APIURL)
		assert.Equal(t, "acme/forms", hit.Repository.FullName)
		assert.Equal(t, "acme", hit.Repository.Owner)
	})

	t.Run("repository target normalizes repo items", func(t *testing.T) {
		repo := github.Repository{
			Name:        "react",
			FullName:    "facebook/react",
			Description: "UI library",
			HTMLURL:     "https://example.com/facebook/react",
			Language:    "JavaScript",
			Stargazers:  220000,
			Forks:       45000,
			Score:       1.0,
		}
		repo.Owner.Login = "facebook"

		mock := &dispatchMockSearcher{repoResult: &github.RepoSearchResult{
			TotalCount: 1,
			Items:      []github.Repository{repo},
		}}
		svc := NewSearchService(mock, 30)

		results, err := svc.Dispatch(context.Background(), &models.SearchPlan{
			Target:      models.TargetRepository,
			QueryString: "ui library stars:>100000",
		})

		require.NoError(t, err)
		assert.Empty(t, mock.codeQueries)
		assert.Nil(t, results.ContentHits)
		require.Len(t, results.RepoHits, 1)

		hit := results.RepoHits[0]
		assert.Equal(t, "facebook/react", hit.FullName)
		assert.Equal(t, "facebook", hit.Owner)
		assert.Equal(t, 220000, hit.Stars)
		assert.Equal(t, "JavaScript", hit.Language)
	})

	t.Run("zero results is not an error", func(t *testing.T) {
		mock := &dispatchMockSearcher{codeResult: &github.CodeSearchResult{TotalCount: 0}}
		svc := NewSearchService(mock, 30)

		results, err := svc.Dispatch(context.Background(), &models.SearchPlan{
			Target:      models.TargetContent,
			QueryString: "nothingmatchesthis",
		})

		require.NoError(t, err)
		assert.Empty(t, results.ContentHits)
		assert.Equal(t, 0, results.TotalCount)
	})

	t.Run("typed GitHub errors pass through unchanged", func(t *testing.T) {
		reset := time.Now().Add(time.Hour)
		mock := &dispatchMockSearcher{err: &github.RateLimitError{ResetAt: reset}}
		svc := NewSearchService(mock, 30)

		_, err := svc.Dispatch(context.Background(), &models.SearchPlan{
			Target:      models.TargetContent,
			QueryString: "anything",
		})

		require.Error(t, err)
		assert.True(t, github.IsRateLimited(err))

		var rlErr *github.RateLimitError
		require.ErrorAs(t, err, &rlErr)
		assert.Equal(t, reset, rlErr.ResetAt)
	})

	t.Run("only content and repository targets are dispatchable", func(t *testing.T) {
		mock := &dispatchMockSearcher{}
		svc := NewSearchService(mock, 30)

		for _, plan := range []*models.SearchPlan{
			nil,
			{Target: models.TargetNone},
			{Target: models.Target("users")},
		} {
			_, err := svc.Dispatch(context.Background(), plan)
			assert.Error(t, err)
		}
		assert.Empty(t, mock.codeQueries)
		assert.Empty(t, mock.repoQueries)
	})
}

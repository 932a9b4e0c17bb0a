package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alexlaaa/GitLLM/internal/github"
	"github.com/Alexlaaa/GitLLM/internal/models"
	"github.com/Alexlaaa/GitLLM/internal/service"
)

// ---- mocks ----

type searchMockPlanner struct {
	plan    *models.SearchPlan
	err     error
	queries []string
}

func (m *searchMockPlanner) Plan(_ context.Context, query string) (*models.SearchPlan, error) {
	m.queries = append(m.queries, query)
	if m.err != nil {
		return nil, m.err
	}
	return m.plan, nil
}

type searchMockDispatch struct {
	results *models.SearchResults
	err     error
	calls   int
}

func (m *searchMockDispatch) Dispatch(_ context.Context, _ *models.SearchPlan) (*models.SearchResults, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.results, nil
}

type searchMockEnrich struct {
	results   []models.EnrichedResult
	lastLimit int
	calls     int
}

func (m *searchMockEnrich) Enrich(_ context.Context, _ []models.ContentHit, limit int) []models.EnrichedResult {
	m.calls++
	m.lastLimit = limit
	return m.results
}

// ---- helpers ----

func newSearchApp(planner service.PlannerService, search service.SearchService, enrich service.EnrichService) *fiber.App {
	app := fiber.New()
	NewSearchHandler(planner, search, enrich).Register(app.Group("/api/v1"))
	return app
}

// postJSON performs a JSON POST against the app and fails the test on
// transport errors. Shared by every handler test in this package.
func postJSON(t *testing.T, app *fiber.App, path, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func contentPlan() *models.SearchPlan {
	return &models.SearchPlan{
		Target:      models.TargetContent,
		QueryString: "useDebounce language:typescript",
		Rationale:   "hook implementations live in file contents",
		Intent:      "find debounce hook implementations",
	}
}

func TestSearchEndpoint(t *testing.T) {
	t.Run("content target enriches hits", func(t *testing.T) {
		planner := &searchMockPlanner{plan: contentPlan()}
		dispatch := &searchMockDispatch{results: &models.SearchResults{
			Target:     models.TargetContent,
			TotalCount: 2,
			ContentHits: []models.ContentHit{
				{Path: "src/useDebounce.ts"},
				{Path: "lib/debounce.ts"},
			},
		}}
		enrich := &searchMockEnrich{results: []models.EnrichedResult{
			{ID: "a", Path: "src/useDebounce.ts", FetchStatus: models.FetchOK},
			{ID: "b", Path: "lib/debounce.ts", FetchStatus: models.FetchFailed},
		}}
		app := newSearchApp(planner, dispatch, enrich)

		resp := postJSON(t, app, "/api/v1/search", `{"query": "debounce hook in typescript", "limit": 5}`)

		require.Equal(t, http.StatusOK, resp.StatusCode)
		var out SearchResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		require.NotNil(t, out.Plan)
		assert.Equal(t, "useDebounce language:typescript", out.Plan.QueryString)
		assert.Equal(t, 2, out.TotalCount)
		assert.Len(t, out.Results, 2)
		assert.Empty(t, out.Repositories)
		assert.Empty(t, out.Message)
		assert.Equal(t, 5, enrich.lastLimit)
		assert.Equal(t, []string{"debounce hook in typescript"}, planner.queries)
	})

	t.Run("repository target returns summaries unenriched", func(t *testing.T) {
		planner := &searchMockPlanner{plan: &models.SearchPlan{
			Target:      models.TargetRepository,
			QueryString: "cli framework language:go stars:>1000",
		}}
		dispatch := &searchMockDispatch{results: &models.SearchResults{
			Target:     models.TargetRepository,
			TotalCount: 1,
			RepoHits:   []models.RepositoryHit{{FullName: "spf13/cobra", Stars: 30000}},
		}}
		enrich := &searchMockEnrich{}
		app := newSearchApp(planner, dispatch, enrich)

		resp := postJSON(t, app, "/api/v1/search", `{"query": "popular go cli frameworks"}`)

		require.Equal(t, http.StatusOK, resp.StatusCode)
		var out SearchResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		require.Len(t, out.Repositories, 1)
		assert.Equal(t, "spf13/cobra", out.Repositories[0].FullName)
		assert.Empty(t, out.Results)
		assert.Zero(t, enrich.calls)
	})

	t.Run("none target short-circuits before dispatch", func(t *testing.T) {
		planner := &searchMockPlanner{plan: &models.SearchPlan{
			Target:     models.TargetNone,
			Assessment: "asking for an opinion, not code",
		}}
		dispatch := &searchMockDispatch{}
		enrich := &searchMockEnrich{}
		app := newSearchApp(planner, dispatch, enrich)

		resp := postJSON(t, app, "/api/v1/search", `{"query": "is tabs or spaces better"}`)

		require.Equal(t, http.StatusOK, resp.StatusCode)
		var out SearchResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		assert.Equal(t, "asking for an opinion, not code", out.Message)
		assert.Zero(t, out.TotalCount)
		assert.Empty(t, out.Results)
		assert.Zero(t, dispatch.calls)
		assert.Zero(t, enrich.calls)
	})

	t.Run("results field is an array even when empty", func(t *testing.T) {
		planner := &searchMockPlanner{plan: &models.SearchPlan{Target: models.TargetNone}}
		app := newSearchApp(planner, &searchMockDispatch{}, &searchMockEnrich{})

		resp := postJSON(t, app, "/api/v1/search", `{"query": "hello"}`)

		require.Equal(t, http.StatusOK, resp.StatusCode)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Contains(t, string(body), `"results":[]`)
	})

	t.Run("empty query maps to 400", func(t *testing.T) {
		planner := &searchMockPlanner{err: service.ErrEmptyQuery}
		app := newSearchApp(planner, &searchMockDispatch{}, &searchMockEnrich{})

		resp := postJSON(t, app, "/api/v1/search", `{"query": "   "}`)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unparseable plan maps to 422", func(t *testing.T) {
		planner := &searchMockPlanner{err: &service.PlanParseError{Reason: "invalid JSON", Raw: "sure! here is"}}
		app := newSearchApp(planner, &searchMockDispatch{}, &searchMockEnrich{})

		resp := postJSON(t, app, "/api/v1/search", `{"query": "debounce hook"}`)

		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	})

	t.Run("planner outage maps to 502", func(t *testing.T) {
		planner := &searchMockPlanner{err: &service.PlanningServiceError{
			Provider: "vertex",
			Err:      errors.New("rpc unavailable"),
		}}
		app := newSearchApp(planner, &searchMockDispatch{}, &searchMockEnrich{})

		resp := postJSON(t, app, "/api/v1/search", `{"query": "debounce hook"}`)

		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	})

	t.Run("rate limit maps to 429 with Retry-After", func(t *testing.T) {
		planner := &searchMockPlanner{plan: contentPlan()}
		dispatch := &searchMockDispatch{err: &github.RateLimitError{
			ResetAt: time.Now().Add(90 * time.Second),
			Limit:   10,
		}}
		app := newSearchApp(planner, dispatch, &searchMockEnrich{})

		resp := postJSON(t, app, "/api/v1/search", `{"query": "debounce hook"}`)

		require.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
		retryAfter, err := strconv.Atoi(resp.Header.Get(fiber.HeaderRetryAfter))
		require.NoError(t, err)
		assert.Greater(t, retryAfter, 0)
		assert.LessOrEqual(t, retryAfter, 90)
	})

	t.Run("github outage maps to 502 and names the attempted query", func(t *testing.T) {
		planner := &searchMockPlanner{plan: contentPlan()}
		dispatch := &searchMockDispatch{err: &github.APIError{
			StatusCode: 503,
			Message:    "Service Unavailable",
			URL:        "https://api.github.com/search/code",
		}}
		app := newSearchApp(planner, dispatch, &searchMockEnrich{})

		resp := postJSON(t, app, "/api/v1/search", `{"query": "debounce hook"}`)

		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Contains(t, string(body), "useDebounce language:typescript")
	})

	t.Run("invalid JSON body maps to 400", func(t *testing.T) {
		planner := &searchMockPlanner{plan: contentPlan()}
		app := newSearchApp(planner, &searchMockDispatch{}, &searchMockEnrich{})

		resp := postJSON(t, app, "/api/v1/search", `{"query": `)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Empty(t, planner.queries)
	})
}

func TestNoneMessage(t *testing.T) {
	tests := []struct {
		name string
		plan *models.SearchPlan
		want string
	}{
		{
			name: "assessment wins",
			plan: &models.SearchPlan{Assessment: "not a code question", Rationale: "ignored"},
			want: "not a code question",
		},
		{
			name: "rationale as fallback",
			plan: &models.SearchPlan{Rationale: "no searchable artifact"},
			want: "no searchable artifact",
		},
		{
			name: "generic default",
			plan: &models.SearchPlan{},
			want: "this request does not map to a GitHub search",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, noneMessage(tt.plan))
		})
	}
}

package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Alexlaaa/GitLLM/internal/models"
	"github.com/Alexlaaa/GitLLM/internal/service"
)

// SearchHandler wires HTTP → the full plan → dispatch → enrich pipeline.
type SearchHandler struct {
	planner service.PlannerService
	search  service.SearchService
	enrich  service.EnrichService
}

// SearchResponse is the payload of POST /search.
type SearchResponse struct {
	Plan         *models.SearchPlan      `json:"plan"`
	TotalCount   int                     `json:"total_count"`
	Results      []models.EnrichedResult `json:"results"`
	Repositories []models.RepositoryHit  `json:"repositories,omitempty"`
	Message      string                  `json:"message,omitempty"`
}

// NewSearchHandler returns a handler instance.
func NewSearchHandler(planner service.PlannerService, search service.SearchService, enrich service.EnrichService) *SearchHandler {
	return &SearchHandler{planner: planner, search: search, enrich: enrich}
}

// Register mounts POST /search on the given router group.
func (h *SearchHandler) Register(r fiber.Router) {
	r.Post("/search", h.searchHandler)
}

// searchHandler handles POST /search { "query": "...", "limit": 5 }.
//
// A plan with target "none" short-circuits to an explanatory zero-result
// response. Repository-target searches return the repository summaries as-is:
// they already carry everything a content enrichment would have to fetch.
func (h *SearchHandler) searchHandler(c *fiber.Ctx) error {
	var req models.SearchRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid JSON body")
	}

	plan, err := h.planner.Plan(c.UserContext(), req.Query)
	if err != nil {
		return respondServiceError(c, err, "")
	}

	resp := SearchResponse{Plan: plan, Results: []models.EnrichedResult{}}

	if plan.Target == models.TargetNone {
		resp.Message = noneMessage(plan)
		return c.JSON(resp)
	}

	found, err := h.search.Dispatch(c.UserContext(), plan)
	if err != nil {
		return respondServiceError(c, err, plan.QueryString)
	}
	resp.TotalCount = found.TotalCount

	switch plan.Target {
	case models.TargetContent:
		resp.Results = h.enrich.Enrich(c.UserContext(), found.ContentHits, req.Limit)
	case models.TargetRepository:
		resp.Repositories = found.RepoHits
	}

	return c.JSON(resp)
}

// noneMessage explains a declined plan using whatever the model offered.
func noneMessage(plan *models.SearchPlan) string {
	if plan.Assessment != "" {
		return plan.Assessment
	}
	if plan.Rationale != "" {
		return plan.Rationale
	}
	return "this request does not map to a GitHub search"
}

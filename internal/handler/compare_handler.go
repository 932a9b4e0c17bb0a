package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Alexlaaa/GitLLM/internal/models"
	"github.com/Alexlaaa/GitLLM/internal/service"
)

// CompareHandler wires HTTP → CompareService.
type CompareHandler struct {
	compare service.CompareService
}

// CompareResponse is the payload of POST /compare. Query is the code-search
// query derived from the snippet, returned so the frontend can display it.
type CompareResponse struct {
	Query   string                    `json:"query"`
	Results []models.ComparisonResult `json:"results"`
}

// NewCompareHandler returns a handler instance.
func NewCompareHandler(compare service.CompareService) *CompareHandler {
	return &CompareHandler{compare: compare}
}

// Register mounts POST /compare on the given router group.
func (h *CompareHandler) Register(r fiber.Router) {
	r.Post("/compare", h.compareHandler)
}

// compareHandler handles POST /compare { "snippet": "...", "language": "go",
// "repo_filter": "owner/name", "user_filter": "owner", "limit": 3 }.
func (h *CompareHandler) compareHandler(c *fiber.Ctx) error {
	var req models.CompareRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid JSON body")
	}

	query, results, err := h.compare.Compare(c.UserContext(), service.CompareRequest{
		Snippet:    req.Snippet,
		Language:   req.Language,
		RepoFilter: req.RepoFilter,
		UserFilter: req.UserFilter,
		Limit:      req.Limit,
	})
	if err != nil {
		return respondServiceError(c, err, query)
	}

	if results == nil {
		results = []models.ComparisonResult{}
	}
	return c.JSON(CompareResponse{Query: query, Results: results})
}

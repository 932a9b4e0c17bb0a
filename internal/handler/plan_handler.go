package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Alexlaaa/GitLLM/internal/models"
	"github.com/Alexlaaa/GitLLM/internal/service"
)

// PlanHandler wires HTTP → PlannerService for plan previews.
type PlanHandler struct {
	planner service.PlannerService
}

// NewPlanHandler returns a handler instance.
func NewPlanHandler(planner service.PlannerService) *PlanHandler {
	return &PlanHandler{planner: planner}
}

// Register mounts POST /plan on the given router group.
func (h *PlanHandler) Register(r fiber.Router) {
	r.Post("/plan", h.plan)
}

// plan handles POST /plan { "query": "..." }. It returns the plan without
// dispatching it, so the frontend can show what would be searched.
func (h *PlanHandler) plan(c *fiber.Ctx) error {
	var req models.SearchRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid JSON body")
	}

	plan, err := h.planner.Plan(c.UserContext(), req.Query)
	if err != nil {
		return respondServiceError(c, err, "")
	}

	return c.JSON(fiber.Map{"plan": plan})
}

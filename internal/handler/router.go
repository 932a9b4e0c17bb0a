package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Alexlaaa/GitLLM/internal/service"
)

// RegisterRoutes mounts every versioned API endpoint.
func RegisterRoutes(app *fiber.App,
	plannerSvc service.PlannerService,
	searchSvc service.SearchService,
	enrichSvc service.EnrichService,
	compareSvc service.CompareService,
) {

	v1 := app.Group("/api/v1")
	NewPlanHandler(plannerSvc).Register(v1)
	NewSearchHandler(plannerSvc, searchSvc, enrichSvc).Register(v1)
	NewCompareHandler(compareSvc).Register(v1)
}

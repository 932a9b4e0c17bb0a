package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Alexlaaa/GitLLM/internal/github"
)

type HealthHandler struct {
	cacheDB *mongo.Client // nil when the content cache is disabled
	limiter *github.Limiter
}

func NewHealthHandler(cacheDB *mongo.Client, limiter *github.Limiter) *HealthHandler {
	return &HealthHandler{
		cacheDB: cacheDB,
		limiter: limiter,
	}
}

func (h *HealthHandler) Register(r fiber.Router) {
	r.Get("/health", h.health)
}

func (h *HealthHandler) health(c *fiber.Ctx) error {
	status := fiber.Map{
		"status": "ok",
		"cache":  h.checkDB(h.cacheDB),
		"github": fiber.Map{
			"rate_remaining": h.limiter.Remaining(),
		},
	}

	return c.JSON(status)
}

func (h *HealthHandler) checkDB(client *mongo.Client) string {
	if client == nil {
		return "not_configured"
	}

	ctx := context.Background()
	if err := client.Ping(ctx, nil); err != nil {
		return "error"
	}
	return "connected"
}

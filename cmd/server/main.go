package main

import (
	"context"
	"io"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Alexlaaa/GitLLM/internal/config"
	"github.com/Alexlaaa/GitLLM/internal/database"
	"github.com/Alexlaaa/GitLLM/internal/github"
	"github.com/Alexlaaa/GitLLM/internal/handler"
	"github.com/Alexlaaa/GitLLM/internal/middleware"
	"github.com/Alexlaaa/GitLLM/internal/repository"
	"github.com/Alexlaaa/GitLLM/internal/service"
)

// main is the single entry-point for the REST API.
func main() {
	// Load configuration
	cfg := config.Load()
	log.Printf("Configuration loaded:")
	log.Printf("  - LLM provider: %s", cfg.LLMProvider)
	log.Printf("  - Enrich limit: %d (workers: %d)", cfg.EnrichLimit, cfg.EnrichWorkers)
	log.Printf("  - Compare limit: %d", cfg.CompareLimit)
	if cfg.GitHubToken == "" {
		log.Printf("  - GitHub token: not set (unauthenticated rate limits apply)")
	}

	ctx := context.Background()

	// Optional Mongo-backed content cache. The pipeline is fully functional
	// without it; every fetch just goes to GitHub.
	var cache service.ContentCache
	var cacheClient *mongo.Client
	if cfg.MongoURI != "" {
		client, mctx, cancel, err := database.NewMongo(cfg.MongoURI)
		if err != nil {
			log.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		defer cancel()
		defer client.Disconnect(context.Background())
		log.Printf("Connected to MongoDB content cache")

		cacheRepo, err := repository.NewContentCacheRepository(mctx, client.Database(cfg.DBName), cfg.CacheTTL)
		if err != nil {
			log.Fatalf("Failed to initialize content cache: %v", err)
		}
		cache = cacheRepo
		cacheClient = client
	} else {
		log.Printf("MONGODB_URI not set; content cache disabled")
	}

	// GitHub API client, shared by every pipeline so the rate limiter sees
	// all outbound traffic.
	ghClient := github.NewClient(ctx, cfg.GitHubToken, cfg.GitHubAPIURL)

	// Planning model
	generator, err := service.NewTextGenerator(ctx, &cfg)
	if err != nil {
		log.Fatalf("Failed to initialize %s text generator: %v", cfg.LLMProvider, err)
	}
	if closer, ok := generator.(io.Closer); ok {
		defer closer.Close()
	}

	// Initialize services
	plannerSvc := service.NewPlannerService(generator, cfg.LLMProvider)
	searchSvc := service.NewSearchService(ghClient, 0)
	enrichSvc := service.NewEnrichService(ghClient, cache, cfg.EnrichLimit, cfg.EnrichWorkers, cfg.FetchTimeout)
	compareSvc := service.NewCompareService(searchSvc, ghClient, cache, generator,
		cfg.LLMProvider, cfg.CompareLimit, cfg.EnrichWorkers, cfg.CompareTimeout)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	// Add middleware
	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(middleware.Logging())

	// Register routes
	handler.RegisterRoutes(app, plannerSvc, searchSvc, enrichSvc, compareSvc)

	// Add health check
	healthHandler := handler.NewHealthHandler(cacheClient, ghClient.Limiter())
	healthHandler.Register(app)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}

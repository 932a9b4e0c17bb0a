// Package config centralises all environment configuration for the API.
// It should be imported only by `cmd/server` (and test code). Business-logic
// layers receive an already-built Config instance via dependency-injection.
package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every runtime option the server needs.
// Keep it flat and simple; prefer primitive types over embedding structs.
type Config struct {
	// Network
	Port string

	// Optional content cache. An empty MongoURI disables caching.
	MongoURI string
	DBName   string
	CacheTTL time.Duration

	// GitHub API. An empty token works but gets very low rate limits.
	// GitHubAPIURL overrides the API root, mainly for tests.
	GitHubToken  string
	GitHubAPIURL string

	// Planning model
	LLMProvider  string
	GCPProjectID string
	GCPLocation  string
	GeminiModel  string
	OllamaURL    string
	OllamaModel  string

	// Pipeline tuning
	EnrichLimit    int
	CompareLimit   int
	EnrichWorkers  int
	FetchTimeout   time.Duration
	CompareTimeout time.Duration

	// Server tuning
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Load parses the environment (and an optional .env file) into Config.
// It panics on missing critical variables so mis-configurations fail fast.
func Load() Config {
	// godotenv.Load() is a no-op if .env doesn't exist; safe in production.
	_ = godotenv.Load()

	cfg := Config{
		Port:           getEnv("PORT", "8080"),
		MongoURI:       getEnv("MONGODB_URI", ""),
		DBName:         getEnv("MONGODB_DB", "gitllm"),
		CacheTTL:       getHours("CACHE_TTL_HOURS", 24),
		GitHubToken:    getEnv("GITHUB_TOKEN", ""),
		GitHubAPIURL:   getEnv("GITHUB_API_URL", ""),
		LLMProvider:    getEnv("LLM_PROVIDER", "vertex"),
		GeminiModel:    getEnv("GEMINI_MODEL", "gemini-2.0-flash-lite-001"),
		OllamaURL:      getEnv("OLLAMA_URL", "http://localhost:11434"),
		OllamaModel:    getEnv("OLLAMA_MODEL", "llama3.1"),
		EnrichLimit:    getInt("ENRICH_LIMIT", 10),
		CompareLimit:   getInt("COMPARE_LIMIT", 5),
		EnrichWorkers:  getInt("ENRICH_WORKERS", 4),
		FetchTimeout:   getDuration("FETCH_TIMEOUT_SEC", 15),
		CompareTimeout: getDuration("COMPARE_TIMEOUT_SEC", 45),
		ReadTimeout:    getDuration("READ_TIMEOUT_SEC", 5),
		// Comparison requests hold the connection open while several model
		// calls run, so the write timeout must outlast CompareTimeout.
		WriteTimeout: getDuration("WRITE_TIMEOUT_SEC", 120),
	}

	// GCP settings only matter for the hosted provider, so they are only
	// required there.
	if cfg.LLMProvider == "vertex" {
		cfg.GCPProjectID = must("GCP_PROJECT_ID")
		cfg.GCPLocation = getEnv("GCP_LOCATION", "us-central1")
	}

	return cfg
}

// must fetches a required env var or terminates the program.
func must(key string) string {
	val := os.Getenv(key)
	if val == "" {
		log.Fatalf("env var %s is required", key)
	}
	return val
}

// getEnv returns env[key] if set, otherwise defaultVal.
func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// getInt reads an integer from env, falling back to defaultVal.
func getInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Printf("invalid %s=%q; using default %d", key, v, defaultVal)
	}
	return defaultVal
}

// getDuration reads an integer (seconds) from env, falling back to defaultSec.
func getDuration(key string, defaultSec int) time.Duration {
	if v := os.Getenv(key); v != "" {
		if sec, err := strconv.Atoi(v); err == nil {
			return time.Duration(sec) * time.Second
		}
		log.Printf("invalid %s=%q; using default %ds", key, v, defaultSec)
	}
	return time.Duration(defaultSec) * time.Second
}

// getHours reads an integer (hours) from env, falling back to defaultHours.
func getHours(key string, defaultHours int) time.Duration {
	if v := os.Getenv(key); v != "" {
		if hours, err := strconv.Atoi(v); err == nil {
			return time.Duration(hours) * time.Hour
		}
		log.Printf("invalid %s=%q; using default %dh", key, v, defaultHours)
	}
	return time.Duration(defaultHours) * time.Hour
}

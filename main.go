package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"

	"ideadeck/api-gateway/config"
	"ideadeck/api-gateway/handlers"
	"ideadeck/api-gateway/internal/aiclient"
	"ideadeck/api-gateway/internal/store"
	"ideadeck/api-gateway/middleware"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	config.InitLogger()
	logger := config.Log

	supabaseClient, err := config.NewSupabaseClient()
	if err != nil {
		log.Fatalf("Failed to initialize Supabase: %v", err)
	}

	ai, err := aiclient.New(context.Background(), os.Getenv("GOOGLE_API_KEY"), logger)
	if err != nil {
		log.Fatalf("Failed to initialize Gemini client: %v", err)
	}
	defer ai.Close()

	ideaStore := store.New(supabaseClient, logger, pollInterval())
	resolver := middleware.NewSupabaseResolver(supabaseClient)
	app := fiber.New()

	// Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*", // the dashboard runs on its own origin
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(middleware.RequestLogger(logger))

	// Health check route
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":  "ok",
			"message": "API Gateway is healthy",
		})
	})

	h := handlers.NewApplicationHandler(ai, ideaStore, logger)

	// API v1 routes
	apiV1 := app.Group("/api/v1")

	// Generation routes (open, like the dashboard's own API surface)
	apiV1.Post("/generate/ideas", h.GenerateIdeas)
	apiV1.Post("/generate/script", h.GenerateScript)
	apiV1.Post("/generate/metadata", h.GenerateMetadata)
	apiV1.Post("/generate/thumbnail-prompt", h.GenerateThumbnailPrompt)

	// Saved ideas, always scoped to the signed-in user
	ideas := apiV1.Group("/ideas", middleware.RequireAuth(resolver))
	ideas.Get("", h.ListIdeas)
	ideas.Post("", h.SaveIdea)
	ideas.Delete("/:id", h.DeleteIdea)
	ideas.Get("/live", handlers.RequireUpgrade, h.IdeasLive())

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Starting API Gateway on port %s...", port)
	log.Fatal(app.Listen(":" + port))
}

func pollInterval() time.Duration {
	if raw := os.Getenv("IDEAS_POLL_INTERVAL"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			return d
		}
	}
	return 3 * time.Second
}

package router

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/talktrace/talktrace/config"
	"github.com/talktrace/talktrace/database"
	"github.com/talktrace/talktrace/handlers"
	analytics_handlers "github.com/talktrace/talktrace/handlers/analytics"
	history_handlers "github.com/talktrace/talktrace/handlers/history"
	import_handlers "github.com/talktrace/talktrace/handlers/importer"
	tag_handlers "github.com/talktrace/talktrace/handlers/tag"
	testcase_handlers "github.com/talktrace/talktrace/handlers/testcase"
	"github.com/talktrace/talktrace/services"
	"github.com/talktrace/talktrace/utils/cache"
	"github.com/talktrace/talktrace/utils/middleware"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, store database.Storage, source services.SessionSource) {
	env, err := config.Get()
	if err != nil {
		log.Fatal("Failed to load environment configuration:", err)
	}

	// Get DB instance (type assert from interface)
	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		log.Fatal("Failed to get GORM DB instance")
	}

	// Redis backs the model list cache and live import task state. The
	// console still works without it, progress just falls back to the
	// database.
	redisCache, err := cache.NewRedisCache(env.REDIS_URL)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v. Progress snapshots will come from the database.", err)
		redisCache = nil
	}

	// Services
	historyService := services.NewHistoryService(source, redisCache)
	testCaseService := services.NewTestCaseService(db)
	conversionService := services.NewConversionService()
	taskRepository := services.NewGormTaskRepository(db)
	importService := services.NewImportService(source, conversionService, testCaseService, taskRepository, redisCache)
	tagService := services.NewTagService(db)
	analyticsService := services.NewAnalyticsService(historyService, testCaseService, importService)

	// Handlers
	historyHandler := history_handlers.NewHistoryHandler(historyService)
	importHandler := import_handlers.NewImportHandler(importService)
	testCaseHandler := testcase_handlers.NewTestCaseHandler(testCaseService)
	tagHandler := tag_handlers.NewTagHandler(tagService)
	analyticsHandler := analytics_handlers.NewAnalyticsHandler(analyticsService)

	// Apply security middleware
	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    env.ALLOWED_ORIGINS,
		RateLimitRequests: 100,             // 100 requests
		RateLimitWindow:   1 * time.Minute, // per minute
	})

	// Health check endpoint (public)
	app.Get("/ping", func(c *fiber.Ctx) error {
		return handlers.HandleCheckHealth(c, store, source)
	})

	// API v1 group
	api := app.Group("/api/v1")

	// Conversation history routes
	history := api.Group("/history")
	history.Get("/search", historyHandler.Search)
	history.Get("/models", historyHandler.Models)
	history.Get("/health", historyHandler.Health)
	history.Get("/sessions/:sessionId", historyHandler.SessionDetails)

	// Import pipeline routes
	imports := api.Group("/import")
	imports.Post("/validate-sessions", importHandler.Validate)
	imports.Post("/preview", importHandler.Preview)
	imports.Post("/execute", importHandler.Execute)
	imports.Get("/progress/:taskId", importHandler.Progress)
	imports.Get("/tasks", importHandler.Tasks)
	imports.Delete("/tasks/:taskId", importHandler.DeleteTask)

	// Test case catalog routes. Fixed paths are registered before the
	// :id route so "statistics" and "batch" are not captured as ids.
	testCases := api.Group("/test-cases")
	testCases.Get("/", testCaseHandler.List)
	testCases.Get("/statistics/overview", testCaseHandler.Statistics)
	testCases.Get("/tags", testCaseHandler.TagNames)
	testCases.Post("/batch", testCaseHandler.Batch)
	testCases.Post("/", testCaseHandler.Create)
	testCases.Get("/:id", testCaseHandler.Get)
	testCases.Put("/:id", testCaseHandler.Update)
	testCases.Delete("/:id", testCaseHandler.Delete)

	// Tag vocabulary routes
	tags := api.Group("/tags")
	tags.Get("/", tagHandler.List)
	tags.Post("/", tagHandler.Create)
	tags.Put("/:id", tagHandler.Update)
	tags.Delete("/:id", tagHandler.Delete)

	// Analytics routes
	analytics := api.Group("/analytics")
	analytics.Get("/overview", analyticsHandler.Overview)
	analytics.Get("/health", analyticsHandler.Health)
}

package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/talktrace/talktrace/database"
	"github.com/talktrace/talktrace/services"
	"github.com/talktrace/talktrace/utils/response"
)

// HandleCheckHealth reports the liveness of the service and its
// backing stores
func HandleCheckHealth(c *fiber.Ctx, store database.Storage, source services.SessionSource) error {
	status := "ok"
	checks := fiber.Map{}

	if err := store.HealthCheck(); err != nil {
		status = "degraded"
		checks["database"] = err.Error()
	} else {
		checks["database"] = "ok"
	}

	if err := source.Ping(); err != nil {
		status = "degraded"
		checks["history_source"] = err.Error()
	} else {
		checks["history_source"] = "ok"
	}

	payload := fiber.Map{
		"status":    status,
		"checks":    checks,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if status != "ok" {
		return response.Degraded(c, payload)
	}
	return response.Success(c, payload)
}

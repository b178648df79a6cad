package analytics

import (
	"github.com/gofiber/fiber/v2"
	"github.com/talktrace/talktrace/services"
	"github.com/talktrace/talktrace/utils/response"
)

// AnalyticsHandler handles analytics and reporting requests
type AnalyticsHandler struct {
	analyticsService *services.AnalyticsService
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analyticsService *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// Overview handles GET /api/v1/analytics/overview
func (h *AnalyticsHandler) Overview(c *fiber.Ctx) error {
	days := c.QueryInt("days", 7)
	if days < 1 || days > 365 {
		return response.BadRequest(c, "days must be between 1 and 365")
	}

	overview, err := h.analyticsService.Overview(c.Context(), days)
	if err != nil {
		return response.InternalServerError(c, "Failed to build analytics overview: "+err.Error())
	}
	return response.Success(c, overview)
}

// Health handles GET /api/v1/analytics/health
func (h *AnalyticsHandler) Health(c *fiber.Ctx) error {
	health := h.analyticsService.Health()
	if health["status"] != "healthy" {
		return response.Degraded(c, health)
	}
	return response.Success(c, health)
}

package history

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/talktrace/talktrace/model"
	"github.com/talktrace/talktrace/services"
	"github.com/talktrace/talktrace/utils/response"
	"github.com/talktrace/talktrace/utils/timeutil"
)

// HistoryHandler handles conversation history requests
type HistoryHandler struct {
	historyService *services.HistoryService
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(historyService *services.HistoryService) *HistoryHandler {
	return &HistoryHandler{historyService: historyService}
}

// Search handles GET /api/v1/history
//
// Query params: startTime, endTime (RFC3339 or bare timestamps),
// modelIds (comma separated), ratingRange ("min,max"), keywords,
// page, pageSize (page_size also accepted).
func (h *HistoryHandler) Search(c *fiber.Ctx) error {
	req := model.HistorySearchRequest{
		Keywords: strings.TrimSpace(c.Query("keywords")),
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("pageSize", c.QueryInt("page_size", 20)),
	}

	if raw := c.Query("startTime"); raw != "" {
		t, err := timeutil.Parse(raw)
		if err != nil {
			return response.BadRequest(c, "Invalid startTime: "+raw)
		}
		req.StartTime = t
	}
	if raw := c.Query("endTime"); raw != "" {
		t, err := timeutil.Parse(raw)
		if err != nil {
			return response.BadRequest(c, "Invalid endTime: "+raw)
		}
		req.EndTime = t
	}
	if !req.StartTime.IsZero() && !req.EndTime.IsZero() && req.EndTime.Before(req.StartTime) {
		return response.BadRequest(c, "endTime must not be before startTime")
	}

	if raw := c.Query("modelIds"); raw != "" {
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				req.ModelIDs = append(req.ModelIDs, id)
			}
		}
	}

	if raw := c.Query("ratingRange"); raw != "" {
		parts := strings.Split(raw, ",")
		if len(parts) != 2 {
			return response.BadRequest(c, "ratingRange must be \"min,max\"")
		}
		min, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
		max, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err1 != nil || err2 != nil || min < 0 || max > 5 || min > max {
			return response.BadRequest(c, "ratingRange values must be integers between 0 and 5 with min <= max")
		}
		req.RatingRange = &[2]int{min, max}
	}

	page, err := h.historyService.Search(req)
	if err != nil {
		return response.InternalServerError(c, "Failed to search history: "+err.Error())
	}

	return response.Paginated(c, response.NewPage(page.Items, page.Total, page.Page, page.PageSize))
}

// SessionDetails handles GET /api/v1/history/session/:sessionId
func (h *HistoryHandler) SessionDetails(c *fiber.Ctx) error {
	sessionID := c.Params("sessionId")
	if sessionID == "" {
		return response.BadRequest(c, "Session ID is required")
	}

	details, err := h.historyService.SessionDetails(sessionID)
	if err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			return response.NotFound(c, "Session not found: "+sessionID)
		}
		return response.InternalServerError(c, "Failed to fetch session details: "+err.Error())
	}

	return response.Success(c, details)
}

// Health handles GET /api/v1/history/health
func (h *HistoryHandler) Health(c *fiber.Ctx) error {
	if !h.historyService.Healthy() {
		return response.ServiceUnavailable(c, "History source is unavailable")
	}
	return response.Success(c, fiber.Map{"status": "ok"})
}

// Models handles GET /api/v1/history/models
func (h *HistoryHandler) Models(c *fiber.Ctx) error {
	models, err := h.historyService.ModelIDs(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch model list: "+err.Error())
	}
	return response.Success(c, models)
}

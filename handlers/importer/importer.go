package importer

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/talktrace/talktrace/services"
	"github.com/talktrace/talktrace/utils/response"
	"github.com/talktrace/talktrace/utils/validation"
)

// ImportHandler handles session import requests
type ImportHandler struct {
	importService *services.ImportService
	validator     *validation.Validator
}

// NewImportHandler creates a new import handler
func NewImportHandler(importService *services.ImportService) *ImportHandler {
	return &ImportHandler{
		importService: importService,
		validator:     validation.NewValidator(),
	}
}

// sessionSelection is the body shared by validate and preview
type sessionSelection struct {
	SessionIDs []string `json:"session_ids" validate:"required,min=1"`
}

// Validate handles POST /api/v1/import/validate
func (h *ImportHandler) Validate(c *fiber.Ctx) error {
	var body sessionSelection
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(body); err != nil {
		return response.ValidationError(c, err)
	}

	result, err := h.importService.ValidateSessions(body.SessionIDs)
	if err != nil {
		return response.InternalServerError(c, "Failed to validate sessions: "+err.Error())
	}
	return response.Success(c, result)
}

// Preview handles POST /api/v1/import/preview
func (h *ImportHandler) Preview(c *fiber.Ctx) error {
	var body sessionSelection
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(body); err != nil {
		return response.ValidationError(c, err)
	}

	preview, err := h.importService.Preview(body.SessionIDs)
	if err != nil {
		return response.InternalServerError(c, "Failed to build import preview: "+err.Error())
	}
	return response.Success(c, preview)
}

// Execute handles POST /api/v1/import/execute
//
// The import runs in the background; the response carries the task id
// the client polls through the progress endpoint.
func (h *ImportHandler) Execute(c *fiber.Ctx) error {
	var body services.ExecuteRequest
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(body); err != nil {
		return response.ValidationError(c, err)
	}

	task, err := h.importService.Execute(body)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	return response.Created(c, fiber.Map{
		"task_id": task.TaskID,
		"status":  task.Status,
		"total":   task.Total,
	})
}

// Progress handles GET /api/v1/import/progress/:taskId
func (h *ImportHandler) Progress(c *fiber.Ctx) error {
	taskID := c.Params("taskId")
	if taskID == "" {
		return response.BadRequest(c, "Task ID is required")
	}

	progress, err := h.importService.Progress(c.Context(), taskID)
	if err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			return response.NotFound(c, "Import task not found: "+taskID)
		}
		return response.InternalServerError(c, "Failed to fetch import progress: "+err.Error())
	}
	return response.Success(c, progress)
}

// Tasks handles GET /api/v1/import/tasks
func (h *ImportHandler) Tasks(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("pageSize", c.QueryInt("page_size", 20))

	tasks, total, err := h.importService.Tasks(page, pageSize)
	if err != nil {
		return response.InternalServerError(c, "Failed to list import tasks: "+err.Error())
	}
	return response.Paginated(c, response.NewPage(tasks, total, page, pageSize))
}

// DeleteTask handles DELETE /api/v1/import/tasks/:taskId
func (h *ImportHandler) DeleteTask(c *fiber.Ctx) error {
	taskID := c.Params("taskId")
	if taskID == "" {
		return response.BadRequest(c, "Task ID is required")
	}

	if err := h.importService.DeleteTask(c.Context(), taskID); err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			return response.NotFound(c, "Import task not found: "+taskID)
		}
		return response.Conflict(c, err.Error())
	}
	return response.SuccessWithMessage(c, "Import task deleted", fiber.Map{"task_id": taskID})
}

package testcase

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/talktrace/talktrace/services"
	"github.com/talktrace/talktrace/utils/response"
	"github.com/talktrace/talktrace/utils/validation"
)

// TestCaseHandler handles test case catalog requests
type TestCaseHandler struct {
	testCaseService *services.TestCaseService
	validator       *validation.Validator
}

// NewTestCaseHandler creates a new test case handler
func NewTestCaseHandler(testCaseService *services.TestCaseService) *TestCaseHandler {
	return &TestCaseHandler{
		testCaseService: testCaseService,
		validator:       validation.NewValidator(),
	}
}

// List handles GET /api/v1/test-cases
func (h *TestCaseHandler) List(c *fiber.Ctx) error {
	filter := services.ListFilter{
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("pageSize", c.QueryInt("page_size", 20)),
		Status:   c.Query("status"),
		Domain:   c.Query("domain"),
		Priority: c.Query("priority"),
		Search:   c.Query("search"),
	}

	cases, total, err := h.testCaseService.List(filter)
	if err != nil {
		return response.InternalServerError(c, "Failed to list test cases: "+err.Error())
	}
	return response.Paginated(c, response.NewPage(cases, total, filter.Page, filter.PageSize))
}

// Get handles GET /api/v1/test-cases/:id
func (h *TestCaseHandler) Get(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return response.BadRequest(c, "Test case ID is required")
	}

	tc, err := h.testCaseService.GetByID(id)
	if err != nil {
		if errors.Is(err, services.ErrTestCaseNotFound) {
			return response.NotFound(c, "Test case not found: "+id)
		}
		return response.InternalServerError(c, "Failed to fetch test case: "+err.Error())
	}
	return response.Success(c, tc)
}

// Create handles POST /api/v1/test-cases
func (h *TestCaseHandler) Create(c *fiber.Ctx) error {
	var body services.CreateRequest
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(body); err != nil {
		return response.ValidationError(c, err)
	}

	tc, err := h.testCaseService.Create(body)
	if err != nil {
		return response.InternalServerError(c, "Failed to create test case: "+err.Error())
	}
	return response.Created(c, tc)
}

// Update handles PUT /api/v1/test-cases/:id
func (h *TestCaseHandler) Update(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return response.BadRequest(c, "Test case ID is required")
	}

	var body services.UpdateRequest
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(body); err != nil {
		return response.ValidationError(c, err)
	}

	tc, err := h.testCaseService.Update(id, body)
	if err != nil {
		if errors.Is(err, services.ErrTestCaseNotFound) {
			return response.NotFound(c, "Test case not found: "+id)
		}
		return response.InternalServerError(c, "Failed to update test case: "+err.Error())
	}
	return response.Success(c, tc)
}

// Delete handles DELETE /api/v1/test-cases/:id
func (h *TestCaseHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return response.BadRequest(c, "Test case ID is required")
	}

	if err := h.testCaseService.Delete(id); err != nil {
		if errors.Is(err, services.ErrTestCaseNotFound) {
			return response.NotFound(c, "Test case not found: "+id)
		}
		return response.InternalServerError(c, "Failed to delete test case: "+err.Error())
	}
	return response.SuccessWithMessage(c, "Test case deleted", fiber.Map{"id": id})
}

// Batch handles POST /api/v1/test-cases/batch
func (h *TestCaseHandler) Batch(c *fiber.Ctx) error {
	var body services.BatchRequest
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(body); err != nil {
		return response.ValidationError(c, err)
	}

	result, err := h.testCaseService.Batch(body)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}
	return response.Success(c, result)
}

// Statistics handles GET /api/v1/test-cases/statistics
func (h *TestCaseHandler) Statistics(c *fiber.Ctx) error {
	stats, err := h.testCaseService.Statistics()
	if err != nil {
		return response.InternalServerError(c, "Failed to compute statistics: "+err.Error())
	}
	return response.Success(c, stats)
}

// TagNames handles GET /api/v1/test-cases/tags
func (h *TestCaseHandler) TagNames(c *fiber.Ctx) error {
	names, err := h.testCaseService.TagNames()
	if err != nil {
		return response.InternalServerError(c, "Failed to collect tag names: "+err.Error())
	}
	return response.Success(c, names)
}

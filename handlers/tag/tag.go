package tag

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/talktrace/talktrace/services"
	"github.com/talktrace/talktrace/utils/response"
	"github.com/talktrace/talktrace/utils/validation"
)

// TagHandler handles tag vocabulary requests
type TagHandler struct {
	tagService *services.TagService
	validator  *validation.Validator
}

// NewTagHandler creates a new tag handler
func NewTagHandler(tagService *services.TagService) *TagHandler {
	return &TagHandler{
		tagService: tagService,
		validator:  validation.NewValidator(),
	}
}

// List handles GET /api/v1/tags
func (h *TagHandler) List(c *fiber.Ctx) error {
	tags, err := h.tagService.List()
	if err != nil {
		return response.InternalServerError(c, "Failed to list tags: "+err.Error())
	}
	return response.Success(c, tags)
}

// Create handles POST /api/v1/tags
func (h *TagHandler) Create(c *fiber.Ctx) error {
	var body services.TagRequest
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(body); err != nil {
		return response.ValidationError(c, err)
	}

	tag, err := h.tagService.Create(body)
	if err != nil {
		return response.InternalServerError(c, "Failed to create tag: "+err.Error())
	}
	return response.Created(c, tag)
}

// Update handles PUT /api/v1/tags/:id
func (h *TagHandler) Update(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid tag ID")
	}

	var body services.TagRequest
	if err := c.BodyParser(&body); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validator.ValidateStruct(body); err != nil {
		return response.ValidationError(c, err)
	}

	tag, err := h.tagService.Update(uint(id), body)
	if err != nil {
		if errors.Is(err, services.ErrTagNotFound) {
			return response.NotFound(c, "Tag not found")
		}
		return response.InternalServerError(c, "Failed to update tag: "+err.Error())
	}
	return response.Success(c, tag)
}

// Delete handles DELETE /api/v1/tags/:id
func (h *TagHandler) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid tag ID")
	}

	if err := h.tagService.Delete(uint(id)); err != nil {
		if errors.Is(err, services.ErrTagNotFound) {
			return response.NotFound(c, "Tag not found")
		}
		return response.InternalServerError(c, "Failed to delete tag: "+err.Error())
	}
	return response.SuccessWithMessage(c, "Tag deleted", fiber.Map{"id": id})
}

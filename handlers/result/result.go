package result

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/artsfest/artsfest-api/services"
	"github.com/artsfest/artsfest-api/utils/response"
	"github.com/artsfest/artsfest-api/utils/validation"
)

// ResultHandler exposes result publication to organizers and the active
// result sets to everyone.
type ResultHandler struct {
	results   *services.ResultService
	validator *validation.Validator
}

// NewResultHandler creates a new result handler
func NewResultHandler(results *services.ResultService) *ResultHandler {
	return &ResultHandler{
		results:   results,
		validator: validation.NewValidator(),
	}
}

// PublishRequest carries the full result set for one item.
type PublishRequest struct {
	Results []services.ResultSubmission `json:"results" validate:"required,min=1,dive"`
}

// Publish replaces the item's active results atomically. Re-submitting
// the same set is a no-op for readers.
func (h *ResultHandler) Publish(c *fiber.Ctx) error {
	itemID, err := c.ParamsInt("id")
	if err != nil || itemID < 1 {
		return response.BadRequest(c, "Invalid item ID")
	}

	var req PublishRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	if err := h.results.PublishResults(uint(itemID), req.Results); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return response.NotFound(c, err.Error())
		}
		return response.BadRequest(c, err.Error())
	}

	results, err := h.results.ActiveResultsForItem(uint(itemID))
	if err != nil {
		return response.InternalServerError(c, "Failed to load published results")
	}

	return response.SuccessWithMessage(c, "Results published", results)
}

// Delete soft-deletes the item's active results. They disappear from
// every listing and leaderboard but can be restored with Undo.
func (h *ResultHandler) Delete(c *fiber.Ctx) error {
	itemID, err := c.ParamsInt("id")
	if err != nil || itemID < 1 {
		return response.BadRequest(c, "Invalid item ID")
	}

	if err := h.results.DeleteItemResults(uint(itemID)); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return response.NotFound(c, err.Error())
		}
		return response.InternalServerError(c, "Failed to delete results")
	}

	return response.Success(c, fiber.Map{"message": "Results deleted"})
}

// Undo restores the most recently deleted result set for the item.
func (h *ResultHandler) Undo(c *fiber.Ctx) error {
	itemID, err := c.ParamsInt("id")
	if err != nil || itemID < 1 {
		return response.BadRequest(c, "Invalid item ID")
	}

	if err := h.results.UndoDeleteResults(uint(itemID)); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return response.NotFound(c, err.Error())
		}
		return response.InternalServerError(c, "Failed to restore results")
	}

	results, err := h.results.ActiveResultsForItem(uint(itemID))
	if err != nil {
		return response.InternalServerError(c, "Failed to load restored results")
	}

	return response.SuccessWithMessage(c, "Results restored", results)
}

// ListForItem returns the item's active results. Public.
func (h *ResultHandler) ListForItem(c *fiber.Ctx) error {
	itemID, err := c.ParamsInt("id")
	if err != nil || itemID < 1 {
		return response.BadRequest(c, "Invalid item ID")
	}

	results, err := h.results.ActiveResultsForItem(uint(itemID))
	if err != nil {
		return response.InternalServerError(c, "Failed to load results")
	}

	return response.Success(c, results)
}

// ListForCollege returns a college's active results across all items.
func (h *ResultHandler) ListForCollege(c *fiber.Ctx) error {
	collegeID, err := c.ParamsInt("id")
	if err != nil || collegeID < 1 {
		return response.BadRequest(c, "Invalid college ID")
	}

	results, err := h.results.ActiveResultsForCollege(uint(collegeID))
	if err != nil {
		return response.InternalServerError(c, "Failed to load results")
	}

	return response.Success(c, results)
}

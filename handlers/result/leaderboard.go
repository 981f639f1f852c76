package result

import (
	"github.com/gofiber/fiber/v2"

	"github.com/artsfest/artsfest-api/utils/response"
)

// Leaderboard returns the overall college standings. Public, cached.
func (h *ResultHandler) Leaderboard(c *fiber.Ctx) error {
	standings, err := h.results.CollegeLeaderboard(c.Context(), "")
	if err != nil {
		return response.InternalServerError(c, "Failed to compute leaderboard")
	}

	return response.Success(c, standings)
}

// CategoryLeaderboard returns standings within one category. Public, cached.
func (h *ResultHandler) CategoryLeaderboard(c *fiber.Ctx) error {
	category := c.Params("category")
	if category == "" {
		return response.BadRequest(c, "Category is required")
	}

	standings, err := h.results.CollegeLeaderboard(c.Context(), category)
	if err != nil {
		return response.InternalServerError(c, "Failed to compute leaderboard")
	}

	return response.Success(c, standings)
}

// IndividualLeaderboard ranks students by points from single items.
// Public, cached.
func (h *ResultHandler) IndividualLeaderboard(c *fiber.Ctx) error {
	standings, err := h.results.IndividualLeaderboard(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to compute leaderboard")
	}

	return response.Success(c, standings)
}

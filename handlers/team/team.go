package team

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/artsfest/artsfest-api/services"
	"github.com/artsfest/artsfest-api/utils/middleware"
	"github.com/artsfest/artsfest-api/utils/response"
)

// TeamHandler exposes team registration to college users.
type TeamHandler struct {
	teams       *services.TeamService
	eligibility *services.EligibilityService
}

// NewTeamHandler creates a new team handler
func NewTeamHandler(teams *services.TeamService, eligibility *services.EligibilityService) *TeamHandler {
	return &TeamHandler{teams: teams, eligibility: eligibility}
}

// CreateTeamRequest selects an item and the member students in order.
type CreateTeamRequest struct {
	ItemID     uint   `json:"item_id" validate:"required"`
	StudentIDs []uint `json:"student_ids"`
}

// EditTeamRequest replaces the team's membership wholesale.
type EditTeamRequest struct {
	StudentIDs []uint `json:"student_ids"`
}

// List returns the college's teams with items and members.
func (h *TeamHandler) List(c *fiber.Ctx) error {
	college, ok := middleware.GetCollege(c)
	if !ok {
		return response.Forbidden(c, "College profile missing")
	}

	teams, err := h.teams.ListTeams(college.ID)
	if err != nil {
		return response.InternalServerError(c, "Failed to load teams")
	}

	return response.Success(c, teams)
}

// Create registers a new team after the full eligibility check.
func (h *TeamHandler) Create(c *fiber.Ctx) error {
	college, ok := middleware.GetCollege(c)
	if !ok {
		return response.Forbidden(c, "College profile missing")
	}

	var req CreateTeamRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.ItemID == 0 {
		return response.BadRequest(c, "item_id is required")
	}

	team, rejection, err := h.teams.CreateTeam(college, req.ItemID, req.StudentIDs)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return response.NotFound(c, err.Error())
		}
		return response.InternalServerError(c, "Failed to create team")
	}
	if rejection != nil {
		return response.Rejected(c, rejection.Code, rejection.Message)
	}

	return response.Created(c, team)
}

// Edit replaces a team's members after re-running the eligibility check
// with the team excluded from every count.
func (h *TeamHandler) Edit(c *fiber.Ctx) error {
	college, ok := middleware.GetCollege(c)
	if !ok {
		return response.Forbidden(c, "College profile missing")
	}

	teamID, err := c.ParamsInt("id")
	if err != nil || teamID < 1 {
		return response.BadRequest(c, "Invalid team ID")
	}

	var req EditTeamRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	team, rejection, err := h.teams.EditTeam(college, uint(teamID), req.StudentIDs)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return response.NotFound(c, err.Error())
		}
		return response.InternalServerError(c, "Failed to edit team")
	}
	if rejection != nil {
		return response.Rejected(c, rejection.Code, rejection.Message)
	}

	return response.Success(c, team)
}

// Delete removes a team, freeing its quota slots immediately.
func (h *TeamHandler) Delete(c *fiber.Ctx) error {
	college, ok := middleware.GetCollege(c)
	if !ok {
		return response.Forbidden(c, "College profile missing")
	}

	teamID, err := c.ParamsInt("id")
	if err != nil || teamID < 1 {
		return response.BadRequest(c, "Invalid team ID")
	}

	if err := h.teams.DeleteTeam(college, uint(teamID)); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return response.NotFound(c, "Team not found")
		}
		return response.InternalServerError(c, "Failed to delete team")
	}

	return response.Success(c, fiber.Map{"message": "Team deleted"})
}

// Quotas returns the college's per-category usage plus the restricted
// item sub-quota, recomputed on every call.
func (h *TeamHandler) Quotas(c *fiber.Ctx) error {
	college, ok := middleware.GetCollege(c)
	if !ok {
		return response.Forbidden(c, "College profile missing")
	}

	usages, err := h.eligibility.CategoryUsageSummary(college.ID)
	if err != nil {
		return response.InternalServerError(c, "Failed to compute quota usage")
	}

	restricted, err := h.eligibility.RestrictedUsage(college.ID, 0)
	if err != nil {
		return response.InternalServerError(c, "Failed to compute restricted usage")
	}

	cfg := h.eligibility.Config()
	return response.Success(c, fiber.Map{
		"categories": usages,
		"restricted": fiber.Map{
			"category": cfg.RestrictedCategory,
			"items":    cfg.RestrictedItems,
			"used":     restricted,
			"limit":    cfg.MaxRestricted,
		},
	})
}

package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/artsfest/artsfest-api/model"
	authutil "github.com/artsfest/artsfest-api/utils/auth"
	"github.com/artsfest/artsfest-api/utils/middleware"
	"github.com/artsfest/artsfest-api/utils/response"
)

// GetProfile retrieves the current user's profile
func (h *AuthHandler) GetProfile(c *fiber.Ctx) error {
	current, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	var user model.User
	if err := h.db.Preload("College").First(&user, current.ID).Error; err != nil {
		return response.NotFound(c, "User not found")
	}

	res := UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		College:   user.College,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}

	return response.Success(c, res)
}

// UpdateProfileRequest represents a profile update request
type UpdateProfileRequest struct {
	Name     string `json:"name,omitempty"`
	Password string `json:"password,omitempty"`
}

// UpdateProfile updates the current user's display name or password
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	current, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	var user model.User
	if err := h.db.First(&user, current.ID).Error; err != nil {
		return response.NotFound(c, "User not found")
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Password != "" {
		if !authutil.IsPasswordValid(req.Password) {
			return response.BadRequest(c, "Password must be at least 8 characters long")
		}
		hashed, err := authutil.HashPassword(req.Password)
		if err != nil {
			return response.InternalServerError(c, "Failed to process password")
		}
		user.PasswordHash = hashed
		// Changing the password invalidates every outstanding token.
		user.TokenVersion++
	}

	if err := h.db.Save(&user).Error; err != nil {
		return response.InternalServerError(c, "Failed to update profile")
	}

	res := UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}

	return response.Success(c, res)
}

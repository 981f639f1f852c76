package middleware

import (
	"strings"

	"github.com/artsfest/artsfest-api/model"
	"github.com/artsfest/artsfest-api/utils/auth"
	"github.com/artsfest/artsfest-api/utils/response"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AuthMiddleware handles JWT authentication
type AuthMiddleware struct {
	jwtManager       *auth.JWTManager
	blacklistService *auth.BlacklistService
	db               *gorm.DB
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(jwtManager *auth.JWTManager, db *gorm.DB) *AuthMiddleware {
	return &AuthMiddleware{
		jwtManager:       jwtManager,
		blacklistService: auth.NewBlacklistService(db),
		db:               db,
	}
}

// authenticate runs the full token validation and loads the user into the
// request context. It is idempotent: a guard chained after Required (or
// after another guard) reuses the user already in context instead of
// validating twice. A nil user means the rejection response has already
// been written; the caller returns the accompanying error as-is.
func (m *AuthMiddleware) authenticate(c *fiber.Ctx) (*model.User, error) {
	if user, ok := GetUser(c); ok {
		return user, nil
	}

	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return nil, response.Unauthorized(c, "Missing authorization token")
	}

	// Extract token from "Bearer <token>"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, response.Unauthorized(c, "Invalid authorization format")
	}

	claims, err := m.jwtManager.ValidateToken(parts[1])
	if err != nil {
		if err == auth.ErrExpiredToken {
			return nil, response.Unauthorized(c, "Token has expired")
		}
		return nil, response.Unauthorized(c, "Invalid token")
	}

	if claims.TokenType != "access" {
		return nil, response.Unauthorized(c, "Invalid token type")
	}

	isRevoked, err := m.blacklistService.IsTokenRevoked(c.Context(), claims.ID)
	if err != nil {
		return nil, response.InternalServerError(c, "Failed to check token status")
	}
	if isRevoked {
		return nil, response.Unauthorized(c, "Token has been revoked")
	}

	var user model.User
	if err := m.db.First(&user, claims.UserID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, response.Unauthorized(c, "User not found")
		}
		return nil, response.InternalServerError(c, "Failed to load user")
	}

	// A version bump invalidates every token issued before it
	if user.TokenVersion != claims.TokenVersion {
		return nil, response.Unauthorized(c, "Token has been invalidated")
	}

	c.Locals("user_id", claims.UserID)
	c.Locals("user_role", claims.Role)
	c.Locals("claims", claims)
	c.Locals("user", &user)
	c.Locals("token_jti", claims.ID)

	return &user, nil
}

// Required is middleware that requires a valid JWT token
func (m *AuthMiddleware) Required() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if user, err := m.authenticate(c); user == nil {
			return err
		}
		return c.Next()
	}
}

// RequireRole requires a valid token whose user holds one of the allowed
// roles. Self-contained: it validates the token itself, so routes can
// install it without chaining Required first.
func (m *AuthMiddleware) RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := m.authenticate(c)
		if user == nil {
			return err
		}

		for _, role := range roles {
			if user.Role == role {
				return c.Next()
			}
		}

		return response.Forbidden(c, "Insufficient role for this operation")
	}
}

// RequireAdmin is shorthand for RequireRole("admin")
func (m *AuthMiddleware) RequireAdmin() fiber.Handler {
	return m.RequireRole(model.RoleAdmin)
}

// RequireCollege requires a valid token from a college user and loads the
// acting college into the request context. Self-contained like RequireRole.
func (m *AuthMiddleware) RequireCollege() fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := m.authenticate(c)
		if user == nil {
			return err
		}

		if user.Role != model.RoleCollege || user.CollegeID == nil {
			return response.Forbidden(c, "Only college users can perform this operation")
		}

		var college model.College
		if err := m.db.First(&college, *user.CollegeID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return response.Forbidden(c, "College profile missing")
			}
			return response.InternalServerError(c, "Failed to load college")
		}

		c.Locals("college", &college)
		return c.Next()
	}
}

// GetUser retrieves the authenticated user from the request context
func GetUser(c *fiber.Ctx) (*model.User, bool) {
	user, ok := c.Locals("user").(*model.User)
	return user, ok
}

// GetCollege retrieves the acting college set by RequireCollege
func GetCollege(c *fiber.Ctx) (*model.College, bool) {
	college, ok := c.Locals("college").(*model.College)
	return college, ok
}

// GetClaims retrieves the validated JWT claims from the request context
func GetClaims(c *fiber.Ctx) (*auth.Claims, bool) {
	claims, ok := c.Locals("claims").(*auth.Claims)
	return claims, ok
}

// GetTokenJTI retrieves the current token's JTI from the request context
func GetTokenJTI(c *fiber.Ctx) (string, bool) {
	jti, ok := c.Locals("token_jti").(string)
	return jti, ok
}

package middleware

import (
	"encoding/json"
	"strconv"

	"github.com/artsfest/artsfest-api/model"
	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AdminAuditLog records an audit row for an admin write. It never blocks
// the request: if the log cannot be written the action still proceeds.
func AdminAuditLog(db *gorm.DB, action, resource string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, ok := GetUser(c)
		if !ok || user.Role != model.RoleAdmin {
			return c.Next()
		}

		var resourceID uint
		if id := c.Params("id"); id != "" {
			if parsedID, err := strconv.ParseUint(id, 10, 32); err == nil {
				resourceID = uint(parsedID)
			}
		}

		var newValue datatypes.JSON
		if c.Method() == fiber.MethodPost || c.Method() == fiber.MethodPut {
			if body := c.Body(); len(body) > 0 && json.Valid(body) {
				newValue = datatypes.JSON(body)
			}
		}

		entry := model.AdminAuditLog{
			AdminID:    user.ID,
			Action:     action,
			Resource:   resource,
			ResourceID: resourceID,
			NewValue:   newValue,
			IPAddress:  c.IP(),
			UserAgent:  c.Get("User-Agent"),
		}
		db.Create(&entry)

		return c.Next()
	}
}

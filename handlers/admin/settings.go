package admin

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/artsfest/artsfest-api/config"
	"github.com/artsfest/artsfest-api/database"
	"github.com/artsfest/artsfest-api/model"
	"github.com/artsfest/artsfest-api/utils/response"
)

// ListSettings retrieves all app settings
// GET /admin/settings
func ListSettings(c *fiber.Ctx, store database.Storage) error {
	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		return response.InternalServerError(c, "Database connection error")
	}

	var settings []model.AppSetting
	if err := db.Find(&settings).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch settings")
	}

	return response.Success(c, settings)
}

// GetSetting retrieves a specific setting by key
// GET /admin/settings/:key
func GetSetting(c *fiber.Ctx, store database.Storage) error {
	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		return response.InternalServerError(c, "Database connection error")
	}

	key := c.Params("key")
	var setting model.AppSetting
	if err := db.Where("key = ?", key).First(&setting).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Setting not found")
		}
		return response.InternalServerError(c, "Failed to fetch setting")
	}

	return response.Success(c, setting)
}

// UpdateSetting updates an existing setting or creates it
// PUT /admin/settings/:key
func UpdateSetting(c *fiber.Ctx, store database.Storage) error {
	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		return response.InternalServerError(c, "Database connection error")
	}

	key := c.Params("key")

	var req struct {
		Value       string `json:"value"`
		Description string `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	switch key {
	case model.SettingStudentRegistrationOpen:
		if req.Value != "true" && req.Value != "false" {
			return response.BadRequest(c, "Value must be 'true' or 'false'")
		}
	case model.SettingFestivalConfig:
		// The quota regime must stay parseable or team validation breaks.
		var cfg config.FestivalConfig
		if err := json.Unmarshal([]byte(req.Value), &cfg); err != nil {
			return response.BadRequest(c, "Value must be a valid festival config JSON document")
		}
	}

	var setting model.AppSetting
	err := db.Where("key = ?", key).First(&setting).Error
	if err == gorm.ErrRecordNotFound {
		setting = model.AppSetting{
			Key:         key,
			Value:       req.Value,
			Description: req.Description,
		}
		if err := db.Create(&setting).Error; err != nil {
			return response.InternalServerError(c, "Failed to create setting")
		}
		return response.Created(c, setting)
	}
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch setting")
	}

	setting.Value = req.Value
	if req.Description != "" {
		setting.Description = req.Description
	}

	if err := db.Save(&setting).Error; err != nil {
		return response.InternalServerError(c, "Failed to update setting")
	}

	return response.Success(c, setting)
}

// GetPublicSettings returns the settings flagged public, without auth
// GET /settings
func GetPublicSettings(c *fiber.Ctx, store database.Storage) error {
	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		return response.InternalServerError(c, "Database connection error")
	}

	var settings []model.AppSetting
	if err := db.Where("is_public = ?", true).Find(&settings).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch settings")
	}

	return response.Success(c, settings)
}

package admin

import (
	"io"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/artsfest/artsfest-api/database"
	"github.com/artsfest/artsfest-api/model"
	"github.com/artsfest/artsfest-api/services/spaces"
	"github.com/artsfest/artsfest-api/utils/middleware"
	"github.com/artsfest/artsfest-api/utils/pdfvalidation"
	"github.com/artsfest/artsfest-api/utils/response"
)

// ListBrochures returns every active brochure. Public.
// GET /brochures
func ListBrochures(c *fiber.Ctx, store database.Storage) error {
	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		return response.InternalServerError(c, "Database connection error")
	}

	var brochures []model.Brochure
	if err := db.Where("is_active = ?", true).Order("id DESC").Find(&brochures).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch brochures")
	}

	return response.Success(c, brochures)
}

// UploadBrochure validates and stores a festival brochure PDF
// POST /admin/brochures
func UploadBrochure(c *fiber.Ctx, store database.Storage, spacesClient *spaces.SpacesClient) error {
	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		return response.InternalServerError(c, "Database connection error")
	}

	if spacesClient == nil {
		return response.Error(c, fiber.StatusServiceUnavailable, "File storage is not configured", "STORAGE_UNAVAILABLE")
	}

	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	title := c.FormValue("title")
	if title == "" {
		return response.BadRequest(c, "Title is required")
	}

	file, err := c.FormFile("file")
	if err != nil {
		return response.BadRequest(c, "Brochure PDF file is required")
	}

	validationResult, err := pdfvalidation.ValidatePDFFile(file, pdfvalidation.BrochureLimits)
	if err != nil {
		return response.InternalServerError(c, "Failed to validate PDF")
	}
	if !validationResult.Valid {
		return response.BadRequest(c, validationResult.Error)
	}

	src, err := file.Open()
	if err != nil {
		return response.InternalServerError(c, "Failed to read uploaded file")
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		return response.InternalServerError(c, "Failed to read uploaded file")
	}

	key := spaces.GenerateKey(spaces.PrefixBrochures, file.Filename)
	url, err := spacesClient.UploadBytes(c.Context(), key, content, "application/pdf")
	if err != nil {
		return response.InternalServerError(c, "Failed to store brochure")
	}

	brochure := model.Brochure{
		Title:      title,
		FileURL:    url,
		FileKey:    key,
		IsActive:   true,
		UploadedBy: user.ID,
	}

	if err := db.Create(&brochure).Error; err != nil {
		return response.InternalServerError(c, "Failed to save brochure")
	}

	return response.Created(c, brochure)
}

// UpdateBrochure toggles a brochure's visibility or renames it
// PUT /admin/brochures/:id
func UpdateBrochure(c *fiber.Ctx, store database.Storage) error {
	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		return response.InternalServerError(c, "Database connection error")
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid brochure ID")
	}

	var brochure model.Brochure
	if err := db.First(&brochure, id).Error; err != nil {
		return response.NotFound(c, "Brochure not found")
	}

	var req struct {
		Title    *string `json:"title"`
		IsActive *bool   `json:"is_active"`
	}
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Title != nil && *req.Title != "" {
		brochure.Title = *req.Title
	}
	if req.IsActive != nil {
		brochure.IsActive = *req.IsActive
	}

	if err := db.Save(&brochure).Error; err != nil {
		return response.InternalServerError(c, "Failed to update brochure")
	}

	return response.Success(c, brochure)
}

// DeleteBrochure removes a brochure and its stored file
// DELETE /admin/brochures/:id
func DeleteBrochure(c *fiber.Ctx, store database.Storage, spacesClient *spaces.SpacesClient) error {
	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		return response.InternalServerError(c, "Database connection error")
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid brochure ID")
	}

	var brochure model.Brochure
	if err := db.First(&brochure, id).Error; err != nil {
		return response.NotFound(c, "Brochure not found")
	}

	// Best effort; a dangling object is preferable to a brochure that
	// cannot be deleted.
	if spacesClient != nil && brochure.FileKey != "" {
		_ = spacesClient.DeleteFile(c.Context(), brochure.FileKey)
	}

	if err := db.Unscoped().Delete(&brochure).Error; err != nil {
		return response.InternalServerError(c, "Failed to delete brochure")
	}

	return response.Success(c, fiber.Map{"message": "Brochure deleted"})
}

package item

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/artsfest/artsfest-api/model"
	"github.com/artsfest/artsfest-api/services"
	"github.com/artsfest/artsfest-api/utils/response"
	"github.com/artsfest/artsfest-api/utils/validation"
)

// ItemHandler exposes the competition item catalogue.
type ItemHandler struct {
	db            *gorm.DB
	importService *services.ImportService
	validator     *validation.Validator
}

// NewItemHandler creates a new item handler
func NewItemHandler(db *gorm.DB, importService *services.ImportService) *ItemHandler {
	return &ItemHandler{
		db:            db,
		importService: importService,
		validator:     validation.NewValidator(),
	}
}

// ItemRequest carries the fields for creating or updating an item.
type ItemRequest struct {
	Name            string `json:"name" validate:"required,min=2,max=255"`
	Numbers         int    `json:"numbers" validate:"required,gte=1"`
	Category        string `json:"category" validate:"required,min=2,max=255"`
	MaxParticipants int    `json:"max_participants" validate:"required,gte=1"`
	ItemType        string `json:"item_type" validate:"required,oneof=single group"`
}

// List returns every item, grouped the way the registration page shows
// them. Public.
func (h *ItemHandler) List(c *fiber.Ctx) error {
	var items []model.Item
	query := h.db.Order("category, name")

	if category := c.Query("category"); category != "" {
		query = query.Where("LOWER(category) = LOWER(?)", category)
	}

	if err := query.Find(&items).Error; err != nil {
		return response.InternalServerError(c, "Failed to load items")
	}

	return response.Success(c, items)
}

// Get returns one item. Public.
func (h *ItemHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid item ID")
	}

	var item model.Item
	if err := h.db.First(&item, id).Error; err != nil {
		return response.NotFound(c, "Item not found")
	}

	return response.Success(c, item)
}

// Create adds a new item. Admin only.
func (h *ItemHandler) Create(c *fiber.Ctx) error {
	var req ItemRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	item := model.Item{
		Name:            validation.SanitizeString(req.Name),
		Numbers:         req.Numbers,
		Category:        validation.SanitizeString(req.Category),
		MaxParticipants: req.MaxParticipants,
		ItemType:        req.ItemType,
	}

	if err := h.db.Create(&item).Error; err != nil {
		return response.Conflict(c, "An item with this name already exists")
	}

	return response.Created(c, item)
}

// Update edits an item. Admin only. Category and capacity changes do not
// retroactively re-validate existing teams.
func (h *ItemHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid item ID")
	}

	var item model.Item
	if err := h.db.First(&item, id).Error; err != nil {
		return response.NotFound(c, "Item not found")
	}

	var req ItemRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	item.Name = validation.SanitizeString(req.Name)
	item.Numbers = req.Numbers
	item.Category = validation.SanitizeString(req.Category)
	item.MaxParticipants = req.MaxParticipants
	item.ItemType = req.ItemType

	if err := h.db.Save(&item).Error; err != nil {
		return response.InternalServerError(c, "Failed to update item")
	}

	return response.Success(c, item)
}

// Delete removes an item and cascades to its teams and results. Admin only.
func (h *ItemHandler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid item ID")
	}

	var item model.Item
	if err := h.db.First(&item, id).Error; err != nil {
		return response.NotFound(c, "Item not found")
	}

	var teams int64
	if err := h.db.Model(&model.Team{}).Where("item_id = ?", item.ID).Count(&teams).Error; err != nil {
		return response.InternalServerError(c, "Failed to check registrations")
	}
	if teams > 0 {
		return response.Conflict(c, "Item has registered teams and cannot be deleted")
	}

	if err := h.db.Unscoped().Delete(&item).Error; err != nil {
		return response.InternalServerError(c, "Failed to delete item")
	}

	return response.Success(c, fiber.Map{"message": "Item deleted"})
}

// ImportCSV bulk-loads items from an uploaded CSV file. Admin only.
// Expected columns: ITEM, Numbers, Category. Existing items are updated.
func (h *ItemHandler) ImportCSV(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return response.BadRequest(c, "CSV file is required")
	}

	src, err := file.Open()
	if err != nil {
		return response.InternalServerError(c, "Failed to read uploaded file")
	}
	defer src.Close()

	summary, err := h.importService.ImportItems(src)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	return response.SuccessWithMessage(c, "Item import completed", summary)
}

package appeal

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/artsfest/artsfest-api/model"
	"github.com/artsfest/artsfest-api/services/spaces"
	"github.com/artsfest/artsfest-api/utils/middleware"
	"github.com/artsfest/artsfest-api/utils/response"
	"github.com/artsfest/artsfest-api/utils/validation"
)

// AppealHandler lets organizers answer result appeals and colleges read
// the answers.
type AppealHandler struct {
	db        *gorm.DB
	spaces    *spaces.SpacesClient
	validator *validation.Validator
}

// NewAppealHandler creates a new appeal handler. The Spaces client may be
// nil; evidence image uploads are then unavailable.
func NewAppealHandler(db *gorm.DB, spacesClient *spaces.SpacesClient) *AppealHandler {
	return &AppealHandler{
		db:        db,
		spaces:    spacesClient,
		validator: validation.NewValidator(),
	}
}

// SendRequest is an organizer's answer to a college's appeal.
type SendRequest struct {
	ItemID    uint    `json:"item_id" validate:"required"`
	CollegeID uint    `json:"college_id" validate:"required"`
	Status    string  `json:"status" validate:"required,oneof=accepted rejected"`
	Position  *int    `json:"position,omitempty" validate:"omitempty,gte=1,lte=3"`
	Grade     *string `json:"grade,omitempty" validate:"omitempty,oneof=A B C D E"`
	Message   string  `json:"message"`
}

// Send records an appeal decision for a college. Organizer only.
func (h *AppealHandler) Send(c *fiber.Ctx) error {
	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	var req SendRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var item model.Item
	if err := h.db.First(&item, req.ItemID).Error; err != nil {
		return response.NotFound(c, "Item not found")
	}

	var college model.College
	if err := h.db.First(&college, req.CollegeID).Error; err != nil {
		return response.NotFound(c, "College not found")
	}

	notification := model.AppealNotification{
		ItemID:    req.ItemID,
		CollegeID: req.CollegeID,
		Status:    req.Status,
		Position:  req.Position,
		Grade:     req.Grade,
		Message:   validation.SanitizeString(req.Message),
		SentBy:    &user.ID,
	}

	if err := h.db.Create(&notification).Error; err != nil {
		return response.InternalServerError(c, "Failed to send appeal decision")
	}

	notification.Item = item
	notification.College = college
	return response.Created(c, notification)
}

// UploadEvidence attaches a result-sheet image to an appeal decision.
// Organizer only.
func (h *AppealHandler) UploadEvidence(c *fiber.Ctx) error {
	if h.spaces == nil {
		return response.Error(c, fiber.StatusServiceUnavailable, "File storage is not configured", "STORAGE_UNAVAILABLE")
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid appeal ID")
	}

	var notification model.AppealNotification
	if err := h.db.First(&notification, id).Error; err != nil {
		return response.NotFound(c, "Appeal notification not found")
	}

	file, err := c.FormFile("result_image")
	if err != nil {
		return response.BadRequest(c, "result_image is required")
	}

	if file.Size > 10*1024*1024 {
		return response.BadRequest(c, "Result image must be under 10MB")
	}

	contentType := spaces.GetContentType(file.Filename)
	if contentType != "image/png" && contentType != "image/jpeg" && contentType != "image/webp" {
		return response.BadRequest(c, "Result image must be a PNG, JPEG or WebP file")
	}

	src, err := file.Open()
	if err != nil {
		return response.InternalServerError(c, "Failed to read uploaded file")
	}
	defer src.Close()

	key := spaces.GenerateKey(spaces.PrefixAppeals, file.Filename)
	url, err := h.spaces.UploadFile(c.Context(), key, src, contentType)
	if err != nil {
		return response.InternalServerError(c, "Failed to store result image")
	}

	if err := h.db.Model(&notification).Update("result_image_url", url).Error; err != nil {
		return response.InternalServerError(c, "Failed to save result image URL")
	}

	notification.ResultImageURL = url
	return response.Success(c, notification)
}

// ListMine returns the college's appeal notifications, newest first.
func (h *AppealHandler) ListMine(c *fiber.Ctx) error {
	college, ok := middleware.GetCollege(c)
	if !ok {
		return response.Forbidden(c, "College profile missing")
	}

	var notifications []model.AppealNotification
	err := h.db.Preload("Item").
		Where("college_id = ?", college.ID).
		Order("id DESC").
		Find(&notifications).Error
	if err != nil {
		return response.InternalServerError(c, "Failed to load appeal notifications")
	}

	return response.Success(c, notifications)
}

// MarkRead marks one of the college's notifications as read.
func (h *AppealHandler) MarkRead(c *fiber.Ctx) error {
	college, ok := middleware.GetCollege(c)
	if !ok {
		return response.Forbidden(c, "College profile missing")
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid appeal ID")
	}

	var notification model.AppealNotification
	if err := h.db.Where("id = ? AND college_id = ?", id, college.ID).First(&notification).Error; err != nil {
		return response.NotFound(c, "Appeal notification not found")
	}

	if err := h.db.Model(&notification).Update("is_read", true).Error; err != nil {
		return response.InternalServerError(c, "Failed to mark notification as read")
	}

	notification.IsRead = true
	return response.Success(c, notification)
}

// ListAll returns every appeal decision, for the organizer desk.
func (h *AppealHandler) ListAll(c *fiber.Ctx) error {
	var notifications []model.AppealNotification
	err := h.db.Preload("Item").Preload("College").
		Order("id DESC").
		Find(&notifications).Error
	if err != nil {
		return response.InternalServerError(c, "Failed to load appeal notifications")
	}

	return response.Success(c, notifications)
}

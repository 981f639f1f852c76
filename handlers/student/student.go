package student

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/artsfest/artsfest-api/model"
	"github.com/artsfest/artsfest-api/services/spaces"
	"github.com/artsfest/artsfest-api/utils/middleware"
	"github.com/artsfest/artsfest-api/utils/response"
	"github.com/artsfest/artsfest-api/utils/validation"
)

const dateLayout = "2006-01-02"

// StudentHandler manages a college's own student roster.
type StudentHandler struct {
	db        *gorm.DB
	spaces    *spaces.SpacesClient
	validator *validation.Validator
}

// NewStudentHandler creates a new student handler. The Spaces client may
// be nil, in which case ID-card uploads are rejected.
func NewStudentHandler(db *gorm.DB, spacesClient *spaces.SpacesClient) *StudentHandler {
	return &StudentHandler{
		db:        db,
		spaces:    spacesClient,
		validator: validation.NewValidator(),
	}
}

// StudentRequest carries the fields a college submits for a student.
type StudentRequest struct {
	Name          string `json:"name" validate:"required,min=2,max=255"`
	IDCard        string `json:"id_card" validate:"required,min=1,max=255"`
	DateOfBirth   string `json:"date_of_birth" validate:"required"`
	Department    string `json:"department" validate:"required,max=255"`
	YearOfJoining int    `json:"year_of_joining" validate:"required,gte=2000,lte=2100"`
	CurrentYear   int    `json:"current_year" validate:"required,gte=1,lte=6"`
}

// registrationOpen reports whether the admin has student registration
// enabled. Missing setting defaults to open.
func (h *StudentHandler) registrationOpen() bool {
	var setting model.AppSetting
	err := h.db.Where("key = ?", model.SettingStudentRegistrationOpen).First(&setting).Error
	if err != nil {
		return true
	}
	return setting.Value == "true"
}

// List returns the college's students, newest first.
func (h *StudentHandler) List(c *fiber.Ctx) error {
	college, ok := middleware.GetCollege(c)
	if !ok {
		return response.Forbidden(c, "College profile missing")
	}

	var students []model.Student
	if err := h.db.Where("college_id = ?", college.ID).Order("id DESC").Find(&students).Error; err != nil {
		return response.InternalServerError(c, "Failed to load students")
	}

	return response.Success(c, students)
}

// Get returns one student owned by the college.
func (h *StudentHandler) Get(c *fiber.Ctx) error {
	college, ok := middleware.GetCollege(c)
	if !ok {
		return response.Forbidden(c, "College profile missing")
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid student ID")
	}

	var student model.Student
	if err := h.db.Where("id = ? AND college_id = ?", id, college.ID).First(&student).Error; err != nil {
		return response.NotFound(c, "Student not found")
	}

	return response.Success(c, student)
}

// Create registers a new student for the college.
func (h *StudentHandler) Create(c *fiber.Ctx) error {
	college, ok := middleware.GetCollege(c)
	if !ok {
		return response.Forbidden(c, "College profile missing")
	}

	if !h.registrationOpen() {
		return response.Forbidden(c, "Student registration is currently closed")
	}

	var req StudentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	dob, err := time.Parse(dateLayout, req.DateOfBirth)
	if err != nil {
		return response.BadRequest(c, "Date of birth must be in YYYY-MM-DD format")
	}

	student := model.Student{
		CollegeID:     college.ID,
		Name:          validation.SanitizeString(req.Name),
		IDCard:        validation.SanitizeString(req.IDCard),
		DateOfBirth:   dob,
		Department:    validation.SanitizeString(req.Department),
		YearOfJoining: req.YearOfJoining,
		CurrentYear:   req.CurrentYear,
	}

	if err := h.db.Create(&student).Error; err != nil {
		return response.InternalServerError(c, "Failed to register student")
	}

	return response.Created(c, student)
}

// Update edits a student's details.
func (h *StudentHandler) Update(c *fiber.Ctx) error {
	college, ok := middleware.GetCollege(c)
	if !ok {
		return response.Forbidden(c, "College profile missing")
	}

	if !h.registrationOpen() {
		return response.Forbidden(c, "Student registration is currently closed")
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid student ID")
	}

	var student model.Student
	if err := h.db.Where("id = ? AND college_id = ?", id, college.ID).First(&student).Error; err != nil {
		return response.NotFound(c, "Student not found")
	}

	var req StudentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	dob, err := time.Parse(dateLayout, req.DateOfBirth)
	if err != nil {
		return response.BadRequest(c, "Date of birth must be in YYYY-MM-DD format")
	}

	student.Name = validation.SanitizeString(req.Name)
	student.IDCard = validation.SanitizeString(req.IDCard)
	student.DateOfBirth = dob
	student.Department = validation.SanitizeString(req.Department)
	student.YearOfJoining = req.YearOfJoining
	student.CurrentYear = req.CurrentYear

	if err := h.db.Save(&student).Error; err != nil {
		return response.InternalServerError(c, "Failed to update student")
	}

	return response.Success(c, student)
}

// Delete removes a student. Students on a team cannot be removed until
// the team is edited or deleted.
func (h *StudentHandler) Delete(c *fiber.Ctx) error {
	college, ok := middleware.GetCollege(c)
	if !ok {
		return response.Forbidden(c, "College profile missing")
	}

	if !h.registrationOpen() {
		return response.Forbidden(c, "Student registration is currently closed")
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid student ID")
	}

	var student model.Student
	if err := h.db.Where("id = ? AND college_id = ?", id, college.ID).First(&student).Error; err != nil {
		return response.NotFound(c, "Student not found")
	}

	var memberships int64
	if err := h.db.Table("team_students").Where("student_id = ?", student.ID).Count(&memberships).Error; err != nil {
		return response.InternalServerError(c, "Failed to check team memberships")
	}
	if memberships > 0 {
		return response.Conflict(c, "Student is part of a team. Remove them from their teams first.")
	}

	if err := h.db.Unscoped().Delete(&student).Error; err != nil {
		return response.InternalServerError(c, "Failed to delete student")
	}

	return response.Success(c, fiber.Map{"message": "Student deleted"})
}

// UploadIDCard attaches an ID-card scan to the student. Accepts images
// or PDF up to 5MB.
func (h *StudentHandler) UploadIDCard(c *fiber.Ctx) error {
	college, ok := middleware.GetCollege(c)
	if !ok {
		return response.Forbidden(c, "College profile missing")
	}

	if h.spaces == nil {
		return response.Error(c, fiber.StatusServiceUnavailable, "File storage is not configured", "STORAGE_UNAVAILABLE")
	}

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return response.BadRequest(c, "Invalid student ID")
	}

	var student model.Student
	if err := h.db.Where("id = ? AND college_id = ?", id, college.ID).First(&student).Error; err != nil {
		return response.NotFound(c, "Student not found")
	}

	file, err := c.FormFile("id_card_file")
	if err != nil {
		return response.BadRequest(c, "id_card_file is required")
	}

	if file.Size > 5*1024*1024 {
		return response.BadRequest(c, "ID card file must be under 5MB")
	}

	contentType := spaces.GetContentType(file.Filename)
	if contentType != "application/pdf" && contentType != "image/png" &&
		contentType != "image/jpeg" && contentType != "image/webp" {
		return response.BadRequest(c, "ID card must be a PDF or image file")
	}

	src, err := file.Open()
	if err != nil {
		return response.InternalServerError(c, "Failed to read uploaded file")
	}
	defer src.Close()

	key := spaces.GenerateKey(spaces.PrefixIDCards, file.Filename)
	url, err := h.spaces.UploadFile(c.Context(), key, src, contentType)
	if err != nil {
		return response.InternalServerError(c, "Failed to store ID card")
	}

	if err := h.db.Model(&student).Update("id_card_file_url", url).Error; err != nil {
		return response.InternalServerError(c, "Failed to save ID card URL")
	}

	student.IDCardFileURL = url
	return response.Success(c, student)
}

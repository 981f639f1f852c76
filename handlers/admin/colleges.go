package admin

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/artsfest/artsfest-api/database"
	"github.com/artsfest/artsfest-api/model"
	"github.com/artsfest/artsfest-api/services"
	"github.com/artsfest/artsfest-api/utils/response"
)

// ListColleges returns every registered college with its student and
// team counts
// GET /admin/colleges
func ListColleges(c *fiber.Ctx, store database.Storage) error {
	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		return response.InternalServerError(c, "Database connection error")
	}

	type collegeRow struct {
		model.College
		StudentCount int64 `json:"student_count"`
		TeamCount    int64 `json:"team_count"`
	}

	var colleges []model.College
	if err := db.Order("name").Find(&colleges).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch colleges")
	}

	rows := make([]collegeRow, 0, len(colleges))
	for _, college := range colleges {
		row := collegeRow{College: college}
		db.Model(&model.Student{}).Where("college_id = ?", college.ID).Count(&row.StudentCount)
		db.Model(&model.Team{}).Where("college_id = ?", college.ID).Count(&row.TeamCount)
		rows = append(rows, row)
	}

	return response.Success(c, rows)
}

// ImportColleges bulk-loads college accounts from an uploaded CSV file
// POST /admin/colleges/import
// Expected columns: Username, College, District, Password.
func ImportColleges(c *fiber.Ctx, importService *services.ImportService) error {
	file, err := c.FormFile("file")
	if err != nil {
		return response.BadRequest(c, "CSV file is required")
	}

	src, err := file.Open()
	if err != nil {
		return response.InternalServerError(c, "Failed to read uploaded file")
	}
	defer src.Close()

	summary, err := importService.ImportColleges(src)
	if err != nil {
		return response.BadRequest(c, err.Error())
	}

	return response.SuccessWithMessage(c, "College import completed", summary)
}

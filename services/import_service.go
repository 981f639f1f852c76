package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/artsfest/artsfest-api/model"
	"github.com/artsfest/artsfest-api/utils/auth"
)

// ImportSummary reports the outcome of a CSV import run.
type ImportSummary struct {
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}

// ImportService loads colleges and competition items from CSV files.
// Existing rows are updated in place so re-running an import is safe.
type ImportService struct {
	db *gorm.DB
}

func NewImportService(db *gorm.DB) *ImportService {
	return &ImportService{db: db}
}

// ImportColleges reads a CSV with columns Username, College, District, Password.
// Each row becomes a college plus its login user. Matching is by username;
// existing colleges get their name, district and password refreshed.
func (s *ImportService) ImportColleges(r io.Reader) (*ImportSummary, error) {
	rows, header, err := readCSV(r)
	if err != nil {
		return nil, err
	}

	required := []string{"Username", "College", "District", "Password"}
	if err := checkColumns(header, required); err != nil {
		return nil, err
	}

	summary := &ImportSummary{}
	for i, row := range rows {
		username := strings.TrimSpace(row["Username"])
		collegeName := strings.TrimSpace(row["College"])
		district := strings.TrimSpace(row["District"])
		password := row["Password"]

		if username == "" || collegeName == "" {
			summary.Skipped++
			summary.Errors = append(summary.Errors, fmt.Sprintf("row %d: missing username or college name", i+2))
			continue
		}

		hashed, err := auth.HashPassword(password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password for %s: %w", username, err)
		}

		err = s.db.Transaction(func(tx *gorm.DB) error {
			var user model.User
			result := tx.Where("username = ?", username).First(&user)
			if result.Error != nil && result.Error != gorm.ErrRecordNotFound {
				return result.Error
			}

			if result.Error == gorm.ErrRecordNotFound {
				college := model.College{Name: collegeName, District: district}
				if err := tx.Create(&college).Error; err != nil {
					return err
				}
				user = model.User{
					Username:     username,
					Email:        username + "@colleges.artsfest.local",
					PasswordHash: hashed,
					Name:         collegeName,
					Role:         model.RoleCollege,
					CollegeID:    &college.ID,
				}
				if err := tx.Create(&user).Error; err != nil {
					return err
				}
				summary.Created++
				return nil
			}

			if user.CollegeID != nil {
				if err := tx.Model(&model.College{}).Where("id = ?", *user.CollegeID).
					Updates(map[string]interface{}{"name": collegeName, "district": district}).Error; err != nil {
					return err
				}
			}
			if err := tx.Model(&user).Update("password_hash", hashed).Error; err != nil {
				return err
			}
			summary.Updated++
			return nil
		})
		if err != nil {
			summary.Skipped++
			summary.Errors = append(summary.Errors, fmt.Sprintf("row %d (%s): %v", i+2, username, err))
		}
	}

	return summary, nil
}

// ImportItems reads a CSV with columns ITEM, Numbers, Category.
// Numbers doubles as the participant cap; items with a cap above one
// are treated as group items. Matching is by item name.
func (s *ImportService) ImportItems(r io.Reader) (*ImportSummary, error) {
	rows, header, err := readCSV(r)
	if err != nil {
		return nil, err
	}

	required := []string{"ITEM", "Numbers", "Category"}
	if err := checkColumns(header, required); err != nil {
		return nil, err
	}

	summary := &ImportSummary{}
	for i, row := range rows {
		name := strings.TrimSpace(row["ITEM"])
		category := strings.TrimSpace(row["Category"])
		numbers, convErr := strconv.Atoi(strings.TrimSpace(row["Numbers"]))
		if name == "" || convErr != nil || numbers < 1 {
			summary.Skipped++
			summary.Errors = append(summary.Errors, fmt.Sprintf("row %d: invalid item name or numbers", i+2))
			continue
		}

		itemType := model.ItemTypeSingle
		if numbers > 1 {
			itemType = model.ItemTypeGroup
		}

		var item model.Item
		result := s.db.Where("name = ?", name).First(&item)
		if result.Error != nil && result.Error != gorm.ErrRecordNotFound {
			return nil, result.Error
		}

		if result.Error == gorm.ErrRecordNotFound {
			item = model.Item{
				Name:            name,
				Numbers:         numbers,
				Category:        category,
				MaxParticipants: numbers,
				ItemType:        itemType,
			}
			if err := s.db.Create(&item).Error; err != nil {
				summary.Skipped++
				summary.Errors = append(summary.Errors, fmt.Sprintf("row %d (%s): %v", i+2, name, err))
				continue
			}
			summary.Created++
			continue
		}

		updates := map[string]interface{}{
			"numbers":          numbers,
			"category":         category,
			"max_participants": numbers,
			"item_type":        itemType,
		}
		if err := s.db.Model(&item).Updates(updates).Error; err != nil {
			summary.Skipped++
			summary.Errors = append(summary.Errors, fmt.Sprintf("row %d (%s): %v", i+2, name, err))
			continue
		}
		summary.Updated++
	}

	return summary, nil
}

// readCSV parses the whole file into header-keyed rows.
func readCSV(r io.Reader) ([]map[string]string, []string, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	if len(records) < 1 {
		return nil, nil, fmt.Errorf("CSV file is empty")
	}

	header := records[0]
	var rows []map[string]string
	for _, record := range records[1:] {
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				row[strings.TrimSpace(col)] = record[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, header, nil
}

func checkColumns(header, required []string) error {
	present := make(map[string]bool, len(header))
	for _, col := range header {
		present[strings.TrimSpace(col)] = true
	}
	for _, col := range required {
		if !present[col] {
			return fmt.Errorf("missing required CSV column %q", col)
		}
	}
	return nil
}

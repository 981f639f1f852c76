package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/artsfest/artsfest-api/config"
	"github.com/artsfest/artsfest-api/model"
)

// newTestDB opens a fresh in-memory database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.AutoMigrate(
		&model.User{},
		&model.College{},
		&model.Student{},
		&model.Item{},
		&model.Team{},
		&model.Result{},
		&model.Brochure{},
		&model.AppealNotification{},
		&model.AppSetting{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test schema: %v", err)
	}

	return db
}

// testFestivalConfig is a small quota regime that keeps tests readable.
func testFestivalConfig() config.FestivalConfig {
	return config.FestivalConfig{
		CategoryLimits: map[string]int{
			"music": 2,
			"drama": 3,
		},
		RestrictedCategory: "drama",
		RestrictedItems:    []string{"Natakam (Malayalam)", "Natakam (English)"},
		MaxRestricted:      2,
		SingleItemLimit:    4,
		GroupItemLimit:     2,
	}
}

func createCollege(t *testing.T, db *gorm.DB, name string) *model.College {
	t.Helper()
	college := &model.College{Name: name, District: "Test District"}
	if err := db.Create(college).Error; err != nil {
		t.Fatalf("failed to create college %s: %v", name, err)
	}
	return college
}

func createStudent(t *testing.T, db *gorm.DB, collegeID uint, name string) *model.Student {
	t.Helper()
	student := &model.Student{
		CollegeID:     collegeID,
		Name:          name,
		IDCard:        fmt.Sprintf("ID-%s", name),
		DateOfBirth:   time.Date(2004, 6, 1, 0, 0, 0, 0, time.UTC),
		Department:    "Physics",
		YearOfJoining: 2022,
		CurrentYear:   3,
	}
	if err := db.Create(student).Error; err != nil {
		t.Fatalf("failed to create student %s: %v", name, err)
	}
	return student
}

func createItem(t *testing.T, db *gorm.DB, name, category, itemType string, maxParticipants int) *model.Item {
	t.Helper()
	item := &model.Item{
		Name:            name,
		Numbers:         maxParticipants,
		Category:        category,
		MaxParticipants: maxParticipants,
		ItemType:        itemType,
	}
	if err := db.Create(item).Error; err != nil {
		t.Fatalf("failed to create item %s: %v", name, err)
	}
	return item
}

// createTeam persists a team directly, bypassing validation, for
// arranging test fixtures.
func createTeam(t *testing.T, db *gorm.DB, college *model.College, item *model.Item, students ...*model.Student) *model.Team {
	t.Helper()
	team := &model.Team{
		CollegeID: college.ID,
		ItemID:    item.ID,
		Category:  item.Category,
	}
	if err := db.Create(team).Error; err != nil {
		t.Fatalf("failed to create team: %v", err)
	}
	if len(students) > 0 {
		if err := db.Model(team).Association("Students").Replace(students); err != nil {
			t.Fatalf("failed to attach students: %v", err)
		}
	}
	return team
}

package database

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"gorm.io/gorm"

	"github.com/artsfest/artsfest-api/config"
	"github.com/artsfest/artsfest-api/model"
	"github.com/artsfest/artsfest-api/utils/auth"
)

// Seeder handles database seeding operations
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// SeedAll runs all seed functions
func (s *Seeder) SeedAll() error {
	log.Println("🌱 Starting database seeding...")

	if err := s.SeedAdminUser(); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	if err := s.SeedOrganizerUser(); err != nil {
		return fmt.Errorf("failed to seed organizer user: %w", err)
	}

	if err := s.SeedItems(); err != nil {
		return fmt.Errorf("failed to seed items: %w", err)
	}

	if err := s.SeedAppSettings(); err != nil {
		return fmt.Errorf("failed to seed app settings: %w", err)
	}

	log.Println("✅ Database seeding completed successfully!")
	return nil
}

// SeedAdminUser creates the default admin user
func (s *Seeder) SeedAdminUser() error {
	var count int64
	if err := s.db.Model(&model.User{}).Where("role = ?", model.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("⏭️  Admin user already exists, skipping...")
		return nil
	}

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")

	if adminEmail == "" || adminPassword == "" {
		log.Println("⚠️  ADMIN_EMAIL and ADMIN_PASSWORD environment variables not set, skipping admin user creation")
		return nil
	}

	passwordHash, err := auth.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	admin := &model.User{
		Email:        adminEmail,
		Username:     "admin",
		PasswordHash: passwordHash,
		Name:         "Festival Administrator",
		Role:         model.RoleAdmin,
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Created admin user: %s\n", admin.Email)
	return nil
}

// SeedOrganizerUser creates the default organizer account used by the
// results desk. Credentials come from the environment like the admin's.
func (s *Seeder) SeedOrganizerUser() error {
	var count int64
	if err := s.db.Model(&model.User{}).Where("role = ?", model.RoleOrganizer).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("⏭️  Organizer user already exists, skipping...")
		return nil
	}

	organizerEmail := os.Getenv("ORGANIZER_EMAIL")
	organizerPassword := os.Getenv("ORGANIZER_PASSWORD")

	if organizerEmail == "" || organizerPassword == "" {
		log.Println("⚠️  ORGANIZER_EMAIL and ORGANIZER_PASSWORD environment variables not set, skipping organizer creation")
		return nil
	}

	passwordHash, err := auth.HashPassword(organizerPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	organizer := &model.User{
		Email:        organizerEmail,
		Username:     "organizer",
		PasswordHash: passwordHash,
		Name:         "Results Desk",
		Role:         model.RoleOrganizer,
	}

	if err := s.db.Create(organizer).Error; err != nil {
		return err
	}

	log.Printf("✅ Created organizer user: %s\n", organizer.Email)
	return nil
}

// SeedItems creates a starter catalogue of competition items covering each
// category, including the restricted drama items. Production deployments
// normally replace this via the CSV importer.
func (s *Seeder) SeedItems() error {
	var count int64
	if err := s.db.Model(&model.Item{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("⏭️  Items already exist, skipping...")
		return nil
	}

	items := []model.Item{
		{Name: "Elocution (Malayalam)", Numbers: 1, Category: "Sahithyolsavam", MaxParticipants: 1, ItemType: model.ItemTypeSingle},
		{Name: "Essay Writing (English)", Numbers: 1, Category: "Sahithyolsavam", MaxParticipants: 1, ItemType: model.ItemTypeSingle},
		{Name: "Poetry Writing (Malayalam)", Numbers: 1, Category: "Sahithyolsavam", MaxParticipants: 1, ItemType: model.ItemTypeSingle},
		{Name: "Pencil Drawing", Numbers: 1, Category: "Chithrolsavam", MaxParticipants: 1, ItemType: model.ItemTypeSingle},
		{Name: "Water Colour Painting", Numbers: 1, Category: "Chithrolsavam", MaxParticipants: 1, ItemType: model.ItemTypeSingle},
		{Name: "Classical Music (Solo)", Numbers: 1, Category: "Sangeetholsavam", MaxParticipants: 1, ItemType: model.ItemTypeSingle},
		{Name: "Group Song (Indian)", Numbers: 7, Category: "Sangeetholsavam", MaxParticipants: 7, ItemType: model.ItemTypeGroup},
		{Name: "Bharathanatyam (Solo)", Numbers: 1, Category: "Nritholsavam", MaxParticipants: 1, ItemType: model.ItemTypeSingle},
		{Name: "Group Dance (General)", Numbers: 10, Category: "Nritholsavam", MaxParticipants: 10, ItemType: model.ItemTypeGroup},
		{Name: "Mime", Numbers: 6, Category: "Drishyanatakolsavam", MaxParticipants: 6, ItemType: model.ItemTypeGroup},
		{Name: "Natakam (Malayalam)", Numbers: 15, Category: "Drishyanatakolsavam", MaxParticipants: 15, ItemType: model.ItemTypeGroup},
		{Name: "Natakam (English)", Numbers: 15, Category: "Drishyanatakolsavam", MaxParticipants: 15, ItemType: model.ItemTypeGroup},
		{Name: "Natakam (Hindi)", Numbers: 15, Category: "Drishyanatakolsavam", MaxParticipants: 15, ItemType: model.ItemTypeGroup},
		{Name: "Natakam (Kannada)", Numbers: 15, Category: "Drishyanatakolsavam", MaxParticipants: 15, ItemType: model.ItemTypeGroup},
	}

	if err := s.db.Create(&items).Error; err != nil {
		return err
	}

	log.Printf("✅ Created %d items\n", len(items))
	return nil
}

// SeedAppSettings creates default application settings
func (s *Seeder) SeedAppSettings() error {
	var count int64
	if err := s.db.Model(&model.AppSetting{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("⏭️  App settings already exist, skipping...")
		return nil
	}

	festivalJSON, err := json.Marshal(config.DefaultFestivalConfig())
	if err != nil {
		return fmt.Errorf("failed to marshal festival config: %w", err)
	}

	settings := []model.AppSetting{
		{
			Key:         model.SettingStudentRegistrationOpen,
			Value:       "true",
			Type:        "bool",
			Description: "Whether colleges may register or edit students",
			IsPublic:    true,
		},
		{
			Key:         model.SettingFestivalConfig,
			Value:       string(festivalJSON),
			Type:        "json",
			Description: "Quota regime applied to team registration",
			IsPublic:    true,
		},
	}

	if err := s.db.Create(&settings).Error; err != nil {
		return err
	}

	log.Printf("✅ Created %d app settings\n", len(settings))
	return nil
}

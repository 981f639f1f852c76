package model

import (
	"time"

	"gorm.io/gorm"
)

// College represents a participating college
type College struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	Name      string         `gorm:"not null;uniqueIndex" json:"name"`
	District  string         `gorm:"type:varchar(255)" json:"district"`

	// Relationships
	Students []Student `gorm:"foreignKey:CollegeID;constraint:OnDelete:CASCADE" json:"students,omitempty"`
	Teams    []Team    `gorm:"foreignKey:CollegeID;constraint:OnDelete:CASCADE" json:"teams,omitempty"`
}

// Student represents a student registered by a college
type Student struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
	CollegeID     uint           `gorm:"not null;index" json:"college_id"`
	Name          string         `gorm:"not null" json:"name"`
	IDCard        string         `gorm:"type:varchar(255);not null" json:"id_card"`
	DateOfBirth   time.Time      `json:"date_of_birth"`
	Department    string         `gorm:"type:varchar(255)" json:"department"`
	YearOfJoining int            `json:"year_of_joining"`
	CurrentYear   int            `json:"current_year"`
	IDCardFileURL string         `gorm:"type:varchar(512)" json:"id_card_file_url,omitempty"`

	// Relationships
	College College `gorm:"foreignKey:CollegeID;constraint:OnDelete:CASCADE" json:"-"`
	Teams   []Team  `gorm:"many2many:team_students" json:"-"`
}

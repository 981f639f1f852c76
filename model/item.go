package model

import (
	"time"

	"gorm.io/gorm"
)

// Item types
const (
	ItemTypeSingle = "single"
	ItemTypeGroup  = "group"
)

// Item represents a competition event (e.g., "Natakam (Malayalam)")
type Item struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
	Name            string         `gorm:"not null;uniqueIndex" json:"name"`
	Numbers         int            `json:"numbers"`
	Category        string         `gorm:"type:varchar(255);not null;index" json:"category"`
	MaxParticipants int            `gorm:"default:1" json:"max_participants"`
	ItemType        string         `gorm:"type:varchar(10);default:'single'" json:"item_type"` // single, group

	// Relationships
	Teams   []Team   `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE" json:"-"`
	Results []Result `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE" json:"-"`
}

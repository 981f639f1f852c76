package model

import (
	"time"
)

// Team is a college's entry for one item. A college can hold at most one
// team per item; the composite unique index is the storage-level arbiter
// for the duplicate check under concurrent requests. No soft delete:
// deletion must free the unique slot immediately, and a soft-deleted row
// would keep holding it and block re-registration.
type Team struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	CollegeID uint      `gorm:"not null;uniqueIndex:idx_college_item" json:"college_id"`
	ItemID    uint      `gorm:"not null;uniqueIndex:idx_college_item" json:"item_id"`
	Category  string    `gorm:"type:varchar(255);not null;index" json:"category"` // copied from item at creation

	// Relationships
	College  College   `gorm:"foreignKey:CollegeID;constraint:OnDelete:CASCADE" json:"college,omitempty"`
	Item     Item      `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE" json:"item,omitempty"`
	Students []Student `gorm:"many2many:team_students" json:"students,omitempty"`
	Results  []Result  `gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE" json:"-"`
}

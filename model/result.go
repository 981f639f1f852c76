package model

import (
	"time"
)

// Result grades
const (
	GradeA = "A"
	GradeB = "B"
	GradeC = "C"
	GradeD = "D"
	GradeE = "E"
)

// Result records a team's placement in an item. Rows are soft-deleted
// rather than removed so a publish can be undone. The composite unique
// index keeps one row per (item, team); a publish re-activates and
// overwrites that row instead of inserting a second one, so at most one
// active result ever exists per (item, team).
type Result struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ItemID    uint      `gorm:"not null;uniqueIndex:idx_item_team" json:"item_id"`
	TeamID    uint      `gorm:"not null;uniqueIndex:idx_item_team" json:"team_id"`
	Position  int       `gorm:"not null" json:"position"`                     // 1, 2, 3
	Grade     string    `gorm:"type:varchar(1);default:'E'" json:"grade"`     // A..E
	Points    int       `gorm:"default:0" json:"points"`                      // derived, see services.CalculatePoints
	IsDeleted bool      `gorm:"not null;default:false;index" json:"is_deleted"`

	// Relationships
	Item Item `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE" json:"item,omitempty"`
	Team Team `gorm:"foreignKey:TeamID;constraint:OnDelete:CASCADE" json:"team,omitempty"`
}

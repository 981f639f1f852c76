package model

import (
	"time"

	"gorm.io/gorm"
)

// User roles
const (
	RoleCollege   = "college"
	RoleOrganizer = "organizer"
	RoleAdmin     = "admin"
)

// User represents a registered account in the system
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	Username     string         `gorm:"uniqueIndex;not null" json:"username"`
	PasswordHash string         `gorm:"not null" json:"-"` // Never expose password in JSON
	Name         string         `gorm:"not null" json:"name"`
	Role         string         `gorm:"type:varchar(20);default:'college'" json:"role"` // college, organizer, admin
	CollegeID    *uint          `gorm:"index" json:"college_id,omitempty"`              // set for college role only
	TokenVersion int            `gorm:"default:0" json:"-"`                             // Increment to invalidate all user tokens

	// Relationships
	College        *College            `gorm:"foreignKey:CollegeID" json:"college,omitempty"`
	AuditLogs      []AdminAuditLog     `gorm:"foreignKey:AdminID;constraint:OnDelete:CASCADE" json:"-"`
	TokenBlacklist []JWTTokenBlacklist `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// IsCollege reports whether the user acts on behalf of a college
func (u *User) IsCollege() bool { return u.Role == RoleCollege && u.CollegeID != nil }

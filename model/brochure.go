package model

import (
	"time"

	"gorm.io/gorm"
)

// Brochure is a published festival document (schedule, rule book) uploaded
// by an administrator and served to all roles.
type Brochure struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
	Title      string         `gorm:"not null" json:"title"`
	FileURL    string         `gorm:"type:varchar(512);not null" json:"file_url"`
	FileKey    string         `gorm:"type:varchar(512)" json:"-"` // object storage key, for deletes
	IsActive   bool           `gorm:"default:true" json:"is_active"`
	UploadedBy uint           `gorm:"index" json:"uploaded_by"`
}

// Appeal statuses
const (
	AppealAccepted = "accepted"
	AppealRejected = "rejected"
)

// AppealNotification is an organizer's answer to a college's result appeal,
// optionally carrying the corrected position/grade and an evidence image.
type AppealNotification struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
	ItemID         uint           `gorm:"not null;index" json:"item_id"`
	CollegeID      uint           `gorm:"not null;index" json:"college_id"`
	Status         string         `gorm:"type:varchar(10);not null" json:"status"` // accepted, rejected
	Position       *int           `json:"position,omitempty"`
	Grade          *string        `gorm:"type:varchar(1)" json:"grade,omitempty"`
	Message        string         `gorm:"type:text" json:"message"`
	ResultImageURL string         `gorm:"type:varchar(512)" json:"result_image_url,omitempty"`
	SentBy         *uint          `json:"sent_by,omitempty"`
	IsRead         bool           `gorm:"default:false" json:"is_read"`

	// Relationships
	Item    Item    `gorm:"foreignKey:ItemID;constraint:OnDelete:CASCADE" json:"item,omitempty"`
	College College `gorm:"foreignKey:CollegeID;constraint:OnDelete:CASCADE" json:"college,omitempty"`
}

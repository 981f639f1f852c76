package model

import (
	"time"
)

// JWTTokenBlacklist records revoked tokens by their JTI claim. Rows
// outlive their token's natural expiry only until the cleanup cron
// prunes them, so the table stays small.
type JWTTokenBlacklist struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	JTI       string    `gorm:"column:jti;uniqueIndex;not null;type:varchar(64)" json:"jti"`
	UserID    uint      `gorm:"index" json:"user_id"`
	Reason    string    `gorm:"type:varchar(100)" json:"reason"` // logout, token_refresh, security
	ExpiresAt time.Time `gorm:"index;not null" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
}

func (JWTTokenBlacklist) TableName() string {
	return "jwt_token_blacklist"
}

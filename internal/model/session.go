package model

import (
	"time"
)

// Session is the persisted form of a console login. Token, user and permissions
// share one row so they are written and deleted together.
type Session struct {
	ID          string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Token       string    `gorm:"type:text;not null" json:"-"`
	Username    string    `gorm:"type:varchar(255);not null;index" json:"username"`
	Role        string    `gorm:"type:varchar(50);not null" json:"role"`
	Permissions []string  `gorm:"type:jsonb;serializer:json;not null" json:"permissions"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
	ExpiresAt   time.Time `gorm:"not null;index" json:"expires_at"`
}

// TableName keeps console sessions apart from any backend tables sharing the database.
func (Session) TableName() string {
	return "console_sessions"
}

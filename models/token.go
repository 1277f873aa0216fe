package models

import (
	"time"
)

// Token is the API key of a user. Each user has at most one.
type Token struct {
	Key       string    `gorm:"primarykey;type:varchar(40)" json:"token"`
	CreatedAt time.Time `json:"created_at"`

	UserID     uint       `gorm:"not null;uniqueIndex" json:"user_id"`
	LastUsedAt *time.Time `json:"-"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"-"`
}

// TableName specifies the table name for Token model
func (Token) TableName() string {
	return "tokens"
}

package models

import (
	"time"
)

type User struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	Name             string     `gorm:"size:255;not null" json:"name" validate:"required,max=255"`
	Email            string     `gorm:"size:254;uniqueIndex;not null" json:"email" validate:"required,email"`
	Password         string     `gorm:"not null" json:"-"`
	ContactNumber    string     `gorm:"size:32" json:"contact_number"`
	MembershipNumber string     `gorm:"size:64" json:"membership_number"`
	CaseOfficeID     *uint      `gorm:"index" json:"case_office"` // Nullable - user may not be assigned yet
	IsActive         bool       `gorm:"not null;default:true" json:"-"`
	LastLoginAt      *time.Time `json:"-"`

	// Relationships
	CaseOffice *CaseOffice `gorm:"foreignKey:CaseOfficeID" json:"-"`
}

// HasCaseOffice checks if the user is assigned to a case office
func (u *User) HasCaseOffice() bool {
	return u.CaseOfficeID != nil && *u.CaseOfficeID != 0
}

// TableName specifies the table name for User model
func (User) TableName() string {
	return "users"
}

func (u *User) String() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

func (u *User) AuditType() string { return "User" }
func (u *User) AuditID() uint     { return u.ID }

func (u *User) AuditParent() (string, uint) {
	return u.AuditType(), u.ID
}

func (u *User) AuditFields() []AuditField {
	return []AuditField{
		TextField("name", u.Name),
		TextField("email", u.Email),
		TextField("contact_number", u.ContactNumber),
		TextField("membership_number", u.MembershipNumber),
		OptionalUintField("case_office", u.CaseOfficeID),
	}
}

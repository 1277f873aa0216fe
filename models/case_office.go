package models

import "time"

// CaseOffice is an organisational unit that owns cases and staff
type CaseOffice struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name           string `gorm:"size:500;not null;uniqueIndex" json:"name" validate:"required,max=500"`
	Description    string `gorm:"type:text" json:"description"`
	CaseOfficeCode string `gorm:"size:3;not null;uniqueIndex" json:"case_office_code" validate:"required,max=3"` // Prefix of case numbers

	Users []User `gorm:"foreignKey:CaseOfficeID" json:"-"`
}

// TableName specifies the table name for CaseOffice model
func (CaseOffice) TableName() string {
	return "case_offices"
}

func (o *CaseOffice) String() string {
	return o.Name
}

func (o *CaseOffice) AuditType() string { return "CaseOffice" }
func (o *CaseOffice) AuditID() uint     { return o.ID }

func (o *CaseOffice) AuditParent() (string, uint) {
	return o.AuditType(), o.ID
}

func (o *CaseOffice) AuditFields() []AuditField {
	return []AuditField{
		TextField("name", o.Name),
		TextField("description", o.Description),
		TextField("case_office_code", o.CaseOfficeCode),
	}
}

// CaseType is a category a legal case can be filed under
type CaseType struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Title       string `gorm:"size:255;not null;uniqueIndex" json:"title" validate:"required,max=255"`
	Description string `gorm:"type:text" json:"description"`
}

// TableName specifies the table name for CaseType model
func (CaseType) TableName() string {
	return "case_types"
}

func (t *CaseType) String() string {
	return t.Title
}

func (t *CaseType) AuditType() string { return "CaseType" }
func (t *CaseType) AuditID() uint     { return t.ID }

func (t *CaseType) AuditParent() (string, uint) {
	return t.AuditType(), t.ID
}

func (t *CaseType) AuditFields() []AuditField {
	return []AuditField{
		TextField("title", t.Title),
		TextField("description", t.Description),
	}
}

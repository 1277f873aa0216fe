package models

import "time"

// Note is a free-text note kept on a legal case
type Note struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	LegalCaseID uint       `gorm:"not null;index" json:"legal_case" validate:"required"`
	LegalCase   *LegalCase `gorm:"foreignKey:LegalCaseID" json:"-"`

	Title   string `gorm:"size:255" json:"title"`
	Content string `gorm:"type:text;not null" json:"content" validate:"required"`

	LegalCaseFileID *uint `gorm:"index" json:"legal_case_file"`
	CaseUpdateID    *uint `gorm:"uniqueIndex" json:"case_update"`
}

// TableName specifies the table name for Note model
func (Note) TableName() string {
	return "notes"
}

func (n *Note) String() string {
	return n.Title
}

func (n *Note) AuditType() string { return "Note" }
func (n *Note) AuditID() uint     { return n.ID }

func (n *Note) AuditParent() (string, uint) {
	return "LegalCase", n.LegalCaseID
}

func (n *Note) AuditFields() []AuditField {
	return []AuditField{
		UintField("legal_case", n.LegalCaseID),
		TextField("title", n.Title),
		TextField("content", n.Content),
		OptionalUintField("legal_case_file", n.LegalCaseFileID),
	}
}

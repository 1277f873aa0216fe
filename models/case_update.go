package models

import (
	"strconv"
	"time"

	"gorm.io/gorm"
)

// RelationFiles is the audit name of a case update's file set
const RelationFiles = "files"

// CaseUpdate kinds
const (
	CaseUpdateKindFiles   = "files"
	CaseUpdateKindMeeting = "meeting"
	CaseUpdateKindNote    = "note"
)

// CaseUpdate is one activity entry on a case. It wraps exactly one of
// a set of files, a meeting or a note.
type CaseUpdate struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	LegalCaseID uint       `gorm:"not null;index" json:"legal_case" validate:"required"`
	LegalCase   *LegalCase `gorm:"foreignKey:LegalCaseID" json:"-"`

	Files   []LegalCaseFile `gorm:"many2many:case_update_files" json:"-"`
	FileIDs []uint          `gorm:"-" json:"files"`
	Meeting *Meeting        `gorm:"foreignKey:CaseUpdateID" json:"meeting"`
	Note    *Note           `gorm:"foreignKey:CaseUpdateID" json:"note"`
}

// TableName specifies the table name for CaseUpdate model
func (CaseUpdate) TableName() string {
	return "case_updates"
}

// AfterFind exposes the preloaded files as an id list
func (u *CaseUpdate) AfterFind(tx *gorm.DB) error {
	u.FileIDs = relationIDs(u.Files, func(f LegalCaseFile) uint { return f.ID })
	return nil
}

// Kind returns which payload the update carries, or "" if none is loaded
func (u *CaseUpdate) Kind() string {
	switch {
	case u.Meeting != nil:
		return CaseUpdateKindMeeting
	case u.Note != nil:
		return CaseUpdateKindNote
	case len(u.Files) > 0 || len(u.FileIDs) > 0:
		return CaseUpdateKindFiles
	}
	return ""
}

func (u *CaseUpdate) String() string {
	if u.ID == 0 {
		return ""
	}
	return "Case update " + strconv.FormatUint(uint64(u.ID), 10)
}

func (u *CaseUpdate) AuditType() string { return "CaseUpdate" }
func (u *CaseUpdate) AuditID() uint     { return u.ID }

func (u *CaseUpdate) AuditParent() (string, uint) {
	return "LegalCase", u.LegalCaseID
}

func (u *CaseUpdate) AuditFields() []AuditField {
	return []AuditField{
		UintField("legal_case", u.LegalCaseID),
	}
}

package models

import (
	"strconv"
	"time"
)

// LegalCaseFile is a document uploaded against a legal case.
// Upload holds the storage key; the bytes live in the configured storage provider.
type LegalCaseFile struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	LegalCaseID uint       `gorm:"not null;index" json:"legal_case" validate:"required"`
	LegalCase   *LegalCase `gorm:"foreignKey:LegalCaseID" json:"-"`

	Description         string `gorm:"type:text" json:"description"`
	Upload              string `gorm:"size:512;not null" json:"upload"`
	UploadFileName      string `gorm:"size:255" json:"upload_file_name"`
	UploadFileExtension string `gorm:"size:16" json:"upload_file_extension"`
	UploadFileSize      int64  `json:"upload_file_size"`
	UploadMimeType      string `gorm:"size:128" json:"upload_mime_type"`
}

// TableName specifies the table name for LegalCaseFile model
func (LegalCaseFile) TableName() string {
	return "legal_case_files"
}

func (f *LegalCaseFile) String() string {
	return f.UploadFileName
}

func (f *LegalCaseFile) AuditType() string { return "LegalCaseFile" }
func (f *LegalCaseFile) AuditID() uint     { return f.ID }

func (f *LegalCaseFile) AuditParent() (string, uint) {
	return "LegalCase", f.LegalCaseID
}

func (f *LegalCaseFile) AuditFields() []AuditField {
	return []AuditField{
		UintField("legal_case", f.LegalCaseID),
		TextField("description", f.Description),
		TextField("upload", f.Upload),
		TextField("upload_file_name", f.UploadFileName),
		TextField("upload_file_extension", f.UploadFileExtension),
		TextField("upload_file_size", strconv.FormatInt(f.UploadFileSize, 10)),
		TextField("upload_mime_type", f.UploadMimeType),
	}
}

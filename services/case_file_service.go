package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"

	"legal_aid_app_go/models"

	"gorm.io/gorm"
)

// ListLegalCaseFiles returns files, newest first
func ListLegalCaseFiles(db *gorm.DB, filters CaseChildFilters) ([]models.LegalCaseFile, error) {
	query := db.Model(&models.LegalCaseFile{})
	if filters.LegalCaseID != 0 {
		query = query.Where("legal_case_id = ?", filters.LegalCaseID)
	}

	var files []models.LegalCaseFile
	err := query.Order("id DESC").Find(&files).Error
	return files, err
}

// GetLegalCaseFile retrieves file metadata by id
func GetLegalCaseFile(db *gorm.DB, id uint) (*models.LegalCaseFile, error) {
	var file models.LegalCaseFile
	if err := db.First(&file, id).Error; err != nil {
		return nil, notFoundOr(err, "legal case file", id)
	}
	return &file, nil
}

// storeUpload validates and writes an upload, filling the file's metadata
func storeUpload(ctx context.Context, file *models.LegalCaseFile, upload *multipart.FileHeader, maxSize int64) error {
	if err := ValidateCaseFileUpload(upload, maxSize); err != nil {
		var uerr *UploadError
		if errors.As(err, &uerr) {
			verr := NewValidationError()
			verr.Add("upload", uerr.Message)
			return verr
		}
		return err
	}
	if Storage == nil {
		return fmt.Errorf("storage not initialized")
	}

	result, err := Storage.Upload(ctx, upload, GenerateCaseFileKey(file.LegalCaseID, upload.Filename))
	if err != nil {
		return err
	}

	file.Upload = result.Key
	file.UploadFileName = filepath.Base(upload.Filename)
	file.UploadFileExtension = FileExtension(upload.Filename)
	file.UploadFileSize = result.FileSize
	file.UploadMimeType = result.MimeType
	return nil
}

// CreateLegalCaseFile stores the upload and records its metadata against a case
func CreateLegalCaseFile(ctx context.Context, db *gorm.DB, file *models.LegalCaseFile, upload *multipart.FileHeader, maxSize int64, actorID *uint) error {
	file.Description = SanitizeText(file.Description)

	verr := validateStruct(file)
	if upload == nil {
		verr.Add("upload", "No file was submitted")
	}
	if err := verr.OrNil(); err != nil {
		return err
	}
	if err := requireExists(db, &models.LegalCase{}, "legal case", file.LegalCaseID); err != nil {
		return err
	}

	if err := storeUpload(ctx, file, upload, maxSize); err != nil {
		return err
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("LegalCase").Create(file).Error; err != nil {
			return err
		}
		_, err := NewAuditTrail(tx, actorID).LogCreate(file, "")
		return err
	})
	if err != nil {
		removeUploads([]string{file.Upload})
		return err
	}
	return nil
}

// UpdateLegalCaseFile saves metadata changes. A new upload replaces the stored file.
func UpdateLegalCaseFile(ctx context.Context, db *gorm.DB, file *models.LegalCaseFile, upload *multipart.FileHeader, maxSize int64, actorID *uint) error {
	file.Description = SanitizeText(file.Description)

	var stored models.LegalCaseFile
	if err := db.First(&stored, file.ID).Error; err != nil {
		return notFoundOr(err, "legal case file", file.ID)
	}
	if err := requireExists(db, &models.LegalCase{}, "legal case", file.LegalCaseID); err != nil {
		return err
	}

	if upload != nil {
		if err := storeUpload(ctx, file, upload, maxSize); err != nil {
			return err
		}
	} else {
		file.Upload = stored.Upload
		file.UploadFileName = stored.UploadFileName
		file.UploadFileExtension = stored.UploadFileExtension
		file.UploadFileSize = stored.UploadFileSize
		file.UploadMimeType = stored.UploadMimeType
	}

	if err := ValidateLegalCaseFile(file); err != nil {
		return err
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		trail := NewAuditTrail(tx, actorID)
		before := trail.Snapshot(&stored)

		file.CreatedAt = stored.CreatedAt
		if err := tx.Omit("LegalCase").Save(file).Error; err != nil {
			return err
		}
		_, err := trail.LogUpdate(before, file, "")
		return err
	})
	if err != nil {
		if upload != nil {
			removeUploads([]string{file.Upload})
		}
		return err
	}

	if upload != nil && stored.Upload != file.Upload {
		removeUploads([]string{stored.Upload})
	}
	return nil
}

// DeleteLegalCaseFile removes a file, detaching it from updates, meetings and notes
func DeleteLegalCaseFile(db *gorm.DB, id uint, actorID *uint) error {
	var file models.LegalCaseFile

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&file, id).Error; err != nil {
			return notFoundOr(err, "legal case file", id)
		}

		trail := NewAuditTrail(tx, actorID)
		if _, err := trail.LogDelete(&file, ""); err != nil {
			return err
		}

		var updateIDs []uint
		if err := tx.Table("case_update_files").Where("legal_case_file_id = ?", id).Pluck("case_update_id", &updateIDs).Error; err != nil {
			return err
		}
		for _, updateID := range updateIDs {
			var update models.CaseUpdate
			if err := tx.First(&update, updateID).Error; err != nil {
				return notFoundOr(err, "case update", updateID)
			}
			if err := trail.RelationChanged(&update, models.RelationFiles, nil, []uint{id}); err != nil {
				return err
			}
		}
		if err := tx.Exec("DELETE FROM case_update_files WHERE legal_case_file_id = ?", id).Error; err != nil {
			return err
		}

		var meetings []models.Meeting
		if err := tx.Where("legal_case_file_id = ?", id).Find(&meetings).Error; err != nil {
			return err
		}
		for i := range meetings {
			before := trail.Snapshot(&meetings[i])
			if err := tx.Model(&meetings[i]).Update("legal_case_file_id", nil).Error; err != nil {
				return err
			}
			meetings[i].LegalCaseFileID = nil
			if _, err := trail.LogUpdate(before, &meetings[i], ""); err != nil {
				return err
			}
		}

		var notes []models.Note
		if err := tx.Where("legal_case_file_id = ?", id).Find(&notes).Error; err != nil {
			return err
		}
		for i := range notes {
			before := trail.Snapshot(&notes[i])
			if err := tx.Model(&notes[i]).Update("legal_case_file_id", nil).Error; err != nil {
				return err
			}
			notes[i].LegalCaseFileID = nil
			if _, err := trail.LogUpdate(before, &notes[i], ""); err != nil {
				return err
			}
		}

		return tx.Delete(&file).Error
	})
	if err != nil {
		return err
	}

	removeUploads([]string{file.Upload})
	return nil
}

// OpenLegalCaseFile returns the stored content of a file
func OpenLegalCaseFile(ctx context.Context, db *gorm.DB, id uint) (*models.LegalCaseFile, io.ReadCloser, string, error) {
	file, err := GetLegalCaseFile(db, id)
	if err != nil {
		return nil, nil, "", err
	}
	if Storage == nil {
		return nil, nil, "", fmt.Errorf("storage not initialized")
	}

	reader, contentType, err := Storage.Get(ctx, file.Upload)
	if err != nil {
		return nil, nil, "", err
	}
	if file.UploadMimeType != "" {
		contentType = file.UploadMimeType
	}
	return file, reader, contentType, nil
}

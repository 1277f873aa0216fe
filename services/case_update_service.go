package services

import (
	"legal_aid_app_go/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func preloadCaseUpdate(db *gorm.DB) *gorm.DB {
	return db.Preload("Files").Preload("Meeting").Preload("Note")
}

// ListCaseUpdates returns a case's activity, newest first
func ListCaseUpdates(db *gorm.DB, filters CaseChildFilters) ([]models.CaseUpdate, error) {
	query := preloadCaseUpdate(db.Model(&models.CaseUpdate{}))
	if filters.LegalCaseID != 0 {
		query = query.Where("legal_case_id = ?", filters.LegalCaseID)
	}

	var updates []models.CaseUpdate
	err := query.Order("id DESC").Find(&updates).Error
	return updates, err
}

// GetCaseUpdate retrieves an update with its payload
func GetCaseUpdate(db *gorm.DB, id uint) (*models.CaseUpdate, error) {
	var update models.CaseUpdate
	if err := preloadCaseUpdate(db).First(&update, id).Error; err != nil {
		return nil, notFoundOr(err, "case update", id)
	}
	return &update, nil
}

// CreateCaseUpdate stores an update and the single meeting, note or file set it carries
func CreateCaseUpdate(db *gorm.DB, update *models.CaseUpdate, actorID *uint) error {
	update.FileIDs = uniqueIDs(update.FileIDs)
	if update.Meeting != nil {
		update.Meeting.ID = 0
		update.Meeting.LegalCaseID = update.LegalCaseID
		normalizeMeeting(update.Meeting)
	}
	if update.Note != nil {
		update.Note.ID = 0
		update.Note.LegalCaseID = update.LegalCaseID
		normalizeNote(update.Note)
	}
	if err := ValidateCaseUpdate(update); err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := requireExists(tx, &models.LegalCase{}, "legal case", update.LegalCaseID); err != nil {
			return err
		}
		if len(update.FileIDs) > 0 {
			if err := checkFilesBelongToCase(tx, update.LegalCaseID, update.FileIDs); err != nil {
				return err
			}
		}

		if err := tx.Omit(clause.Associations).Create(update).Error; err != nil {
			return err
		}

		trail := NewAuditTrail(tx, actorID)
		if _, err := trail.LogCreate(update, ""); err != nil {
			return err
		}

		switch {
		case update.Meeting != nil:
			update.Meeting.CaseUpdateID = &update.ID
			return createMeeting(tx, trail, update.Meeting)
		case update.Note != nil:
			update.Note.CaseUpdateID = &update.ID
			return createNote(tx, trail, update.Note)
		default:
			return syncRelation[models.LegalCaseFile](tx, trail, update, "Files", models.RelationFiles, "legal case file", nil, update.FileIDs)
		}
	})
}

func checkFilesBelongToCase(tx *gorm.DB, legalCaseID uint, fileIDs []uint) error {
	var files []models.LegalCaseFile
	if err := tx.Find(&files, fileIDs).Error; err != nil {
		return err
	}
	if len(files) != len(fileIDs) {
		return &NotFoundError{Resource: "legal case file"}
	}
	for _, f := range files {
		if f.LegalCaseID != legalCaseID {
			verr := NewValidationError()
			verr.Add("files", "All files must belong to the same legal case")
			return verr
		}
	}
	return nil
}

// DeleteCaseUpdate removes an update with its meeting or note. Files stay on the case.
func DeleteCaseUpdate(db *gorm.DB, id uint, actorID *uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var update models.CaseUpdate
		if err := preloadCaseUpdate(tx).First(&update, id).Error; err != nil {
			return notFoundOr(err, "case update", id)
		}

		trail := NewAuditTrail(tx, actorID)
		if update.Meeting != nil {
			if _, err := trail.LogDelete(update.Meeting, ""); err != nil {
				return err
			}
			if err := tx.Delete(update.Meeting).Error; err != nil {
				return err
			}
		}
		if update.Note != nil {
			if _, err := trail.LogDelete(update.Note, ""); err != nil {
				return err
			}
			if err := tx.Delete(update.Note).Error; err != nil {
				return err
			}
		}

		if _, err := trail.LogDelete(&update, ""); err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM case_update_files WHERE case_update_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.CaseUpdate{}, id).Error
	})
}

package services

import (
	"strings"

	"legal_aid_app_go/models"

	"gorm.io/gorm"
)

// ListNotes returns notes, newest first
func ListNotes(db *gorm.DB, filters CaseChildFilters) ([]models.Note, error) {
	query := db.Model(&models.Note{})
	if filters.LegalCaseID != 0 {
		query = query.Where("legal_case_id = ?", filters.LegalCaseID)
	}

	var notes []models.Note
	err := query.Order("id DESC").Find(&notes).Error
	return notes, err
}

// GetNote retrieves a note by id
func GetNote(db *gorm.DB, id uint) (*models.Note, error) {
	var note models.Note
	if err := db.First(&note, id).Error; err != nil {
		return nil, notFoundOr(err, "note", id)
	}
	return &note, nil
}

func normalizeNote(n *models.Note) {
	n.Title = strings.TrimSpace(n.Title)
	n.Content = SanitizeText(n.Content)
}

func createNote(tx *gorm.DB, trail *AuditTrail, note *models.Note) error {
	if err := checkCaseReferences(tx, note.LegalCaseID, note.LegalCaseFileID); err != nil {
		return err
	}
	if err := tx.Omit("LegalCase").Create(note).Error; err != nil {
		return translateWriteError(err, "note")
	}
	_, err := trail.LogCreate(note, "")
	return err
}

// CreateNote validates and stores a new note
func CreateNote(db *gorm.DB, note *models.Note, actorID *uint) error {
	normalizeNote(note)
	if err := ValidateNote(note); err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		return createNote(tx, NewAuditTrail(tx, actorID), note)
	})
}

// UpdateNote saves changes to an existing note
func UpdateNote(db *gorm.DB, note *models.Note, actorID *uint) error {
	normalizeNote(note)
	if err := ValidateNote(note); err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var stored models.Note
		if err := tx.First(&stored, note.ID).Error; err != nil {
			return notFoundOr(err, "note", note.ID)
		}
		if err := checkCaseReferences(tx, note.LegalCaseID, note.LegalCaseFileID); err != nil {
			return err
		}

		trail := NewAuditTrail(tx, actorID)
		before := trail.Snapshot(&stored)

		note.CreatedAt = stored.CreatedAt
		note.CaseUpdateID = stored.CaseUpdateID
		if err := tx.Omit("LegalCase").Save(note).Error; err != nil {
			return err
		}
		_, err := trail.LogUpdate(before, note, "")
		return err
	})
}

// DeleteNote removes a note, logging the removal under its case
func DeleteNote(db *gorm.DB, id uint, actorID *uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var note models.Note
		if err := tx.First(&note, id).Error; err != nil {
			return notFoundOr(err, "note", id)
		}
		if _, err := NewAuditTrail(tx, actorID).LogDelete(&note, ""); err != nil {
			return err
		}
		return tx.Delete(&note).Error
	})
}

package services

import (
	"strings"

	"legal_aid_app_go/models"

	"gorm.io/gorm"
)

// CaseChildFilters filters records that belong to a legal case
type CaseChildFilters struct {
	LegalCaseID uint
}

// ListMeetings returns meetings, newest meeting date first
func ListMeetings(db *gorm.DB, filters CaseChildFilters) ([]models.Meeting, error) {
	query := db.Model(&models.Meeting{})
	if filters.LegalCaseID != 0 {
		query = query.Where("legal_case_id = ?", filters.LegalCaseID)
	}

	var meetings []models.Meeting
	err := query.Order("meeting_date DESC").Order("id DESC").Find(&meetings).Error
	return meetings, err
}

// GetMeeting retrieves a meeting by id
func GetMeeting(db *gorm.DB, id uint) (*models.Meeting, error) {
	var meeting models.Meeting
	if err := db.First(&meeting, id).Error; err != nil {
		return nil, notFoundOr(err, "meeting", id)
	}
	return &meeting, nil
}

func normalizeMeeting(m *models.Meeting) {
	m.Name = strings.TrimSpace(m.Name)
	m.Location = strings.TrimSpace(m.Location)
	m.Notes = SanitizeText(m.Notes)
}

// checkCaseReferences verifies the case and optional file a child record points at
func checkCaseReferences(tx *gorm.DB, legalCaseID uint, fileID *uint) error {
	if err := requireExists(tx, &models.LegalCase{}, "legal case", legalCaseID); err != nil {
		return err
	}
	if fileID == nil {
		return nil
	}

	var file models.LegalCaseFile
	if err := tx.First(&file, *fileID).Error; err != nil {
		return notFoundOr(err, "legal case file", *fileID)
	}
	if file.LegalCaseID != legalCaseID {
		verr := NewValidationError()
		verr.Add("legal_case_file", "File belongs to a different legal case")
		return verr
	}
	return nil
}

// createMeeting inserts a meeting inside an open transaction
func createMeeting(tx *gorm.DB, trail *AuditTrail, meeting *models.Meeting) error {
	if err := checkCaseReferences(tx, meeting.LegalCaseID, meeting.LegalCaseFileID); err != nil {
		return err
	}
	if err := tx.Omit("LegalCase").Create(meeting).Error; err != nil {
		return translateWriteError(err, "meeting")
	}
	_, err := trail.LogCreate(meeting, "")
	return err
}

// CreateMeeting validates and stores a new meeting
func CreateMeeting(db *gorm.DB, meeting *models.Meeting, actorID *uint) error {
	normalizeMeeting(meeting)
	if err := ValidateMeeting(meeting); err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		return createMeeting(tx, NewAuditTrail(tx, actorID), meeting)
	})
}

// UpdateMeeting saves changes to an existing meeting
func UpdateMeeting(db *gorm.DB, meeting *models.Meeting, actorID *uint) error {
	normalizeMeeting(meeting)
	if err := ValidateMeeting(meeting); err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var stored models.Meeting
		if err := tx.First(&stored, meeting.ID).Error; err != nil {
			return notFoundOr(err, "meeting", meeting.ID)
		}
		if err := checkCaseReferences(tx, meeting.LegalCaseID, meeting.LegalCaseFileID); err != nil {
			return err
		}

		trail := NewAuditTrail(tx, actorID)
		before := trail.Snapshot(&stored)

		meeting.CreatedAt = stored.CreatedAt
		meeting.CaseUpdateID = stored.CaseUpdateID
		if err := tx.Omit("LegalCase").Save(meeting).Error; err != nil {
			return err
		}
		_, err := trail.LogUpdate(before, meeting, "")
		return err
	})
}

// DeleteMeeting removes a meeting, logging the removal under its case
func DeleteMeeting(db *gorm.DB, id uint, actorID *uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var meeting models.Meeting
		if err := tx.First(&meeting, id).Error; err != nil {
			return notFoundOr(err, "meeting", id)
		}
		if _, err := NewAuditTrail(tx, actorID).LogDelete(&meeting, ""); err != nil {
			return err
		}
		return tx.Delete(&meeting).Error
	})
}

package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"legal_aid_app_go/config"
	"legal_aid_app_go/models"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LegalCaseFilters contains filter options for case lists
type LegalCaseFilters struct {
	ClientID uint
}

func preloadCaseRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Users").Preload("CaseTypes").Preload("CaseOffices")
}

// ListLegalCases returns cases matching filters, ordered by id
func ListLegalCases(db *gorm.DB, filters LegalCaseFilters) ([]models.LegalCase, error) {
	query := preloadCaseRelations(db.Model(&models.LegalCase{}))
	if filters.ClientID != 0 {
		query = query.Where("client_id = ?", filters.ClientID)
	}

	var cases []models.LegalCase
	err := query.Order("id ASC").Find(&cases).Error
	return cases, err
}

// GetLegalCase retrieves a case by id with its relation ids
func GetLegalCase(db *gorm.DB, id uint) (*models.LegalCase, error) {
	var lc models.LegalCase
	if err := preloadCaseRelations(db).First(&lc, id).Error; err != nil {
		return nil, notFoundOr(err, "legal case", id)
	}
	return &lc, nil
}

func normalizeLegalCase(lc *models.LegalCase) {
	lc.State = strings.TrimSpace(lc.State)
	if lc.State == "" {
		lc.State = models.CaseStateOpened
	}
	lc.Summary = SanitizeText(lc.Summary)
	lc.RespondentName = strings.TrimSpace(lc.RespondentName)
	lc.UserIDs = uniqueIDs(lc.UserIDs)
	lc.CaseTypeIDs = uniqueIDs(lc.CaseTypeIDs)
	lc.CaseOfficeIDs = uniqueIDs(lc.CaseOfficeIDs)
}

// syncCaseRelations brings the case's users, types and offices in line with its id lists
func syncCaseRelations(tx *gorm.DB, trail *AuditTrail, lc *models.LegalCase, prevUsers, prevTypes, prevOffices []uint) error {
	if err := syncRelation[models.User](tx, trail, lc, "Users", models.RelationUsers, "user", prevUsers, lc.UserIDs); err != nil {
		return err
	}
	if err := syncRelation[models.CaseType](tx, trail, lc, "CaseTypes", models.RelationCaseTypes, "case type", prevTypes, lc.CaseTypeIDs); err != nil {
		return err
	}
	return syncRelation[models.CaseOffice](tx, trail, lc, "CaseOffices", models.RelationCaseOffices, "case office", prevOffices, lc.CaseOfficeIDs)
}

// CreateLegalCase stores a new case. The case number is generated from the first
// case office and the current month.
func CreateLegalCase(db *gorm.DB, lc *models.LegalCase, actorID *uint) error {
	normalizeLegalCase(lc)
	if err := ValidateLegalCase(lc, true); err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := requireExists(tx, &models.Client{}, "client", lc.ClientID); err != nil {
			return err
		}

		caseNumber, err := GenerateCaseNumber(tx, lc.CaseOfficeIDs[0], time.Now())
		if err != nil {
			return err
		}
		lc.CaseNumber = caseNumber

		if err := tx.Omit(clause.Associations).Create(lc).Error; err != nil {
			return translateWriteError(err, "case number "+caseNumber)
		}

		trail := NewAuditTrail(tx, actorID)
		if _, err := trail.LogCreate(lc, ""); err != nil {
			return err
		}
		return syncCaseRelations(tx, trail, lc, nil, nil, nil)
	})
}

// UpdateLegalCase saves changes to a case and returns the ids of users newly
// assigned to it. The case number never changes.
func UpdateLegalCase(db *gorm.DB, lc *models.LegalCase, actorID *uint) ([]uint, error) {
	normalizeLegalCase(lc)
	if err := ValidateLegalCase(lc, false); err != nil {
		return nil, err
	}

	var assigned []uint
	err := db.Transaction(func(tx *gorm.DB) error {
		var stored models.LegalCase
		if err := preloadCaseRelations(tx).First(&stored, lc.ID).Error; err != nil {
			return notFoundOr(err, "legal case", lc.ID)
		}
		if lc.ClientID != stored.ClientID {
			if err := requireExists(tx, &models.Client{}, "client", lc.ClientID); err != nil {
				return err
			}
		}

		trail := NewAuditTrail(tx, actorID)
		before := trail.Snapshot(&stored)

		lc.CaseNumber = stored.CaseNumber
		lc.CreatedAt = stored.CreatedAt
		if err := tx.Omit(clause.Associations).Save(lc).Error; err != nil {
			return translateWriteError(err, "legal case")
		}
		if _, err := trail.LogUpdate(before, lc, ""); err != nil {
			return err
		}

		assigned, _ = diffIDs(stored.UserIDs, lc.UserIDs)
		return syncCaseRelations(tx, trail, lc, stored.UserIDs, stored.CaseTypeIDs, stored.CaseOfficeIDs)
	})
	if err != nil {
		return nil, err
	}
	return assigned, nil
}

// DeleteLegalCase removes a case together with its meetings, notes, files and updates.
// Every removed record gets a Delete log; stored uploads are removed after commit.
func DeleteLegalCase(db *gorm.DB, id uint, actorID *uint) error {
	var uploads []string

	err := db.Transaction(func(tx *gorm.DB) error {
		var lc models.LegalCase
		if err := preloadCaseRelations(tx).First(&lc, id).Error; err != nil {
			return notFoundOr(err, "legal case", id)
		}

		trail := NewAuditTrail(tx, actorID)

		var meetings []models.Meeting
		if err := tx.Where("legal_case_id = ?", id).Find(&meetings).Error; err != nil {
			return err
		}
		for i := range meetings {
			if _, err := trail.LogDelete(&meetings[i], ""); err != nil {
				return err
			}
		}

		var notes []models.Note
		if err := tx.Where("legal_case_id = ?", id).Find(&notes).Error; err != nil {
			return err
		}
		for i := range notes {
			if _, err := trail.LogDelete(&notes[i], ""); err != nil {
				return err
			}
		}

		var updates []models.CaseUpdate
		if err := tx.Where("legal_case_id = ?", id).Find(&updates).Error; err != nil {
			return err
		}
		for i := range updates {
			if _, err := trail.LogDelete(&updates[i], ""); err != nil {
				return err
			}
		}

		var files []models.LegalCaseFile
		if err := tx.Where("legal_case_id = ?", id).Find(&files).Error; err != nil {
			return err
		}
		for i := range files {
			if _, err := trail.LogDelete(&files[i], ""); err != nil {
				return err
			}
			uploads = append(uploads, files[i].Upload)
		}

		if _, err := trail.LogDelete(&lc, ""); err != nil {
			return err
		}

		if len(updates) > 0 {
			updateIDs := make([]uint, 0, len(updates))
			for _, u := range updates {
				updateIDs = append(updateIDs, u.ID)
			}
			if err := tx.Exec("DELETE FROM case_update_files WHERE case_update_id IN ?", updateIDs).Error; err != nil {
				return err
			}
		}
		for _, model := range []interface{}{&models.Meeting{}, &models.Note{}, &models.CaseUpdate{}, &models.LegalCaseFile{}} {
			if err := tx.Where("legal_case_id = ?", id).Delete(model).Error; err != nil {
				return fmt.Errorf("failed to delete case records: %w", err)
			}
		}
		for _, table := range []string{"legal_case_users", "legal_case_case_types", "legal_case_case_offices"} {
			if err := tx.Exec("DELETE FROM "+table+" WHERE legal_case_id = ?", id).Error; err != nil {
				return fmt.Errorf("failed to detach case relations: %w", err)
			}
		}
		return tx.Delete(&models.LegalCase{}, id).Error
	})
	if err != nil {
		return err
	}

	removeUploads(uploads)
	return nil
}

// removeUploads deletes stored objects whose rows are gone. Failures are only logged.
func removeUploads(keys []string) {
	if Storage == nil {
		return
	}
	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := Storage.Delete(context.Background(), key); err != nil {
			log.Warn().Str("component", "storage").Str("key", key).Err(err).Msg("Failed to remove stored file")
		}
	}
}

// NotifyCaseAssignment emails each user newly assigned to a case
func NotifyCaseAssignment(db *gorm.DB, cfg *config.Config, lc *models.LegalCase, userIDs []uint) {
	if cfg == nil || len(userIDs) == 0 {
		return
	}

	var users []models.User
	if err := db.Where("id IN ? AND is_active = ?", userIDs, true).Find(&users).Error; err != nil {
		log.Error().Str("component", "email").Err(err).Msg("Failed to load assigned users")
		return
	}

	var client models.Client
	clientName := ""
	if err := db.First(&client, lc.ClientID).Error; err == nil {
		clientName = client.String()
	}

	for _, u := range users {
		email, err := BuildCaseAssignmentEmail(u.Email, CaseAssignmentEmailData{
			UserName:   u.String(),
			CaseNumber: lc.CaseNumber,
			ClientName: clientName,
			CaseURL:    fmt.Sprintf("%s/cases/%d", strings.TrimSuffix(cfg.AppURL, "/"), lc.ID),
		})
		if err != nil {
			log.Error().Str("component", "email").Err(err).Msg("Failed to build assignment email")
			continue
		}
		SendEmailAsync(cfg, email)
	}
}

package services

import (
	"fmt"
	"strings"

	"legal_aid_app_go/models"

	"gorm.io/gorm"
)

// ListCaseOffices returns all case offices ordered by name
func ListCaseOffices(db *gorm.DB) ([]models.CaseOffice, error) {
	var offices []models.CaseOffice
	err := db.Order("name ASC").Find(&offices).Error
	return offices, err
}

// GetCaseOffice retrieves a case office by id
func GetCaseOffice(db *gorm.DB, id uint) (*models.CaseOffice, error) {
	var office models.CaseOffice
	if err := db.First(&office, id).Error; err != nil {
		return nil, notFoundOr(err, "case office", id)
	}
	return &office, nil
}

func normalizeCaseOffice(o *models.CaseOffice) {
	o.Name = strings.TrimSpace(o.Name)
	o.Description = SanitizeText(o.Description)
	o.CaseOfficeCode = strings.ToUpper(strings.TrimSpace(o.CaseOfficeCode))
}

// CreateCaseOffice validates and stores a new case office
func CreateCaseOffice(db *gorm.DB, office *models.CaseOffice, actorID *uint) error {
	normalizeCaseOffice(office)
	if err := ValidateCaseOffice(office); err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Users").Create(office).Error; err != nil {
			return translateWriteError(err, "case office with this name or code")
		}
		_, err := NewAuditTrail(tx, actorID).LogCreate(office, "")
		return err
	})
}

// UpdateCaseOffice saves changes to an existing case office
func UpdateCaseOffice(db *gorm.DB, office *models.CaseOffice, actorID *uint) error {
	normalizeCaseOffice(office)
	if err := ValidateCaseOffice(office); err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var stored models.CaseOffice
		if err := tx.First(&stored, office.ID).Error; err != nil {
			return notFoundOr(err, "case office", office.ID)
		}

		trail := NewAuditTrail(tx, actorID)
		before := trail.Snapshot(&stored)

		office.CreatedAt = stored.CreatedAt
		if err := tx.Omit("Users").Save(office).Error; err != nil {
			return translateWriteError(err, "case office with this name or code")
		}
		_, err := trail.LogUpdate(before, office, "")
		return err
	})
}

// DeleteCaseOffice removes a case office that no case is filed under.
// Users of the office are left unassigned.
func DeleteCaseOffice(db *gorm.DB, id uint, actorID *uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var office models.CaseOffice
		if err := tx.First(&office, id).Error; err != nil {
			return notFoundOr(err, "case office", id)
		}

		var cases int64
		if err := tx.Table("legal_case_case_offices").Where("case_office_id = ?", id).Count(&cases).Error; err != nil {
			return fmt.Errorf("failed to count cases of case office: %w", err)
		}
		if cases > 0 {
			return &ConflictError{Message: "case office still has legal cases"}
		}

		if _, err := NewAuditTrail(tx, actorID).LogDelete(&office, ""); err != nil {
			return err
		}
		if err := tx.Model(&models.User{}).Where("case_office_id = ?", id).Update("case_office_id", nil).Error; err != nil {
			return fmt.Errorf("failed to unassign users: %w", err)
		}
		return tx.Delete(&office).Error
	})
}

// ListCaseTypes returns all case types ordered by title
func ListCaseTypes(db *gorm.DB) ([]models.CaseType, error) {
	var types []models.CaseType
	err := db.Order("title ASC").Find(&types).Error
	return types, err
}

// GetCaseType retrieves a case type by id
func GetCaseType(db *gorm.DB, id uint) (*models.CaseType, error) {
	var caseType models.CaseType
	if err := db.First(&caseType, id).Error; err != nil {
		return nil, notFoundOr(err, "case type", id)
	}
	return &caseType, nil
}

// CreateCaseType validates and stores a new case type
func CreateCaseType(db *gorm.DB, caseType *models.CaseType, actorID *uint) error {
	caseType.Title = strings.TrimSpace(caseType.Title)
	caseType.Description = SanitizeText(caseType.Description)
	if err := ValidateCaseType(caseType); err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(caseType).Error; err != nil {
			return translateWriteError(err, "case type with this title")
		}
		_, err := NewAuditTrail(tx, actorID).LogCreate(caseType, "")
		return err
	})
}

// UpdateCaseType saves changes to an existing case type
func UpdateCaseType(db *gorm.DB, caseType *models.CaseType, actorID *uint) error {
	caseType.Title = strings.TrimSpace(caseType.Title)
	caseType.Description = SanitizeText(caseType.Description)
	if err := ValidateCaseType(caseType); err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var stored models.CaseType
		if err := tx.First(&stored, caseType.ID).Error; err != nil {
			return notFoundOr(err, "case type", caseType.ID)
		}

		trail := NewAuditTrail(tx, actorID)
		before := trail.Snapshot(&stored)

		caseType.CreatedAt = stored.CreatedAt
		if err := tx.Save(caseType).Error; err != nil {
			return translateWriteError(err, "case type with this title")
		}
		_, err := trail.LogUpdate(before, caseType, "")
		return err
	})
}

// DeleteCaseType removes a case type and detaches it from cases
func DeleteCaseType(db *gorm.DB, id uint, actorID *uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var caseType models.CaseType
		if err := tx.First(&caseType, id).Error; err != nil {
			return notFoundOr(err, "case type", id)
		}

		trail := NewAuditTrail(tx, actorID)
		if _, err := trail.LogDelete(&caseType, ""); err != nil {
			return err
		}

		var caseIDs []uint
		if err := tx.Table("legal_case_case_types").Where("case_type_id = ?", id).Pluck("legal_case_id", &caseIDs).Error; err != nil {
			return fmt.Errorf("failed to find cases of case type: %w", err)
		}
		for _, caseID := range caseIDs {
			var lc models.LegalCase
			if err := tx.First(&lc, caseID).Error; err != nil {
				return notFoundOr(err, "legal case", caseID)
			}
			if err := trail.RelationChanged(&lc, models.RelationCaseTypes, nil, []uint{id}); err != nil {
				return err
			}
		}
		if err := tx.Exec("DELETE FROM legal_case_case_types WHERE case_type_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to detach case type: %w", err)
		}
		return tx.Delete(&caseType).Error
	})
}

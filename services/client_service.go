package services

import (
	"fmt"
	"strings"

	"legal_aid_app_go/models"

	"gorm.io/gorm"
)

// ClientFilters contains filter options for client lists
type ClientFilters struct {
	CaseOfficeID uint // Clients with at least one case filed under this office
}

func preloadCaseIDs(db *gorm.DB) *gorm.DB {
	return db.Select("id", "client_id").Order("id ASC")
}

// ListClients returns clients matching filters, ordered by id
func ListClients(db *gorm.DB, filters ClientFilters) ([]models.Client, error) {
	query := db.Model(&models.Client{}).Preload("LegalCases", preloadCaseIDs)

	if filters.CaseOfficeID != 0 {
		sub := db.Table("legal_cases").
			Select("legal_cases.client_id").
			Joins("JOIN legal_case_case_offices ON legal_case_case_offices.legal_case_id = legal_cases.id").
			Where("legal_case_case_offices.case_office_id = ?", filters.CaseOfficeID)
		query = query.Where("id IN (?)", sub)
	}

	var clients []models.Client
	err := query.Order("id ASC").Find(&clients).Error
	return clients, err
}

// GetClient retrieves a client by id with its case ids
func GetClient(db *gorm.DB, id uint) (*models.Client, error) {
	var client models.Client
	if err := db.Preload("LegalCases", preloadCaseIDs).First(&client, id).Error; err != nil {
		return nil, notFoundOr(err, "client", id)
	}
	return &client, nil
}

func normalizeClient(c *models.Client) {
	c.Name = strings.TrimSpace(c.Name)
	c.PreferredName = strings.TrimSpace(c.PreferredName)
	if c.OfficialIdentifier != nil {
		trimmed := strings.TrimSpace(*c.OfficialIdentifier)
		if trimmed == "" {
			c.OfficialIdentifier = nil
		} else {
			c.OfficialIdentifier = &trimmed
		}
	}
	if c.OfficialIdentifierType != nil && *c.OfficialIdentifierType == "" {
		c.OfficialIdentifierType = nil
	}
	c.ContactEmail = strings.TrimSpace(c.ContactEmail)
	c.AlternativeContactEmail = strings.TrimSpace(c.AlternativeContactEmail)
	c.Address = SanitizeText(c.Address)
	c.Disabilities = SanitizeText(c.Disabilities)
	c.Notes = SanitizeText(c.Notes)
}

// CreateClient validates and stores a new client
func CreateClient(db *gorm.DB, client *models.Client, actorID *uint) error {
	normalizeClient(client)
	if err := ValidateClient(client); err != nil {
		return err
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("LegalCases").Create(client).Error; err != nil {
			return translateWriteError(err, "client with this official identifier")
		}
		_, err := NewAuditTrail(tx, actorID).LogCreate(client, "")
		return err
	})
	if err != nil {
		return err
	}

	client.LegalCaseIDs = []uint{}
	return nil
}

// UpdateClient saves changes to an existing client
func UpdateClient(db *gorm.DB, client *models.Client, actorID *uint) error {
	normalizeClient(client)
	if err := ValidateClient(client); err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var stored models.Client
		if err := tx.First(&stored, client.ID).Error; err != nil {
			return notFoundOr(err, "client", client.ID)
		}

		trail := NewAuditTrail(tx, actorID)
		before := trail.Snapshot(&stored)

		client.CreatedAt = stored.CreatedAt
		if err := tx.Omit("LegalCases").Save(client).Error; err != nil {
			return translateWriteError(err, "client with this official identifier")
		}
		_, err := trail.LogUpdate(before, client, "")
		return err
	})
}

// DeleteClient removes a client that owns no cases
func DeleteClient(db *gorm.DB, id uint, actorID *uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var client models.Client
		if err := tx.First(&client, id).Error; err != nil {
			return notFoundOr(err, "client", id)
		}

		var cases int64
		if err := tx.Model(&models.LegalCase{}).Where("client_id = ?", id).Count(&cases).Error; err != nil {
			return fmt.Errorf("failed to count cases of client: %w", err)
		}
		if cases > 0 {
			return &ConflictError{Message: "client still has legal cases"}
		}

		if _, err := NewAuditTrail(tx, actorID).LogDelete(&client, ""); err != nil {
			return err
		}
		return tx.Delete(&client).Error
	})
}

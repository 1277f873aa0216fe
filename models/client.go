package models

import (
	"time"

	"gorm.io/gorm"
)

// Official identifier types
const (
	IdentifierNationalID       = "national_id"
	IdentifierPassport         = "passport"
	IdentifierBirthCertificate = "birth_certificate"
	IdentifierOther            = "other"
)

// Marital status values
const (
	MaritalStatusSingle            = "single"
	MaritalStatusMarried           = "married"
	MaritalStatusCivilMarriage     = "civil_marriage"
	MaritalStatusCustomaryMarriage = "customary_marriage"
	MaritalStatusDivorced          = "divorced"
	MaritalStatusWidowed           = "widowed"
)

// Client represents a person receiving legal aid
type Client struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name          string `gorm:"size:255;not null" json:"name" validate:"required,max=255"`
	PreferredName string `gorm:"size:128;not null" json:"preferred_name" validate:"required,max=128"`

	// Identifier value and type are unique together; NULLs never collide
	OfficialIdentifier     *string `gorm:"size:64;uniqueIndex:idx_client_official_identifier" json:"official_identifier" validate:"omitempty,max=64"`
	OfficialIdentifierType *string `gorm:"size:32;uniqueIndex:idx_client_official_identifier" json:"official_identifier_type" validate:"omitempty,oneof=national_id passport birth_certificate other"`

	ContactNumber            string `gorm:"size:32" json:"contact_number"`
	ContactEmail             string `gorm:"size:254" json:"contact_email" validate:"omitempty,email"`
	AlternativeContactNumber string `gorm:"size:32" json:"alternative_contact_number"`
	AlternativeContactEmail  string `gorm:"size:254" json:"alternative_contact_email" validate:"omitempty,email"`
	Address                  string `gorm:"type:text" json:"address"`

	DateOfBirth       *time.Time `json:"date_of_birth"`
	Gender            string     `gorm:"size:32" json:"gender"`
	MaritalStatus     string     `gorm:"size:32" json:"marital_status" validate:"omitempty,oneof=single married civil_marriage customary_marriage divorced widowed"`
	CivilMarriageType string     `gorm:"size:64" json:"civil_marriage_type"`

	TranslatorNeeded   bool   `gorm:"not null;default:false" json:"translator_needed"`
	TranslatorLanguage string `gorm:"size:64" json:"translator_language"`
	HasDisability      bool   `gorm:"not null;default:false" json:"has_disability"`
	Disabilities       string `gorm:"type:text" json:"disabilities"`
	Notes              string `gorm:"type:text" json:"notes"`

	LegalCases   []LegalCase `gorm:"foreignKey:ClientID" json:"-"`
	LegalCaseIDs []uint      `gorm:"-" json:"legal_cases"`
}

// TableName specifies the table name for Client model
func (Client) TableName() string {
	return "clients"
}

// AfterFind exposes the preloaded legal cases as an id list
func (c *Client) AfterFind(tx *gorm.DB) error {
	c.LegalCaseIDs = relationIDs(c.LegalCases, func(lc LegalCase) uint { return lc.ID })
	return nil
}

func (c *Client) String() string {
	if c.PreferredName != "" {
		return c.PreferredName
	}
	return c.Name
}

func (c *Client) AuditType() string { return "Client" }
func (c *Client) AuditID() uint     { return c.ID }

func (c *Client) AuditParent() (string, uint) {
	return c.AuditType(), c.ID
}

func (c *Client) AuditFields() []AuditField {
	return []AuditField{
		TextField("name", c.Name),
		TextField("preferred_name", c.PreferredName),
		OptionalTextField("official_identifier", c.OfficialIdentifier),
		OptionalTextField("official_identifier_type", c.OfficialIdentifierType),
		TextField("contact_number", c.ContactNumber),
		TextField("contact_email", c.ContactEmail),
		TextField("alternative_contact_number", c.AlternativeContactNumber),
		TextField("alternative_contact_email", c.AlternativeContactEmail),
		TextField("address", c.Address),
		OptionalTimeField("date_of_birth", c.DateOfBirth),
		TextField("gender", c.Gender),
		TextField("marital_status", c.MaritalStatus),
		TextField("civil_marriage_type", c.CivilMarriageType),
		BoolField("translator_needed", c.TranslatorNeeded),
		TextField("translator_language", c.TranslatorLanguage),
		BoolField("has_disability", c.HasDisability),
		TextField("disabilities", c.Disabilities),
		TextField("notes", c.Notes),
	}
}

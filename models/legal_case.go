package models

import (
	"time"

	"gorm.io/gorm"
)

// Case state constants
const (
	CaseStateOpened     = "Opened"
	CaseStateInProgress = "InProgress"
	CaseStateHanging    = "Hanging"
	CaseStatePending    = "Pending"
	CaseStateReferred   = "Referred"
	CaseStateResolved   = "Resolved"
	CaseStateEscalated  = "Escalated"
	CaseStateClosed     = "Closed"
)

// CaseStates lists every state in display order
var CaseStates = []string{
	CaseStateOpened,
	CaseStateInProgress,
	CaseStateHanging,
	CaseStatePending,
	CaseStateReferred,
	CaseStateResolved,
	CaseStateEscalated,
	CaseStateClosed,
}

// Relation names used in audit entries for the case's many-to-many edges
const (
	RelationUsers       = "users"
	RelationCaseTypes   = "case_types"
	RelationCaseOffices = "case_offices"
)

// LegalCase is a matter handled for exactly one client
type LegalCase struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CaseNumber string `gorm:"size:32;not null;uniqueIndex" json:"case_number"`
	State      string `gorm:"size:16;not null;default:Opened;index" json:"state"`
	Summary    string `gorm:"type:text" json:"summary"`

	ClientID uint    `gorm:"not null;index" json:"client" validate:"required"`
	Client   *Client `gorm:"foreignKey:ClientID" json:"-"`

	HasRespondent           bool   `gorm:"not null;default:false" json:"has_respondent"`
	RespondentName          string `gorm:"size:255" json:"respondent_name" validate:"max=255"`
	RespondentContactNumber string `gorm:"size:32" json:"respondent_contact_number"`

	Users       []User       `gorm:"many2many:legal_case_users" json:"-"`
	CaseTypes   []CaseType   `gorm:"many2many:legal_case_case_types" json:"-"`
	CaseOffices []CaseOffice `gorm:"many2many:legal_case_case_offices" json:"-"`

	UserIDs       []uint `gorm:"-" json:"users"`
	CaseTypeIDs   []uint `gorm:"-" json:"case_types"`
	CaseOfficeIDs []uint `gorm:"-" json:"case_offices"`
}

// TableName specifies the table name for LegalCase model
func (LegalCase) TableName() string {
	return "legal_cases"
}

// AfterFind exposes preloaded relations as id lists
func (lc *LegalCase) AfterFind(tx *gorm.DB) error {
	lc.UserIDs = relationIDs(lc.Users, func(u User) uint { return u.ID })
	lc.CaseTypeIDs = relationIDs(lc.CaseTypes, func(t CaseType) uint { return t.ID })
	lc.CaseOfficeIDs = relationIDs(lc.CaseOffices, func(o CaseOffice) uint { return o.ID })
	return nil
}

func (lc *LegalCase) String() string {
	return lc.CaseNumber
}

func (lc *LegalCase) AuditType() string { return "LegalCase" }
func (lc *LegalCase) AuditID() uint     { return lc.ID }

func (lc *LegalCase) AuditParent() (string, uint) {
	return lc.AuditType(), lc.ID
}

func (lc *LegalCase) AuditFields() []AuditField {
	return []AuditField{
		TextField("case_number", lc.CaseNumber),
		TextField("state", lc.State),
		TextField("summary", lc.Summary),
		UintField("client", lc.ClientID),
		BoolField("has_respondent", lc.HasRespondent),
		TextField("respondent_name", lc.RespondentName),
		TextField("respondent_contact_number", lc.RespondentContactNumber),
	}
}

// IsValidCaseState checks if the state is one of the known case states
func IsValidCaseState(state string) bool {
	for _, s := range CaseStates {
		if s == state {
			return true
		}
	}
	return false
}

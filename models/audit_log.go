package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// ErrAuditRecordImmutable is returned by hooks that block edits to the audit ledger
var ErrAuditRecordImmutable = errors.New("audit records are append-only")

// LogAction represents the type of operation recorded by a Log
type LogAction string

const (
	LogActionCreate LogAction = "Create"
	LogActionUpdate LogAction = "Update"
	LogActionDelete LogAction = "Delete"
)

// LogChangeAction distinguishes scalar field changes from relation membership changes
type LogChangeAction string

const (
	LogChangeActionChange LogChangeAction = "Change"
	LogChangeActionAdd    LogChangeAction = "Add"
	LogChangeActionRemove LogChangeAction = "Remove"
)

// IsValidLogAction checks if the action is one of the recorded actions
func IsValidLogAction(action string) bool {
	switch LogAction(action) {
	case LogActionCreate, LogActionUpdate, LogActionDelete:
		return true
	}
	return false
}

// Log represents one audit event on an entity.
//
// Target is the entity that was written. Parent is the entity a person would navigate
// from (a meeting's legal case); for top-level entities parent and target are the same.
type Log struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index:idx_log_created_at" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ParentType string `gorm:"size:64;not null;index:idx_log_parent" json:"parent_type"`
	ParentID   uint   `gorm:"not null;index:idx_log_parent" json:"parent_id"`
	TargetType string `gorm:"size:64;not null;index:idx_log_target" json:"target_type"`
	TargetID   uint   `gorm:"not null;index:idx_log_target" json:"target_id"`

	Action LogAction `gorm:"size:16;not null" json:"action"`
	UserID *uint     `gorm:"index" json:"user"`
	Note   string    `gorm:"type:text" json:"note"`

	Changes []LogChange `gorm:"foreignKey:LogID" json:"changes"`
	User    *User       `gorm:"foreignKey:UserID" json:"-"`
}

// LogChange is a single field-level or relation-level change inside a Log
type LogChange struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	LogID  uint            `gorm:"not null;index" json:"log"`
	Field  string          `gorm:"size:128;not null;index:idx_log_change_field_value" json:"field"`
	Value  string          `gorm:"type:text;index:idx_log_change_field_value" json:"value"`
	Action LogChangeAction `gorm:"size:16;not null" json:"action"`
}

// Label returns the feed label for the log, e.g. "Case created"
func (l *Log) Label() string {
	if label, ok := logLabels[l.TargetType+" "+string(l.Action)]; ok {
		return label
	}
	return l.TargetType + " " + string(l.Action)
}

var logLabels = map[string]string{
	"LegalCase Create":     "Case created",
	"LegalCase Update":     "Case update",
	"LegalCase Delete":     "Case deleted",
	"Meeting Create":       "New meeting",
	"Meeting Update":       "Meeting updated",
	"Meeting Delete":       "Meeting removed",
	"Note Create":          "New note",
	"Note Update":          "Note updated",
	"Note Delete":          "Note removed",
	"LegalCaseFile Create": "File uploaded",
	"LegalCaseFile Update": "File updated",
	"LegalCaseFile Delete": "File removed",
	"CaseUpdate Create":    "Case activity",
	"CaseUpdate Delete":    "Case activity removed",
	"Client Create":        "Client created",
	"Client Update":        "Client updated",
}

// BeforeUpdate prevents modification of audit logs
func (l *Log) BeforeUpdate(tx *gorm.DB) error {
	return ErrAuditRecordImmutable
}

// BeforeDelete prevents deletion of audit logs
func (l *Log) BeforeDelete(tx *gorm.DB) error {
	return ErrAuditRecordImmutable
}

// BeforeUpdate prevents modification of audit log changes
func (c *LogChange) BeforeUpdate(tx *gorm.DB) error {
	return ErrAuditRecordImmutable
}

// BeforeDelete prevents deletion of audit log changes
func (c *LogChange) BeforeDelete(tx *gorm.DB) error {
	return ErrAuditRecordImmutable
}

// TableName specifies the table name
func (Log) TableName() string {
	return "logs"
}

// TableName specifies the table name
func (LogChange) TableName() string {
	return "log_changes"
}

package models

import "time"

// Meeting types
const (
	MeetingTypeInPerson = "in_person"
	MeetingTypePhone    = "phone"
	MeetingTypeVideo    = "video"
	MeetingTypeCourt    = "court"
)

// Meeting is a meeting held on a legal case
type Meeting struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	LegalCaseID uint       `gorm:"not null;index" json:"legal_case" validate:"required"`
	LegalCase   *LegalCase `gorm:"foreignKey:LegalCaseID" json:"-"`

	Name        string    `gorm:"size:255" json:"name"`
	Location    string    `gorm:"size:255" json:"location"`
	MeetingType string    `gorm:"size:32" json:"meeting_type" validate:"omitempty,oneof=in_person phone video court"`
	MeetingDate time.Time `gorm:"not null" json:"meeting_date" validate:"required"`
	Notes       string    `gorm:"type:text" json:"notes"`

	LegalCaseFileID *uint `gorm:"index" json:"legal_case_file"`
	CaseUpdateID    *uint `gorm:"uniqueIndex" json:"case_update"`
}

// TableName specifies the table name for Meeting model
func (Meeting) TableName() string {
	return "meetings"
}

func (m *Meeting) String() string {
	if m.Name != "" {
		return m.Name
	}
	if !m.MeetingDate.IsZero() {
		return "Meeting on " + m.MeetingDate.Format("2006-01-02")
	}
	return ""
}

func (m *Meeting) AuditType() string { return "Meeting" }
func (m *Meeting) AuditID() uint     { return m.ID }

func (m *Meeting) AuditParent() (string, uint) {
	return "LegalCase", m.LegalCaseID
}

func (m *Meeting) AuditFields() []AuditField {
	return []AuditField{
		UintField("legal_case", m.LegalCaseID),
		TextField("name", m.Name),
		TextField("location", m.Location),
		TextField("meeting_type", m.MeetingType),
		TimeField("meeting_date", m.MeetingDate),
		TextField("notes", m.Notes),
		OptionalUintField("legal_case_file", m.LegalCaseFileID),
	}
}

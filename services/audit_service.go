package services

import (
	"encoding/json"
	"fmt"
	"sort"

	"legal_aid_app_go/models"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// auditExcludedFields are bookkeeping columns never recorded as changes
var auditExcludedFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// loggableFactories builds an empty instance of each loggable type for note lookups
var loggableFactories = map[string]func() models.Loggable{
	"CaseOffice":    func() models.Loggable { return &models.CaseOffice{} },
	"CaseType":      func() models.Loggable { return &models.CaseType{} },
	"Client":        func() models.Loggable { return &models.Client{} },
	"LegalCase":     func() models.Loggable { return &models.LegalCase{} },
	"Meeting":       func() models.Loggable { return &models.Meeting{} },
	"Note":          func() models.Loggable { return &models.Note{} },
	"LegalCaseFile": func() models.Loggable { return &models.LegalCaseFile{} },
	"CaseUpdate":    func() models.Loggable { return &models.CaseUpdate{} },
	"User":          func() models.Loggable { return &models.User{} },
}

type auditKey struct {
	targetType string
	targetID   uint
}

// AuditTrail records the audit entries of one transaction.
// It remembers the Log written for each entity so relation changes made later in the
// same operation attach to it.
type AuditTrail struct {
	tx       *gorm.DB
	actorID  *uint
	inFlight map[auditKey]*models.Log
}

// AuditSnapshot holds the serialised tracked fields of an entity before a mutation
type AuditSnapshot map[string]string

// NewAuditTrail creates a trail bound to tx. actorID may be nil for system changes.
func NewAuditTrail(tx *gorm.DB, actorID *uint) *AuditTrail {
	return &AuditTrail{
		tx:       tx,
		actorID:  actorID,
		inFlight: make(map[auditKey]*models.Log),
	}
}

// Snapshot captures the current tracked values of entity
func (t *AuditTrail) Snapshot(entity models.Loggable) AuditSnapshot {
	snap := make(AuditSnapshot)
	for _, f := range trackedFields(entity) {
		snap[f.Name] = f.Value
	}
	return snap
}

// LogCreate writes a Create log with one change per tracked field
func (t *AuditTrail) LogCreate(entity models.Loggable, note string) (*models.Log, error) {
	fields := trackedFields(entity)
	changes := make([]models.LogChange, 0, len(fields))
	for _, f := range fields {
		changes = append(changes, models.LogChange{
			Field:  f.Name,
			Value:  f.Value,
			Action: models.LogChangeActionChange,
		})
	}
	return t.write(entity, models.LogActionCreate, note, changes)
}

// LogUpdate writes an Update log with one change per field that differs from before.
// A save that changed nothing still produces the log, with no changes.
func (t *AuditTrail) LogUpdate(before AuditSnapshot, entity models.Loggable, note string) (*models.Log, error) {
	var changes []models.LogChange
	for _, f := range trackedFields(entity) {
		if prev, ok := before[f.Name]; ok && prev == f.Value {
			continue
		}
		changes = append(changes, models.LogChange{
			Field:  f.Name,
			Value:  f.Value,
			Action: models.LogChangeActionChange,
		})
	}
	return t.write(entity, models.LogActionUpdate, note, changes)
}

// LogDelete writes a Delete log without changes. Call it before the row is removed.
func (t *AuditTrail) LogDelete(entity models.Loggable, note string) (*models.Log, error) {
	return t.write(entity, models.LogActionDelete, note, nil)
}

// RelationChanged records membership changes of a many-to-many relation on entity.
// Added ids produce one Add change and removed ids one Remove change, attached to
// the entity's in-flight log. An Update log is opened when none exists yet.
func (t *AuditTrail) RelationChanged(entity models.Loggable, relation string, added, removed []uint) error {
	if len(added) == 0 && len(removed) == 0 {
		return nil
	}

	entry, ok := t.inFlight[auditKey{entity.AuditType(), entity.AuditID()}]
	if !ok {
		var err error
		entry, err = t.write(entity, models.LogActionUpdate, "", nil)
		if err != nil {
			return err
		}
	}

	var changes []models.LogChange
	if len(added) > 0 {
		changes = append(changes, models.LogChange{
			LogID:  entry.ID,
			Field:  relation,
			Value:  encodeIDs(added),
			Action: models.LogChangeActionAdd,
		})
	}
	if len(removed) > 0 {
		changes = append(changes, models.LogChange{
			LogID:  entry.ID,
			Field:  relation,
			Value:  encodeIDs(removed),
			Action: models.LogChangeActionRemove,
		})
	}

	if err := t.tx.Create(&changes).Error; err != nil {
		return fmt.Errorf("failed to record %s relation change: %w", relation, err)
	}
	entry.Changes = append(entry.Changes, changes...)
	return nil
}

func (t *AuditTrail) write(entity models.Loggable, action models.LogAction, note string, changes []models.LogChange) (*models.Log, error) {
	parentType, parentID := entity.AuditParent()

	entry := &models.Log{
		ParentType: parentType,
		ParentID:   parentID,
		TargetType: entity.AuditType(),
		TargetID:   entity.AuditID(),
		Action:     action,
		UserID:     t.actorID,
		Note:       t.resolveNote(entity, note),
	}
	if err := t.tx.Create(entry).Error; err != nil {
		return nil, fmt.Errorf("failed to write audit log: %w", err)
	}

	if len(changes) > 0 {
		for i := range changes {
			changes[i].LogID = entry.ID
		}
		if err := t.tx.Create(&changes).Error; err != nil {
			return nil, fmt.Errorf("failed to write audit changes: %w", err)
		}
		entry.Changes = changes
	}

	t.inFlight[auditKey{entry.TargetType, entry.TargetID}] = entry
	auditLogsWritten.WithLabelValues(entry.TargetType, string(action)).Inc()
	return entry, nil
}

// resolveNote picks the log note: an explicit note wins, then the stored entity's
// display string, then the type name.
func (t *AuditTrail) resolveNote(entity models.Loggable, note string) string {
	if note != "" {
		return note
	}

	fallback := func(reason string) string {
		auditNoteFallbacks.Inc()
		log.Warn().
			Str("component", "audit").
			Str("target_type", entity.AuditType()).
			Uint("target_id", entity.AuditID()).
			Str("reason", reason).
			Msg("Falling back to type name for audit note")
		return entity.AuditType()
	}

	factory, ok := loggableFactories[entity.AuditType()]
	if !ok {
		return fallback("unregistered type")
	}
	stored := factory()
	if err := t.tx.Table(entity.TableName()).First(stored, entity.AuditID()).Error; err != nil {
		return fallback(err.Error())
	}
	if s := stored.String(); s != "" {
		return s
	}
	return fallback("empty display string")
}

func trackedFields(entity models.Loggable) []models.AuditField {
	all := entity.AuditFields()
	fields := make([]models.AuditField, 0, len(all))
	for _, f := range all {
		if auditExcludedFields[f.Name] {
			continue
		}
		fields = append(fields, f)
	}
	return fields
}

func encodeIDs(ids []uint) string {
	sorted := append([]uint(nil), ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	b, _ := json.Marshal(sorted)
	return string(b)
}

// diffIDs returns the ids present only in next (added) and only in prev (removed)
func diffIDs(prev, next []uint) (added, removed []uint) {
	prevSet := make(map[uint]bool, len(prev))
	for _, id := range prev {
		prevSet[id] = true
	}
	nextSet := make(map[uint]bool, len(next))
	for _, id := range next {
		if nextSet[id] {
			continue
		}
		nextSet[id] = true
		if !prevSet[id] {
			added = append(added, id)
		}
	}
	for _, id := range prev {
		if !nextSet[id] {
			removed = append(removed, id)
		}
	}
	return added, removed
}

// LogFilters contains filter options for the audit feed
type LogFilters struct {
	TargetType string
	TargetID   uint
	ParentType string
	ParentID   uint
}

// ListLogs returns logs matching filters, newest first, with their changes
func ListLogs(db *gorm.DB, filters LogFilters) ([]models.Log, error) {
	query := db.Model(&models.Log{}).Preload("Changes")

	if filters.TargetType != "" {
		query = query.Where("target_type = ?", filters.TargetType)
	}
	if filters.TargetID != 0 {
		query = query.Where("target_id = ?", filters.TargetID)
	}
	if filters.ParentType != "" {
		query = query.Where("parent_type = ?", filters.ParentType)
	}
	if filters.ParentID != 0 {
		query = query.Where("parent_id = ?", filters.ParentID)
	}

	var logs []models.Log
	err := query.Order("created_at DESC").Order("id DESC").Find(&logs).Error
	return logs, err
}

// GetLog retrieves a single log with its changes
func GetLog(db *gorm.DB, id uint) (*models.Log, error) {
	var entry models.Log
	if err := db.Preload("Changes").First(&entry, id).Error; err != nil {
		return nil, notFoundOr(err, "log", id)
	}
	return &entry, nil
}

// LogChangeInput is one change of a manually recorded log
type LogChangeInput struct {
	Field  string `json:"field" validate:"required,max=128"`
	Value  string `json:"value"`
	Action string `json:"action" validate:"omitempty,oneof=Change Add Remove"`
}

// LogInput is the payload for recording a log entry by hand
type LogInput struct {
	ParentType string           `json:"parent_type" validate:"omitempty,max=64"`
	ParentID   uint             `json:"parent_id"`
	TargetType string           `json:"target_type" validate:"required,max=64"`
	TargetID   uint             `json:"target_id" validate:"required"`
	Action     string           `json:"action" validate:"required"`
	Note       string           `json:"note"`
	Changes    []LogChangeInput `json:"changes" validate:"dive"`
}

// CreateLog records a log entry supplied by a caller. Parent defaults to the target.
func CreateLog(db *gorm.DB, input LogInput, actorID *uint) (*models.Log, error) {
	verr := validateStruct(input)
	if input.Action != "" && !models.IsValidLogAction(input.Action) {
		verr.Add("action", "must be one of Create, Update, Delete")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	entry := &models.Log{
		ParentType: input.ParentType,
		ParentID:   input.ParentID,
		TargetType: input.TargetType,
		TargetID:   input.TargetID,
		Action:     models.LogAction(input.Action),
		UserID:     actorID,
		Note:       SanitizeText(input.Note),
	}
	if entry.ParentType == "" {
		entry.ParentType, entry.ParentID = entry.TargetType, entry.TargetID
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(entry).Error; err != nil {
			return err
		}
		if len(input.Changes) == 0 {
			return nil
		}
		changes := make([]models.LogChange, 0, len(input.Changes))
		for _, c := range input.Changes {
			action := models.LogChangeAction(c.Action)
			if action == "" {
				action = models.LogChangeActionChange
			}
			changes = append(changes, models.LogChange{
				LogID:  entry.ID,
				Field:  c.Field,
				Value:  c.Value,
				Action: action,
			})
		}
		if err := tx.Create(&changes).Error; err != nil {
			return err
		}
		entry.Changes = changes
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create log: %w", err)
	}

	auditLogsWritten.WithLabelValues(entry.TargetType, string(entry.Action)).Inc()
	return entry, nil
}

package models

import (
	"strconv"
	"time"
)

// Loggable is implemented by every entity that takes part in the audit trail.
// Tracked fields are declared explicitly per type; nothing is discovered by reflection.
type Loggable interface {
	TableName() string
	AuditType() string
	AuditID() uint
	// AuditParent returns the entity a log entry should be filed under.
	AuditParent() (string, uint)
	AuditFields() []AuditField
	String() string
}

// AuditField is one tracked field, already serialised to its display form
type AuditField struct {
	Name  string
	Value string
}

// AuditTimeLayout is used for every timestamp written to the audit ledger
const AuditTimeLayout = time.RFC3339

func TextField(name, value string) AuditField {
	return AuditField{Name: name, Value: value}
}

func OptionalTextField(name string, value *string) AuditField {
	if value == nil {
		return AuditField{Name: name}
	}
	return AuditField{Name: name, Value: *value}
}

func UintField(name string, value uint) AuditField {
	return AuditField{Name: name, Value: strconv.FormatUint(uint64(value), 10)}
}

func OptionalUintField(name string, value *uint) AuditField {
	if value == nil {
		return AuditField{Name: name}
	}
	return UintField(name, *value)
}

func BoolField(name string, value bool) AuditField {
	return AuditField{Name: name, Value: strconv.FormatBool(value)}
}

func TimeField(name string, value time.Time) AuditField {
	if value.IsZero() {
		return AuditField{Name: name}
	}
	return AuditField{Name: name, Value: value.UTC().Format(AuditTimeLayout)}
}

func OptionalTimeField(name string, value *time.Time) AuditField {
	if value == nil {
		return AuditField{Name: name}
	}
	return TimeField(name, *value)
}

// relationIDs collects primary keys for JSON id-list fields
func relationIDs[T any](items []T, id func(T) uint) []uint {
	ids := make([]uint, 0, len(items))
	for _, item := range items {
		ids = append(ids, id(item))
	}
	return ids
}

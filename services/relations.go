package services

import (
	"fmt"

	"legal_aid_app_go/models"

	"gorm.io/gorm"
)

// uniqueIDs drops duplicates and zero ids, keeping the first occurrence order
func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

// syncRelation sets the members of a many-to-many association of owner to next and
// reports the membership change to the audit trail. Every id in next must exist.
func syncRelation[T any](tx *gorm.DB, trail *AuditTrail, owner models.Loggable, association, relation, resource string, prev, next []uint) error {
	next = uniqueIDs(next)
	added, removed := diffIDs(prev, next)
	if len(added) == 0 && len(removed) == 0 {
		return nil
	}

	assoc := tx.Model(owner).Association(association)
	if len(next) == 0 {
		if err := assoc.Clear(); err != nil {
			return fmt.Errorf("failed to clear %s: %w", relation, err)
		}
	} else {
		var members []T
		if err := tx.Find(&members, next).Error; err != nil {
			return fmt.Errorf("failed to load %s: %w", relation, err)
		}
		if len(members) != len(next) {
			return &NotFoundError{Resource: resource}
		}
		if err := assoc.Replace(members); err != nil {
			return fmt.Errorf("failed to update %s: %w", relation, err)
		}
	}

	return trail.RelationChanged(owner, relation, added, removed)
}

// requireExists returns a NotFoundError when no row of model has the id
func requireExists(tx *gorm.DB, model interface{}, resource string, id uint) error {
	var count int64
	if err := tx.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return &NotFoundError{Resource: resource, ID: id}
	}
	return nil
}

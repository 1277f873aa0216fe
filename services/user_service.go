package services

import (
	"strings"

	"legal_aid_app_go/models"

	"gorm.io/gorm"
)

// GetUser retrieves a user by id
func GetUser(db *gorm.DB, id uint) (*models.User, error) {
	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		return nil, notFoundOr(err, "user", id)
	}
	return &user, nil
}

func normalizeUser(u *models.User) {
	u.Name = strings.TrimSpace(u.Name)
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.ContactNumber = strings.TrimSpace(u.ContactNumber)
	u.MembershipNumber = strings.TrimSpace(u.MembershipNumber)
	if u.CaseOfficeID != nil && *u.CaseOfficeID == 0 {
		u.CaseOfficeID = nil
	}
}

// UpdateUser saves profile changes. Password and active flag are not editable here.
func UpdateUser(db *gorm.DB, user *models.User, actorID *uint) error {
	normalizeUser(user)
	if err := ValidateUser(user); err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var stored models.User
		if err := tx.First(&stored, user.ID).Error; err != nil {
			return notFoundOr(err, "user", user.ID)
		}
		if user.HasCaseOffice() {
			if err := requireExists(tx, &models.CaseOffice{}, "case office", *user.CaseOfficeID); err != nil {
				return err
			}
		}

		trail := NewAuditTrail(tx, actorID)
		before := trail.Snapshot(&stored)

		user.CreatedAt = stored.CreatedAt
		user.Password = stored.Password
		user.IsActive = stored.IsActive
		user.LastLoginAt = stored.LastLoginAt
		if err := tx.Omit("CaseOffice").Save(user).Error; err != nil {
			return translateWriteError(err, "user with email "+user.Email)
		}
		_, err := trail.LogUpdate(before, user, "")
		return err
	})
}

// CreateUser stores a new user with a hashed password
func CreateUser(db *gorm.DB, user *models.User, password string) error {
	normalizeUser(user)
	verr := validateStruct(user)
	if err := ValidatePassword(password, user.Email); err != nil {
		verr.Add("password", err.Error())
	}
	if err := verr.OrNil(); err != nil {
		return err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	user.Password = hash
	user.IsActive = true

	return db.Transaction(func(tx *gorm.DB) error {
		if user.HasCaseOffice() {
			if err := requireExists(tx, &models.CaseOffice{}, "case office", *user.CaseOfficeID); err != nil {
				return err
			}
		}
		if err := tx.Omit("CaseOffice").Create(user).Error; err != nil {
			return translateWriteError(err, "user with email "+user.Email)
		}
		_, err := NewAuditTrail(tx, nil).LogCreate(user, "")
		return err
	})
}

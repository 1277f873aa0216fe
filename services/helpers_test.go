package services

import (
	"testing"
	"time"

	"legal_aid_app_go/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens an isolated shared-cache in-memory database with the full schema
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:mem_" + uuid.New().String() + "?mode=memory&cache=shared&_busy_timeout=5000"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.CaseOffice{},
		&models.CaseType{},
		&models.User{},
		&models.Token{},
		&models.Client{},
		&models.LegalCase{},
		&models.LegalCaseFile{},
		&models.CaseUpdate{},
		&models.Meeting{},
		&models.Note{},
		&models.Log{},
		&models.LogChange{},
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func uintPtr(v uint) *uint {
	return &v
}

func stringPtr(s string) *string {
	return &s
}

func createOffice(t *testing.T, db *gorm.DB, name, code string) *models.CaseOffice {
	t.Helper()
	office := &models.CaseOffice{Name: name, CaseOfficeCode: code}
	require.NoError(t, CreateCaseOffice(db, office, nil))
	return office
}

func createClient(t *testing.T, db *gorm.DB, name string) *models.Client {
	t.Helper()
	client := &models.Client{Name: name, PreferredName: name}
	require.NoError(t, CreateClient(db, client, nil))
	return client
}

func createOfficer(t *testing.T, db *gorm.DB, email string, officeID *uint) *models.User {
	t.Helper()
	user := &models.User{Name: email, Email: email, CaseOfficeID: officeID}
	require.NoError(t, CreateUser(db, user, "s3cure-passphrase"))
	return user
}

func createCase(t *testing.T, db *gorm.DB, clientID, officeID uint, actorID *uint) *models.LegalCase {
	t.Helper()
	lc := &models.LegalCase{ClientID: clientID, CaseOfficeIDs: []uint{officeID}}
	require.NoError(t, CreateLegalCase(db, lc, actorID))
	return lc
}

// logsFor returns the logs of one target, oldest first
func logsFor(t *testing.T, db *gorm.DB, targetType string, targetID uint) []models.Log {
	t.Helper()
	var logs []models.Log
	require.NoError(t, db.Preload("Changes").
		Where("target_type = ? AND target_id = ?", targetType, targetID).
		Order("id ASC").Find(&logs).Error)
	return logs
}

func changeMap(entry models.Log) map[string]string {
	m := make(map[string]string, len(entry.Changes))
	for _, c := range entry.Changes {
		m[string(c.Action)+":"+c.Field] = c.Value
	}
	return m
}

func utc(year int, month time.Month, day, hour int) time.Time {
	return time.Date(year, month, day, hour, 0, 0, 0, time.UTC)
}

package handlers

import (
	"io"
	"net/http/httptest"
	"testing"

	"legal_aid_app_go/config"
	"legal_aid_app_go/db"
	"legal_aid_app_go/models"
	"legal_aid_app_go/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Unique shared memory name isolates tests while pooled connections see one schema
	dbName := "mem_" + uuid.New().String()
	testDB, err := gorm.Open(sqlite.Open("file:"+dbName+"?mode=memory&cache=shared&_busy_timeout=5000"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, testDB.AutoMigrate(db.Models()...))

	services.Storage = services.NewLocalStorage(t.TempDir())

	db.DB = testDB
	db.ReadDB = nil

	services.InitSecurityMonitor()
	t.Cleanup(func() {
		services.Monitor.Stop()
		if sqlDB, err := testDB.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return testDB
}

func setupEcho(method, path string, body io.Reader) (*echo.Echo, echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	c.Set("config", &config.Config{
		Environment:   "test",
		EmailTestMode: true,
	})

	return e, c, rec
}

func withID(c echo.Context, id string) {
	c.SetParamNames("id")
	c.SetParamValues(id)
}

func seedOfficer(t *testing.T, database *gorm.DB) (*models.CaseOffice, *models.User) {
	t.Helper()
	office := &models.CaseOffice{Name: "Nairobi Central", CaseOfficeCode: "NRB"}
	require.NoError(t, services.CreateCaseOffice(database, office, nil))
	user := &models.User{Name: "Wanjiku", Email: "wanjiku@example.org", CaseOfficeID: &office.ID}
	require.NoError(t, services.CreateUser(database, user, "s3cure-passphrase"))
	return office, user
}

//go:build integration

package db_test

import (
	"context"
	"testing"
	"time"

	"legal_aid_app_go/db"
	"legal_aid_app_go/models"
	"legal_aid_app_go/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupPostgres starts a throwaway postgres, connects the global DB and applies the goose migrations
func setupPostgres(t *testing.T) {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("legal_aid_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err, "Failed to start PostgreSQL container")
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, db.Initialize(db.Options{Driver: "postgres", URL: dsn, LogLevel: "error"}))
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.Migrate(ctx))
	// Applying twice is a no-op
	require.NoError(t, db.Migrate(ctx))
}

func TestPostgresCaseLifecycleAndReports(t *testing.T) {
	setupPostgres(t)
	ctx := context.Background()

	office := &models.CaseOffice{Name: "Nairobi Central", CaseOfficeCode: "NRB"}
	require.NoError(t, services.CreateCaseOffice(db.DB, office, nil))
	officer := &models.User{Name: "Wanjiku", Email: "wanjiku@example.org", CaseOfficeID: &office.ID}
	require.NoError(t, services.CreateUser(db.DB, officer, "s3cure-passphrase"))
	client := &models.Client{Name: "Amina Otieno", PreferredName: "Amina"}
	require.NoError(t, services.CreateClient(db.DB, client, &officer.ID))

	lc := &models.LegalCase{ClientID: client.ID, CaseOfficeIDs: []uint{office.ID}, UserIDs: []uint{officer.ID}}
	require.NoError(t, services.CreateLegalCase(db.DB, lc, &officer.ID))
	assert.Regexp(t, `^NRB/[0-9]{4}/[0-9]{4,}$`, lc.CaseNumber)

	stored, err := services.GetLegalCase(db.DB, lc.ID)
	require.NoError(t, err)
	stored.State = models.CaseStateClosed
	_, err = services.UpdateLegalCase(db.DB, stored, &officer.ID)
	require.NoError(t, err)

	var entry models.Log
	require.NoError(t, db.DB.Where("target_type = ?", "LegalCase").Order("id ASC").First(&entry).Error)
	entry.Note = "rewritten"
	assert.ErrorIs(t, db.DB.Save(&entry).Error, models.ErrAuditRecordImmutable)

	w, err := services.ResolveReportWindow("", "", time.Now())
	require.NoError(t, err)
	month := time.Now().UTC().Format(services.MonthLayout)
	day := time.Now().UTC().Format(services.DayLayout)

	monthly, err := services.MonthlySummary(ctx, db.Reader(), w)
	require.NoError(t, err)
	require.Contains(t, monthly, "Nairobi Central")
	series := monthly["Nairobi Central"]

	last := func(label string) *float64 {
		points := series[label]
		require.NotEmpty(t, points, label)
		p := points[len(points)-1]
		require.Equal(t, month, p.Date, label)
		return p.Value
	}
	require.NotNil(t, last(services.LabelCasesOpened))
	assert.Equal(t, 1.0, *last(services.LabelCasesOpened))
	require.NotNil(t, last(services.LabelCasesClosed))
	assert.Equal(t, 1.0, *last(services.LabelCasesClosed))
	require.NotNil(t, last(services.LabelActiveCaseOfficers))
	assert.Equal(t, 1.0, *last(services.LabelActiveCaseOfficers))

	daily, err := services.DailySummary(ctx, db.Reader(), w)
	require.NoError(t, err)
	var opened *float64
	for _, p := range daily["Nairobi Central"][services.LabelCasesOpened][month] {
		if p.Date == day {
			opened = p.Value
		}
	}
	require.NotNil(t, opened)
	assert.Equal(t, 1.0, *opened)
}

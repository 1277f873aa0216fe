package services

import (
	"bytes"
	"context"
	"testing"
	"time"

	"legal_aid_app_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// reportFixture seeds two offices. Only Alpha has cases:
//
//	c1 opened 2021-01-05, closed 2021-02-10 and again 2021-03-05
//	c2 opened 2021-01-20, still open
//	c3 opened 2021-03-01, closed the same day
type reportFixture struct {
	alpha, beta *models.CaseOffice
	officer     *models.User
}

func seedReportFixture(t *testing.T, db *gorm.DB) reportFixture {
	t.Helper()
	fx := reportFixture{
		alpha: createOffice(t, db, "Alpha", "ALP"),
		beta:  createOffice(t, db, "Beta", "BET"),
	}
	fx.officer = createOfficer(t, db, "officer@example.org", &fx.alpha.ID)
	client := createClient(t, db, "Report Client")

	c1 := insertCase(t, db, "ALP/2101/0001", client.ID, fx.alpha.ID, utc(2021, time.January, 5, 10))
	c2 := insertCase(t, db, "ALP/2101/0002", client.ID, fx.alpha.ID, utc(2021, time.January, 20, 8))
	c3 := insertCase(t, db, "ALP/2103/0003", client.ID, fx.alpha.ID, utc(2021, time.March, 1, 9))

	insertCaseLog(t, db, c1, fx.officer.ID, models.LogActionCreate, utc(2021, time.January, 5, 10), models.CaseStateOpened)
	insertCaseLog(t, db, c2, fx.officer.ID, models.LogActionCreate, utc(2021, time.January, 20, 8), models.CaseStateOpened)
	insertCaseLog(t, db, c3, fx.officer.ID, models.LogActionCreate, utc(2021, time.March, 1, 9), models.CaseStateOpened)
	insertCaseLog(t, db, c1, fx.officer.ID, models.LogActionUpdate, utc(2021, time.February, 10, 9), models.CaseStateClosed)
	insertCaseLog(t, db, c3, fx.officer.ID, models.LogActionUpdate, utc(2021, time.March, 1, 15), models.CaseStateClosed)
	insertCaseLog(t, db, c1, fx.officer.ID, models.LogActionUpdate, utc(2021, time.March, 5, 11), models.CaseStateClosed)
	return fx
}

func insertCase(t *testing.T, db *gorm.DB, number string, clientID, officeID uint, createdAt time.Time) *models.LegalCase {
	t.Helper()
	lc := &models.LegalCase{CaseNumber: number, ClientID: clientID, State: models.CaseStateOpened, CreatedAt: createdAt}
	require.NoError(t, db.Omit("Users", "CaseTypes", "CaseOffices", "Client").Create(lc).Error)
	require.NoError(t, db.Exec("INSERT INTO legal_case_case_offices (legal_case_id, case_office_id) VALUES (?, ?)", lc.ID, officeID).Error)
	return lc
}

func insertCaseLog(t *testing.T, db *gorm.DB, lc *models.LegalCase, userID uint, action models.LogAction, at time.Time, state string) {
	t.Helper()
	entry := &models.Log{
		CreatedAt:  at,
		ParentType: "LegalCase",
		ParentID:   lc.ID,
		TargetType: "LegalCase",
		TargetID:   lc.ID,
		Action:     action,
		UserID:     &userID,
		Note:       lc.CaseNumber,
		Changes: []models.LogChange{
			{Field: "state", Value: state, Action: models.LogChangeActionChange},
		},
	}
	require.NoError(t, db.Create(entry).Error)
}

func values(points []ReportPoint) []interface{} {
	out := make([]interface{}, len(points))
	for i, p := range points {
		if p.Value == nil {
			out[i] = nil
		} else {
			out[i] = *p.Value
		}
	}
	return out
}

func pointAt(points []ReportPoint, date string) *float64 {
	for _, p := range points {
		if p.Date == date {
			return p.Value
		}
	}
	return nil
}

func TestMonthlySummary(t *testing.T) {
	db := setupTestDB(t)
	seedReportFixture(t, db)

	w, err := ResolveReportWindow("2021-01", "2021-03", time.Now())
	require.NoError(t, err)

	report, err := MonthlySummary(context.Background(), db, w)
	require.NoError(t, err)
	require.Contains(t, report, "Alpha")
	require.Contains(t, report, "Beta")

	alpha := report["Alpha"]
	for _, label := range MonthlyLabels {
		require.Len(t, alpha[label], 3, label)
		assert.Equal(t, "2021-01", alpha[label][0].Date)
		assert.Equal(t, "2021-03", alpha[label][2].Date)
	}

	assert.Equal(t, []interface{}{2.0, nil, 1.0}, values(alpha[LabelCasesOpened]))
	assert.Equal(t, []interface{}{nil, 1.0, 1.0}, values(alpha[LabelCasesClosed]))
	assert.Equal(t, []interface{}{2.0, 1.0, 1.0}, values(alpha[LabelTotalCases]))
	assert.Equal(t, []interface{}{1.0, 1.0, 1.0}, values(alpha[LabelActiveCaseOfficers]))
	assert.Equal(t, []interface{}{2.0, 1.0, 1.0}, values(alpha[LabelAverageCasesPerOfficer]))
	assert.Equal(t, []interface{}{nil, 37.0, 1.0}, values(alpha[LabelAverageDaysPerCase]))

	for _, label := range MonthlyLabels {
		assert.Equal(t, []interface{}{nil, nil, nil}, values(report["Beta"][label]), label)
	}
}

func TestMonthlySummaryOutsideWindowIsEmpty(t *testing.T) {
	db := setupTestDB(t)
	seedReportFixture(t, db)

	w, err := ResolveReportWindow("2019-01", "2019-02", time.Now())
	require.NoError(t, err)

	report, err := MonthlySummary(context.Background(), db, w)
	require.NoError(t, err)
	for _, label := range MonthlyLabels {
		assert.Equal(t, []interface{}{nil, nil}, values(report["Alpha"][label]), label)
	}
}

func TestDailySummary(t *testing.T) {
	db := setupTestDB(t)
	seedReportFixture(t, db)

	w, err := ResolveReportWindow("2021-01", "2021-03", time.Now())
	require.NoError(t, err)

	report, err := DailySummary(context.Background(), db, w)
	require.NoError(t, err)

	alpha := report["Alpha"]
	for _, label := range DailyLabels {
		require.Len(t, alpha[label], 3, label)
		assert.Len(t, alpha[label]["2021-01"], 31)
		assert.Len(t, alpha[label]["2021-02"], 28)
		assert.Len(t, alpha[label]["2021-03"], 31)
	}
	assert.Equal(t, "2021-02-01", alpha[LabelCasesOpened]["2021-02"][0].Date)

	opened := alpha[LabelCasesOpened]
	require.NotNil(t, pointAt(opened["2021-01"], "2021-01-05"))
	assert.Equal(t, 1.0, *pointAt(opened["2021-01"], "2021-01-05"))
	assert.NotNil(t, pointAt(opened["2021-01"], "2021-01-20"))
	assert.Nil(t, pointAt(opened["2021-01"], "2021-01-06"))
	assert.NotNil(t, pointAt(opened["2021-03"], "2021-03-01"))

	closed := alpha[LabelCasesClosed]
	assert.NotNil(t, pointAt(closed["2021-02"], "2021-02-10"))
	assert.NotNil(t, pointAt(closed["2021-03"], "2021-03-01"))
	assert.NotNil(t, pointAt(closed["2021-03"], "2021-03-05"))
	assert.Nil(t, pointAt(closed["2021-01"], "2021-01-05"))

	activity := alpha[LabelCasesWithActivity]
	require.NotNil(t, pointAt(activity["2021-03"], "2021-03-01"))
	assert.Equal(t, 1.0, *pointAt(activity["2021-03"], "2021-03-01"), "two logs on one case count once")
	assert.NotNil(t, pointAt(activity["2021-02"], "2021-02-10"))

	for _, label := range DailyLabels {
		for _, p := range report["Beta"][label]["2021-02"] {
			assert.Nil(t, p.Value)
		}
	}
}

func TestExportMonthlySummary(t *testing.T) {
	one, two := 1.0, 2.0
	report := MonthlyReport{
		"Nairobi: Central/East": {
			LabelCasesOpened: {{Date: "2021-01", Value: &two}, {Date: "2021-02", Value: nil}},
		},
		"Beta": {
			LabelCasesOpened: {{Date: "2021-01", Value: &one}, {Date: "2021-02", Value: &one}},
		},
	}

	buf, err := ExportMonthlySummary(report)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Beta", "Nairobi  Central East"}, f.GetSheetList())

	sheet := "Nairobi  Central East"
	header, _ := f.GetCellValue(sheet, "B1")
	assert.Equal(t, "2021-01", header)

	// Cases opened is the fifth monthly label, so it sits on row 6
	label, _ := f.GetCellValue(sheet, "A6")
	assert.Equal(t, LabelCasesOpened, label)
	value, _ := f.GetCellValue(sheet, "B6")
	assert.Equal(t, "2", value)
	empty, _ := f.GetCellValue(sheet, "C6")
	assert.Empty(t, empty)
}

func TestExportDailySummary(t *testing.T) {
	one := 1.0
	report := DailyReport{
		"Alpha": {
			LabelCasesOpened:       {"2021-02": {{Date: "2021-02-01", Value: &one}, {Date: "2021-02-02"}}},
			LabelCasesClosed:       {"2021-02": {{Date: "2021-02-01"}, {Date: "2021-02-02", Value: &one}}},
			LabelCasesWithActivity: {"2021-02": {{Date: "2021-02-01"}, {Date: "2021-02-02"}}},
		},
	}

	buf, err := ExportDailySummary(report)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	cells := map[string]string{
		"A1": "Date",
		"B1": LabelCasesOpened,
		"C1": LabelCasesClosed,
		"D1": LabelCasesWithActivity,
		"A2": "2021-02-01",
		"B2": "1",
		"C2": "",
		"A3": "2021-02-02",
		"B3": "",
		"C3": "1",
		"A4": "",
	}
	for cell, want := range cells {
		got, err := f.GetCellValue("Alpha", cell)
		require.NoError(t, err)
		assert.Equal(t, want, got, cell)
	}
}

func TestSheetNameIsUniqueAndShort(t *testing.T) {
	used := make(map[string]bool)
	long := "Legal Aid Office of the Greater Nairobi Metropolitan Area"

	first := sheetName(long, used)
	second := sheetName(long, used)
	assert.LessOrEqual(t, len([]rune(first)), maxSheetNameLength)
	assert.LessOrEqual(t, len([]rune(second)), maxSheetNameLength)
	assert.NotEqual(t, first, second)
	assert.Equal(t, "Office", sheetName("  ", used))
}

func TestRatioValue(t *testing.T) {
	assert.Nil(t, ratioValue(0, 3))
	assert.Nil(t, ratioValue(3, 0))
	assert.Equal(t, 0.67, *ratioValue(2, 3))
	assert.Equal(t, 2.5, *ratioValue(5, 2))
}

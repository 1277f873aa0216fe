package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"legal_aid_app_go/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Report kinds
const (
	ReportDaily   = "daily"
	ReportMonthly = "monthly"
)

// Series labels
const (
	LabelCasesOpened            = "Cases opened"
	LabelCasesClosed            = "Cases closed"
	LabelCasesWithActivity      = "Cases with activity"
	LabelActiveCaseOfficers     = "Active case officers"
	LabelTotalCases             = "Total cases"
	LabelAverageCasesPerOfficer = "Average cases per officer"
	LabelAverageDaysPerCase     = "Average days per case"
)

// DailyLabels lists the daily series in display order
var DailyLabels = []string{LabelCasesOpened, LabelCasesClosed, LabelCasesWithActivity}

// MonthlyLabels lists the monthly series in display order
var MonthlyLabels = []string{
	LabelActiveCaseOfficers,
	LabelTotalCases,
	LabelAverageCasesPerOfficer,
	LabelAverageDaysPerCase,
	LabelCasesOpened,
	LabelCasesClosed,
}

// ReportPoint is one value of a series. A nil value means no data for the date.
type ReportPoint struct {
	Date  string   `json:"date"`
	Value *float64 `json:"value"`
}

// DailyReport maps case office name -> label -> month -> one point per calendar day
type DailyReport map[string]map[string]map[string][]ReportPoint

// MonthlyReport maps case office name -> label -> one point per month
type MonthlyReport map[string]map[string][]ReportPoint

// metricRow is one grouped value returned by a report query
type metricRow struct {
	OfficeID uint
	Bucket   string
	N        float64
}

// metricSeries indexes grouped values by office and bucket
type metricSeries map[uint]map[string]float64

func (s metricSeries) get(officeID uint, bucket string) (float64, bool) {
	v, ok := s[officeID][bucket]
	return v, ok
}

func newMetricSeries(rows []metricRow) metricSeries {
	s := make(metricSeries)
	for _, r := range rows {
		if s[r.OfficeID] == nil {
			s[r.OfficeID] = make(map[string]float64)
		}
		s[r.OfficeID][r.Bucket] = r.N
	}
	return s
}

// reportDialect renders the few SQL fragments that differ between sqlite and postgres
type reportDialect struct {
	postgres bool
}

func dialectOf(db *gorm.DB) reportDialect {
	return reportDialect{postgres: db.Dialector.Name() == "postgres"}
}

// at normalises a stored timestamp column for comparison
func (d reportDialect) at(col string) string {
	if d.postgres {
		return col
	}
	return "datetime(" + col + ")"
}

// param renders a named timestamp bind
func (d reportDialect) param(name string) string {
	if d.postgres {
		return "CAST(@" + name + " AS timestamptz)"
	}
	return "datetime(@" + name + ")"
}

// day renders the YYYY-MM-DD key of a timestamp column
func (d reportDialect) day(col string) string {
	if d.postgres {
		return "to_char(" + col + " AT TIME ZONE 'UTC', 'YYYY-MM-DD')"
	}
	return "strftime('%Y-%m-%d', " + col + ")"
}

// dayDiff renders the whole days between the dates of two timestamps
func (d reportDialect) dayDiff(later, earlier string) string {
	if d.postgres {
		return "(CAST(" + later + " AT TIME ZONE 'UTC' AS date) - CAST(" + earlier + " AT TIME ZONE 'UTC' AS date))"
	}
	return "CAST(julianday(date(" + later + ")) - julianday(date(" + earlier + ")) AS INTEGER)"
}

func (d reportDialect) float(expr string) string {
	if d.postgres {
		return "CAST(" + expr + " AS double precision)"
	}
	return expr
}

type officeRow struct {
	ID   uint
	Name string
}

func loadReportOffices(db *gorm.DB) ([]officeRow, error) {
	var offices []officeRow
	err := db.Model(&models.CaseOffice{}).Select("id, name").Order("name ASC").Scan(&offices).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load case offices: %w", err)
	}
	return offices, nil
}

func queryMetric(db *gorm.DB, query string, args map[string]interface{}) (metricSeries, error) {
	var rows []metricRow
	if err := db.Raw(query, args).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return newMetricSeries(rows), nil
}

// DailySummary returns per-day counts for each case office, using the cache when enabled
func DailySummary(ctx context.Context, db *gorm.DB, w ReportWindow) (DailyReport, error) {
	var report DailyReport
	if reportCache.load(ctx, ReportDaily, w, &report) {
		return report, nil
	}

	report, err := buildDailySummary(db.WithContext(ctx), w)
	if err != nil {
		return nil, err
	}
	reportCache.store(ctx, ReportDaily, w, report)
	return report, nil
}

func buildDailySummary(db *gorm.DB, w ReportWindow) (DailyReport, error) {
	defer observeReport(ReportDaily, time.Now())

	d := dialectOf(db)
	args := map[string]interface{}{
		"start":    w.Start,
		"end":      w.Until(),
		"caseType": (&models.LegalCase{}).AuditType(),
		"closed":   models.CaseStateClosed,
	}

	opened, err := queryMetric(db, `
SELECT lco.case_office_id AS office_id, `+d.day("lc.created_at")+` AS bucket, COUNT(DISTINCT lc.id) AS n
FROM legal_cases lc
JOIN legal_case_case_offices lco ON lco.legal_case_id = lc.id
WHERE `+d.at("lc.created_at")+` >= `+d.param("start")+` AND `+d.at("lc.created_at")+` < `+d.param("end")+`
GROUP BY 1, 2`, args)
	if err != nil {
		return nil, fmt.Errorf("cases opened: %w", err)
	}

	closed, err := queryMetric(db, `
SELECT lco.case_office_id AS office_id, `+d.day("l.created_at")+` AS bucket, COUNT(DISTINCT l.target_id) AS n
FROM log_changes ch
JOIN logs l ON l.id = ch.log_id
JOIN legal_case_case_offices lco ON lco.legal_case_id = l.target_id
WHERE l.target_type = @caseType AND ch.field = 'state' AND ch.value = @closed
  AND `+d.at("l.created_at")+` >= `+d.param("start")+` AND `+d.at("l.created_at")+` < `+d.param("end")+`
GROUP BY 1, 2`, args)
	if err != nil {
		return nil, fmt.Errorf("cases closed: %w", err)
	}

	activity, err := queryMetric(db, `
SELECT lco.case_office_id AS office_id, `+d.day("l.created_at")+` AS bucket, COUNT(DISTINCT l.parent_id) AS n
FROM logs l
JOIN legal_case_case_offices lco ON lco.legal_case_id = l.parent_id
WHERE l.parent_type = @caseType
  AND `+d.at("l.created_at")+` >= `+d.param("start")+` AND `+d.at("l.created_at")+` < `+d.param("end")+`
GROUP BY 1, 2`, args)
	if err != nil {
		return nil, fmt.Errorf("cases with activity: %w", err)
	}

	offices, err := loadReportOffices(db)
	if err != nil {
		return nil, err
	}

	series := map[string]metricSeries{
		LabelCasesOpened:       opened,
		LabelCasesClosed:       closed,
		LabelCasesWithActivity: activity,
	}

	report := make(DailyReport, len(offices))
	for _, office := range offices {
		byLabel := make(map[string]map[string][]ReportPoint, len(DailyLabels))
		for _, label := range DailyLabels {
			byMonth := make(map[string][]ReportPoint)
			for _, month := range w.Months() {
				var points []ReportPoint
				for day := month; day.Month() == month.Month(); day = day.AddDate(0, 0, 1) {
					key := day.Format(DayLayout)
					points = append(points, ReportPoint{Date: key, Value: countValue(series[label], office.ID, key)})
				}
				byMonth[month.Format(MonthLayout)] = points
			}
			byLabel[label] = byMonth
		}
		report[office.Name] = byLabel
	}
	return report, nil
}

// MonthlySummary returns per-month case load metrics for each case office, using the
// cache when enabled
func MonthlySummary(ctx context.Context, db *gorm.DB, w ReportWindow) (MonthlyReport, error) {
	var report MonthlyReport
	if reportCache.load(ctx, ReportMonthly, w, &report) {
		return report, nil
	}

	report, err := buildMonthlySummary(db.WithContext(ctx), w)
	if err != nil {
		return nil, err
	}
	reportCache.store(ctx, ReportMonthly, w, report)
	return report, nil
}

// monthsCTE renders one row per month of the window: key, first instant, first instant of
// the last day and first instant of the next month
func monthsCTE(d reportDialect, w ReportWindow, args map[string]interface{}) string {
	var rows []string
	for i, month := range w.Months() {
		p := fmt.Sprintf("m%d_", i)
		next := month.AddDate(0, 1, 0)
		args[p+"key"] = month.Format(MonthLayout)
		args[p+"start"] = month
		args[p+"last"] = next.AddDate(0, 0, -1)
		args[p+"next"] = next
		rows = append(rows, "SELECT CAST(@"+p+"key AS TEXT) AS month_key, "+
			d.param(p+"start")+" AS month_start, "+
			d.param(p+"last")+" AS last_day, "+
			d.param(p+"next")+" AS next_start")
	}
	return strings.Join(rows, "\nUNION ALL ")
}

func buildMonthlySummary(db *gorm.DB, w ReportWindow) (MonthlyReport, error) {
	defer observeReport(ReportMonthly, time.Now())

	d := dialectOf(db)
	args := map[string]interface{}{
		"caseType": (&models.LegalCase{}).AuditType(),
		"closed":   models.CaseStateClosed,
	}

	// closed_at is the first time a case was moved to Closed
	with := `
WITH months AS (
` + monthsCTE(d, w, args) + `
),
closings AS (
	SELECT l.target_id AS legal_case_id, MIN(` + d.at("l.created_at") + `) AS closed_at
	FROM logs l
	JOIN log_changes ch ON ch.log_id = l.id
	WHERE l.target_type = @caseType AND ch.field = 'state' AND ch.value = @closed
	GROUP BY l.target_id
),
case_spans AS (
	SELECT lc.id, lco.case_office_id AS office_id, ` + d.at("lc.created_at") + ` AS created_at, closings.closed_at
	FROM legal_cases lc
	JOIN legal_case_case_offices lco ON lco.legal_case_id = lc.id
	LEFT JOIN closings ON closings.legal_case_id = lc.id
)
`

	opened, err := queryMetric(db, with+`
SELECT cs.office_id, m.month_key AS bucket, COUNT(DISTINCT cs.id) AS n
FROM case_spans cs
JOIN months m ON cs.created_at >= m.month_start AND cs.created_at < m.next_start
GROUP BY 1, 2`, args)
	if err != nil {
		return nil, fmt.Errorf("cases opened: %w", err)
	}

	closed, err := queryMetric(db, with+`
SELECT cs.office_id, m.month_key AS bucket, COUNT(DISTINCT cs.id) AS n
FROM case_spans cs
JOIN months m ON cs.closed_at >= m.month_start AND cs.closed_at < m.next_start
GROUP BY 1, 2`, args)
	if err != nil {
		return nil, fmt.Errorf("cases closed: %w", err)
	}

	total, err := queryMetric(db, with+`
SELECT cs.office_id, m.month_key AS bucket, COUNT(DISTINCT cs.id) AS n
FROM case_spans cs
JOIN months m ON cs.created_at < m.next_start AND (cs.closed_at IS NULL OR cs.closed_at >= m.last_day)
GROUP BY 1, 2`, args)
	if err != nil {
		return nil, fmt.Errorf("total cases: %w", err)
	}

	avgDays, err := queryMetric(db, with+`
SELECT cs.office_id, m.month_key AS bucket, `+d.float("AVG("+d.dayDiff("cs.closed_at", "cs.created_at")+" + 1)")+` AS n
FROM case_spans cs
JOIN months m ON cs.closed_at >= m.month_start AND cs.closed_at < m.next_start
GROUP BY 1, 2`, args)
	if err != nil {
		return nil, fmt.Errorf("average days per case: %w", err)
	}

	officers, err := queryMetric(db, with+`
SELECT u.case_office_id AS office_id, m.month_key AS bucket, COUNT(DISTINCT l.user_id) AS n
FROM logs l
JOIN users u ON u.id = l.user_id
JOIN months m ON `+d.at("l.created_at")+` >= m.month_start AND `+d.at("l.created_at")+` < m.next_start
WHERE u.case_office_id IS NOT NULL
GROUP BY 1, 2`, args)
	if err != nil {
		return nil, fmt.Errorf("active case officers: %w", err)
	}

	offices, err := loadReportOffices(db)
	if err != nil {
		return nil, err
	}

	report := make(MonthlyReport, len(offices))
	for _, office := range offices {
		byLabel := make(map[string][]ReportPoint, len(MonthlyLabels))
		for _, month := range w.Months() {
			key := month.Format(MonthLayout)

			totalCases, _ := total.get(office.ID, key)
			activeOfficers, _ := officers.get(office.ID, key)
			averageDays, _ := avgDays.get(office.ID, key)

			values := map[string]*float64{
				LabelActiveCaseOfficers:     countValue(officers, office.ID, key),
				LabelTotalCases:             countValue(total, office.ID, key),
				LabelAverageCasesPerOfficer: ratioValue(totalCases, activeOfficers),
				LabelAverageDaysPerCase:     ratioValue(averageDays, 1),
				LabelCasesOpened:            countValue(opened, office.ID, key),
				LabelCasesClosed:            countValue(closed, office.ID, key),
			}
			for _, label := range MonthlyLabels {
				byLabel[label] = append(byLabel[label], ReportPoint{Date: key, Value: values[label]})
			}
		}
		report[office.Name] = byLabel
	}
	return report, nil
}

// countValue returns the grouped value, or nil when there is none or it is zero
func countValue(s metricSeries, officeID uint, bucket string) *float64 {
	v, ok := s.get(officeID, bucket)
	if !ok || v == 0 {
		return nil
	}
	return &v
}

// ratioValue divides and rounds to two decimals. Zero operands give nil.
func ratioValue(num, den float64) *float64 {
	if num == 0 || den == 0 {
		return nil
	}
	v := decimal.NewFromFloat(num).Div(decimal.NewFromFloat(den)).Round(2).InexactFloat64()
	return &v
}

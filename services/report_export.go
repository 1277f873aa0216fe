package services

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"
)

const maxSheetNameLength = 31

var sheetNameReplacer = strings.NewReplacer(":", " ", "\\", " ", "/", " ", "?", " ", "*", " ", "[", "(", "]", ")")

// sheetName makes an office name usable as a worksheet name, keeping names unique
func sheetName(name string, used map[string]bool) string {
	base := strings.TrimSpace(sheetNameReplacer.Replace(name))
	if base == "" {
		base = "Office"
	}
	if len([]rune(base)) > maxSheetNameLength {
		base = string([]rune(base)[:maxSheetNameLength])
	}

	candidate := base
	for i := 2; used[strings.ToLower(candidate)]; i++ {
		suffix := fmt.Sprintf(" %d", i)
		runes := []rune(base)
		if len(runes)+len(suffix) > maxSheetNameLength {
			runes = runes[:maxSheetNameLength-len(suffix)]
		}
		candidate = string(runes) + suffix
	}
	used[strings.ToLower(candidate)] = true
	return candidate
}

func sortedKeys[T any](m map[string]T) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// newReportWorkbook creates a workbook with one sheet per office, filled by fill
func newReportWorkbook(offices []string, fill func(f *excelize.File, sheet, office string) error) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	used := make(map[string]bool)

	if len(offices) == 0 {
		f.SetCellValue("Sheet1", "A1", "No case offices")
	}
	for i, office := range offices {
		sheet := sheetName(office, used)
		if i == 0 {
			f.SetSheetName("Sheet1", sheet)
		} else if _, err := f.NewSheet(sheet); err != nil {
			return nil, fmt.Errorf("failed to add sheet for %s: %w", office, err)
		}
		if err := fill(f, sheet, office); err != nil {
			return nil, err
		}
		f.SetRowStyle(sheet, 1, 1, headerStyle)
		f.SetColWidth(sheet, "A", "A", 28)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf, nil
}

func setPointValue(f *excelize.File, sheet, cell string, p ReportPoint) {
	if p.Value != nil {
		f.SetCellValue(sheet, cell, *p.Value)
	}
}

// ExportMonthlySummary renders a monthly report: one row per label, one column per month
func ExportMonthlySummary(report MonthlyReport) (*bytes.Buffer, error) {
	return newReportWorkbook(sortedKeys(report), func(f *excelize.File, sheet, office string) error {
		f.SetCellValue(sheet, "A1", "Metric")
		series := report[office]

		// Every series shares the same months; take them from the longest
		var months []ReportPoint
		for _, label := range MonthlyLabels {
			if len(series[label]) > len(months) {
				months = series[label]
			}
		}
		for col, p := range months {
			header, _ := excelize.CoordinatesToCellName(col+2, 1)
			f.SetCellValue(sheet, header, p.Date)
		}

		for row, label := range MonthlyLabels {
			labelCell, _ := excelize.CoordinatesToCellName(1, row+2)
			f.SetCellValue(sheet, labelCell, label)
			for col, p := range series[label] {
				cell, _ := excelize.CoordinatesToCellName(col+2, row+2)
				setPointValue(f, sheet, cell, p)
			}
		}
		return nil
	})
}

// ExportDailySummary renders a daily report: one row per day, one column per label
func ExportDailySummary(report DailyReport) (*bytes.Buffer, error) {
	return newReportWorkbook(sortedKeys(report), func(f *excelize.File, sheet, office string) error {
		f.SetCellValue(sheet, "A1", "Date")
		for col, label := range DailyLabels {
			header, _ := excelize.CoordinatesToCellName(col+2, 1)
			f.SetCellValue(sheet, header, label)
		}

		series := report[office]
		months := sortedKeys(series[DailyLabels[0]])
		row := 2
		for _, month := range months {
			for i, p := range series[DailyLabels[0]][month] {
				dateCell, _ := excelize.CoordinatesToCellName(1, row)
				f.SetCellValue(sheet, dateCell, p.Date)
				for col, label := range DailyLabels {
					points := series[label][month]
					if i < len(points) {
						cell, _ := excelize.CoordinatesToCellName(col+2, row)
						setPointValue(f, sheet, cell, points[i])
					}
				}
				row++
			}
		}
		return nil
	})
}

package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"legal_aid_app_go/models"

	"gorm.io/gorm"
)

// GenerateCaseNumber builds the number of the next case filed under a case office.
// Format: {CASE_OFFICE_CODE}/{YYMM}/{SEQUENCE}
// Example: NRB/2403/0042
//
// The sequence is the highest legal case id plus one, so it must run in the same
// transaction as the insert. Two concurrent creations can still compute the same
// number; the unique index on case_number rejects the second one.
func GenerateCaseNumber(db *gorm.DB, caseOfficeID uint, now time.Time) (string, error) {
	var office models.CaseOffice
	if err := db.First(&office, caseOfficeID).Error; err != nil {
		return "", notFoundOr(err, "case office", caseOfficeID)
	}

	var maxID uint
	if err := db.Model(&models.LegalCase{}).Select("COALESCE(MAX(id), 0)").Scan(&maxID).Error; err != nil {
		return "", fmt.Errorf("failed to query max case id: %w", err)
	}

	caseNumber := FormatCaseNumber(office.CaseOfficeCode, now, maxID+1)
	caseNumbersIssued.WithLabelValues(office.CaseOfficeCode).Inc()
	return caseNumber, nil
}

// FormatCaseNumber formats the parts of a case number
func FormatCaseNumber(officeCode string, month time.Time, sequence uint) string {
	return fmt.Sprintf("%s/%s/%04d", officeCode, month.Format("0601"), sequence)
}

// CaseNumberParts are the components of a case number
type CaseNumberParts struct {
	OfficeCode string
	Year       int
	Month      time.Month
	Sequence   uint
}

// ParseCaseNumber splits a case number into its components
func ParseCaseNumber(caseNumber string) (CaseNumberParts, error) {
	parts := strings.Split(caseNumber, "/")
	if len(parts) != 3 || parts[0] == "" || len(parts[1]) != 4 || len(parts[2]) < 4 {
		return CaseNumberParts{}, fmt.Errorf("invalid case number %q", caseNumber)
	}

	month, err := time.Parse("0601", parts[1])
	if err != nil {
		return CaseNumberParts{}, fmt.Errorf("invalid case number month %q: %w", parts[1], err)
	}

	seq, err := strconv.ParseUint(parts[2], 10, 64)
	if err != nil {
		return CaseNumberParts{}, fmt.Errorf("invalid case number sequence %q: %w", parts[2], err)
	}

	return CaseNumberParts{
		OfficeCode: parts[0],
		Year:       month.Year(),
		Month:      month.Month(),
		Sequence:   uint(seq),
	}, nil
}

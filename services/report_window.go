package services

import (
	"regexp"
	"strconv"
	"time"
)

const (
	// MonthLayout is the format of report month parameters and month keys
	MonthLayout = "2006-01"
	// DayLayout is the format of daily report keys
	DayLayout = "2006-01-02"

	// Default spans used when only one bound of the window is given
	defaultForwardSpan  = 345 * 24 * time.Hour
	defaultBackwardSpan = 315 * 24 * time.Hour
)

var monthPattern = regexp.MustCompile(`^([0-9]{4})-(0[1-9]|1[0-2])$`)

// ReportWindow is an inclusive range of whole months, both bounds at the first of the month UTC
type ReportWindow struct {
	Start time.Time
	End   time.Time
}

// Until returns the exclusive upper bound: the first instant after the last month
func (w ReportWindow) Until() time.Time {
	return w.End.AddDate(0, 1, 0)
}

// Months returns the first day of every month in the window
func (w ReportWindow) Months() []time.Time {
	var months []time.Time
	for m := w.Start; !m.After(w.End); m = m.AddDate(0, 1, 0) {
		months = append(months, m)
	}
	return months
}

// Key identifies the window in caches and file names
func (w ReportWindow) Key() string {
	return w.Start.Format(MonthLayout) + "_" + w.End.Format(MonthLayout)
}

// ResolveReportWindow turns the optional startMonth/endMonth parameters into a window.
// A missing end defaults to the current month, or to about 11.5 months after start when
// start is given. A missing start defaults to about 10.5 months before end, or before now
// when neither bound is given.
func ResolveReportWindow(startParam, endParam string, now time.Time) (ReportWindow, error) {
	var w ReportWindow

	if endParam != "" {
		end, err := parseMonth("endMonth", endParam)
		if err != nil {
			return w, err
		}
		w.End = end
	}
	if startParam != "" {
		start, err := parseMonth("startMonth", startParam)
		if err != nil {
			return w, err
		}
		w.Start = start
	}

	// Without an end the backward span is measured from today, not from the first of the month
	anchor := w.End
	switch {
	case endParam == "" && startParam != "":
		w.End = monthOf(w.Start.Add(defaultForwardSpan))
	case endParam == "":
		w.End = monthOf(now)
		anchor = now.UTC()
	}
	if startParam == "" {
		w.Start = monthOf(anchor.Add(-defaultBackwardSpan))
	}

	if w.Start.After(w.End) {
		return w, &MalformedParamError{
			Param:   "startMonth",
			Message: "startMonth query param must not be after endMonth",
		}
	}
	return w, nil
}

func parseMonth(param, value string) (time.Time, error) {
	m := monthPattern.FindStringSubmatch(value)
	if m == nil {
		return time.Time{}, &MalformedParamError{
			Param:   param,
			Message: param + " query param must be in format yyyy-mm",
		}
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC), nil
}

// monthOf truncates t to the first day of its month in UTC
func monthOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

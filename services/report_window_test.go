package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveReportWindow(t *testing.T) {
	now := time.Date(2021, time.June, 17, 13, 45, 0, 0, time.UTC)

	tests := []struct {
		name      string
		start     string
		end       string
		wantStart string
		wantEnd   string
	}{
		{"BothGiven", "2021-01", "2021-03", "2021-01", "2021-03"},
		{"SingleMonth", "2021-02", "2021-02", "2021-02", "2021-02"},
		{"NeitherGiven", "", "", "2020-08", "2021-06"},
		{"OnlyStart", "2021-01", "", "2021-01", "2021-12"},
		{"OnlyEnd", "", "2021-12", "2021-01", "2021-12"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := ResolveReportWindow(tt.start, tt.end, now)
			require.NoError(t, err)
			assert.Equal(t, tt.wantStart, w.Start.Format(MonthLayout))
			assert.Equal(t, tt.wantEnd, w.End.Format(MonthLayout))
			assert.Equal(t, 1, w.Start.Day())
			assert.Equal(t, time.UTC, w.Start.Location())
		})
	}
}

func TestDefaultWindowIsMeasuredFromToday(t *testing.T) {
	early, err := ResolveReportWindow("", "", time.Date(2021, time.June, 1, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "2020-07", early.Start.Format(MonthLayout))
	assert.Len(t, early.Months(), 12)

	late, err := ResolveReportWindow("", "", time.Date(2021, time.June, 30, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "2020-08", late.Start.Format(MonthLayout))
	assert.Equal(t, "2021-06", late.End.Format(MonthLayout))
	assert.Len(t, late.Months(), 11)
}

func TestResolveReportWindowRejectsMalformedParams(t *testing.T) {
	now := time.Date(2021, time.June, 17, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		start string
		end   string
		param string
	}{
		{"Word", "foo", "", "startMonth"},
		{"MonthOutOfRange", "2021-13", "", "startMonth"},
		{"FullDate", "", "2021-01-01", "endMonth"},
		{"ShortYear", "", "21-01", "endMonth"},
		{"StartAfterEnd", "2021-05", "2021-04", "startMonth"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolveReportWindow(tt.start, tt.end, now)
			var perr *MalformedParamError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.param, perr.Param)
		})
	}

	_, err := ResolveReportWindow("foo", "", now)
	assert.EqualError(t, err, "startMonth query param must be in format yyyy-mm")
}

func TestReportWindowMonths(t *testing.T) {
	w, err := ResolveReportWindow("2020-11", "2021-02", time.Now())
	require.NoError(t, err)

	var keys []string
	for _, m := range w.Months() {
		keys = append(keys, m.Format(MonthLayout))
	}
	assert.Equal(t, []string{"2020-11", "2020-12", "2021-01", "2021-02"}, keys)
	assert.Equal(t, time.Date(2021, time.March, 1, 0, 0, 0, 0, time.UTC), w.Until())
	assert.Equal(t, "2020-11_2021-02", w.Key())
}

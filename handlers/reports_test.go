package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestMonthlySummaryHandler(t *testing.T) {
	database := setupTestDB(t)
	seedOfficer(t, database)

	t.Run("MalformedStartMonth", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/api/summary/monthly?startMonth=foo", nil)
		require.NoError(t, MonthlySummaryHandler(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		var resp map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "startMonth", resp["param"])
		assert.Equal(t, "startMonth query param must be in format yyyy-mm", resp["error"])
	})

	t.Run("JSONKeyedByOffice", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/api/summary/monthly?startMonth=2021-01&endMonth=2021-02", nil)
		require.NoError(t, MonthlySummaryHandler(c))
		require.Equal(t, http.StatusOK, rec.Code)

		var resp map[string]map[string][]struct {
			Date  string   `json:"date"`
			Value *float64 `json:"value"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Contains(t, resp, "Nairobi Central")
		for label, series := range resp["Nairobi Central"] {
			require.Len(t, series, 2, label)
			assert.Equal(t, "2021-01", series[0].Date)
			assert.Nil(t, series[0].Value)
		}
	})

	t.Run("Workbook", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/api/summary/monthly?startMonth=2021-01&endMonth=2021-03&format=xlsx", nil)
		require.NoError(t, MonthlySummaryHandler(c))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Header().Get("Content-Disposition"), "monthly_summary_2021-01_2021-03.xlsx")

		f, err := excelize.OpenReader(bytes.NewReader(rec.Body.Bytes()))
		require.NoError(t, err)
		defer f.Close()
		assert.Equal(t, []string{"Nairobi Central"}, f.GetSheetList())
	})
}

func TestDailySummaryHandler(t *testing.T) {
	database := setupTestDB(t)
	seedOfficer(t, database)

	t.Run("MalformedEndMonth", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/api/summary/daily?endMonth=2021-02-01", nil)
		require.NoError(t, DailySummaryHandler(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), `"param":"endMonth"`)
	})

	t.Run("OneSeriesPerMonth", func(t *testing.T) {
		_, c, rec := setupEcho(http.MethodGet, "/api/summary/daily?startMonth=2021-02&endMonth=2021-02", nil)
		require.NoError(t, DailySummaryHandler(c))
		require.Equal(t, http.StatusOK, rec.Code)

		var resp map[string]map[string]map[string][]json.RawMessage
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		for label, months := range resp["Nairobi Central"] {
			require.Contains(t, months, "2021-02", label)
			assert.Len(t, months["2021-02"], 28, label)
		}
	})
}

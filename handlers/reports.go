package handlers

import (
	"bytes"
	"net/http"
	"time"

	"legal_aid_app_go/db"
	"legal_aid_app_go/services"

	"github.com/labstack/echo/v4"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func reportWindow(c echo.Context) (services.ReportWindow, error) {
	return services.ResolveReportWindow(c.QueryParam("startMonth"), c.QueryParam("endMonth"), time.Now())
}

func sendWorkbook(c echo.Context, kind string, w services.ReportWindow, buf *bytes.Buffer) error {
	filename := kind + "_summary_" + w.Key() + ".xlsx"
	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Blob(http.StatusOK, xlsxContentType, buf.Bytes())
}

// DailySummaryHandler returns per-day case counts for each case office
func DailySummaryHandler(c echo.Context) error {
	w, err := reportWindow(c)
	if err != nil {
		return respondError(c, err)
	}

	report, err := services.DailySummary(c.Request().Context(), db.Reader(), w)
	if err != nil {
		return respondError(c, err)
	}

	if c.QueryParam("format") == "xlsx" {
		buf, err := services.ExportDailySummary(report)
		if err != nil {
			return respondError(c, err)
		}
		return sendWorkbook(c, services.ReportDaily, w, buf)
	}
	return c.JSON(http.StatusOK, report)
}

// MonthlySummaryHandler returns per-month case load metrics for each case office
func MonthlySummaryHandler(c echo.Context) error {
	w, err := reportWindow(c)
	if err != nil {
		return respondError(c, err)
	}

	report, err := services.MonthlySummary(c.Request().Context(), db.Reader(), w)
	if err != nil {
		return respondError(c, err)
	}

	if c.QueryParam("format") == "xlsx" {
		buf, err := services.ExportMonthlySummary(report)
		if err != nil {
			return respondError(c, err)
		}
		return sendWorkbook(c, services.ReportMonthly, w, buf)
	}
	return c.JSON(http.StatusOK, report)
}

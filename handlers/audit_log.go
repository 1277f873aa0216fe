package handlers

import (
	"net/http"

	"legal_aid_app_go/db"
	"legal_aid_app_go/middleware"
	"legal_aid_app_go/models"
	"legal_aid_app_go/services"

	"github.com/labstack/echo/v4"
)

// logResponse adds the feed label to a log
type logResponse struct {
	models.Log
	Label string `json:"label"`
}

func newLogResponse(entry models.Log) logResponse {
	return logResponse{Log: entry, Label: entry.Label()}
}

// ListLogsHandler returns the audit feed, filtered by target and parent
func ListLogsHandler(c echo.Context) error {
	targetID, err := queryID(c, "target_id")
	if err != nil {
		return respondError(c, err)
	}
	parentID, err := queryID(c, "parent_id")
	if err != nil {
		return respondError(c, err)
	}

	logs, err := services.ListLogs(db.DB, services.LogFilters{
		TargetType: c.QueryParam("target_type"),
		TargetID:   targetID,
		ParentType: c.QueryParam("parent_type"),
		ParentID:   parentID,
	})
	if err != nil {
		return respondError(c, err)
	}

	response := make([]logResponse, 0, len(logs))
	for _, entry := range logs {
		response = append(response, newLogResponse(entry))
	}
	return c.JSON(http.StatusOK, response)
}

// GetLogHandler returns a single log with its changes
func GetLogHandler(c echo.Context) error {
	id, err := pathID(c, "log")
	if err != nil {
		return respondError(c, err)
	}
	entry, err := services.GetLog(db.DB, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, newLogResponse(*entry))
}

// CreateLogHandler records a log entry supplied by the client
func CreateLogHandler(c echo.Context) error {
	var input services.LogInput
	if err := bindBody(c, &input); err != nil {
		return respondError(c, err)
	}

	entry, err := services.CreateLog(db.DB, input, middleware.CurrentUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, newLogResponse(*entry))
}

// LogImmutableHandler rejects attempts to change or remove logs
func LogImmutableHandler(c echo.Context) error {
	return respondError(c, services.ErrImmutable)
}

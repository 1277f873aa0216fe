package handlers

import (
	"net/http"

	"legal_aid_app_go/db"
	"legal_aid_app_go/middleware"
	"legal_aid_app_go/models"
	"legal_aid_app_go/services"

	"github.com/labstack/echo/v4"
)

// caseChildFilters reads the ?legal_case filter shared by case records
func caseChildFilters(c echo.Context) (services.CaseChildFilters, error) {
	legalCaseID, err := queryID(c, "legal_case")
	return services.CaseChildFilters{LegalCaseID: legalCaseID}, err
}

// ListMeetingsHandler returns meetings, optionally for one case
func ListMeetingsHandler(c echo.Context) error {
	filters, err := caseChildFilters(c)
	if err != nil {
		return respondError(c, err)
	}
	meetings, err := services.ListMeetings(db.DB, filters)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, meetings)
}

// GetMeetingHandler returns a single meeting
func GetMeetingHandler(c echo.Context) error {
	id, err := pathID(c, "meeting")
	if err != nil {
		return respondError(c, err)
	}
	meeting, err := services.GetMeeting(db.DB, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, meeting)
}

// CreateMeetingHandler records a meeting against a case
func CreateMeetingHandler(c echo.Context) error {
	var meeting models.Meeting
	if err := bindBody(c, &meeting); err != nil {
		return respondError(c, err)
	}
	meeting.ID = 0
	meeting.CaseUpdateID = nil

	if err := services.CreateMeeting(db.DB, &meeting, middleware.CurrentUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, meeting)
}

// UpdateMeetingHandler applies a full or partial update to a meeting
func UpdateMeetingHandler(c echo.Context) error {
	id, err := pathID(c, "meeting")
	if err != nil {
		return respondError(c, err)
	}
	meeting, err := services.GetMeeting(db.DB, id)
	if err != nil {
		return respondError(c, err)
	}
	if err := bindBody(c, meeting); err != nil {
		return respondError(c, err)
	}
	meeting.ID = id

	if err := services.UpdateMeeting(db.DB, meeting, middleware.CurrentUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, meeting)
}

// DeleteMeetingHandler deletes a meeting
func DeleteMeetingHandler(c echo.Context) error {
	id, err := pathID(c, "meeting")
	if err != nil {
		return respondError(c, err)
	}
	if err := services.DeleteMeeting(db.DB, id, middleware.CurrentUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

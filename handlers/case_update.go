package handlers

import (
	"net/http"

	"legal_aid_app_go/db"
	"legal_aid_app_go/middleware"
	"legal_aid_app_go/models"
	"legal_aid_app_go/services"

	"github.com/labstack/echo/v4"
)

// ListCaseUpdatesHandler returns case activity, optionally for one case
func ListCaseUpdatesHandler(c echo.Context) error {
	filters, err := caseChildFilters(c)
	if err != nil {
		return respondError(c, err)
	}
	updates, err := services.ListCaseUpdates(db.DB, filters)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, updates)
}

// GetCaseUpdateHandler returns a single update with its meeting, note or files
func GetCaseUpdateHandler(c echo.Context) error {
	id, err := pathID(c, "case update")
	if err != nil {
		return respondError(c, err)
	}
	update, err := services.GetCaseUpdate(db.DB, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, update)
}

// CreateCaseUpdateHandler records case activity with a nested meeting, note or file ids
func CreateCaseUpdateHandler(c echo.Context) error {
	var update models.CaseUpdate
	if err := bindBody(c, &update); err != nil {
		return respondError(c, err)
	}
	update.ID = 0

	if err := services.CreateCaseUpdate(db.DB, &update, middleware.CurrentUserID(c)); err != nil {
		return respondError(c, err)
	}

	created, err := services.GetCaseUpdate(db.DB, update.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

// DeleteCaseUpdateHandler deletes an update with its meeting or note
func DeleteCaseUpdateHandler(c echo.Context) error {
	id, err := pathID(c, "case update")
	if err != nil {
		return respondError(c, err)
	}
	if err := services.DeleteCaseUpdate(db.DB, id, middleware.CurrentUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

package handlers

import (
	"net/http"

	"legal_aid_app_go/db"
	"legal_aid_app_go/middleware"
	"legal_aid_app_go/models"
	"legal_aid_app_go/services"

	"github.com/labstack/echo/v4"
)

// ListLegalCasesHandler returns cases, optionally filtered by client
func ListLegalCasesHandler(c echo.Context) error {
	clientID, err := queryID(c, "client")
	if err != nil {
		return respondError(c, err)
	}

	cases, err := services.ListLegalCases(db.DB, services.LegalCaseFilters{ClientID: clientID})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, cases)
}

// GetLegalCaseHandler returns a single case
func GetLegalCaseHandler(c echo.Context) error {
	id, err := pathID(c, "legal case")
	if err != nil {
		return respondError(c, err)
	}
	lc, err := services.GetLegalCase(db.DB, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, lc)
}

// CreateLegalCaseHandler opens a case. The case number is assigned by the server.
func CreateLegalCaseHandler(c echo.Context) error {
	var lc models.LegalCase
	if err := bindBody(c, &lc); err != nil {
		return respondError(c, err)
	}
	lc.ID = 0
	lc.CaseNumber = ""

	if err := services.CreateLegalCase(db.DB, &lc, middleware.CurrentUserID(c)); err != nil {
		return respondError(c, err)
	}

	created, err := services.GetLegalCase(db.DB, lc.ID)
	if err != nil {
		return respondError(c, err)
	}
	services.NotifyCaseAssignment(db.DB, getConfig(c), created, created.UserIDs)
	return c.JSON(http.StatusCreated, created)
}

// UpdateLegalCaseHandler applies a full or partial update to a case
func UpdateLegalCaseHandler(c echo.Context) error {
	id, err := pathID(c, "legal case")
	if err != nil {
		return respondError(c, err)
	}
	lc, err := services.GetLegalCase(db.DB, id)
	if err != nil {
		return respondError(c, err)
	}
	if err := bindBody(c, lc); err != nil {
		return respondError(c, err)
	}
	lc.ID = id

	assigned, err := services.UpdateLegalCase(db.DB, lc, middleware.CurrentUserID(c))
	if err != nil {
		return respondError(c, err)
	}

	updated, err := services.GetLegalCase(db.DB, id)
	if err != nil {
		return respondError(c, err)
	}
	services.NotifyCaseAssignment(db.DB, getConfig(c), updated, assigned)
	return c.JSON(http.StatusOK, updated)
}

// DeleteLegalCaseHandler deletes a case and everything recorded against it
func DeleteLegalCaseHandler(c echo.Context) error {
	id, err := pathID(c, "legal case")
	if err != nil {
		return respondError(c, err)
	}
	if err := services.DeleteLegalCase(db.DB, id, middleware.CurrentUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

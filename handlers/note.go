package handlers

import (
	"net/http"

	"legal_aid_app_go/db"
	"legal_aid_app_go/middleware"
	"legal_aid_app_go/models"
	"legal_aid_app_go/services"

	"github.com/labstack/echo/v4"
)

// ListNotesHandler returns notes, optionally for one case
func ListNotesHandler(c echo.Context) error {
	filters, err := caseChildFilters(c)
	if err != nil {
		return respondError(c, err)
	}
	notes, err := services.ListNotes(db.DB, filters)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, notes)
}

// GetNoteHandler returns a single note
func GetNoteHandler(c echo.Context) error {
	id, err := pathID(c, "note")
	if err != nil {
		return respondError(c, err)
	}
	note, err := services.GetNote(db.DB, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, note)
}

// CreateNoteHandler records a note against a case
func CreateNoteHandler(c echo.Context) error {
	var note models.Note
	if err := bindBody(c, &note); err != nil {
		return respondError(c, err)
	}
	note.ID = 0
	note.CaseUpdateID = nil

	if err := services.CreateNote(db.DB, &note, middleware.CurrentUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, note)
}

// UpdateNoteHandler applies a full or partial update to a note
func UpdateNoteHandler(c echo.Context) error {
	id, err := pathID(c, "note")
	if err != nil {
		return respondError(c, err)
	}
	note, err := services.GetNote(db.DB, id)
	if err != nil {
		return respondError(c, err)
	}
	if err := bindBody(c, note); err != nil {
		return respondError(c, err)
	}
	note.ID = id

	if err := services.UpdateNote(db.DB, note, middleware.CurrentUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, note)
}

// DeleteNoteHandler deletes a note
func DeleteNoteHandler(c echo.Context) error {
	id, err := pathID(c, "note")
	if err != nil {
		return respondError(c, err)
	}
	if err := services.DeleteNote(db.DB, id, middleware.CurrentUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

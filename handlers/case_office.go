package handlers

import (
	"net/http"

	"legal_aid_app_go/db"
	"legal_aid_app_go/middleware"
	"legal_aid_app_go/models"
	"legal_aid_app_go/services"

	"github.com/labstack/echo/v4"
)

// ListCaseOfficesHandler returns all case offices
func ListCaseOfficesHandler(c echo.Context) error {
	offices, err := services.ListCaseOffices(db.DB)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, offices)
}

// GetCaseOfficeHandler returns a single case office
func GetCaseOfficeHandler(c echo.Context) error {
	id, err := pathID(c, "case office")
	if err != nil {
		return respondError(c, err)
	}
	office, err := services.GetCaseOffice(db.DB, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, office)
}

// CreateCaseOfficeHandler creates a case office
func CreateCaseOfficeHandler(c echo.Context) error {
	var office models.CaseOffice
	if err := bindBody(c, &office); err != nil {
		return respondError(c, err)
	}
	office.ID = 0

	if err := services.CreateCaseOffice(db.DB, &office, middleware.CurrentUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, office)
}

// UpdateCaseOfficeHandler applies a full or partial update to a case office
func UpdateCaseOfficeHandler(c echo.Context) error {
	id, err := pathID(c, "case office")
	if err != nil {
		return respondError(c, err)
	}
	office, err := services.GetCaseOffice(db.DB, id)
	if err != nil {
		return respondError(c, err)
	}
	if err := bindBody(c, office); err != nil {
		return respondError(c, err)
	}
	office.ID = id

	if err := services.UpdateCaseOffice(db.DB, office, middleware.CurrentUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, office)
}

// DeleteCaseOfficeHandler deletes a case office that no case uses
func DeleteCaseOfficeHandler(c echo.Context) error {
	id, err := pathID(c, "case office")
	if err != nil {
		return respondError(c, err)
	}
	if err := services.DeleteCaseOffice(db.DB, id, middleware.CurrentUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListCaseTypesHandler returns all case types
func ListCaseTypesHandler(c echo.Context) error {
	types, err := services.ListCaseTypes(db.DB)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, types)
}

// GetCaseTypeHandler returns a single case type
func GetCaseTypeHandler(c echo.Context) error {
	id, err := pathID(c, "case type")
	if err != nil {
		return respondError(c, err)
	}
	caseType, err := services.GetCaseType(db.DB, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, caseType)
}

// CreateCaseTypeHandler creates a case type
func CreateCaseTypeHandler(c echo.Context) error {
	var caseType models.CaseType
	if err := bindBody(c, &caseType); err != nil {
		return respondError(c, err)
	}
	caseType.ID = 0

	if err := services.CreateCaseType(db.DB, &caseType, middleware.CurrentUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, caseType)
}

// UpdateCaseTypeHandler applies a full or partial update to a case type
func UpdateCaseTypeHandler(c echo.Context) error {
	id, err := pathID(c, "case type")
	if err != nil {
		return respondError(c, err)
	}
	caseType, err := services.GetCaseType(db.DB, id)
	if err != nil {
		return respondError(c, err)
	}
	if err := bindBody(c, caseType); err != nil {
		return respondError(c, err)
	}
	caseType.ID = id

	if err := services.UpdateCaseType(db.DB, caseType, middleware.CurrentUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, caseType)
}

// DeleteCaseTypeHandler deletes a case type and detaches it from cases
func DeleteCaseTypeHandler(c echo.Context) error {
	id, err := pathID(c, "case type")
	if err != nil {
		return respondError(c, err)
	}
	if err := services.DeleteCaseType(db.DB, id, middleware.CurrentUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

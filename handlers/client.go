package handlers

import (
	"net/http"

	"legal_aid_app_go/db"
	"legal_aid_app_go/middleware"
	"legal_aid_app_go/models"
	"legal_aid_app_go/services"

	"github.com/labstack/echo/v4"
)

// ListClientsHandler returns clients, optionally only those with cases in a case office
func ListClientsHandler(c echo.Context) error {
	officeID, err := queryID(c, "caseOffice")
	if err != nil {
		return respondError(c, err)
	}

	clients, err := services.ListClients(db.DB, services.ClientFilters{CaseOfficeID: officeID})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, clients)
}

// GetClientHandler returns a single client
func GetClientHandler(c echo.Context) error {
	id, err := pathID(c, "client")
	if err != nil {
		return respondError(c, err)
	}
	client, err := services.GetClient(db.DB, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, client)
}

// CreateClientHandler creates a client
func CreateClientHandler(c echo.Context) error {
	var client models.Client
	if err := bindBody(c, &client); err != nil {
		return respondError(c, err)
	}
	client.ID = 0

	if err := services.CreateClient(db.DB, &client, middleware.CurrentUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, client)
}

// UpdateClientHandler applies a full or partial update to a client
func UpdateClientHandler(c echo.Context) error {
	id, err := pathID(c, "client")
	if err != nil {
		return respondError(c, err)
	}
	client, err := services.GetClient(db.DB, id)
	if err != nil {
		return respondError(c, err)
	}
	if err := bindBody(c, client); err != nil {
		return respondError(c, err)
	}
	client.ID = id

	if err := services.UpdateClient(db.DB, client, middleware.CurrentUserID(c)); err != nil {
		return respondError(c, err)
	}

	updated, err := services.GetClient(db.DB, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, updated)
}

// DeleteClientHandler deletes a client without cases
func DeleteClientHandler(c echo.Context) error {
	id, err := pathID(c, "client")
	if err != nil {
		return respondError(c, err)
	}
	if err := services.DeleteClient(db.DB, id, middleware.CurrentUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

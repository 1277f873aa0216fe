package handlers

import (
	"net/http"

	"legal_aid_app_go/db"
	"legal_aid_app_go/middleware"
	"legal_aid_app_go/services"

	"github.com/labstack/echo/v4"
)

// GetUserHandler returns a single user
func GetUserHandler(c echo.Context) error {
	id, err := pathID(c, "user")
	if err != nil {
		return respondError(c, err)
	}
	user, err := services.GetUser(db.DB, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateUserHandler updates the profile fields of a user
func UpdateUserHandler(c echo.Context) error {
	id, err := pathID(c, "user")
	if err != nil {
		return respondError(c, err)
	}
	user, err := services.GetUser(db.DB, id)
	if err != nil {
		return respondError(c, err)
	}
	if err := bindBody(c, user); err != nil {
		return respondError(c, err)
	}
	user.ID = id

	if err := services.UpdateUser(db.DB, user, middleware.CurrentUserID(c)); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// CurrentUserHandler returns the authenticated user
func CurrentUserHandler(c echo.Context) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Authentication credentials were not provided."})
	}
	return c.JSON(http.StatusOK, user)
}

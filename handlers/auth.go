package handlers

import (
	"errors"
	"net/http"
	"time"

	"legal_aid_app_go/db"
	"legal_aid_app_go/services"

	"github.com/labstack/echo/v4"
)

type tokenRequest struct {
	Username string `json:"username" form:"username"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// ObtainTokenHandler exchanges an email and password for the user's API token
func ObtainTokenHandler(c echo.Context) error {
	var req tokenRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	email := req.Email
	if email == "" {
		email = req.Username
	}

	verr := services.NewValidationError()
	if email == "" {
		verr.Add("username", "This field is required")
	}
	if req.Password == "" {
		verr.Add("password", "This field is required")
	}
	if err := verr.OrNil(); err != nil {
		return respondError(c, err)
	}

	user, err := services.Authenticate(db.DB, email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			services.Monitor.TrackFailedLogin(c.RealIP(), time.Now())
			return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
		}
		return respondError(c, err)
	}

	token, err := services.GetOrCreateToken(db.DB, user.ID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"token":   token.Key,
		"user_id": user.ID,
	})
}

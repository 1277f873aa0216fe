package middleware

import (
	"net/http"
	"strings"

	"legal_aid_app_go/db"
	"legal_aid_app_go/models"
	"legal_aid_app_go/services"

	"github.com/labstack/echo/v4"
)

const (
	// ContextKeyUser is the context key for the authenticated user
	ContextKeyUser = "user"
)

// tokenFromHeader accepts "Token <key>" and "Bearer <key>"
func tokenFromHeader(header string) string {
	scheme, key, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok {
		return ""
	}
	switch strings.ToLower(scheme) {
	case "token", "bearer":
		return strings.TrimSpace(key)
	}
	return ""
}

// RequireToken is middleware that authenticates API requests by token
func RequireToken() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := tokenFromHeader(c.Request().Header.Get(echo.HeaderAuthorization))
			if key == "" {
				c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Token")
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Authentication credentials were not provided."})
			}

			user, err := services.UserForToken(db.DB, key)
			if err != nil {
				c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Token")
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid token."})
			}

			c.Set(ContextKeyUser, user)
			return next(c)
		}
	}
}

// GetCurrentUser retrieves the current user from context
func GetCurrentUser(c echo.Context) *models.User {
	user, ok := c.Get(ContextKeyUser).(*models.User)
	if !ok {
		return nil
	}
	return user
}

// CurrentUserID returns the id of the authenticated user, or nil for anonymous requests
func CurrentUserID(c echo.Context) *uint {
	user := GetCurrentUser(c)
	if user == nil {
		return nil
	}
	id := user.ID
	return &id
}

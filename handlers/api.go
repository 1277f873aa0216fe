package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"legal_aid_app_go/config"
	"legal_aid_app_go/models"
	"legal_aid_app_go/services"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// respondError writes the JSON error response for a service error
func respondError(c echo.Context, err error) error {
	var verr *services.ValidationError
	var perr *services.MalformedParamError
	var herr *echo.HTTPError

	switch {
	case errors.As(err, &verr):
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":  "Validation failed",
			"fields": verr.Fields,
		})
	case errors.As(err, &perr):
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": perr.Message,
			"param": perr.Param,
		})
	case errors.Is(err, services.ErrNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, services.ErrConflict):
		return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, services.ErrImmutable), errors.Is(err, models.ErrAuditRecordImmutable):
		return c.JSON(http.StatusMethodNotAllowed, map[string]string{"error": err.Error()})
	case errors.As(err, &herr):
		return herr
	}

	log.Error().Err(err).Str("method", c.Request().Method).Str("path", c.Path()).Msg("Request failed")
	return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
}

// pathID parses the :id route parameter. Ids that cannot exist are reported as not found.
func pathID(c echo.Context, resource string) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, &services.NotFoundError{Resource: resource}
	}
	return uint(id), nil
}

// queryID parses an optional numeric query parameter. Zero means absent.
func queryID(c echo.Context, name string) (uint, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, &services.MalformedParamError{
			Param:   name,
			Message: name + " query param must be a positive integer",
		}
	}
	return uint(id), nil
}

// bindBody decodes the request body onto v
func bindBody(c echo.Context, v interface{}) error {
	if err := (&echo.DefaultBinder{}).BindBody(c, v); err != nil {
		return &services.MalformedParamError{Param: "body", Message: "Invalid request body"}
	}
	return nil
}

// getConfig returns the config set on the context by the server
func getConfig(c echo.Context) *config.Config {
	cfg, _ := c.Get("config").(*config.Config)
	return cfg
}

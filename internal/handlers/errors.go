package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/opencircle-app/opencircle/backend/internal/interactions"
	"github.com/opencircle-app/opencircle/backend/internal/repositories"
)

// httpError maps core errors onto HTTP responses. Malformed ids get the same
// outcome as a miss, the message keeps naming which entity was missing, and a
// partial write is reported as an uncertain outcome so the client re-queries
// instead of trusting the response.
func httpError(err error, entity string) error {
	var notFound *interactions.NotFoundError
	var malformed *interactions.MalformedIDError
	var partial *interactions.PartialWriteError

	switch {
	case errors.As(err, &notFound):
		return echo.NewHTTPError(http.StatusNotFound, notFound.Entity+" not found")
	case errors.As(err, &malformed):
		return echo.NewHTTPError(http.StatusNotFound, malformed.Entity+" not found")
	case errors.Is(err, repositories.ErrNotFound), errors.Is(err, repositories.ErrMalformedID):
		return echo.NewHTTPError(http.StatusNotFound, entity+" not found")
	case errors.As(err, &partial):
		return echo.NewHTTPError(http.StatusInternalServerError, "operation outcome uncertain, re-query before trusting the result")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}

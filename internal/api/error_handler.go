package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/inkpad/inkpad-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (router 404/405, middleware rejections, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code >= http.StatusInternalServerError {
			log.Error().Err(err).Str("path", c.Path()).Msg("echo error")
		}
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, ve.Message
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusBadRequest, "A user with that username already exists."
	case errors.Is(err, domain.ErrEmailExists):
		return http.StatusBadRequest, "A user with that email already exists."
	case errors.Is(err, domain.ErrInvalidToken):
		return http.StatusBadRequest, "Invalid or expired token"
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, "Authentication credentials were not provided."
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "No active account found with the given credentials"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "You do not have permission to perform this action."
	case errors.Is(err, domain.ErrPostNotFound),
		errors.Is(err, domain.ErrTodoNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "Not found."
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}

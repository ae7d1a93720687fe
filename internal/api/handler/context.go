package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/inkpad/inkpad-api/internal/api/middleware"
	"github.com/inkpad/inkpad-api/internal/core/domain"
)

// caller returns the identity the auth middleware attached to the request.
func caller(c echo.Context) domain.Identity {
	return middleware.IdentityFrom(c)
}

// pathID parses the :id route parameter. Anything that is not a positive
// integer cannot name a row, so it is reported as not found.
func pathID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusNotFound, "Not found.")
	}
	return uint(id), nil
}

// bind decodes the body into req and runs the registered validator.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domain.NewValidationError("invalid payload")
	}
	return c.Validate(req)
}

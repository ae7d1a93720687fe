package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/inkpad/inkpad-api/internal/core/domain"
	"github.com/inkpad/inkpad-api/internal/core/ports"
)

const identityKey = "inkpad.identity"

// Authenticate validates a bearer access token and stores the caller's
// identity in the context. Without an Authorization header the request
// continues as anonymous unless required is set. A header that is present but
// malformed or invalid is always rejected.
func Authenticate(tokens ports.TokenIssuer, required bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				if required {
					return unauthorized(c, "Authentication credentials were not provided.")
				}
				SetIdentity(c, domain.Anonymous)
				return next(c)
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				return unauthorized(c, "invalid authorization header")
			}

			id, err := tokens.Verify(strings.TrimSpace(parts[1]))
			if err != nil {
				return unauthorized(c, "Given token not valid for any token type")
			}

			SetIdentity(c, id)
			return next(c)
		}
	}
}

func unauthorized(c echo.Context, msg string) error {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, `Bearer realm="api"`)
	return echo.NewHTTPError(http.StatusUnauthorized, msg)
}

func SetIdentity(c echo.Context, id domain.Identity) {
	c.Set(identityKey, id)
}

// IdentityFrom returns the identity stored by Authenticate, or the anonymous
// identity when none was stored.
func IdentityFrom(c echo.Context) domain.Identity {
	if id, ok := c.Get(identityKey).(domain.Identity); ok {
		return id
	}
	return domain.Anonymous
}

package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"net/http" // HTTP status codes for responses
	"strings"  // string utilities for prefix checking and trimming

	"github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

	"github.com/iliyamo/garage-bay-booking/internal/session"
)

// contextKeyAdmin is the echo context key under which AdminSession
// stores the boolean admin capability.
const contextKeyAdmin = "is_admin"

// AdminSession returns an Echo middleware that validates a Bearer
// session token against the injected session authority and rejects the
// request when no live admin session backs it.  Handlers behind this
// middleware can rely on IsAdmin(c) being true; they never talk to the
// authority themselves, the capability is the only thing that crosses
// the boundary.
func AdminSession(sessions *session.Authority) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := BearerToken(c)
			if token == "" || !sessions.Validate(token) {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
			}
			c.Set(contextKeyAdmin, true)
			return next(c)
		}
	}
}

// IsAdmin reports whether AdminSession marked the request as carrying
// a live admin session.
func IsAdmin(c echo.Context) bool {
	v, _ := c.Get(contextKeyAdmin).(bool)
	return v
}

// BearerToken extracts the raw token from an "Authorization: Bearer"
// header, returning "" when the header is absent or malformed.
func BearerToken(c echo.Context) string {
	auth := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
}

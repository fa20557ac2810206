package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/garage-bay-booking/internal/middleware"
	"github.com/iliyamo/garage-bay-booking/internal/repository"
	"github.com/iliyamo/garage-bay-booking/internal/service/admin"
)

// AdminAuthHandler exposes the admin session endpoints.  The POST
// endpoint doubles as bootstrap: while the system is uninitialized the
// submitted password becomes the admin credential, afterwards it is
// checked against the stored hash.  Either path yields a session
// token.
type AdminAuthHandler struct {
	Admins *admin.Service
}

// NewAdminAuthHandler constructs an AdminAuthHandler.  The service must
// be non-nil.
func NewAdminAuthHandler(svc *admin.Service) *AdminAuthHandler {
	if svc == nil {
		panic("nil service passed to NewAdminAuthHandler")
	}
	return &AdminAuthHandler{Admins: svc}
}

type adminSessionRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Open handles POST /v1/admin/session.  The first ever call with a
// password bootstraps the admin identity; every later call is a login.
// Concurrent first calls are safe: exactly one bootstrap wins and the
// losers fall through to a normal login against the winner's
// credential.
func (h *AdminAuthHandler) Open(c echo.Context) error {
	var body adminSessionRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}

	ctx := c.Request().Context()
	initialized, err := h.Admins.Initialized(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	if !initialized {
		tok, err := h.Admins.Bootstrap(ctx, body.Email, body.Password)
		if err == nil {
			return c.JSON(http.StatusCreated, echo.Map{
				"token":      tok.Token,
				"expires_at": tok.Exp,
			})
		}
		switch {
		case errors.Is(err, admin.ErrBootstrapPayloadMissing):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "password is required"})
		case errors.Is(err, repository.ErrAlreadyInitialized):
			// lost the bootstrap race; fall through to login below
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
	}

	tok, err := h.Admins.Login(ctx, body.Password)
	if err != nil {
		switch {
		case errors.Is(err, admin.ErrInvalidCredential):
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		case errors.Is(err, repository.ErrNotInitialized):
			return c.JSON(http.StatusConflict, echo.Map{"error": "admin not initialized"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"token":      tok.Token,
		"expires_at": tok.Exp,
	})
}

// Status handles GET /v1/admin/session.  It reports whether the system
// has been bootstrapped and whether the caller's token (if any) names
// a live session.  It never requires authentication, so setup UIs can
// probe it first.
func (h *AdminAuthHandler) Status(c echo.Context) error {
	initialized, err := h.Admins.Initialized(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	authed := false
	if raw := middleware.BearerToken(c); raw != "" {
		authed = h.Admins.Validate(raw)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"initialized": initialized,
		"admin":       authed,
	})
}

// Close handles DELETE /v1/admin/session.  Revoking an unknown or
// already-revoked token is a no-op; the response is 204 either way.
func (h *AdminAuthHandler) Close(c echo.Context) error {
	if raw := middleware.BearerToken(c); raw != "" {
		h.Admins.Logout(raw)
	}
	return c.NoContent(http.StatusNoContent)
}

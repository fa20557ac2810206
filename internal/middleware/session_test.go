package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/garage-bay-booking/internal/session"
)

func protectedEcho(auth *session.Authority) *echo.Echo {
	e := echo.New()
	g := e.Group("/v1/admin")
	g.Use(AdminSession(auth))
	g.GET("/ping", func(c echo.Context) error {
		if !IsAdmin(c) {
			return c.NoContent(http.StatusForbidden)
		}
		return c.String(http.StatusOK, "pong")
	})
	return e
}

func TestAdminSessionRejectsMissingToken(t *testing.T) {
	auth := session.NewAuthority("test-secret", time.Minute)
	e := protectedEcho(auth)

	req := httptest.NewRequest(http.MethodGet, "/v1/admin/ping", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminSessionRejectsGarbageToken(t *testing.T) {
	auth := session.NewAuthority("test-secret", time.Minute)
	e := protectedEcho(auth)

	req := httptest.NewRequest(http.MethodGet, "/v1/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer not-a-real-token")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminSessionAcceptsLiveSession(t *testing.T) {
	auth := session.NewAuthority("test-secret", time.Minute)
	e := protectedEcho(auth)

	tok, err := auth.Grant()
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/v1/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())
}

func TestAdminSessionRejectsRevokedSession(t *testing.T) {
	auth := session.NewAuthority("test-secret", time.Minute)
	e := protectedEcho(auth)

	tok, err := auth.Grant()
	require.NoError(t, err)
	auth.Revoke(tok.Token)

	req := httptest.NewRequest(http.MethodGet, "/v1/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBearerToken(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer abc123")
	c := e.NewContext(req, httptest.NewRecorder())
	assert.Equal(t, "abc123", BearerToken(c))

	req2 := httptest.NewRequest(http.MethodGet, "/", nil)
	req2.Header.Set("Authorization", "Basic abc123")
	c2 := e.NewContext(req2, httptest.NewRecorder())
	assert.Equal(t, "", BearerToken(c2))

	req3 := httptest.NewRequest(http.MethodGet, "/", nil)
	c3 := e.NewContext(req3, httptest.NewRecorder())
	assert.Equal(t, "", BearerToken(c3))
}

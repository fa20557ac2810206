package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/garage-bay-booking/internal/model"
	"github.com/iliyamo/garage-bay-booking/internal/repository"
	"github.com/iliyamo/garage-bay-booking/internal/service/admin"
	"github.com/iliyamo/garage-bay-booking/internal/session"
)

// fakeIdentityStore mirrors the fixed-primary-key behavior of the real
// admin table: the first Create wins, every later one reports
// ErrAlreadyInitialized.
type fakeIdentityStore struct {
	mu    sync.Mutex
	ident *model.AdminIdentity
}

func (f *fakeIdentityStore) Get(ctx context.Context) (*model.AdminIdentity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ident == nil {
		return nil, repository.ErrNotInitialized
	}
	cp := *f.ident
	return &cp, nil
}

func (f *fakeIdentityStore) Create(ctx context.Context, email, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ident != nil {
		return repository.ErrAlreadyInitialized
	}
	f.ident = &model.AdminIdentity{Email: email, PasswordHash: passwordHash, CreatedAt: time.Now()}
	return nil
}

func newAdminAuthEnv() *echo.Echo {
	auth := session.NewAuthority("test-secret", time.Minute)
	svc := admin.NewService(&fakeIdentityStore{}, auth, 4)
	h := NewAdminAuthHandler(svc)

	e := echo.New()
	e.POST("/v1/admin/session", h.Open)
	e.GET("/v1/admin/session", h.Status)
	e.DELETE("/v1/admin/session", h.Close)
	return e
}

func postSession(e *echo.Echo, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/admin/session", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAdminSessionBootstrapThenLogin(t *testing.T) {
	e := newAdminAuthEnv()

	// First call bootstraps and returns 201 with a token.
	rec := postSession(e, `{"email":"admin@example.com","password":"hunter22"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created.Token)

	// Second call with the same password is a login, 200.
	rec2 := postSession(e, `{"password":"hunter22"}`)
	require.Equal(t, http.StatusOK, rec2.Code)

	// Wrong password is rejected.
	rec3 := postSession(e, `{"password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec3.Code)
}

func TestAdminSessionBootstrapRequiresPassword(t *testing.T) {
	e := newAdminAuthEnv()
	rec := postSession(e, `{"email":"admin@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAdminSessionStatusReflectsLifecycle(t *testing.T) {
	e := newAdminAuthEnv()

	status := func(token string) (int, map[string]any) {
		req := httptest.NewRequest(http.MethodGet, "/v1/admin/session", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		var body map[string]any
		_ = json.Unmarshal(rec.Body.Bytes(), &body)
		return rec.Code, body
	}

	code, body := status("")
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, false, body["initialized"])
	assert.Equal(t, false, body["admin"])

	rec := postSession(e, `{"password":"hunter22"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	code, body = status(created.Token)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["initialized"])
	assert.Equal(t, true, body["admin"])

	// Logout revokes the session immediately.
	del := httptest.NewRequest(http.MethodDelete, "/v1/admin/session", nil)
	del.Header.Set("Authorization", "Bearer "+created.Token)
	delRec := httptest.NewRecorder()
	e.ServeHTTP(delRec, del)
	require.Equal(t, http.StatusNoContent, delRec.Code)

	code, body = status(created.Token)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["initialized"])
	assert.Equal(t, false, body["admin"])
}

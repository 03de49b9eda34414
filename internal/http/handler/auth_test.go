package handler

import (
	"net/http"
	"testing"

	"erp-portal/internal/audit"
	"erp-portal/internal/auth"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetTokenSetsCookies(t *testing.T) {
	recorder := &fakeAudit{}
	h := NewAuthHandler(true, recorder)
	c, rec := newContext(http.MethodPost, "/api/auth/token", jsonBody(`{"access_token":"a1","refresh_token":"r1"}`), nil)

	require.NoError(t, h.SetToken(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	access := findCookie(rec, auth.AccessTokenCookie)
	require.NotNil(t, access)
	assert.Equal(t, "a1", access.Value)
	assert.True(t, access.HttpOnly)
	assert.True(t, access.Secure)
	assert.Equal(t, http.SameSiteStrictMode, access.SameSite)
	assert.Equal(t, 2592000, access.MaxAge)
	assert.Equal(t, "/", access.Path)

	refresh := findCookie(rec, auth.RefreshTokenCookie)
	require.NotNil(t, refresh)
	assert.Equal(t, "r1", refresh.Value)

	assert.Equal(t, []recordedEvent{{audit.ActionLogin, audit.StatusSuccess}}, recorder.recorded())
}

func TestSetTokenWithoutRefreshToken(t *testing.T) {
	h := NewAuthHandler(false, nil)
	c, rec := newContext(http.MethodPost, "/api/auth/token", jsonBody(`{"access_token":"a1"}`), nil)

	require.NoError(t, h.SetToken(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotNil(t, findCookie(rec, auth.AccessTokenCookie))
	assert.Nil(t, findCookie(rec, auth.RefreshTokenCookie))
}

func TestSetTokenRequiresAccessToken(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"missing", `{"refresh_token":"r1"}`},
		{"empty", `{"access_token":"","refresh_token":"r1"}`},
		{"blank", `{"access_token":"   "}`},
		{"no body", ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := &fakeAudit{}
			h := NewAuthHandler(true, recorder)
			c, rec := newContext(http.MethodPost, "/api/auth/token", jsonBody(tt.body), nil)

			require.NoError(t, h.SetToken(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.JSONEq(t, `{"error":"Access token required"}`, rec.Body.String())
			assert.Empty(t, rec.Result().Cookies())
			assert.Equal(t, []recordedEvent{{audit.ActionLogin, audit.StatusFailure}}, recorder.recorded())
		})
	}
}

func TestSetTokenRejectsMalformedJSON(t *testing.T) {
	h := NewAuthHandler(true, nil)
	c, rec := newContext(http.MethodPost, "/api/auth/token", jsonBody(`{"access_token":`), nil)

	require.NoError(t, h.SetToken(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, rec.Result().Cookies())
}

func TestSetTokenRequiresJSONContentType(t *testing.T) {
	for _, contentType := range []string{"text/plain", "application/x-www-form-urlencoded", ""} {
		t.Run(contentType, func(t *testing.T) {
			recorder := &fakeAudit{}
			h := NewAuthHandler(true, recorder)
			c, rec := newContext(http.MethodPost, "/api/auth/token", jsonBody(`{"access_token":"attacker"}`), nil)
			c.Request().Header.Set(echo.HeaderContentType, contentType)

			require.NoError(t, h.SetToken(c))
			assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
			assert.Nil(t, findCookie(rec, auth.AccessTokenCookie))
			assert.Empty(t, recorder.recorded())
		})
	}
}

func TestStatus(t *testing.T) {
	h := NewAuthHandler(true, nil)

	c, rec := newContext(http.MethodGet, "/api/auth/status", nil, nil)
	require.NoError(t, h.Status(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"authenticated":false}`, rec.Body.String())

	c, rec = newContext(http.MethodGet, "/api/auth/status", nil, nil)
	c.Request().AddCookie(&http.Cookie{Name: auth.AccessTokenCookie, Value: "a1"})
	require.NoError(t, h.Status(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"authenticated":true,"token":"a1"}`, rec.Body.String())
}

func TestStatusIgnoresBearerHeader(t *testing.T) {
	h := NewAuthHandler(true, nil)
	c, rec := newContext(http.MethodGet, "/api/auth/status", nil, nil)
	c.Request().Header.Set(echo.HeaderAuthorization, "Bearer a1")

	require.NoError(t, h.Status(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogoutClearsCookies(t *testing.T) {
	recorder := &fakeAudit{}
	h := NewAuthHandler(true, recorder)
	c, rec := newContext(http.MethodPost, "/api/auth/logout", nil, sessionFor("Accountant"))

	require.NoError(t, h.Logout(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	for _, name := range []string{auth.AccessTokenCookie, auth.RefreshTokenCookie} {
		cookie := findCookie(rec, name)
		require.NotNil(t, cookie, name)
		assert.Empty(t, cookie.Value)
		assert.Less(t, cookie.MaxAge, 0)
	}
	assert.Equal(t, []recordedEvent{{audit.ActionLogout, audit.StatusSuccess}}, recorder.recorded())
}

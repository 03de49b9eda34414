package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestCSRF(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		headers  map[string]string
		expected int
	}{
		{"safe method passes", http.MethodGet, map[string]string{headerOrigin: "https://evil.test"}, http.StatusOK},
		{"same host origin", http.MethodPost, map[string]string{headerOrigin: "https://example.com"}, http.StatusOK},
		{"trusted origin", http.MethodPost, map[string]string{headerOrigin: "https://Admin.Portal.test"}, http.StatusOK},
		{"foreign origin", http.MethodPost, map[string]string{headerOrigin: "https://evil.test"}, http.StatusForbidden},
		{"null origin", http.MethodPost, map[string]string{headerOrigin: "null"}, http.StatusForbidden},
		{"foreign referer", http.MethodDelete, map[string]string{headerReferer: "https://evil.test/page"}, http.StatusForbidden},
		{"same host referer", http.MethodPatch, map[string]string{headerReferer: "http://example.com/purchase"}, http.StatusOK},
		{"no origin from non-browser client", http.MethodPost, nil, http.StatusOK},
		{"no origin but marked cross-site", http.MethodPost, map[string]string{headerSecFetchSite: secFetchCrossSite}, http.StatusForbidden},
	}

	mw := CSRF([]string{"https://admin.portal.test/", "not a url"})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			req := httptest.NewRequest(tt.method, "/api/auth/token", strings.NewReader(`{"access_token":"attacker"}`))
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			called := false
			err := mw(func(c echo.Context) error {
				called = true
				return c.NoContent(http.StatusOK)
			})(c)

			assert.NoError(t, err)
			assert.Equal(t, tt.expected, rec.Code)
			assert.Equal(t, tt.expected == http.StatusOK, called)
			if tt.expected == http.StatusForbidden {
				assert.JSONEq(t, `{"error":"cross-site request blocked"}`, rec.Body.String())
			}
		})
	}
}

func TestNormalizeOrigin(t *testing.T) {
	assert.Equal(t, "https://portal.test", normalizeOrigin(" HTTPS://Portal.test/login "))
	assert.Equal(t, "", normalizeOrigin("null"))
	assert.Equal(t, "", normalizeOrigin("ftp://portal.test"))
}

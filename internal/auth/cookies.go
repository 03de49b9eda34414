package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

// SetTokenCookies stores the access token, and the refresh token when
// present, as HttpOnly SameSite=Strict cookies valid for 30 days
func SetTokenCookies(c echo.Context, access, refresh string, secure bool) {
	c.SetCookie(tokenCookie(AccessTokenCookie, access, CookieMaxAge, secure))
	if refresh != "" {
		c.SetCookie(tokenCookie(RefreshTokenCookie, refresh, CookieMaxAge, secure))
	}
}

// ClearTokenCookies expires both token cookies
func ClearTokenCookies(c echo.Context, secure bool) {
	for _, name := range []string{AccessTokenCookie, RefreshTokenCookie} {
		cookie := tokenCookie(name, "", -1, secure)
		cookie.Expires = time.Unix(0, 0)
		c.SetCookie(cookie)
	}
}

// CookieValue returns the named cookie's value, empty when absent
func CookieValue(c echo.Context, name string) string {
	cookie, err := c.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// AccessToken reads the access token from its cookie, falling back to an
// Authorization: Bearer header
func AccessToken(c echo.Context) string {
	if token := CookieValue(c, AccessTokenCookie); token != "" {
		return token
	}
	return extractBearerToken(c)
}

func tokenCookie(name, value string, maxAge int, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     CookiePath,
		MaxAge:   maxAge,
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	}
}

func extractBearerToken(c echo.Context) string {
	authHeader := c.Request().Header.Get(headerAuthorization)
	if authHeader == "" {
		return ""
	}

	parts := strings.Fields(authHeader)
	if len(parts) != authHeaderParts || strings.ToLower(parts[0]) != bearerScheme {
		return ""
	}

	return parts[1]
}

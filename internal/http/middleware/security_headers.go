package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"
)

const apiPathPrefix = "/api/"

// securityHeaders are set on every response. The portal serves JSON and
// redirects only, so the content policy forbids everything.
var securityHeaders = map[string]string{
	"Content-Security-Policy":    "default-src 'none'; frame-ancestors 'none'; base-uri 'none'; form-action 'self'",
	"Strict-Transport-Security":  "max-age=31536000; includeSubDomains",
	"X-Content-Type-Options":     "nosniff",
	"X-Frame-Options":            "DENY",
	"Referrer-Policy":            "same-origin",
	"Permissions-Policy":         "geolocation=(), microphone=(), camera=(), payment=(), usb=()",
	"Cross-Origin-Opener-Policy": "same-origin",
}

// SecurityHeaders adds security headers to all responses. API responses may
// carry tokens or permission data and are never cached.
func SecurityHeaders() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Response().Header()
			for name, value := range securityHeaders {
				header.Set(name, value)
			}
			if strings.HasPrefix(c.Request().URL.Path, apiPathPrefix) {
				header.Set(echo.HeaderCacheControl, "no-store")
				header.Set("Pragma", "no-cache")
			}
			header.Del(echo.HeaderServer)
			header.Del("X-Powered-By")

			return next(c)
		}
	}
}

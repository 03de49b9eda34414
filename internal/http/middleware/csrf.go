package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	headerOrigin        = "Origin"
	headerReferer       = "Referer"
	headerSecFetchSite  = "Sec-Fetch-Site"
	secFetchCrossSite   = "cross-site"
	msgCrossSiteBlocked = "cross-site request blocked"
)

// CSRF rejects state-changing requests sent from another site. The token
// cookies are set and cleared by plain POSTs, so SameSite alone does not stop
// a foreign page from planting or dropping them.
//
// A request passes when its Origin (or Referer, when Origin is absent) is the
// server's own host or one of trustedOrigins. Requests with neither header
// pass unless the browser marked them cross-site; those come from non-browser
// clients that hold no cookies.
func CSRF(trustedOrigins []string) echo.MiddlewareFunc {
	trusted := make(map[string]bool, len(trustedOrigins))
	for _, o := range trustedOrigins {
		if o = normalizeOrigin(o); o != "" {
			trusted[o] = true
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			switch req.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				return next(c)
			}

			origin := req.Header.Get(headerOrigin)
			if origin == "" {
				origin = req.Header.Get(headerReferer)
			}
			if origin == "" {
				if req.Header.Get(headerSecFetchSite) == secFetchCrossSite {
					return blockCrossSite(c)
				}
				return next(c)
			}

			if !sameHost(origin, req.Host) && !trusted[normalizeOrigin(origin)] {
				return blockCrossSite(c)
			}
			return next(c)
		}
	}
}

func blockCrossSite(c echo.Context) error {
	return c.JSON(http.StatusForbidden, map[string]string{
		"error": msgCrossSiteBlocked,
	})
}

// normalizeOrigin reduces a URL to lowercase scheme://host, or "" when it is
// not an absolute http(s) URL. "null" origins normalize to "".
func normalizeOrigin(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return ""
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return ""
	}
	return scheme + "://" + strings.ToLower(u.Host)
}

func sameHost(origin, host string) bool {
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return false
	}
	return strings.EqualFold(u.Host, host)
}

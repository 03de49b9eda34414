package guard

import (
	"net/http"

	"erp-portal/internal/rbac"
	"erp-portal/internal/session"

	"github.com/labstack/echo/v4"
)

// Observer is told about every guard decision made by the middleware
type Observer func(c echo.Context, d Decision)

type Middleware struct {
	checker  rbac.Checker
	redirect string
	observer Observer
}

// Option configures a Middleware
type Option func(*Middleware)

// WithRedirect overrides the path denied page requests are sent to
func WithRedirect(path string) Option {
	return func(m *Middleware) {
		m.redirect = path
	}
}

// WithObserver registers a callback for decisions
func WithObserver(o Observer) Option {
	return func(m *Middleware) {
		m.observer = o
	}
}

func NewMiddleware(checker rbac.Checker, opts ...Option) *Middleware {
	m := &Middleware{
		checker:  checker,
		redirect: UnauthorizedPath,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// RequirePage guards a page route. Denied callers are redirected with
// 303 See Other.
func (m *Middleware) RequirePage(reqs ...rbac.Request) echo.MiddlewareFunc {
	g := m.guard(reqs)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			d := g.Evaluate(session.FromContext(c.Request().Context()))
			m.observe(c, d)
			if !d.Allowed() {
				return c.Redirect(http.StatusSeeOther, d.Redirect)
			}
			return next(c)
		}
	}
}

// RequireAPI guards an API route. Unauthenticated callers get 401; denied
// callers get 403 with the redirect target in the body.
func (m *Middleware) RequireAPI(reqs ...rbac.Request) echo.MiddlewareFunc {
	g := m.guard(reqs)
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess := session.FromContext(c.Request().Context())
			d := g.Evaluate(sess)
			m.observe(c, d)
			if d.Allowed() {
				return next(c)
			}
			if !sess.Authenticated() {
				return c.JSON(http.StatusUnauthorized, map[string]string{
					jsonKeyError: msgAuthenticationRequired,
				})
			}
			return c.JSON(http.StatusForbidden, map[string]string{
				jsonKeyError:    msgPermissionDenied,
				jsonKeyRedirect: d.Redirect,
			})
		}
	}
}

func (m *Middleware) guard(reqs []rbac.Request) *Guard {
	g := New(m.checker, reqs...)
	g.Redirect = m.redirect
	return g
}

func (m *Middleware) observe(c echo.Context, d Decision) {
	if m.observer != nil {
		m.observer(c, d)
	}
}

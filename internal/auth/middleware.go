package auth

import (
	"errors"

	"erp-portal/internal/session"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type Middleware struct {
	resolver *Resolver
	logger   *zap.Logger
}

func NewMiddleware(resolver *Resolver, logger *zap.Logger) *Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Middleware{resolver: resolver, logger: logger}
}

// Attach resolves the caller's session and stores it in the request context.
// A missing or invalid token leaves the request unauthenticated; the guards
// then deny it.
func (m *Middleware) Attach() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			sess, err := m.resolver.Resolve(req.Context(), AccessToken(c), CookieValue(c, RefreshTokenCookie))
			if err != nil {
				if !errors.Is(err, ErrNoToken) {
					m.logger.Debug(msgSessionResolveFailed,
						zap.Error(err),
						zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
					)
				}
				return next(c)
			}

			c.SetRequest(req.WithContext(session.NewContext(req.Context(), sess)))
			c.Set(ContextKeyUserID, sess.UserID)
			return next(c)
		}
	}
}

package http

import (
	"errors"
	"fmt"
	"net/http"

	"erp-portal/internal/http/middleware"
	"erp-portal/internal/remote"
	apperrors "erp-portal/pkg/errors"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const (
	msgInternalServerError = "Internal server error"
	msgUnknownRequestID    = "unknown"
)

// NewHTTPErrorHandler handles all errors returned by handlers and
// middleware. It maps sentinel errors to status codes, hides internal
// errors, and logs with the request id.
func NewHTTPErrorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, message := statusFor(err)

		requestID := middleware.GetRequestID(c)
		if requestID == "" {
			requestID = msgUnknownRequestID
		}
		fields := []zap.Field{
			zap.String("request_id", requestID),
			zap.Int("status", code),
			zap.String("path", c.Request().URL.Path),
			zap.Error(err),
		}
		switch {
		case code == http.StatusBadGateway:
			log.Warn("upstream_error", fields...)
		case code >= http.StatusInternalServerError:
			log.Error("internal_server_error", fields...)
			message = msgInternalServerError
		default:
			log.Debug("client_error", fields...)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, map[string]string{
				"error":      message,
				"request_id": requestID,
			})
		}
		if err != nil {
			log.Error("failed to write error response", zap.Error(err))
		}
	}
}

func statusFor(err error) (int, string) {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code, fmt.Sprintf("%v", httpErr.Message)
	}

	code := http.StatusInternalServerError
	message := msgInternalServerError
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		code, message = http.StatusNotFound, "Resource not found"
	case errors.Is(err, apperrors.ErrUnauthorized):
		code, message = http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, apperrors.ErrForbidden):
		code, message = http.StatusForbidden, "Forbidden"
	case errors.Is(err, apperrors.ErrBadRequest),
		errors.Is(err, apperrors.ErrInvalidInput),
		errors.Is(err, apperrors.ErrValidation):
		code, message = http.StatusBadRequest, "Bad request"
	case errors.Is(err, apperrors.ErrConflict):
		code, message = http.StatusConflict, "Resource already exists"
	case errors.Is(err, apperrors.ErrExpired):
		code, message = http.StatusGone, "Resource expired"
	case errors.Is(err, apperrors.ErrRateLimited):
		code, message = http.StatusTooManyRequests, "Rate limit exceeded"
	case errors.Is(err, apperrors.ErrUpstream):
		code, message = http.StatusBadGateway, remote.FallbackMessage
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && code < http.StatusInternalServerError {
		message = appErr.Message
	}
	return code, message
}

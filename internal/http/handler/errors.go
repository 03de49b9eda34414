package handler

import (
	"errors"
	"net/http"

	"erp-portal/internal/remote"
	apperrors "erp-portal/pkg/errors"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// MapToPublicError maps internal errors to public status codes and messages.
// Remote API errors keep their extracted message; remote 5xx answers and
// transport failures become 502.
func MapToPublicError(err error) (int, string) {
	var apiErr *remote.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Status >= http.StatusInternalServerError {
			return http.StatusBadGateway, apiErr.Message
		}
		return apiErr.Status, apiErr.Message
	}

	var appErr *apperrors.AppError
	switch {
	case errors.Is(err, apperrors.ErrUpstream):
		return http.StatusBadGateway, remote.FallbackMessage
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, "resource not found"
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized, msgAuthenticationRequired
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden, msgPermissionDenied
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, "resource conflict"
	case errors.Is(err, apperrors.ErrRateLimited):
		return http.StatusTooManyRequests, "rate limit exceeded"
	case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrBadRequest), errors.Is(err, apperrors.ErrInvalidInput):
		if errors.As(err, &appErr) {
			return http.StatusBadRequest, appErr.Message
		}
		return http.StatusBadRequest, "invalid input"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// RespondWithMappedError responds with a mapped error, logging the cause of
// server-side failures
func RespondWithMappedError(c echo.Context, log *zap.Logger, err error) error {
	status, msg := MapToPublicError(err)
	if status >= http.StatusInternalServerError {
		log.Error("request failed",
			zap.Int("status", status),
			zap.String("method", c.Request().Method),
			zap.String("path", c.Path()),
			zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			zap.Error(err),
		)
	}
	return respondError(c, status, msg)
}

func nopIfNil(log *zap.Logger) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}

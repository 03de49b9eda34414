package remote

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	apperrors "erp-portal/pkg/errors"
)

// FallbackMessage is shown when a failed response carries no usable message
const FallbackMessage = "Something went wrong. Please try again."

const (
	errAPIStatusFmt     = "remote api returned %d: %s"
	errBuildRequestFmt  = "failed to build request: %w"
	errEncodeBodyFmt    = "failed to encode request body: %w"
	errDecodeBodyFmt    = "failed to decode %s %s response: %w"
	errEmptyIDFmt       = "%s id must not be empty"
	errEmptyRFQID       = "request for quotation id must not be empty"
	errNotConfiguredMsg = "remote api is not configured"
)

// APIError is a non-2xx answer from the remote API. Message is the
// best-effort text for display.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf(errAPIStatusFmt, e.Status, e.Message)
}

// Unwrap maps the status onto the shared sentinel errors
func (e *APIError) Unwrap() error {
	switch {
	case e.Status == http.StatusBadRequest, e.Status == http.StatusUnprocessableEntity:
		return apperrors.ErrBadRequest
	case e.Status == http.StatusUnauthorized:
		return apperrors.ErrUnauthorized
	case e.Status == http.StatusForbidden:
		return apperrors.ErrForbidden
	case e.Status == http.StatusNotFound:
		return apperrors.ErrNotFound
	case e.Status == http.StatusConflict:
		return apperrors.ErrConflict
	case e.Status == http.StatusTooManyRequests:
		return apperrors.ErrRateLimited
	default:
		return apperrors.ErrUpstream
	}
}

// ExtractMessage picks the display message from an error payload: detail,
// then message, then FallbackMessage
func ExtractMessage(body []byte) string {
	var payload map[string]json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return FallbackMessage
	}
	for _, field := range []string{"detail", "message"} {
		raw, ok := payload[field]
		if !ok {
			continue
		}
		var text string
		if err := json.Unmarshal(raw, &text); err == nil && strings.TrimSpace(text) != "" {
			return text
		}
	}
	return FallbackMessage
}

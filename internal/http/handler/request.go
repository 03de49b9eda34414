package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	contentTypeJSON          = "application/json"
	maxStrictBodyBytes int64 = 1 << 20
)

// bindStrictJSON decodes exactly one JSON document into dst and rejects
// unknown fields
func bindStrictJSON(c echo.Context, dst any) error {
	if !strings.HasPrefix(strings.ToLower(c.Request().Header.Get(echo.HeaderContentType)), contentTypeJSON) {
		return echo.NewHTTPError(http.StatusUnsupportedMediaType, msgContentTypeJSONRequired)
	}

	decoder := json.NewDecoder(io.LimitReader(c.Request().Body, maxStrictBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidRequestBody)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidRequestBody)
	}
	return nil
}

// bindLooseJSON decodes an optional JSON body and ignores unknown fields. The
// content type is still required: a cross-site form cannot send
// application/json without a preflight.
func bindLooseJSON(c echo.Context, dst any) error {
	if !strings.HasPrefix(strings.ToLower(c.Request().Header.Get(echo.HeaderContentType)), contentTypeJSON) {
		return echo.NewHTTPError(http.StatusUnsupportedMediaType, msgContentTypeJSONRequired)
	}

	decoder := json.NewDecoder(io.LimitReader(c.Request().Body, maxStrictBodyBytes))
	if err := decoder.Decode(dst); err != nil && err != io.EOF {
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidRequestBody)
	}
	return nil
}

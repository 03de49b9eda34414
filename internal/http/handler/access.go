package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AccessHandler lists the applications, companies and roles known to the
// remote API
type AccessHandler struct {
	directory AccessDirectory
	log       *zap.Logger
}

func NewAccessHandler(directory AccessDirectory, log *zap.Logger) *AccessHandler {
	return &AccessHandler{directory: directory, log: nopIfNil(log)}
}

func (h *AccessHandler) Applications(c echo.Context) error {
	apps, err := h.directory.Applications(c.Request().Context())
	if err != nil {
		return RespondWithMappedError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, apps)
}

func (h *AccessHandler) Companies(c echo.Context) error {
	companies, err := h.directory.Companies(c.Request().Context())
	if err != nil {
		return RespondWithMappedError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, companies)
}

func (h *AccessHandler) Roles(c echo.Context) error {
	roles, err := h.directory.Roles(c.Request().Context())
	if err != nil {
		return RespondWithMappedError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, roles)
}

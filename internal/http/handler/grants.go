package handler

import (
	"net/http"

	"erp-portal/internal/audit"
	"erp-portal/internal/grants"

	"github.com/labstack/echo/v4"
)

const grantsResource = "grants"

type GrantsHandler struct {
	registry    CatalogReloader
	auditLogger AuditLogger
}

func NewGrantsHandler(registry CatalogReloader, auditLogger AuditLogger) *GrantsHandler {
	return &GrantsHandler{registry: registry, auditLogger: auditLogger}
}

type ReloadResponse struct {
	Status grants.Status `json:"status"`
	Error  string        `json:"error,omitempty"`
}

// Status reports the active catalog generation
func (h *GrantsHandler) Status(c echo.Context) error {
	return c.JSON(http.StatusOK, h.registry.Status())
}

// Reload re-reads the grant catalog. On failure the previous catalog stays
// active and is reported alongside the error.
func (h *GrantsHandler) Reload(c echo.Context) error {
	status, err := h.registry.Reload(c.Request().Context())
	if err != nil {
		c.Logger().Warnf("grant reload failed: %v", err)
		h.audit(c, audit.StatusFailure, map[string]any{"generation": status.Generation})
		return c.JSON(http.StatusBadGateway, ReloadResponse{Status: status, Error: msgGrantsReloadFailed})
	}

	h.audit(c, audit.StatusSuccess, map[string]any{"generation": status.Generation, "roles": status.Roles})
	return c.JSON(http.StatusOK, ReloadResponse{Status: status})
}

func (h *GrantsHandler) audit(c echo.Context, status audit.Status, metadata map[string]any) {
	if h.auditLogger == nil {
		return
	}
	h.auditLogger.LogFromContext(c, audit.ActionReloadGrants, status, grantsResource, metadata)
}

package handler

import (
	"net/http"

	"erp-portal/internal/audit"
	"erp-portal/internal/remote"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

const rfqEditResource = "purchase.purchase_requests.edit"

type PurchaseHandler struct {
	rfqs        RFQService
	auditLogger AuditLogger
	log         *zap.Logger
}

func NewPurchaseHandler(rfqs RFQService, auditLogger AuditLogger, log *zap.Logger) *PurchaseHandler {
	return &PurchaseHandler{rfqs: rfqs, auditLogger: auditLogger, log: nopIfNil(log)}
}

// GetRFQ returns one request for quotation
func (h *PurchaseHandler) GetRFQ(c echo.Context) error {
	id := c.Param(paramID)
	if id == "" {
		return respondError(c, http.StatusBadRequest, msgIDRequired)
	}

	rfq, err := h.rfqs.RequestForQuotation(c.Request().Context(), id)
	if err != nil {
		return RespondWithMappedError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, rfq)
}

// PatchRFQ applies a partial update to a request for quotation
func (h *PurchaseHandler) PatchRFQ(c echo.Context) error {
	id := c.Param(paramID)
	if id == "" {
		return respondError(c, http.StatusBadRequest, msgIDRequired)
	}

	var patch remote.RFQPatch
	if err := bindStrictJSON(c, &patch); err != nil {
		return handleHTTPError(c, err)
	}
	if err := patch.Validate(); err != nil {
		return respondError(c, http.StatusBadRequest, err.Error())
	}

	rfq, err := h.rfqs.PatchRequestForQuotation(c.Request().Context(), id, patch)
	if err != nil {
		return RespondWithMappedError(c, h.log, err)
	}
	if h.auditLogger != nil {
		h.auditLogger.LogFromContext(c, audit.ActionAccess, audit.StatusSuccess, rfqEditResource, map[string]any{"rfq_id": id})
	}
	return c.JSON(http.StatusOK, rfq)
}

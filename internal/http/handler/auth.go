package handler

import (
	"net/http"
	"strings"

	"erp-portal/internal/audit"
	"erp-portal/internal/auth"

	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	cookieSecure bool
	auditLogger  AuditLogger
}

func NewAuthHandler(cookieSecure bool, auditLogger AuditLogger) *AuthHandler {
	return &AuthHandler{
		cookieSecure: cookieSecure,
		auditLogger:  auditLogger,
	}
}

type TokenRequest struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type StatusResponse struct {
	Authenticated bool   `json:"authenticated"`
	Token         string `json:"token,omitempty"`
}

// SetToken stores the tokens handed over by the login page as HttpOnly
// cookies
func (h *AuthHandler) SetToken(c echo.Context) error {
	var req TokenRequest
	if err := bindLooseJSON(c, &req); err != nil {
		return handleHTTPError(c, err)
	}

	req.AccessToken = strings.TrimSpace(req.AccessToken)
	req.RefreshToken = strings.TrimSpace(req.RefreshToken)
	if req.AccessToken == "" {
		h.audit(c, audit.ActionLogin, audit.StatusFailure)
		return respondError(c, http.StatusBadRequest, msgAccessTokenRequired)
	}

	auth.SetTokenCookies(c, req.AccessToken, req.RefreshToken, h.cookieSecure)
	h.audit(c, audit.ActionLogin, audit.StatusSuccess)
	return respondSuccess(c)
}

// Status reports whether the access token cookie is present
func (h *AuthHandler) Status(c echo.Context) error {
	token := auth.CookieValue(c, auth.AccessTokenCookie)
	if token == "" {
		return c.JSON(http.StatusUnauthorized, StatusResponse{Authenticated: false})
	}
	return c.JSON(http.StatusOK, StatusResponse{Authenticated: true, Token: token})
}

// Logout expires both token cookies
func (h *AuthHandler) Logout(c echo.Context) error {
	auth.ClearTokenCookies(c, h.cookieSecure)
	h.audit(c, audit.ActionLogout, audit.StatusSuccess)
	return respondSuccess(c)
}

func (h *AuthHandler) audit(c echo.Context, action audit.Action, status audit.Status) {
	if h.auditLogger == nil {
		return
	}
	h.auditLogger.LogFromContext(c, action, status, c.Path(), nil)
}

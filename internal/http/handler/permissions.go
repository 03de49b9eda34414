package handler

import (
	"net/http"
	"time"

	"erp-portal/internal/guard"
	"erp-portal/internal/rbac"
	"erp-portal/internal/session"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type PermissionHandler struct {
	evaluator PermissionEvaluator
}

func NewPermissionHandler(evaluator PermissionEvaluator) *PermissionHandler {
	return &PermissionHandler{evaluator: evaluator}
}

type CheckResponse struct {
	Key     string `json:"key"`
	Allowed bool   `json:"allowed"`
}

type GuardRequest struct {
	Requests []rbac.Request `json:"requests"`
}

type MeResponse struct {
	UserID    uuid.UUID      `json:"user_id"`
	Roles     []session.Role `json:"roles"`
	Granted   []string       `json:"granted"`
	ExpiresAt *time.Time     `json:"expires_at,omitempty"`
}

// Check answers a single permission question for the current session.
// Unauthenticated callers get allowed=false, not an error.
func (h *PermissionHandler) Check(c echo.Context) error {
	req, err := rbac.NewRequest(c.QueryParam(queryApplication), c.QueryParam(queryModule), c.QueryParam(queryAction))
	if err != nil {
		return respondError(c, http.StatusBadRequest, msgInvalidPermission)
	}

	sess := session.FromContext(c.Request().Context())
	return c.JSON(http.StatusOK, CheckResponse{
		Key:     req.Key(),
		Allowed: h.evaluator.Can(sess, req),
	})
}

// Guard evaluates a set of requests the way a page guard would and returns
// the decision, including the redirect target on denial
func (h *PermissionHandler) Guard(c echo.Context) error {
	var body GuardRequest
	if err := bindStrictJSON(c, &body); err != nil {
		return handleHTTPError(c, err)
	}
	if len(body.Requests) == 0 {
		return respondError(c, http.StatusBadRequest, msgGuardRequestsRequired)
	}
	if len(body.Requests) > maxGuardRequests {
		return respondError(c, http.StatusBadRequest, msgTooManyGuardRequests)
	}

	d := guard.New(h.evaluator, body.Requests...).Evaluate(session.FromContext(c.Request().Context()))
	return c.JSON(http.StatusOK, d)
}

// Me describes the current session and every access right it holds
func (h *PermissionHandler) Me(c echo.Context) error {
	sess := session.FromContext(c.Request().Context())
	if !sess.Authenticated() {
		return respondError(c, http.StatusUnauthorized, msgAuthenticationRequired)
	}

	resp := MeResponse{
		UserID:  sess.UserID,
		Roles:   sess.Roles,
		Granted: h.evaluator.GrantedKeys(sess),
	}
	if resp.Roles == nil {
		resp.Roles = []session.Role{}
	}
	if !sess.ExpiresAt.IsZero() {
		exp := sess.ExpiresAt
		resp.ExpiresAt = &exp
	}
	return c.JSON(http.StatusOK, resp)
}

// Unauthorized is the landing route denied page requests are redirected to
func (h *PermissionHandler) Unauthorized(c echo.Context) error {
	return respondError(c, http.StatusForbidden, msgPermissionDenied)
}

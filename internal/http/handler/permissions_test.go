package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"erp-portal/internal/guard"
	"erp-portal/internal/rbac"
	"erp-portal/internal/rbac/presets"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPermissionHandler() *PermissionHandler {
	return NewPermissionHandler(rbac.NewEvaluator())
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		allowed bool
	}{
		{"granted view", "application=purchase&module=purchase_requests&action=view", true},
		{"not granted delete", "application=purchase&module=purchase_requests&action=delete", false},
		{"other application", "application=settings&module=currencies&action=edit", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newContext(http.MethodGet, "/api/permissions/check?"+tt.query, nil, sessionFor(presets.RolePurchasingAgent))
			require.NoError(t, newPermissionHandler().Check(c))
			require.Equal(t, http.StatusOK, rec.Code)

			var resp CheckResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.allowed, resp.Allowed)
		})
	}
}

func TestCheckWithoutSessionIsFalse(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/api/permissions/check?application=purchase&module=purchase_requests&action=view", nil, nil)
	require.NoError(t, newPermissionHandler().Check(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"key":"purchase.purchase_requests.view","allowed":false}`, rec.Body.String())
}

func TestCheckRejectsMalformedQuery(t *testing.T) {
	for _, query := range []string{
		"",
		"application=purchase&module=purchase_requests",
		"application=purchase&module=purchase_requests&action=destroy",
		"application=pur.chase&module=purchase_requests&action=view",
	} {
		c, rec := newContext(http.MethodGet, "/api/permissions/check?"+query, nil, sessionFor(presets.RoleAdministrator))
		require.NoError(t, newPermissionHandler().Check(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code, query)
	}
}

func TestGuardEndpoint(t *testing.T) {
	body := `{"requests":[
		{"application":"purchase","module":"purchase_requests","action":"view"},
		{"application":"purchase","module":"purchase_requests","action":"delete"}
	]}`
	c, rec := newContext(http.MethodPost, "/api/permissions/guard", jsonBody(body), sessionFor(presets.RolePurchasingAgent))
	require.NoError(t, newPermissionHandler().Guard(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var d guard.Decision
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &d))
	assert.Equal(t, guard.Denied, d.State)
	assert.Equal(t, guard.UnauthorizedPath, d.Redirect)
	assert.Equal(t, "purchase.purchase_requests.delete", d.Missing)
}

func TestGuardEndpointAllowed(t *testing.T) {
	body := `{"requests":[{"application":"purchase","module":"purchase_requests","action":"view"}]}`
	c, rec := newContext(http.MethodPost, "/api/permissions/guard", jsonBody(body), sessionFor(presets.RolePurchasingAgent))
	require.NoError(t, newPermissionHandler().Guard(c))

	assert.JSONEq(t, `{"state":"allowed"}`, rec.Body.String())
}

func TestGuardEndpointValidation(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"empty list", `{"requests":[]}`, http.StatusBadRequest},
		{"unknown field", `{"requests":[],"extra":1}`, http.StatusBadRequest},
		{"not json", `requests`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newContext(http.MethodPost, "/api/permissions/guard", jsonBody(tt.body), sessionFor(presets.RoleAdministrator))
			require.NoError(t, newPermissionHandler().Guard(c))
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestGuardEndpointRequiresJSONContentType(t *testing.T) {
	c, rec := newContext(http.MethodPost, "/api/permissions/guard", jsonBody(`{"requests":[]}`), nil)
	c.Request().Header.Set("Content-Type", "text/plain")

	require.NoError(t, newPermissionHandler().Guard(c))
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestMe(t *testing.T) {
	sess := sessionFor(presets.RolePurchasingAgent)
	c, rec := newContext(http.MethodGet, "/api/permissions/me", nil, sess)
	require.NoError(t, newPermissionHandler().Me(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp MeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, sess.UserID, resp.UserID)
	assert.Contains(t, resp.Granted, "purchase.purchase_requests.view")
	assert.NotContains(t, resp.Granted, "purchase.purchase_requests.delete")
	assert.Nil(t, resp.ExpiresAt)
}

func TestMeRequiresSession(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/api/permissions/me", nil, nil)
	require.NoError(t, newPermissionHandler().Me(c))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUnauthorizedPage(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/unauthorized", nil, nil)
	require.NoError(t, newPermissionHandler().Unauthorized(c))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), msgPermissionDenied)
}

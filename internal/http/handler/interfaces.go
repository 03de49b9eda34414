package handler

import (
	"context"
	"net/url"

	"erp-portal/internal/audit"
	"erp-portal/internal/grants"
	"erp-portal/internal/rbac"
	"erp-portal/internal/remote"
	"erp-portal/internal/session"

	"github.com/labstack/echo/v4"
)

// Consumer-side interfaces defined by handlers
// Each interface contains only the methods needed by the specific handler

// AuditLogger records request-scoped audit events
type AuditLogger interface {
	LogFromContext(c echo.Context, action audit.Action, status audit.Status, resource string, metadata map[string]any)
}

// PermissionHandler interfaces
type PermissionEvaluator interface {
	rbac.Checker
	Authorize(sess *session.Session, req rbac.Request) error
	GrantedKeys(sess *session.Session) []string
}

// PurchaseHandler interfaces
type RFQService interface {
	RequestForQuotation(ctx context.Context, id string) (*remote.RequestForQuotation, error)
	PatchRequestForQuotation(ctx context.Context, id string, patch remote.RFQPatch) (*remote.RequestForQuotation, error)
}

// AccessHandler interfaces
type AccessDirectory interface {
	Applications(ctx context.Context) ([]remote.Application, error)
	Companies(ctx context.Context) ([]remote.Company, error)
	Roles(ctx context.Context) ([]remote.Role, error)
}

// SettingsHandler interfaces
type SettingsStore[T remote.Record] interface {
	Name() string
	List(ctx context.Context, query url.Values) ([]T, error)
	Get(ctx context.Context, id string) (T, error)
	Create(ctx context.Context, item T) (T, error)
	Update(ctx context.Context, id string, item T) (T, error)
	Delete(ctx context.Context, id string) error
}

// GrantsHandler interfaces
type CatalogReloader interface {
	Reload(ctx context.Context) (grants.Status, error)
	Status() grants.Status
}

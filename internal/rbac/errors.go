package rbac

import "errors"

var (
	ErrDenied         = errors.New("authorization denied")
	ErrNoSession      = errors.New("no session")
	ErrNoRoles        = errors.New("session holds no roles")
	ErrNotGranted     = errors.New("no role grants the access right")
	ErrInvalidRequest = errors.New("invalid permission request")
	ErrInvalidCatalog = errors.New("invalid grant catalog")
)

const (
	errUnknownActionFmt    = "%w: unknown action %q"
	errMalformedKeyFmt     = "%w: key %q must be application.module.action"
	errEmptyFieldFmt       = "%w: %s must not be empty"
	errBadIdentifierFmt    = "%w: %s %q must match [a-z][a-z0-9_]*"
	errMustRequestPanicFmt = "rbac.MustRequest: %v"
	errDeniedWrapFmt       = "%w: %w"
	errDeniedKeyFmt        = "%w: %w: %s"

	errCatalogRoleEmptyFmt     = "%w: role name must not be empty"
	errCatalogDuplicateRoleFmt = "%w: duplicate role: %s"
	errCatalogRightEmptyFmt    = "%w: role %s has an access right with an empty name"
	errCatalogDuplicateIDFmt   = "%w: role %s repeats access right id %s"
	errMustCatalogPanicFmt     = "rbac.MustCatalog: %v"
)

package grants

import (
	"context"
	"fmt"

	"erp-portal/internal/rbac"
	"erp-portal/internal/remote"
	"erp-portal/internal/session"
)

// RoleLister lists roles with their access rights
type RoleLister interface {
	Roles(ctx context.Context) ([]remote.Role, error)
}

// RemoteSource builds the catalog from the remote API's role listing
type RemoteSource struct {
	api RoleLister
}

func NewRemoteSource(api RoleLister) *RemoteSource {
	return &RemoteSource{api: api}
}

func (s *RemoteSource) Name() string { return "remote" }

func (s *RemoteSource) Load(ctx context.Context) (rbac.Catalog, error) {
	roles, err := s.api.Roles(ctx)
	if err != nil {
		return rbac.Catalog{}, fmt.Errorf(errRemoteRolesFmt, err)
	}

	catalog := rbac.Catalog{Grants: make([]session.RoleGrant, 0, len(roles))}
	for _, r := range roles {
		rights := make([]session.AccessRight, len(r.AccessRights))
		copy(rights, r.AccessRights)
		catalog.Grants = append(catalog.Grants, session.RoleGrant{
			Role:         session.Role(r.Name),
			AccessRights: rights,
		})
	}
	return catalog, nil
}

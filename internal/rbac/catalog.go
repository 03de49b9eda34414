package rbac

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"

	"erp-portal/internal/session"
)

// Catalog is the server-defined table of role grants
type Catalog struct {
	Grants []session.RoleGrant `json:"grants" yaml:"grants"`
}

// MustCatalog validates c and panics when it is inconsistent
func MustCatalog(c Catalog) Catalog {
	if err := c.Validate(); err != nil {
		panic(fmt.Sprintf(errMustCatalogPanicFmt, err))
	}
	return c
}

// Validate checks internal consistency of the catalog
func (c Catalog) Validate() error {
	roles := make(map[session.Role]bool, len(c.Grants))
	for _, g := range c.Grants {
		if g.Role == "" {
			return fmt.Errorf(errCatalogRoleEmptyFmt, ErrInvalidCatalog)
		}
		if roles[g.Role] {
			return fmt.Errorf(errCatalogDuplicateRoleFmt, ErrInvalidCatalog, g.Role)
		}
		roles[g.Role] = true

		ids := make(map[string]bool, len(g.AccessRights))
		for _, right := range g.AccessRights {
			if right.Name == "" {
				return fmt.Errorf(errCatalogRightEmptyFmt, ErrInvalidCatalog, g.Role)
			}
			if right.ID == "" {
				continue
			}
			if ids[right.ID] {
				return fmt.Errorf(errCatalogDuplicateIDFmt, ErrInvalidCatalog, g.Role, right.ID)
			}
			ids[right.ID] = true
		}
	}
	return nil
}

// Digest is the hex SHA-256 of the catalog in canonical order: roles sorted
// by name, rights sorted by name then id. Catalogs granting the same rights
// share a digest whatever order their source listed them in.
func (c Catalog) Digest() string {
	canonical := Catalog{Grants: make([]session.RoleGrant, len(c.Grants))}
	for i, g := range c.Grants {
		rights := make([]session.AccessRight, len(g.AccessRights))
		copy(rights, g.AccessRights)
		sort.Slice(rights, func(a, b int) bool {
			if rights[a].Name != rights[b].Name {
				return rights[a].Name < rights[b].Name
			}
			return rights[a].ID < rights[b].ID
		})
		canonical.Grants[i] = session.RoleGrant{Role: g.Role, AccessRights: rights}
	}
	sort.Slice(canonical.Grants, func(a, b int) bool {
		return canonical.Grants[a].Role < canonical.Grants[b].Role
	})

	// marshalling plain strings and slices cannot fail
	data, _ := json.Marshal(canonical)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Roles lists the roles defined by the catalog in declaration order
func (c Catalog) Roles() []session.Role {
	roles := make([]session.Role, 0, len(c.Grants))
	for _, g := range c.Grants {
		roles = append(roles, g.Role)
	}
	return roles
}

// GrantsFor returns copies of the grants for the given roles. Roles missing
// from the catalog contribute nothing.
func (c Catalog) GrantsFor(roles []session.Role) []session.RoleGrant {
	want := make(map[session.Role]bool, len(roles))
	for _, r := range roles {
		want[r] = true
	}

	grants := make([]session.RoleGrant, 0, len(roles))
	for _, g := range c.Grants {
		if !want[g.Role] {
			continue
		}
		rights := make([]session.AccessRight, len(g.AccessRights))
		copy(rights, g.AccessRights)
		grants = append(grants, session.RoleGrant{Role: g.Role, AccessRights: rights})
	}
	return grants
}

// Merge returns a catalog with the grants of other added to c. Rights for a
// role present in both are unioned by name.
func (c Catalog) Merge(other Catalog) Catalog {
	index := make(map[session.Role]int, len(c.Grants))
	out := Catalog{Grants: make([]session.RoleGrant, 0, len(c.Grants)+len(other.Grants))}

	add := func(g session.RoleGrant) {
		i, ok := index[g.Role]
		if !ok {
			index[g.Role] = len(out.Grants)
			rights := make([]session.AccessRight, len(g.AccessRights))
			copy(rights, g.AccessRights)
			out.Grants = append(out.Grants, session.RoleGrant{Role: g.Role, AccessRights: rights})
			return
		}
		existing := out.Grants[i]
		names := make(map[string]bool, len(existing.AccessRights))
		for _, r := range existing.AccessRights {
			names[r.Name] = true
		}
		for _, r := range g.AccessRights {
			if !names[r.Name] {
				existing.AccessRights = append(existing.AccessRights, r)
				names[r.Name] = true
			}
		}
		out.Grants[i] = existing
	}

	for _, g := range c.Grants {
		add(g)
	}
	for _, g := range other.Grants {
		add(g)
	}
	return out
}

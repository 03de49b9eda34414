package rbac_test

import (
	"errors"
	"testing"

	"erp-portal/internal/rbac"
	"erp-portal/internal/rbac/presets"
	"erp-portal/internal/session"
)

func TestCatalogValidate(t *testing.T) {
	right := func(id, name string) session.AccessRight { return session.AccessRight{ID: id, Name: name} }

	tests := []struct {
		name      string
		catalog   rbac.Catalog
		shouldErr bool
	}{
		{"empty catalog", rbac.Catalog{}, false},
		{"valid", rbac.Catalog{Grants: []session.RoleGrant{
			{Role: "a", AccessRights: []session.AccessRight{right("1", "x.y.view")}},
		}}, false},
		{"missing ids allowed", rbac.Catalog{Grants: []session.RoleGrant{
			{Role: "a", AccessRights: []session.AccessRight{right("", "x.y.view"), right("", "x.y.edit")}},
		}}, false},
		{"empty role", rbac.Catalog{Grants: []session.RoleGrant{{Role: ""}}}, true},
		{"duplicate role", rbac.Catalog{Grants: []session.RoleGrant{{Role: "a"}, {Role: "a"}}}, true},
		{"empty right name", rbac.Catalog{Grants: []session.RoleGrant{
			{Role: "a", AccessRights: []session.AccessRight{right("1", "")}},
		}}, true},
		{"duplicate right id", rbac.Catalog{Grants: []session.RoleGrant{
			{Role: "a", AccessRights: []session.AccessRight{right("1", "x.y.view"), right("1", "x.y.edit")}},
		}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.catalog.Validate()
			if tt.shouldErr && !errors.Is(err, rbac.ErrInvalidCatalog) {
				t.Errorf("Validate() = %v, expected ErrInvalidCatalog", err)
			}
			if !tt.shouldErr && err != nil {
				t.Errorf("Validate() unexpected error: %v", err)
			}
		})
	}
}

func TestCatalogGrantsForCopies(t *testing.T) {
	c := presets.Business()
	grants := c.GrantsFor([]session.Role{presets.RolePurchasingAgent, "unknown"})

	if len(grants) != 1 || grants[0].Role != presets.RolePurchasingAgent {
		t.Fatalf("GrantsFor = %+v", grants)
	}

	grants[0].AccessRights[0].Name = "mutated"
	again := c.GrantsFor([]session.Role{presets.RolePurchasingAgent})
	if again[0].AccessRights[0].Name == "mutated" {
		t.Error("GrantsFor must not share backing arrays with the catalog")
	}
}

func TestCatalogMerge(t *testing.T) {
	a := rbac.Catalog{Grants: []session.RoleGrant{
		{Role: "buyer", AccessRights: []session.AccessRight{{Name: "purchase.purchase_requests.view"}}},
	}}
	b := rbac.Catalog{Grants: []session.RoleGrant{
		{Role: "buyer", AccessRights: []session.AccessRight{
			{Name: "purchase.purchase_requests.view"},
			{Name: "purchase.purchase_requests.create"},
		}},
		{Role: "clerk", AccessRights: []session.AccessRight{{Name: "invoicing.invoices.view"}}},
	}}

	merged := a.Merge(b)
	if len(merged.Grants) != 2 {
		t.Fatalf("expected 2 roles, got %d", len(merged.Grants))
	}
	if len(merged.Grants[0].AccessRights) != 2 {
		t.Errorf("expected union of 2 rights for buyer, got %+v", merged.Grants[0].AccessRights)
	}
	if len(a.Grants[0].AccessRights) != 1 {
		t.Error("Merge must not modify its receiver")
	}
	if err := merged.Validate(); err != nil {
		t.Errorf("merged catalog invalid: %v", err)
	}
}

func TestCatalogRoles(t *testing.T) {
	roles := presets.Business().Roles()
	if len(roles) == 0 || roles[0] != presets.RoleAdministrator {
		t.Errorf("Roles() = %v", roles)
	}
}

func TestCatalogDigest(t *testing.T) {
	view := session.AccessRight{ID: "1", Name: "purchase.purchase_requests.view"}
	del := session.AccessRight{ID: "2", Name: "purchase.purchase_requests.delete"}

	a := rbac.Catalog{Grants: []session.RoleGrant{
		{Role: "Clerk", AccessRights: []session.AccessRight{view, del}},
		{Role: "Auditor", AccessRights: []session.AccessRight{view}},
	}}
	reordered := rbac.Catalog{Grants: []session.RoleGrant{
		{Role: "Auditor", AccessRights: []session.AccessRight{view}},
		{Role: "Clerk", AccessRights: []session.AccessRight{del, view}},
	}}
	narrower := rbac.Catalog{Grants: []session.RoleGrant{
		{Role: "Clerk", AccessRights: []session.AccessRight{view}},
		{Role: "Auditor", AccessRights: []session.AccessRight{view}},
	}}

	if got := a.Digest(); len(got) != 64 {
		t.Fatalf("Digest() = %q, expected 64 hex chars", got)
	}
	if a.Digest() != reordered.Digest() {
		t.Error("listing order must not change the digest")
	}
	if a.Digest() == narrower.Digest() {
		t.Error("catalogs granting different rights must not share a digest")
	}
	if a.Grants[0].AccessRights[0] != view {
		t.Error("Digest must not reorder the receiver")
	}
	if (rbac.Catalog{}).Digest() == a.Digest() {
		t.Error("empty catalog must not share a digest with a loaded one")
	}
}

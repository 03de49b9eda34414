package presets

import (
	"erp-portal/internal/rbac"
	"erp-portal/internal/session"
)

const (
	RoleAdministrator     session.Role = "Administrator"
	RolePurchasingAgent   session.Role = "Purchasing-Agent"
	RolePurchasingManager session.Role = "Purchasing-Manager"
	RoleAccountant        session.Role = "Accountant"
	RoleSettingsManager   session.Role = "Settings-Manager"
	RoleAuditor           session.Role = "Auditor"

	AppPurchase  rbac.Application = "purchase"
	AppInvoicing rbac.Application = "invoicing"
	AppSettings  rbac.Application = "settings"
	AppAccess    rbac.Application = "access"

	ModulePurchaseRequests rbac.Module = "purchase_requests"
	ModulePurchaseOrders   rbac.Module = "purchase_orders"
	ModuleInvoices         rbac.Module = "invoices"
	ModulePayments         rbac.Module = "payments"
	ModuleCurrencies       rbac.Module = "currencies"
	ModuleUnits            rbac.Module = "units"
	ModuleLocations        rbac.Module = "locations"
	ModuleVendors          rbac.Module = "vendors"
	ModuleProducts         rbac.Module = "products"
	ModuleApplications     rbac.Module = "applications"
	ModuleCompanies        rbac.Module = "companies"
	ModuleRoles            rbac.Module = "roles"
)

var (
	crud     = []rbac.Action{rbac.ActionView, rbac.ActionCreate, rbac.ActionEdit, rbac.ActionDelete}
	readOnly = []rbac.Action{rbac.ActionView}

	settingsModules = []rbac.Module{ModuleCurrencies, ModuleUnits, ModuleLocations, ModuleVendors, ModuleProducts}
	accessModules   = []rbac.Module{ModuleApplications, ModuleCompanies, ModuleRoles}
)

// Business returns the built-in grant catalog for the purchasing, invoicing,
// settings and access-control applications. Every action is granted
// explicitly; a role that should manage a whole module lists each action.
func Business() rbac.Catalog {
	return rbac.MustCatalog(rbac.Catalog{
		Grants: []session.RoleGrant{
			{
				Role: RoleAdministrator,
				AccessRights: join(
					rights(AppPurchase, ModulePurchaseRequests, append(crud, rbac.ActionApprove, rbac.ActionExport)...),
					rights(AppPurchase, ModulePurchaseOrders, append(crud, rbac.ActionApprove, rbac.ActionExport)...),
					rights(AppInvoicing, ModuleInvoices, append(crud, rbac.ActionApprove, rbac.ActionExport)...),
					rights(AppInvoicing, ModulePayments, crud...),
					modules(AppSettings, settingsModules, crud...),
					modules(AppAccess, accessModules, crud...),
				),
			},
			{
				Role: RolePurchasingAgent,
				AccessRights: join(
					rights(AppPurchase, ModulePurchaseRequests, rbac.ActionView),
					rights(AppPurchase, ModulePurchaseOrders, rbac.ActionView),
					modules(AppSettings, []rbac.Module{ModuleVendors, ModuleProducts}, readOnly...),
				),
			},
			{
				Role: RolePurchasingManager,
				AccessRights: join(
					rights(AppPurchase, ModulePurchaseRequests, append(crud, rbac.ActionApprove)...),
					rights(AppPurchase, ModulePurchaseOrders, append(crud, rbac.ActionApprove)...),
					modules(AppSettings, settingsModules, readOnly...),
				),
			},
			{
				Role: RoleAccountant,
				AccessRights: join(
					rights(AppInvoicing, ModuleInvoices, append(crud, rbac.ActionExport)...),
					rights(AppInvoicing, ModulePayments, crud...),
					rights(AppSettings, ModuleCurrencies, readOnly...),
				),
			},
			{
				Role:         RoleSettingsManager,
				AccessRights: modules(AppSettings, settingsModules, crud...),
			},
			{
				Role: RoleAuditor,
				AccessRights: join(
					rights(AppPurchase, ModulePurchaseRequests, rbac.ActionView, rbac.ActionExport),
					rights(AppInvoicing, ModuleInvoices, rbac.ActionView, rbac.ActionExport),
					modules(AppAccess, accessModules, readOnly...),
				),
			},
		},
	})
}

func rights(app rbac.Application, module rbac.Module, actions ...rbac.Action) []session.AccessRight {
	out := make([]session.AccessRight, 0, len(actions))
	for _, a := range actions {
		key := rbac.Request{Application: app, Module: module, Action: a}.Key()
		out = append(out, session.AccessRight{ID: key, Name: key})
	}
	return out
}

func modules(app rbac.Application, mods []rbac.Module, actions ...rbac.Action) []session.AccessRight {
	var out []session.AccessRight
	for _, m := range mods {
		out = append(out, rights(app, m, actions...)...)
	}
	return out
}

func join(groups ...[]session.AccessRight) []session.AccessRight {
	var out []session.AccessRight
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

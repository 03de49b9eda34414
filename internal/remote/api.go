package remote

import (
	"context"
	"net/http"
	"net/url"

	apperrors "erp-portal/pkg/errors"
)

const (
	pathApplications = "/applications/"
	pathCompanies    = "/companies/"
	pathRoles        = "/roles/"
	pathRFQ          = "/purchase/request-for-quotations/"
	pathCurrencies   = "/settings/currencies/"
	pathUnits        = "/settings/units/"
	pathLocations    = "/settings/locations/"
	pathVendors      = "/settings/vendors/"
	pathProducts     = "/settings/products/"
)

// API groups the typed bindings the portal forwards to
type API struct {
	client *Client

	Currencies *Resource[Currency]
	Units      *Resource[Unit]
	Locations  *Resource[Location]
	Vendors    *Resource[Vendor]
	Products   *Resource[Product]
}

func NewAPI(client *Client) *API {
	return &API{
		client:     client,
		Currencies: NewResource[Currency](client, "currencies", pathCurrencies),
		Units:      NewResource[Unit](client, "units", pathUnits),
		Locations:  NewResource[Location](client, "locations", pathLocations),
		Vendors:    NewResource[Vendor](client, "vendors", pathVendors),
		Products:   NewResource[Product](client, "products", pathProducts),
	}
}

// Applications lists applications with the access rights each defines
func (a *API) Applications(ctx context.Context) ([]Application, error) {
	var apps []Application
	if err := a.client.Do(ctx, http.MethodGet, pathApplications, nil, nil, &apps); err != nil {
		return nil, err
	}
	return DedupeByID(apps), nil
}

func (a *API) Companies(ctx context.Context) ([]Company, error) {
	var companies []Company
	if err := a.client.Do(ctx, http.MethodGet, pathCompanies, nil, nil, &companies); err != nil {
		return nil, err
	}
	return DedupeByID(companies), nil
}

// Roles lists server-side roles with their access rights
func (a *API) Roles(ctx context.Context) ([]Role, error) {
	var roles []Role
	if err := a.client.Do(ctx, http.MethodGet, pathRoles, nil, nil, &roles); err != nil {
		return nil, err
	}
	return DedupeByID(roles), nil
}

func (a *API) RequestForQuotation(ctx context.Context, id string) (*RequestForQuotation, error) {
	if id == "" {
		return nil, apperrors.BadRequest(errEmptyRFQID)
	}
	var rfq RequestForQuotation
	if err := a.client.Do(ctx, http.MethodGet, pathRFQ+url.PathEscape(id)+"/", nil, nil, &rfq); err != nil {
		return nil, err
	}
	return &rfq, nil
}

// PatchRequestForQuotation applies a partial update and returns the stored
// record. Callers refetch dependent lists themselves.
func (a *API) PatchRequestForQuotation(ctx context.Context, id string, patch RFQPatch) (*RequestForQuotation, error) {
	if id == "" {
		return nil, apperrors.BadRequest(errEmptyRFQID)
	}
	var rfq RequestForQuotation
	if err := a.client.Do(ctx, http.MethodPatch, pathRFQ+url.PathEscape(id)+"/", nil, patch, &rfq); err != nil {
		return nil, err
	}
	return &rfq, nil
}

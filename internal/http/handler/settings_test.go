package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	"erp-portal/internal/remote"
	apperrors "erp-portal/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCurrencies struct {
	items   map[string]remote.Currency
	failure error
	deleted []string
}

func newFakeCurrencies() *fakeCurrencies {
	return &fakeCurrencies{items: map[string]remote.Currency{
		"1": {ID: "1", Code: "USD", Name: "US Dollar"},
	}}
}

func (f *fakeCurrencies) Name() string { return "currencies" }

func (f *fakeCurrencies) List(_ context.Context, _ url.Values) ([]remote.Currency, error) {
	if f.failure != nil {
		return nil, f.failure
	}
	out := make([]remote.Currency, 0, len(f.items))
	for _, c := range f.items {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCurrencies) Get(_ context.Context, id string) (remote.Currency, error) {
	c, ok := f.items[id]
	if !ok {
		return remote.Currency{}, &remote.APIError{Status: http.StatusNotFound, Message: "Not found."}
	}
	return c, nil
}

func (f *fakeCurrencies) Create(_ context.Context, item remote.Currency) (remote.Currency, error) {
	if f.failure != nil {
		return remote.Currency{}, f.failure
	}
	item.ID = "2"
	f.items[item.ID] = item
	return item, nil
}

func (f *fakeCurrencies) Update(_ context.Context, id string, item remote.Currency) (remote.Currency, error) {
	item.ID = id
	f.items[id] = item
	return item, nil
}

func (f *fakeCurrencies) Delete(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	delete(f.items, id)
	return nil
}

func TestSettingsList(t *testing.T) {
	h := NewSettingsHandler[remote.Currency](newFakeCurrencies(), nil)
	c, rec := newContext(http.MethodGet, "/api/settings/currencies", nil, nil)

	require.NoError(t, h.List(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var items []remote.Currency
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	assert.Len(t, items, 1)
	assert.Equal(t, "currencies", h.Name())
}

func TestSettingsGetNotFoundKeepsRemoteMessage(t *testing.T) {
	h := NewSettingsHandler[remote.Currency](newFakeCurrencies(), nil)
	c, rec := newContext(http.MethodGet, "/api/settings/currencies/9", nil, nil)
	c.SetParamNames(paramID)
	c.SetParamValues("9")

	require.NoError(t, h.Get(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Not found."}`, rec.Body.String())
}

func TestSettingsCreateValidates(t *testing.T) {
	store := newFakeCurrencies()
	h := NewSettingsHandler[remote.Currency](store, nil)

	c, rec := newContext(http.MethodPost, "/api/settings/currencies", jsonBody(`{"code":"eur","name":"Euro"}`), nil)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Len(t, store.items, 1)

	c, rec = newContext(http.MethodPost, "/api/settings/currencies", jsonBody(`{"code":"EUR","name":"Euro"}`), nil)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Len(t, store.items, 2)
}

func TestSettingsCreateUpstreamFailure(t *testing.T) {
	store := newFakeCurrencies()
	store.failure = apperrors.Upstream(remote.FallbackMessage, nil)
	h := NewSettingsHandler[remote.Currency](store, nil)

	c, rec := newContext(http.MethodPost, "/api/settings/currencies", jsonBody(`{"code":"EUR","name":"Euro"}`), nil)
	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.JSONEq(t, `{"error":"Something went wrong. Please try again."}`, rec.Body.String())
}

func TestSettingsUpdateAndDelete(t *testing.T) {
	store := newFakeCurrencies()
	h := NewSettingsHandler[remote.Currency](store, nil)

	c, rec := newContext(http.MethodPut, "/api/settings/currencies/1", jsonBody(`{"code":"USD","name":"Dollar"}`), nil)
	c.SetParamNames(paramID)
	c.SetParamValues("1")
	require.NoError(t, h.Update(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Dollar", store.items["1"].Name)

	c, rec = newContext(http.MethodDelete, "/api/settings/currencies/1", nil, nil)
	c.SetParamNames(paramID)
	c.SetParamValues("1")
	require.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"1"}, store.deleted)
}

func TestSettingsRequireID(t *testing.T) {
	h := NewSettingsHandler[remote.Currency](newFakeCurrencies(), nil)

	c, rec := newContext(http.MethodDelete, "/api/settings/currencies/", nil, nil)
	require.NoError(t, h.Delete(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

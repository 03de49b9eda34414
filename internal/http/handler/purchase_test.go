package handler

import (
	"context"
	"net/http"
	"testing"

	"erp-portal/internal/audit"
	"erp-portal/internal/remote"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRFQs struct {
	rfq     remote.RequestForQuotation
	patched *remote.RFQPatch
	err     error
}

func (f *fakeRFQs) RequestForQuotation(_ context.Context, id string) (*remote.RequestForQuotation, error) {
	if f.err != nil {
		return nil, f.err
	}
	rfq := f.rfq
	rfq.ID = id
	return &rfq, nil
}

func (f *fakeRFQs) PatchRequestForQuotation(_ context.Context, id string, patch remote.RFQPatch) (*remote.RequestForQuotation, error) {
	f.patched = &patch
	rfq := f.rfq
	rfq.ID = id
	if patch.Title != nil {
		rfq.Title = *patch.Title
	}
	return &rfq, nil
}

func TestGetRFQ(t *testing.T) {
	h := NewPurchaseHandler(&fakeRFQs{rfq: remote.RequestForQuotation{Number: "RFQ-7", Title: "Paper"}}, nil, nil)
	c, rec := newContext(http.MethodGet, "/api/purchase/rfqs/7", nil, nil)
	c.SetParamNames(paramID)
	c.SetParamValues("7")

	require.NoError(t, h.GetRFQ(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"number":"RFQ-7"`)
}

func TestGetRFQRemoteErrors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"detail from 403", &remote.APIError{Status: http.StatusForbidden, Message: "No access to this RFQ"}, http.StatusForbidden, "No access to this RFQ"},
		{"server error collapses to 502", &remote.APIError{Status: http.StatusInternalServerError, Message: remote.FallbackMessage}, http.StatusBadGateway, remote.FallbackMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewPurchaseHandler(&fakeRFQs{err: tt.err}, nil, nil)
			c, rec := newContext(http.MethodGet, "/api/purchase/rfqs/7", nil, nil)
			c.SetParamNames(paramID)
			c.SetParamValues("7")

			require.NoError(t, h.GetRFQ(c))
			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.message)
		})
	}
}

func TestPatchRFQ(t *testing.T) {
	rfqs := &fakeRFQs{}
	recorder := &fakeAudit{}
	h := NewPurchaseHandler(rfqs, recorder, nil)
	c, rec := newContext(http.MethodPatch, "/api/purchase/rfqs/7", jsonBody(`{"title":"Printer paper"}`), nil)
	c.SetParamNames(paramID)
	c.SetParamValues("7")

	require.NoError(t, h.PatchRFQ(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, rfqs.patched)
	assert.Equal(t, "Printer paper", *rfqs.patched.Title)
	assert.Equal(t, []recordedEvent{{audit.ActionAccess, audit.StatusSuccess}}, recorder.recorded())
}

func TestPatchRFQRejectsEmptyPatch(t *testing.T) {
	rfqs := &fakeRFQs{}
	h := NewPurchaseHandler(rfqs, nil, nil)
	c, rec := newContext(http.MethodPatch, "/api/purchase/rfqs/7", jsonBody(`{}`), nil)
	c.SetParamNames(paramID)
	c.SetParamValues("7")

	require.NoError(t, h.PatchRFQ(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, rfqs.patched)
}

package remote

import (
	"errors"
	"fmt"

	"erp-portal/pkg/validator"
)

const (
	maxNameLen     = 200
	maxShortLen    = 16
	maxSymbolLen   = 8
	maxAddressLen  = 500
	maxPhoneLen    = 32
	maxSKULen      = 64
	maxNotesLen    = 2000
	maxTitleLen    = 200
	maxRFQItems    = 500
	errTooManyFmt  = "items must not exceed %d entries"
	errRFQEmptyMsg = "patch must change at least one field"
)

func (c Currency) Validate() error {
	return validator.First(
		validator.CurrencyCode(c.Code),
		validator.Text("name", c.Name, true, maxNameLen),
		validator.Text("symbol", c.Symbol, false, maxSymbolLen),
	)
}

func (u Unit) Validate() error {
	return validator.First(
		validator.Text("name", u.Name, true, maxNameLen),
		validator.Text("abbreviation", u.Abbreviation, true, maxShortLen),
	)
}

func (l Location) Validate() error {
	return validator.First(
		validator.Text("name", l.Name, true, maxNameLen),
		validator.Text("address", l.Address, false, maxAddressLen),
	)
}

func (v Vendor) Validate() error {
	return validator.First(
		validator.Text("name", v.Name, true, maxNameLen),
		validator.OptionalEmail(v.Email),
		validator.Text("phone", v.Phone, false, maxPhoneLen),
	)
}

func (p Product) Validate() error {
	return validator.First(
		validator.Text("name", p.Name, true, maxNameLen),
		validator.Text("sku", p.SKU, true, maxSKULen),
	)
}

func (p RFQPatch) Validate() error {
	if p.Title == nil && p.Status == nil && p.VendorIDs == nil && p.LocationID == nil &&
		p.DueDate == nil && p.Notes == nil && p.Items == nil {
		return errors.New(errRFQEmptyMsg)
	}
	if p.Title != nil {
		if err := validator.Text("title", *p.Title, true, maxTitleLen); err != nil {
			return err
		}
	}
	if p.Status != nil {
		if err := validator.Identifier("status", *p.Status); err != nil {
			return err
		}
	}
	if p.Notes != nil {
		if err := validator.Text("notes", *p.Notes, false, maxNotesLen); err != nil {
			return err
		}
	}
	if len(p.Items) > maxRFQItems {
		return fmt.Errorf(errTooManyFmt, maxRFQItems)
	}
	for _, item := range p.Items {
		if err := validator.First(
			validator.Text("product_id", item.ProductID, true, maxNameLen),
			validator.Positive("quantity", item.Quantity),
		); err != nil {
			return err
		}
	}
	return nil
}

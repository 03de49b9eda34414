package remote

import (
	"time"

	"erp-portal/internal/session"
)

// Application is a top-level application and the access rights it defines
type Application struct {
	ID           string                `json:"id"`
	Name         string                `json:"name"`
	Code         string                `json:"code"`
	AccessRights []session.AccessRight `json:"access_rights"`
}

func (a Application) RecordID() string { return a.ID }

type Company struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Code string `json:"code,omitempty"`
}

func (c Company) RecordID() string { return c.ID }

// Role is a server-side role with the access rights it grants
type Role struct {
	ID           string                `json:"id"`
	Name         string                `json:"name"`
	AccessRights []session.AccessRight `json:"access_rights"`
}

func (r Role) RecordID() string { return r.ID }

type RFQItem struct {
	ProductID string  `json:"product_id"`
	UnitID    string  `json:"unit_id,omitempty"`
	Quantity  float64 `json:"quantity"`
}

// RequestForQuotation is a purchase request sent out to vendors
type RequestForQuotation struct {
	ID         string     `json:"id"`
	Number     string     `json:"number"`
	Title      string     `json:"title"`
	Status     string     `json:"status"`
	VendorIDs  []string   `json:"vendor_ids,omitempty"`
	LocationID string     `json:"location_id,omitempty"`
	DueDate    *time.Time `json:"due_date,omitempty"`
	Notes      string     `json:"notes,omitempty"`
	Items      []RFQItem  `json:"items"`
}

func (r RequestForQuotation) RecordID() string { return r.ID }

// RFQPatch holds the fields a partial update may change. Nil fields are left
// untouched.
type RFQPatch struct {
	Title      *string    `json:"title,omitempty"`
	Status     *string    `json:"status,omitempty"`
	VendorIDs  []string   `json:"vendor_ids,omitempty"`
	LocationID *string    `json:"location_id,omitempty"`
	DueDate    *time.Time `json:"due_date,omitempty"`
	Notes      *string    `json:"notes,omitempty"`
	Items      []RFQItem  `json:"items,omitempty"`
}

type Currency struct {
	ID     string `json:"id,omitempty"`
	Code   string `json:"code"`
	Name   string `json:"name"`
	Symbol string `json:"symbol,omitempty"`
}

func (c Currency) RecordID() string { return c.ID }

type Unit struct {
	ID           string `json:"id,omitempty"`
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
}

func (u Unit) RecordID() string { return u.ID }

type Location struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	Address   string `json:"address,omitempty"`
	CompanyID string `json:"company_id,omitempty"`
}

func (l Location) RecordID() string { return l.ID }

type Vendor struct {
	ID         string `json:"id,omitempty"`
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	CurrencyID string `json:"currency_id,omitempty"`
}

func (v Vendor) RecordID() string { return v.ID }

type Product struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	SKU      string `json:"sku"`
	UnitID   string `json:"unit_id,omitempty"`
	VendorID string `json:"vendor_id,omitempty"`
}

func (p Product) RecordID() string { return p.ID }

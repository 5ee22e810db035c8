package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DocumentType is the SUNAT catalogue code of a comprobante
type DocumentType string

const (
	DocumentTypeFactura    DocumentType = "01"
	DocumentTypeBoleta     DocumentType = "03"
	DocumentTypeCreditNote DocumentType = "07"
	DocumentTypeDebitNote  DocumentType = "08"
)

// DateLayout is how issue dates travel in QR payloads and on the page
const DateLayout = "2006-01-02"

// DocumentKey identifies a comprobante as requested by the caller
type DocumentKey struct {
	Type   DocumentType
	Series string
	Number string
}

func (k DocumentKey) String() string {
	return fmt.Sprintf("%s/%s-%s", k.Type, k.Series, k.Number)
}

// Party is the issuer or the recipient of a document
type Party struct {
	TaxID   string `json:"tax_id"`
	Name    string `json:"name"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

// Document is one sales document with its line items, built per request from
// the lookup rows. Totals are taken as stored; they are formatted, never
// recomputed.
type Document struct {
	Type       DocumentType `json:"type"`
	Series     string       `json:"series"`
	Number     string       `json:"number"`
	InternalID string       `json:"internal_id,omitempty"`

	Issuer    Party  `json:"issuer"`
	Recipient Party  `json:"recipient"`
	Seller    string `json:"seller,omitempty"`

	IssueDate time.Time `json:"issue_date"`
	Currency  string    `json:"currency"`

	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`

	Items []LineItem `json:"items"`
}

// LineItem is one row of the item table
type LineItem struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
}

// Reference returns SERIE-NUMERO as printed on the document
func (d *Document) Reference() string {
	return d.Series + "-" + d.Number
}

// Filename returns the download name of the rendered document
func (d *Document) Filename() string {
	return fmt.Sprintf("comprobante-%s-%s.pdf", d.Series, d.Number)
}

// TotalsConsistent reports whether subtotal + tax equals total
func (d *Document) TotalsConsistent() bool {
	return d.Subtotal.Add(d.Tax).Equal(d.Total)
}

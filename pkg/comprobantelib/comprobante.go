// Package comprobantelib provides a public API for printing Peruvian
// electronic sales documents.
//
// It exposes the document types, the amount-to-words converter and a Printer
// that renders an already assembled document to PDF with headless Chrome.
//
// Example usage:
//
//	printer := comprobantelib.NewDefaultPrinter()
//	out, err := printer.Print(ctx, doc)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile(out.Filename, out.Content, 0o644)
package comprobantelib

import (
	"github.com/shopspring/decimal"

	"github.com/rezonia/comprobante-printer/internal/model"
	"github.com/rezonia/comprobante-printer/internal/render"
	"github.com/rezonia/comprobante-printer/internal/words"
)

// Re-export core types for public API
type (
	Document     = model.Document
	DocumentKey  = model.DocumentKey
	DocumentType = model.DocumentType
	LineItem     = model.LineItem
	Party        = model.Party
	Output       = render.Output
	Currency     = words.Currency
)

// Re-export document type codes
const (
	DocumentTypeFactura    = model.DocumentTypeFactura
	DocumentTypeBoleta     = model.DocumentTypeBoleta
	DocumentTypeCreditNote = model.DocumentTypeCreditNote
	DocumentTypeDebitNote  = model.DocumentTypeDebitNote
)

// Re-export error types
type (
	NotFoundError = model.NotFoundError
	RenderError   = model.RenderError
	UpstreamError = model.UpstreamError
)

// ErrNotFound matches any missing-document error
var ErrNotFound = model.ErrNotFound

// Soles is the currency of every printed amount
var Soles = words.Soles

// AmountInWords spells out amount in soles, e.g. "CIEN CON 00/100 SOLES"
func AmountInWords(amount decimal.Decimal) string {
	return words.Format(amount)
}

// TypeLabel returns the printed name of a document type code
func TypeLabel(t DocumentType) string {
	return render.TypeLabel(t)
}

// QRPayload returns the SUNAT QR content of doc
func QRPayload(doc *Document) string {
	return render.QRPayload(doc)
}

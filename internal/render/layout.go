package render

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/rezonia/comprobante-printer/internal/decimal"
	"github.com/rezonia/comprobante-printer/internal/model"
)

// Fixed QR payload fields
const (
	qrVersionField       = "01"
	qrRecipientTypeField = "6" // RUC
	qrSeparator          = "|"
)

// DefaultQRServiceURL renders the QR bitmap; the payload goes in "data"
const DefaultQRServiceURL = "https://api.qrserver.com/v1/create-qr-code/?size=120x120"

const fallbackTypeLabel = "Comprobante Electrónico"

var typeLabels = map[model.DocumentType]string{
	model.DocumentTypeFactura:    "Factura Electrónica",
	model.DocumentTypeBoleta:     "Boleta de Venta Electrónica",
	model.DocumentTypeCreditNote: "Nota de Crédito Electrónica",
	model.DocumentTypeDebitNote:  "Nota de Débito Electrónica",
}

// TypeLabel returns the printed name of a document type; unknown codes get a
// generic label.
func TypeLabel(t model.DocumentType) string {
	if label, ok := typeLabels[t]; ok {
		return label
	}
	return fallbackTypeLabel
}

// PrintedNotice is the closing line of the page, with the article agreeing
// with the label: "Representación impresa de la FACTURA ELECTRÓNICA."
func PrintedNotice(t model.DocumentType) string {
	article := "de la"
	if _, ok := typeLabels[t]; !ok {
		article = "del"
	}
	// a Caser is stateful and is not shared between goroutines
	label := cases.Upper(language.Spanish).String(TypeLabel(t))
	return "Representación impresa " + article + " " + label + "."
}

// QRPayload builds the pipe-delimited QR content. Field order is read by SUNAT
// validators and must not change:
//
//	issuer RUC|01|series|number|total|tax|date|6|issuer RUC
func QRPayload(doc *model.Document) string {
	return strings.Join([]string{
		doc.Issuer.TaxID,
		qrVersionField,
		doc.Series,
		doc.Number,
		decimal.Fixed2(doc.Total),
		decimal.Fixed2(doc.Tax),
		doc.IssueDate.Format(model.DateLayout),
		qrRecipientTypeField,
		doc.Issuer.TaxID,
	}, qrSeparator)
}

// QRImageURL points the image service at payload
func QRImageURL(serviceURL, payload string) (string, error) {
	u, err := url.Parse(serviceURL)
	if err != nil {
		return "", fmt.Errorf("invalid QR service URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid QR service URL %q", serviceURL)
	}

	q := u.Query()
	q.Set("data", payload)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

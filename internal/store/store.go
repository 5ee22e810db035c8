// Package store looks comprobantes up in the sales database and assembles the
// joined rows into a model.Document.
package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/unicode/norm"

	"github.com/rezonia/comprobante-printer/internal/model"
)

// DocumentStore returns the joined header+item rows of one document, in item
// order. No rows means no such document.
type DocumentStore interface {
	Lookup(ctx context.Context, key model.DocumentKey) ([]Row, error)
}

// Row is one line item joined with its document header
type Row struct {
	RUC            string          `gorm:"column:ruc"`
	Cliente        string          `gorm:"column:cliente"`
	Direccion      string          `gorm:"column:direccion"`
	TipoDocumento  string          `gorm:"column:tipo_documento"`
	Serie          string          `gorm:"column:serie"`
	Numero         string          `gorm:"column:numero"`
	FechaEmision   string          `gorm:"column:fecha_emision"`
	TipoMoneda     string          `gorm:"column:tipo_moneda"`
	TotalDocumento decimal.Decimal `gorm:"column:total_documento"`
	SubTotal       decimal.Decimal `gorm:"column:sub_total"`
	TotalIGV       decimal.Decimal `gorm:"column:total_igv"`
	Vendedor       string          `gorm:"column:vendedor"`
	IDInterno      string          `gorm:"column:id_interno"`
	Cantidad       decimal.Decimal `gorm:"column:cantidad"`
	PrecioUnitario decimal.Decimal `gorm:"column:precio_unitario"`
	TotalItem      decimal.Decimal `gorm:"column:total_item"`
	Descripcion    string          `gorm:"column:descripcion"`
}

// ErrNoRows is returned by Assemble for an empty row set
var ErrNoRows = errors.New("no rows to assemble")

// Assemble builds a document from its rows: header fields from the first row,
// one line item per row.
func Assemble(rows []Row, issuer model.Party) (*model.Document, error) {
	if len(rows) == 0 {
		return nil, ErrNoRows
	}
	head := rows[0]

	issued, err := time.Parse(model.DateLayout, clean(head.FechaEmision))
	if err != nil {
		return nil, model.NewUpstreamError("decode fecha_emision", err)
	}

	doc := &model.Document{
		Type:       model.DocumentType(clean(head.TipoDocumento)),
		Series:     clean(head.Serie),
		Number:     clean(head.Numero),
		InternalID: clean(head.IDInterno),
		Issuer:     issuer,
		Recipient: model.Party{
			TaxID:   clean(head.RUC),
			Name:    clean(head.Cliente),
			Address: clean(head.Direccion),
		},
		Seller:    clean(head.Vendedor),
		IssueDate: issued,
		Currency:  clean(head.TipoMoneda),
		Subtotal:  head.SubTotal,
		Tax:       head.TotalIGV,
		Total:     head.TotalDocumento,
		Items:     make([]model.LineItem, 0, len(rows)),
	}

	for _, r := range rows {
		doc.Items = append(doc.Items, model.LineItem{
			Description: clean(r.Descripcion),
			Quantity:    r.Cantidad,
			UnitPrice:   r.PrecioUnitario,
			Total:       r.TotalItem,
		})
	}

	return doc, nil
}

// clean trims CHAR padding and composes accents so "Ñ" and "É" print as one glyph.
func clean(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

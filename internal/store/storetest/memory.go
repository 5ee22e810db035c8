// Package storetest provides an in-memory store.DocumentStore for tests.
package storetest

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/rezonia/comprobante-printer/internal/model"
	"github.com/rezonia/comprobante-printer/internal/store"
)

// Store serves rows from a map keyed by DocumentKey
type Store struct {
	mu      sync.Mutex
	docs    map[model.DocumentKey][]store.Row
	lookups int

	Err error // Returned by every Lookup when set
}

// New returns an empty store
func New() *Store {
	return &Store{docs: make(map[model.DocumentKey][]store.Row)}
}

// Add registers the rows of one document
func (s *Store) Add(key model.DocumentKey, rows ...store.Row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[key] = rows
}

// Lookup implements store.DocumentStore
func (s *Store) Lookup(_ context.Context, key model.DocumentKey) ([]store.Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lookups++
	if s.Err != nil {
		return nil, s.Err
	}
	return s.docs[key], nil
}

// Lookups returns how many lookups were served
func (s *Store) Lookups() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lookups
}

// Factura returns the key and rows of a two-item factura totalling S/ 118.00
func Factura() (model.DocumentKey, []store.Row) {
	key := model.DocumentKey{Type: model.DocumentTypeFactura, Series: "F001", Number: "00000123"}

	row := func(desc, qty, price, total string) store.Row {
		return store.Row{
			RUC:            "20123456789",
			Cliente:        "FERRETERÍA EL PROGRESO SAC",
			Direccion:      "Av. Huancavelica 120",
			TipoDocumento:  string(key.Type),
			Serie:          key.Series,
			Numero:         key.Number,
			FechaEmision:   "2025-03-14",
			TipoMoneda:     "PEN",
			TotalDocumento: decimal.RequireFromString("118.00"),
			SubTotal:       decimal.RequireFromString("100.00"),
			TotalIGV:       decimal.RequireFromString("18.00"),
			Vendedor:       "JUAN PEREZ",
			IDInterno:      "000981",
			Cantidad:       decimal.RequireFromString(qty),
			PrecioUnitario: decimal.RequireFromString(price),
			TotalItem:      decimal.RequireFromString(total),
			Descripcion:    desc,
		}
	}

	return key, []store.Row{
		row("CEMENTO SOL 42.5KG", "2", "29.50", "59.00"),
		row("FIERRO CORRUGADO 1/2", "1", "59.00", "59.00"),
	}
}

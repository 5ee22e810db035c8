package comprobantelib

import (
	"io"
	"log/slog"

	"github.com/rezonia/comprobante-printer/internal/render"
)

func NewPrinterWithEngine(engine render.Engine, opts PrinterOptions) *Printer {
	return newPrinter(engine, opts, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

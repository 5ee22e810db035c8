package comprobantelib

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/rezonia/comprobante-printer/internal/render"
	"github.com/rezonia/comprobante-printer/internal/render/chrome"
)

// PrinterOptions configures a Printer
type PrinterOptions struct {
	ChromePath     string
	MaxConcurrency int64
	Timeout        time.Duration
	QRServiceURL   string
	LogoURL        string
	BankAccounts   []string
	Logger         *slog.Logger
}

// DefaultPrinterOptions returns the options used by the HTTP service
func DefaultPrinterOptions() PrinterOptions {
	return PrinterOptions{
		MaxConcurrency: chrome.DefaultMaxConcurrency,
		Timeout:        chrome.DefaultTimeout,
		QRServiceURL:   render.DefaultQRServiceURL,
	}
}

// Printer renders documents with headless Chrome
type Printer struct {
	renderer *render.Renderer
}

// NewPrinter creates a printer with the given options
func NewPrinter(opts PrinterOptions) *Printer {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	engine := chrome.NewEngine(logger,
		chrome.WithExecPath(opts.ChromePath),
		chrome.WithTimeout(opts.Timeout),
		chrome.WithMaxConcurrency(opts.MaxConcurrency),
	)

	return newPrinter(engine, opts, logger)
}

// NewDefaultPrinter creates a printer with default options
func NewDefaultPrinter() *Printer {
	return NewPrinter(DefaultPrinterOptions())
}

func newPrinter(engine render.Engine, opts PrinterOptions, logger *slog.Logger) *Printer {
	renderOpts := []render.Option{
		render.WithLogoURL(opts.LogoURL),
		render.WithBankAccounts(opts.BankAccounts),
		render.WithLogger(logger),
	}
	if opts.QRServiceURL != "" {
		renderOpts = append(renderOpts, render.WithQRServiceURL(opts.QRServiceURL))
	}

	return &Printer{renderer: render.NewRenderer(engine, renderOpts...)}
}

// Print renders doc to a verified PDF
func (p *Printer) Print(ctx context.Context, doc *Document) (*Output, error) {
	return p.renderer.Render(ctx, doc)
}

// Markup returns the HTML that Print would hand to the browser
func (p *Printer) Markup(doc *Document) (string, error) {
	return p.renderer.Compose(doc)
}

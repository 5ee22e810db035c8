// Package processor runs one print request: document lookup, assembly and
// rendering.
package processor

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/rezonia/comprobante-printer/internal/metrics"
	"github.com/rezonia/comprobante-printer/internal/model"
	"github.com/rezonia/comprobante-printer/internal/render"
	"github.com/rezonia/comprobante-printer/internal/store"
)

// Renderer turns an assembled document into a PDF
type Renderer interface {
	Render(ctx context.Context, doc *model.Document) (*render.Output, error)
}

// Pipeline wires a document store to a renderer
type Pipeline struct {
	store    store.DocumentStore
	renderer Renderer
	issuer   model.Party
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// Option configures the pipeline
type Option func(*Pipeline)

// WithIssuer sets the company printed as issuer on every document
func WithIssuer(issuer model.Party) Option {
	return func(p *Pipeline) {
		p.issuer = issuer
	}
}

// WithMetrics records lookups and renders
func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pipeline) {
		p.metrics = m
	}
}

// WithLogger sets the logger
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = l
	}
}

// NewPipeline creates a new print pipeline
func NewPipeline(s store.DocumentStore, r Renderer, opts ...Option) *Pipeline {
	p := &Pipeline{
		store:    s,
		renderer: r,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Document looks key up and assembles it. A missing document yields a
// *model.NotFoundError.
func (p *Pipeline) Document(ctx context.Context, key model.DocumentKey) (*model.Document, error) {
	rows, err := p.store.Lookup(ctx, key)
	if err != nil {
		p.metrics.ObserveLookup(metrics.OutcomeError)
		return nil, err
	}
	if len(rows) == 0 {
		p.metrics.ObserveLookup(metrics.OutcomeNotFound)
		return nil, model.NewNotFoundError(key)
	}
	p.metrics.ObserveLookup(metrics.OutcomeOK)

	doc, err := store.Assemble(rows, p.issuer)
	if err != nil {
		return nil, err
	}

	if !doc.TotalsConsistent() {
		p.logger.Warn("document totals do not add up",
			slog.String("key", key.String()),
			slog.String("subtotal", doc.Subtotal.String()),
			slog.String("tax", doc.Tax.String()),
			slog.String("total", doc.Total.String()),
		)
	}

	return doc, nil
}

// Print looks key up and renders it. The renderer is not invoked when the
// document does not exist.
func (p *Pipeline) Print(ctx context.Context, key model.DocumentKey) (*render.Output, error) {
	doc, err := p.Document(ctx, key)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	out, err := p.renderer.Render(ctx, doc)
	elapsed := time.Since(start)

	if err != nil {
		p.metrics.ObserveRender(string(doc.Type), metrics.OutcomeError, elapsed, 0)

		attrs := []any{
			slog.String("key", key.String()),
			slog.Duration("elapsed", elapsed),
			slog.String("error", err.Error()),
		}
		var renderErr *model.RenderError
		if errors.As(err, &renderErr) {
			attrs = append(attrs, slog.String("stage", renderErr.Stage))
		}
		p.logger.Error("render failed", attrs...)
		return nil, err
	}

	p.metrics.ObserveRender(string(doc.Type), metrics.OutcomeOK, elapsed, out.Pages)
	p.logger.Info("comprobante rendered",
		slog.String("key", key.String()),
		slog.Int("pages", out.Pages),
		slog.Duration("elapsed", elapsed),
	)

	return out, nil
}

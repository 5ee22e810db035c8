package cmd

import (
	"fmt"

	"github.com/rezonia/comprobante-printer/internal/metrics"
	"github.com/rezonia/comprobante-printer/internal/processor"
	"github.com/rezonia/comprobante-printer/internal/render"
	"github.com/rezonia/comprobante-printer/internal/render/chrome"
	"github.com/rezonia/comprobante-printer/internal/store"
)

// buildPipeline connects to the database and wires the Chrome renderer. The
// caller closes the returned store.
func buildPipeline(m *metrics.Metrics) (*processor.Pipeline, *store.GormStore, error) {
	db, err := store.NewPostgresDB(&cfg.Database, cfg.App.Debug, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to database: %w", err)
	}
	docs := store.NewGormStore(db)

	engine := chrome.NewEngine(logger,
		chrome.WithExecPath(cfg.Render.ChromePath),
		chrome.WithTimeout(cfg.Render.Timeout),
		chrome.WithMaxConcurrency(cfg.Render.MaxConcurrency),
	)

	renderer := render.NewRenderer(engine,
		render.WithQRServiceURL(cfg.Render.QRServiceURL),
		render.WithLogoURL(cfg.Company.LogoURL),
		render.WithBankAccounts(cfg.Company.BankAccounts),
		render.WithLogger(logger),
	)

	pipeline := processor.NewPipeline(docs, renderer,
		processor.WithIssuer(issuer()),
		processor.WithMetrics(m),
		processor.WithLogger(logger),
	)

	return pipeline, docs, nil
}

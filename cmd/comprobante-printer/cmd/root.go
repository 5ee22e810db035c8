package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/rezonia/comprobante-printer/internal/config"
	"github.com/rezonia/comprobante-printer/internal/model"
)

var (
	version = "1.0.0"

	// Global flags
	verbose  bool
	jsonLogs bool

	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "comprobante-printer",
	Short: "Print Peruvian electronic sales documents as PDF",
	Long: `Comprobante Printer looks up facturas, boletas and credit/debit notes in
the sales database and prints them as A4 PDFs with the amount in words and
the SUNAT QR code.

Configuration is read from .env and the environment (DB_*, COMPANY_*,
CHROME_PATH, QR_SERVICE_URL, ...).

Examples:
  # Start the HTTP service
  comprobante-printer serve

  # Print one factura to a file
  comprobante-printer render 01 F001 00000123 -o factura.pdf

  # Spell out an amount
  comprobante-printer words 1250.40`,
	Version: version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.Load(slog.Default())
		logger = newLogger(jsonLogs || cfg.App.IsProduction())
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonLogs, "json-logs", false, "Log as JSON instead of text (always on when APP_ENV=production)")
}

func newLogger(asJSON bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	if asJSON {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

func issuer() model.Party {
	return model.Party{
		TaxID:   cfg.Company.TaxID,
		Name:    cfg.Company.Name,
		Address: cfg.Company.Address,
		Phone:   cfg.Company.Phone,
	}
}

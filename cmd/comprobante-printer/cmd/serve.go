package cmd

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rezonia/comprobante-printer/internal/metrics"
	"github.com/rezonia/comprobante-printer/internal/server"
)

var (
	serverAddr   string
	readTimeout  time.Duration
	writeTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start the HTTP server that prints comprobantes on demand.

Endpoints:
  - GET /api/comprobantes/:tipo/:serie/:numero  - PDF of one document
  - GET /health                                 - Health check (pings the database)
  - GET /metrics                                - Prometheus metrics
  - GET /public/*                               - Static assets (logo)

Examples:
  # Start on the port from PORT (default 3000)
  comprobante-printer serve

  # Start on a custom address
  comprobante-printer serve --address :8080`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serverAddr, "address", "", "Server listen address (default :$PORT)")
	serveCmd.Flags().DurationVar(&readTimeout, "read-timeout", 30*time.Second, "HTTP read timeout")
	serveCmd.Flags().DurationVar(&writeTimeout, "write-timeout", 2*time.Minute, "HTTP write timeout")
}

func runServe(cmd *cobra.Command, args []string) error {
	m := metrics.New()

	pipeline, docs, err := buildPipeline(m)
	if err != nil {
		return err
	}
	defer docs.Close()

	address := serverAddr
	if address == "" {
		address = ":" + cfg.App.Port
	}

	srv := server.NewServer(&server.Config{
		Address:      address,
		PublicDir:    cfg.App.PublicDir,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		Debug:        cfg.App.Debug,
		CORS:         cfg.CORS,
		RateLimit:    cfg.RateLimit,
	}, pipeline,
		server.WithHealthCheck(docs),
		server.WithMetricsHandler(m.Handler()),
		server.WithLogger(logger),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("starting comprobante printer",
		slog.String("app", cfg.App.Name),
		slog.String("env", cfg.App.Env),
		slog.String("version", version),
		slog.Int64("max_concurrent_renders", cfg.Render.MaxConcurrency),
	)

	return srv.Run(ctx)
}

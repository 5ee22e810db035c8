package config_test

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rezonia/comprobante-printer/internal/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoad_Defaults(t *testing.T) {
	cfg := config.Load(discardLogger())

	assert.Equal(t, "comprobante-printer", cfg.App.Name)
	assert.Equal(t, "3000", cfg.App.Port)
	assert.False(t, cfg.App.IsProduction())

	assert.Equal(t, int64(4), cfg.Render.MaxConcurrency)
	assert.Equal(t, 60*time.Second, cfg.Render.Timeout)
	assert.Contains(t, cfg.Render.QRServiceURL, "api.qrserver.com")

	assert.Equal(t, "20486293692", cfg.Company.TaxID)
	assert.Len(t, cfg.Company.BankAccounts, 2)
	assert.Contains(t, cfg.Company.BankAccounts[0], "BBVA")

	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, []string{"GET", "OPTIONS"}, cfg.CORS.AllowedMethods)
	assert.Empty(t, cfg.CORS.AllowedHeaders)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("PORT", "8081")
	t.Setenv("RENDER_TIMEOUT", "15s")
	t.Setenv("RENDER_MAX_CONCURRENCY", "1")
	t.Setenv("COMPANY_RUC", "20999999991")
	t.Setenv("BANK_ACCOUNTS", "BCP: 191-000 ; ")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg := config.Load(discardLogger())

	assert.True(t, cfg.App.IsProduction())
	assert.Equal(t, "8081", cfg.App.Port)
	assert.Equal(t, 15*time.Second, cfg.Render.Timeout)
	assert.Equal(t, int64(1), cfg.Render.MaxConcurrency)
	assert.Equal(t, "20999999991", cfg.Company.TaxID)
	assert.Equal(t, []string{"BCP: 191-000"}, cfg.Company.BankAccounts)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	db := config.DatabaseConfig{
		Host:     "db",
		Port:     "5432",
		Name:     "ventas",
		User:     "app",
		Password: "secret",
		SSLMode:  "disable",
		Timezone: "America/Lima",
	}

	assert.Equal(t,
		"host=db user=app password=secret dbname=ventas port=5432 sslmode=disable TimeZone=America/Lima",
		db.DSN(),
	)
}

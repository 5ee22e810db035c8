package config

import (
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Render    RenderConfig
	Company   CompanyConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	Name      string
	Env       string
	Port      string
	Debug     bool
	PublicDir string
}

type DatabaseConfig struct {
	Host         string
	Port         string
	Name         string
	User         string
	Password     string
	SSLMode      string
	Timezone     string
	MaxIdleConns int
	MaxOpenConns int
}

type RenderConfig struct {
	ChromePath     string
	MaxConcurrency int64
	Timeout        time.Duration
	QRServiceURL   string
}

// CompanyConfig is the issuer printed on every comprobante
type CompanyConfig struct {
	Name         string
	TaxID        string
	Address      string
	Phone        string
	LogoURL      string
	BankAccounts []string
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// Load reads .env (when present) and the environment.
func Load(logger *slog.Logger) *Config {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		logger.Debug(".env file not found, using environment variables", slog.String("error", err.Error()))
	}

	setDefaults(v)
	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "comprobante-printer")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("PORT", "3000")
	v.SetDefault("DEBUG", false)
	v.SetDefault("PUBLIC_DIR", "./public")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "ventas")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_TIMEZONE", "America/Lima")
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_MAX_OPEN_CONNS", 20)

	v.SetDefault("CHROME_PATH", "")
	v.SetDefault("RENDER_MAX_CONCURRENCY", 4)
	v.SetDefault("RENDER_TIMEOUT", "60s")
	v.SetDefault("QR_SERVICE_URL", "https://api.qrserver.com/v1/create-qr-code/?size=120x120")

	v.SetDefault("COMPANY_NAME", "COMERCIAL SPLANA E.I.R.L.")
	v.SetDefault("COMPANY_RUC", "20486293692")
	v.SetDefault("COMPANY_ADDRESS", "Calle Real 261, Junín, Perú")
	v.SetDefault("COMPANY_PHONE", "(064) 216665")
	v.SetDefault("COMPANY_LOGO_URL", "http://localhost:3000/public/logo.png")
	v.SetDefault("BANK_ACCOUNTS", "Banco BBVA: 0011-0307-02-00002023 (Soles);Banco Interbank: 0011-0307-02-00002279 (Soles)")

	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("CORS_ALLOWED_METHODS", "GET,OPTIONS")
	v.SetDefault("CORS_ALLOWED_HEADERS", "")
	v.SetDefault("RATE_LIMIT_RPS", 5)
	v.SetDefault("RATE_LIMIT_BURST", 10)
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		App: AppConfig{
			Name:      v.GetString("APP_NAME"),
			Env:       v.GetString("APP_ENV"),
			Port:      v.GetString("PORT"),
			Debug:     v.GetBool("DEBUG"),
			PublicDir: v.GetString("PUBLIC_DIR"),
		},
		Database: DatabaseConfig{
			Host:         v.GetString("DB_HOST"),
			Port:         v.GetString("DB_PORT"),
			Name:         v.GetString("DB_NAME"),
			User:         v.GetString("DB_USER"),
			Password:     v.GetString("DB_PASSWORD"),
			SSLMode:      v.GetString("DB_SSL_MODE"),
			Timezone:     v.GetString("DB_TIMEZONE"),
			MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
			MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		},
		Render: RenderConfig{
			ChromePath:     v.GetString("CHROME_PATH"),
			MaxConcurrency: v.GetInt64("RENDER_MAX_CONCURRENCY"),
			Timeout:        v.GetDuration("RENDER_TIMEOUT"),
			QRServiceURL:   v.GetString("QR_SERVICE_URL"),
		},
		Company: CompanyConfig{
			Name:         v.GetString("COMPANY_NAME"),
			TaxID:        v.GetString("COMPANY_RUC"),
			Address:      v.GetString("COMPANY_ADDRESS"),
			Phone:        v.GetString("COMPANY_PHONE"),
			LogoURL:      v.GetString("COMPANY_LOGO_URL"),
			BankAccounts: splitList(v.GetString("BANK_ACCOUNTS"), ";"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS"), ","),
			AllowedMethods: splitList(v.GetString("CORS_ALLOWED_METHODS"), ","),
			AllowedHeaders: splitList(v.GetString("CORS_ALLOWED_HEADERS"), ","),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: v.GetFloat64("RATE_LIMIT_RPS"),
			Burst:             v.GetInt("RATE_LIMIT_BURST"),
		},
	}
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}

// IsProduction reports whether gin should run in release mode
func (c *AppConfig) IsProduction() bool {
	return c.Env == "production"
}

func splitList(raw, sep string) []string {
	var out []string
	for _, part := range strings.Split(raw, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

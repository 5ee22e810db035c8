package store

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rezonia/comprobante-printer/internal/config"
	"github.com/rezonia/comprobante-printer/internal/model"
)

const lookupQuery = `SELECT
	c.crucclie AS ruc,
	c.cnomclie AS cliente,
	c.cdirclie AS direccion,
	c.ctipdocu AS tipo_documento,
	c.cserdocu AS serie,
	c.cnumdocu AS numero,
	to_char(c.ffecemis, 'YYYY-MM-DD') AS fecha_emision,
	c.ctipmone AS tipo_moneda,
	c.ntotdocu AS total_documento,
	c.nvv_docu AS sub_total,
	c.nigvdocu AS total_igv,
	v.ctitvend AS vendedor,
	c.ccodinte AS id_interno,
	d.ncanvent AS cantidad,
	d.npreunit AS precio_unitario,
	d.ntotregi AS total_item,
	p.ctitprod AS descripcion
FROM tx_salidac c
JOIN tx_salidad d ON c.ccodinte = d.ccodinte
JOIN gx_producto p ON d.ccodprod = p.ccodprod
JOIN gx_vendedor v ON c.ccodvend = v.ccodvend
WHERE c.ctipdocu = ? AND c.cserdocu = ? AND c.cnumdocu = ?`

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig, debug bool, log *slog.Logger) (*gorm.DB, error) {
	logLevel := logger.Warn
	if debug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)

	log.Info("connected to database", slog.String("host", cfg.Host), slog.String("name", cfg.Name))
	return db, nil
}

// GormStore reads comprobantes from the legacy sales tables
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a store over an open connection pool
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Lookup implements DocumentStore
func (s *GormStore) Lookup(ctx context.Context, key model.DocumentKey) ([]Row, error) {
	var rows []Row
	err := s.db.WithContext(ctx).
		Raw(lookupQuery, string(key.Type), key.Series, key.Number).
		Scan(&rows).Error
	if err != nil {
		return nil, model.NewUpstreamError("lookup", err)
	}
	return rows, nil
}

// Ping checks that the database answers
func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return model.NewUpstreamError("ping", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return model.NewUpstreamError("ping", err)
	}
	return nil
}

// Close releases the connection pool
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

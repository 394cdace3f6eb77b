package infra

import (
	"fmt"

	"casaceja/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Folio sequences, one per document type.
const (
	SeqFolioVentas    = "folio_ventas_seq"
	SeqFolioCreditos  = "folio_creditos_seq"
	SeqFolioApartados = "folio_apartados_seq"
	SeqFolioAbonos    = "folio_abonos_seq"
	SeqFolioCortes    = "folio_cortes_seq"
)

// NewDatabase opens a GORM connection over pgx and brings the schema up to date.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates the folio sequences, runs AutoMigrate over every model
// and applies the DDL AutoMigrate cannot express. Every step is idempotent.
func RunMigrations(db *gorm.DB) error {
	for _, seq := range []string{SeqFolioVentas, SeqFolioCreditos, SeqFolioApartados, SeqFolioAbonos, SeqFolioCortes} {
		if err := db.Exec("CREATE SEQUENCE IF NOT EXISTS " + seq).Error; err != nil {
			return fmt.Errorf("sequence %s: %w", seq, err)
		}
	}

	if err := db.AutoMigrate(
		&model.Sucursal{},
		&model.Usuario{},
		&model.Categoria{},
		&model.Producto{},
		&model.MovimientoStock{},
		&model.Cliente{},
		&model.Corte{},
		&model.MovimientoCaja{},
		&model.Venta{},
		&model.VentaItem{},
		&model.VentaPago{},
		&model.Credito{},
		&model.CreditoItem{},
		&model.Apartado{},
		&model.ApartadoItem{},
		&model.Abono{},
		&model.AbonoPago{},
		&model.Snapshot{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}

	return applySchemaPatches(db)
}

// applySchemaPatches runs DDL that GORM tags cannot describe.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// At most one open corte per branch, enforced by the database as well
		// as by the shift lock.
		{"one open corte per sucursal", `
CREATE UNIQUE INDEX IF NOT EXISTS idx_cortes_sucursal_abierto
    ON cortes (sucursal_id) WHERE estado = 'abierto'`},
		{"positive movement amounts", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_movimiento_cajas_monto') THEN
    ALTER TABLE movimiento_cajas ADD CONSTRAINT chk_movimiento_cajas_monto CHECK (monto > 0);
  END IF;
END $$`},
		{"non-negative balances", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_creditos_saldo') THEN
    ALTER TABLE creditos ADD CONSTRAINT chk_creditos_saldo CHECK (saldo >= 0);
  END IF;
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_apartados_saldo') THEN
    ALTER TABLE apartados ADD CONSTRAINT chk_apartados_saldo CHECK (saldo >= 0);
  END IF;
END $$`},
		{"abono lookup by account", `
CREATE INDEX IF NOT EXISTS idx_abonos_tipo_referencia ON abonos (tipo, referencia_id, fecha)`},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}

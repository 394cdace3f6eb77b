package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Corte.Estado values. A corte is open until it is closed exactly once.
const (
	CorteAbierto = "abierto"
	CorteCerrado = "cerrado"
)

// MovimientoCaja.Tipo values.
const (
	MovimientoGasto   = "gasto"
	MovimientoIngreso = "ingreso"
)

// Corte is one open-to-close session of a branch register (corte de caja).
// The totals columns stay zero while the corte is open and are frozen at close.
type Corte struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Folio        int             `gorm:"uniqueIndex;not null"`
	SucursalID   uuid.UUID       `gorm:"type:uuid;index;not null"`
	UsuarioID    uuid.UUID       `gorm:"type:uuid;not null"`
	FondoInicial decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Estado       string          `gorm:"type:varchar(20);not null;default:'abierto'"`

	TotalEfectivo       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalTarjetaDebito  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalTarjetaCredito decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalCheques        decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalTransferencias decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalOtros          decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	NumeroVentas        int             `gorm:"not null;default:0"`
	CreditosCreados     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	ApartadosCreados    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	AbonosCreditoEfe    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	AbonosApartadoEfe   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	AbonosCreditoOtros  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	AbonosApartadoOtros decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	NumeroCreditos      int             `gorm:"not null;default:0"`
	NumeroApartados     int             `gorm:"not null;default:0"`
	NumeroAbonosCredito int             `gorm:"not null;default:0"`
	NumeroAbonosApart   int             `gorm:"not null;default:0"`
	TotalGastos         decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalIngresos       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	TotalDelCorte       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`

	EfectivoEsperado  *decimal.Decimal `gorm:"type:decimal(12,2)"`
	EfectivoDeclarado *decimal.Decimal `gorm:"type:decimal(12,2)"`
	// Diferencia = declarado - esperado (positive = sobrante, negative = faltante)
	Diferencia    *decimal.Decimal `gorm:"type:decimal(12,2)"`
	DiferenciaPct *decimal.Decimal `gorm:"type:decimal(7,2)"`
	// Clasificacion: "normal" | "advertencia" | "critico"
	Clasificacion *string `gorm:"type:varchar(20)"`
	Observaciones *string

	SyncStatus string `gorm:"type:varchar(20);not null;default:'pending'"`
	OpenedAt   time.Time
	ClosedAt   *time.Time

	Movimientos []MovimientoCaja `gorm:"foreignKey:CorteID"`
}

// Abierto reports whether the corte still accepts movements.
func (c *Corte) Abierto() bool { return c.Estado == CorteAbierto }

// MovimientoCaja is a manual expense or income entry of a corte.
// Movements are never modified or deleted.
type MovimientoCaja struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CorteID   uuid.UUID       `gorm:"type:uuid;index;not null"`
	Tipo      string          `gorm:"type:varchar(20);not null"`
	Concepto  string          `gorm:"not null"`
	Monto     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	UsuarioID uuid.UUID       `gorm:"type:uuid;not null"`
	CreatedAt time.Time
}

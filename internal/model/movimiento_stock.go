package model

import (
	"time"

	"github.com/google/uuid"
)

// MovimientoStock.Tipo values.
const (
	StockVenta       = "venta"
	StockCancelacion = "cancelacion"
	StockCredito     = "credito"
	StockApartado    = "apartado"
	StockAjuste      = "ajuste_manual"
)

// MovimientoStock records every change of a product's stock.
// Rows are never modified or deleted.
type MovimientoStock struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Tipo          string    `gorm:"type:varchar(20);not null"`
	Cantidad      int       `gorm:"not null"` // positive = entrada, negative = salida
	StockAnterior int       `gorm:"not null"`
	StockNuevo    int       `gorm:"not null"`
	Motivo        string
	// ReferenciaID is the sale, credit or layaway that caused the movement
	ReferenciaID *uuid.UUID `gorm:"type:uuid"`
	UsuarioID    *uuid.UUID `gorm:"type:uuid"`
	CreatedAt    time.Time
}

// TableName overrides GORM's default pluralization (movimiento_stocks → movimientos_stock).
func (MovimientoStock) TableName() string { return "movimientos_stock" }

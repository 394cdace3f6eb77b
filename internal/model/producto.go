package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Producto is a catalog entry. Precio is the retail (list) price; the other
// tiers are optional and zero when the product does not offer them.
type Producto struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CodigoBarras string          `gorm:"uniqueIndex;not null"`
	Nombre       string          `gorm:"index;not null"`
	CategoriaID  *uuid.UUID      `gorm:"type:uuid;index"`
	Precio       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// PrecioMayoreo applies once the line reaches CantidadMayoreo units
	PrecioMayoreo   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	CantidadMayoreo int             `gorm:"not null;default:0"`
	PrecioEspecial  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	PrecioVendedor  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	StockActual     int             `gorm:"not null;default:0"`
	Activo          bool            `gorm:"not null;default:true"`
	SyncStatus      string          `gorm:"type:varchar(20);not null;default:'pending'"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Categoria *Categoria `gorm:"foreignKey:CategoriaID"`
}

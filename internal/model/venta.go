package model

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	VentaCompletada = "completada"
	VentaCancelada  = "cancelada"
)

// Venta is a direct (fully paid) sale.
type Venta struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Folio      int             `gorm:"uniqueIndex;not null"`
	SucursalID uuid.UUID       `gorm:"type:uuid;index;not null"`
	UsuarioID  uuid.UUID       `gorm:"type:uuid;not null"`
	ClienteID  *uuid.UUID      `gorm:"type:uuid"`
	CorteID    uuid.UUID       `gorm:"type:uuid;index;not null"`
	Subtotal   decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Descuento  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Total      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	// Recibido is what the customer handed over; Cambio = Recibido - Total
	Recibido decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Cambio   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Estado   string          `gorm:"type:varchar(20);not null;default:'completada'"`
	// MotivoCancelacion is set when Estado is cancelada
	MotivoCancelacion *string
	Fecha             time.Time `gorm:"index;not null"`
	SyncStatus        string    `gorm:"type:varchar(20);not null;default:'pending'"`
	CreatedAt         time.Time

	Items []VentaItem `gorm:"foreignKey:VentaID"`
	Pagos []VentaPago `gorm:"foreignKey:VentaID"`
}

// Breakdown returns the payment entries in capture order.
func (v *Venta) Breakdown() []Pago {
	out := make([]Pago, 0, len(v.Pagos))
	for _, p := range ordenarPagos(v.Pagos) {
		out = append(out, p.Pago)
	}
	return out
}

// LineaItem is the shape shared by sale, credit and layaway lines.
type LineaItem struct {
	ProductoID     uuid.UUID       `gorm:"type:uuid;not null"`
	Nombre         string          `gorm:"not null"`
	Cantidad       int             `gorm:"not null"`
	PrecioLista    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Importe        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	TipoPrecio     TipoPrecio      `gorm:"type:varchar(20);not null;default:'ninguno'"`
	// DescuentoCategoriaPct is nil when the category carried no discount
	DescuentoCategoriaPct *decimal.Decimal `gorm:"type:decimal(5,2)"`
}

type VentaItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID   uuid.UUID `gorm:"type:uuid;index;not null"`
	Orden     int       `gorm:"not null;default:0"`
	LineaItem `gorm:"embedded"`
}

type VentaPago struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	VentaID uuid.UUID `gorm:"type:uuid;index;not null"`
	Orden   int       `gorm:"not null;default:0"`
	Pago    `gorm:"embedded"`
}

func ordenarPagos(pagos []VentaPago) []VentaPago {
	out := make([]VentaPago, len(pagos))
	copy(out, pagos)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Orden < out[j].Orden })
	return out
}

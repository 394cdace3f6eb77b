package model

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Estado for credits and layaways.
const (
	CuentaActiva    = "activo"
	CuentaLiquidada = "liquidado"
	CuentaCancelada = "cancelado"
)

// Abono.Tipo values.
const (
	AbonoCredito  = "credito"
	AbonoApartado = "apartado"
)

// Credito is a sale delivered immediately and paid off over time.
// Total is the full original value; Saldo is what is still owed.
type Credito struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Folio      int             `gorm:"uniqueIndex;not null"`
	SucursalID uuid.UUID       `gorm:"type:uuid;index;not null"`
	UsuarioID  uuid.UUID       `gorm:"type:uuid;not null"`
	ClienteID  uuid.UUID       `gorm:"type:uuid;index;not null"`
	Total      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Saldo      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Estado     string          `gorm:"type:varchar(20);not null;default:'activo'"`
	Fecha      time.Time       `gorm:"index;not null"`
	SyncStatus string          `gorm:"type:varchar(20);not null;default:'pending'"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Items []CreditoItem `gorm:"foreignKey:CreditoID"`
}

func (Credito) TableName() string { return "creditos" }

type CreditoItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CreditoID uuid.UUID `gorm:"type:uuid;index;not null"`
	Orden     int       `gorm:"not null;default:0"`
	LineaItem `gorm:"embedded"`
}

// Apartado is a layaway: goods are reserved and delivered once fully paid.
type Apartado struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Folio       int             `gorm:"uniqueIndex;not null"`
	SucursalID  uuid.UUID       `gorm:"type:uuid;index;not null"`
	UsuarioID   uuid.UUID       `gorm:"type:uuid;not null"`
	ClienteID   uuid.UUID       `gorm:"type:uuid;index;not null"`
	Total       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Saldo       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Estado      string          `gorm:"type:varchar(20);not null;default:'activo'"`
	FechaLimite time.Time       `gorm:"not null"`
	Fecha       time.Time       `gorm:"index;not null"`
	SyncStatus  string          `gorm:"type:varchar(20);not null;default:'pending'"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Items []ApartadoItem `gorm:"foreignKey:ApartadoID"`
}

type ApartadoItem struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ApartadoID uuid.UUID `gorm:"type:uuid;index;not null"`
	Orden      int       `gorm:"not null;default:0"`
	LineaItem  `gorm:"embedded"`
}

// Abono is a payment against a credit or layaway. The down payment taken when
// the account is opened is recorded as the first abono.
type Abono struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Folio         int             `gorm:"uniqueIndex;not null"`
	Tipo          string          `gorm:"type:varchar(20);not null"` // credito | apartado
	ReferenciaID  uuid.UUID       `gorm:"type:uuid;index;not null"`
	SucursalID    uuid.UUID       `gorm:"type:uuid;index;not null"`
	UsuarioID     uuid.UUID       `gorm:"type:uuid;not null"`
	CorteID       uuid.UUID       `gorm:"type:uuid;index;not null"`
	Monto         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	SaldoAnterior decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	SaldoNuevo    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Fecha         time.Time       `gorm:"index;not null"`
	SyncStatus    string          `gorm:"type:varchar(20);not null;default:'pending'"`
	CreatedAt     time.Time

	Pagos []AbonoPago `gorm:"foreignKey:AbonoID"`
}

type AbonoPago struct {
	ID      uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	AbonoID uuid.UUID `gorm:"type:uuid;index;not null"`
	Orden   int       `gorm:"not null;default:0"`
	Pago    `gorm:"embedded"`
}

// Breakdown returns the payment entries in capture order.
func (a *Abono) Breakdown() []Pago {
	rows := make([]AbonoPago, len(a.Pagos))
	copy(rows, a.Pagos)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Orden < rows[j].Orden })
	out := make([]Pago, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Pago)
	}
	return out
}

package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cliente is a registered customer. Credits and layaways always have one.
type Cliente struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre        string    `gorm:"index;not null"`
	Telefono      *string
	Email         *string
	Direccion     *string
	RFC           *string         `gorm:"column:rfc;type:varchar(13)"`
	LimiteCredito decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	// TipoPrecio is the tier offered to this customer by default
	TipoPrecio TipoPrecio `gorm:"type:varchar(20);not null;default:'ninguno'"`
	Activo     bool       `gorm:"not null;default:true"`
	SyncStatus string     `gorm:"type:varchar(20);not null;default:'pending'"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

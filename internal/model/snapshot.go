package model

import (
	"time"

	"github.com/google/uuid"
)

// Snapshot.Tipo values.
const (
	SnapshotTicket  = "ticket"
	SnapshotPrecios = "precios"
)

// Snapshot is an audit record: a point-in-time document stored as
// zstd-compressed JSON. Rows are written once and never updated.
type Snapshot struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Tipo         string     `gorm:"type:varchar(20);index;not null"`
	ReferenciaID *uuid.UUID `gorm:"type:uuid;index"`
	Descripcion  string
	Datos        []byte `gorm:"type:bytea;not null"`
	CreatedAt    time.Time
}

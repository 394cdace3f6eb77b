package dto

import (
	"casaceja/internal/corte"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AbrirCorteRequest struct {
	SucursalID   string          `json:"sucursal_id"   validate:"omitempty,uuid"`
	FondoInicial decimal.Decimal `json:"fondo_inicial" validate:"min=0"`
}

type MovimientoRequest struct {
	Tipo     string          `json:"tipo"     validate:"required,oneof=gasto ingreso"`
	Concepto string          `json:"concepto" validate:"required,min=3,max=120"`
	Monto    decimal.Decimal `json:"monto"    validate:"required,gt=0"`
}

// CerrarCorteRequest carries the blind count. Negative values are rejected by
// the service with a specific error rather than a generic validation failure.
type CerrarCorteRequest struct {
	EfectivoDeclarado decimal.Decimal `json:"efectivo_declarado"`
	Observaciones     *string         `json:"observaciones" validate:"omitempty,max=500"`
	Imprimir          bool            `json:"imprimir"`
}

type CorteFilter struct {
	SucursalID string `form:"sucursal_id" validate:"omitempty,uuid"`
	Estado     string `form:"estado"` // abierto | cerrado | "" = all
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type MovimientoResponse struct {
	ID        string          `json:"id"`
	CorteID   string          `json:"corte_id"`
	Tipo      string          `json:"tipo"`
	Concepto  string          `json:"concepto"`
	Monto     decimal.Decimal `json:"monto"`
	CreatedAt string          `json:"created_at"`
}

// CorteResponse is the shift report. Totales is live while the corte is open
// and the frozen copy once it is closed.
type CorteResponse struct {
	ID            string                `json:"id"`
	Folio         int                   `json:"folio"`
	SucursalID    string                `json:"sucursal_id"`
	UsuarioID     string                `json:"usuario_id"`
	Estado        string                `json:"estado"`
	FondoInicial  decimal.Decimal       `json:"fondo_inicial"`
	Totales       corte.Totals          `json:"totales"`
	TotalVentas   decimal.Decimal       `json:"total_ventas"`
	TotalDelCorte decimal.Decimal       `json:"total_del_corte"`
	Esperado      decimal.Decimal       `json:"efectivo_esperado_actual"`
	Conciliacion  *corte.Reconciliation `json:"conciliacion"`
	Observaciones *string               `json:"observaciones"`
	OpenedAt      string                `json:"opened_at"`
	ClosedAt      *string               `json:"closed_at"`
}

type CorteListResponse struct {
	Data  []CorteResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

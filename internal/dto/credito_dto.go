package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// CrearCuentaRequest opens a credit or a layaway. Pagos is the optional down
// payment; it is recorded as the first abono of the account.
type CrearCuentaRequest struct {
	SucursalID string        `json:"sucursal_id" validate:"omitempty,uuid"`
	ClienteID  string        `json:"cliente_id"  validate:"required,uuid"`
	Items      []ItemRequest `json:"items"       validate:"required,min=1,dive"`
	Pagos      []PagoRequest `json:"pagos"       validate:"omitempty,dive"`
	// FechaLimite (YYYY-MM-DD) only applies to layaways
	FechaLimite string `json:"fecha_limite" validate:"omitempty,datetime=2006-01-02"`
	Imprimir    bool   `json:"imprimir"`
}

type AbonoRequest struct {
	SucursalID string        `json:"sucursal_id" validate:"omitempty,uuid"`
	Pagos      []PagoRequest `json:"pagos"       validate:"required,min=1,dive"`
	Imprimir   bool          `json:"imprimir"`
}

type CuentaFilter struct {
	SucursalID string `form:"sucursal_id" validate:"omitempty,uuid"`
	ClienteID  string `form:"cliente_id"  validate:"omitempty,uuid"`
	Estado     string `form:"estado,default=activo"` // activo | liquidado | cancelado | all
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type AbonoResponse struct {
	ID            string          `json:"id"`
	Folio         int             `json:"folio"`
	Tipo          string          `json:"tipo"`
	ReferenciaID  string          `json:"referencia_id"`
	CorteID       string          `json:"corte_id"`
	Monto         decimal.Decimal `json:"monto"`
	SaldoAnterior decimal.Decimal `json:"saldo_anterior"`
	SaldoNuevo    decimal.Decimal `json:"saldo_nuevo"`
	Pagos         []PagoResponse  `json:"pagos"`
	Fecha         string          `json:"fecha"`
}

// CuentaResponse serves both credits and layaways.
type CuentaResponse struct {
	ID          string          `json:"id"`
	Tipo        string          `json:"tipo"` // credito | apartado
	Folio       int             `json:"folio"`
	SucursalID  string          `json:"sucursal_id"`
	ClienteID   string          `json:"cliente_id"`
	Items       []ItemResponse  `json:"items"`
	Total       decimal.Decimal `json:"total"`
	Saldo       decimal.Decimal `json:"saldo"`
	Estado      string          `json:"estado"`
	FechaLimite *string         `json:"fecha_limite,omitempty"`
	Fecha       string          `json:"fecha"`
	Abonos      []AbonoResponse `json:"abonos"`
}

type CuentaListResponse struct {
	Data  []CuentaResponse `json:"data"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

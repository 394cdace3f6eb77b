package dto

import "github.com/shopspring/decimal"

// ─── Filter / List ──────────────────────────────────────────────────────────

// VentaFilter is bound from query string of GET /v1/ventas.
type VentaFilter struct {
	SucursalID string `form:"sucursal_id" validate:"omitempty,uuid"`
	CorteID    string `form:"corte_id"    validate:"omitempty,uuid"`
	Fecha      string `form:"fecha"`                     // YYYY-MM-DD; empty = every day
	Estado     string `form:"estado,default=completada"` // completada | cancelada | all
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type VentaListResponse struct {
	Data  []VentaResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ItemRequest struct {
	ProductoID string `json:"producto_id" validate:"required,uuid"`
	Cantidad   int    `json:"cantidad"    validate:"required,min=1"`
	// TipoPrecio asks for a tier; empty uses the customer's default
	TipoPrecio string `json:"tipo_precio" validate:"omitempty,oneof=ninguno mayoreo especial vendedor"`
}

// PagoRequest is one entry of a payment breakdown. For cash, Monto is what the
// customer handed over; change is computed by the server.
type PagoRequest struct {
	Metodo string          `json:"metodo" validate:"required,oneof=efectivo tarjeta_debito tarjeta_credito cheque transferencia"`
	Monto  decimal.Decimal `json:"monto"  validate:"required,gt=0"`
}

type RegistrarVentaRequest struct {
	// SucursalID may be omitted when the cashier's token is pinned to a branch
	SucursalID string        `json:"sucursal_id" validate:"omitempty,uuid"`
	ClienteID  *string       `json:"cliente_id"  validate:"omitempty,uuid"`
	Items      []ItemRequest `json:"items"       validate:"required,min=1,dive"`
	Pagos      []PagoRequest `json:"pagos"       validate:"required,min=1,dive"`
	Imprimir   bool          `json:"imprimir"`
}

type CancelarVentaRequest struct {
	Motivo string `json:"motivo" validate:"required,min=5"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ItemResponse struct {
	ProductoID            string           `json:"producto_id"`
	Nombre                string           `json:"nombre"`
	Cantidad              int              `json:"cantidad"`
	PrecioLista           decimal.Decimal  `json:"precio_lista"`
	PrecioUnitario        decimal.Decimal  `json:"precio_unitario"`
	Importe               decimal.Decimal  `json:"importe"`
	TipoPrecio            string           `json:"tipo_precio"`
	DescuentoCategoriaPct *decimal.Decimal `json:"descuento_categoria_pct,omitempty"`
}

type PagoResponse struct {
	Metodo string          `json:"metodo"`
	Monto  decimal.Decimal `json:"monto"`
}

type VentaResponse struct {
	ID         string          `json:"id"`
	Folio      int             `json:"folio"`
	SucursalID string          `json:"sucursal_id"`
	CorteID    string          `json:"corte_id"`
	ClienteID  *string         `json:"cliente_id"`
	Items      []ItemResponse  `json:"items"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	Descuento  decimal.Decimal `json:"descuento"`
	Total      decimal.Decimal `json:"total"`
	Pagos      []PagoResponse  `json:"pagos"`
	Recibido   decimal.Decimal `json:"recibido"`
	Cambio     decimal.Decimal `json:"cambio"`
	Estado     string          `json:"estado"`
	Fecha      string          `json:"fecha"`
}

package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearProductoRequest struct {
	CodigoBarras    string          `json:"codigo_barras"    validate:"required,min=4,max=18"`
	Nombre          string          `json:"nombre"           validate:"required,min=2,max=120"`
	CategoriaID     *string         `json:"categoria_id"     validate:"omitempty,uuid"`
	Precio          decimal.Decimal `json:"precio"           validate:"required,gt=0"`
	PrecioMayoreo   decimal.Decimal `json:"precio_mayoreo"   validate:"min=0"`
	CantidadMayoreo int             `json:"cantidad_mayoreo" validate:"min=0"`
	PrecioEspecial  decimal.Decimal `json:"precio_especial"  validate:"min=0"`
	PrecioVendedor  decimal.Decimal `json:"precio_vendedor"  validate:"min=0"`
	StockActual     int             `json:"stock_actual"     validate:"min=0"`
}

type ActualizarProductoRequest struct {
	Nombre          *string          `json:"nombre"           validate:"omitempty,min=2,max=120"`
	CategoriaID     *string          `json:"categoria_id"     validate:"omitempty,uuid"`
	Precio          *decimal.Decimal `json:"precio"           validate:"omitempty,gt=0"`
	PrecioMayoreo   *decimal.Decimal `json:"precio_mayoreo"   validate:"omitempty,min=0"`
	CantidadMayoreo *int             `json:"cantidad_mayoreo" validate:"omitempty,min=0"`
	PrecioEspecial  *decimal.Decimal `json:"precio_especial"  validate:"omitempty,min=0"`
	PrecioVendedor  *decimal.Decimal `json:"precio_vendedor"  validate:"omitempty,min=0"`
}

type AjustarStockRequest struct {
	Delta  int    `json:"delta"  validate:"required"`
	Motivo string `json:"motivo" validate:"required,min=3"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProductoFilter struct {
	Barcode     string `form:"barcode"`
	Nombre      string `form:"nombre"`
	CategoriaID string `form:"categoria_id"`
	Activo      string `form:"activo"` // "" = activos | false | all
	Page        int    `form:"page,default=1"   validate:"min=1"`
	Limit       int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductoResponse struct {
	ID              string          `json:"id"`
	CodigoBarras    string          `json:"codigo_barras"`
	Nombre          string          `json:"nombre"`
	CategoriaID     *string         `json:"categoria_id"`
	Categoria       string          `json:"categoria"`
	Precio          decimal.Decimal `json:"precio"`
	PrecioMayoreo   decimal.Decimal `json:"precio_mayoreo"`
	CantidadMayoreo int             `json:"cantidad_mayoreo"`
	PrecioEspecial  decimal.Decimal `json:"precio_especial"`
	PrecioVendedor  decimal.Decimal `json:"precio_vendedor"`
	StockActual     int             `json:"stock_actual"`
	Activo          bool            `json:"activo"`
}

type ProductoListResponse struct {
	Data       []ProductoResponse `json:"data"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
}

// ConsultaPrecioResponse is served by the public price-check endpoint.
type ConsultaPrecioResponse struct {
	CodigoBarras    string           `json:"codigo_barras"`
	Nombre          string           `json:"nombre"`
	Precio          decimal.Decimal  `json:"precio"`
	PrecioMayoreo   *decimal.Decimal `json:"precio_mayoreo,omitempty"`
	CantidadMayoreo int              `json:"cantidad_mayoreo,omitempty"`
	Categoria       string           `json:"categoria"`
	// DescuentoPct is the category discount applied at checkout
	DescuentoPct    *decimal.Decimal `json:"descuento_pct,omitempty"`
	PrecioFinal     decimal.Decimal  `json:"precio_final"`
	StockDisponible int              `json:"stock_disponible"`
}

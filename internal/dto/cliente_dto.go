package dto

import "github.com/shopspring/decimal"

// ── Request DTOs ──────────────────────────────────────────────────────────────

type CrearClienteRequest struct {
	Nombre        string          `json:"nombre"         validate:"required,min=2,max=120"`
	Telefono      *string         `json:"telefono"       validate:"omitempty,max=30"`
	Email         *string         `json:"email"          validate:"omitempty,email"`
	Direccion     *string         `json:"direccion"      validate:"omitempty,max=200"`
	RFC           *string         `json:"rfc"            validate:"omitempty,min=12,max=13"`
	LimiteCredito decimal.Decimal `json:"limite_credito" validate:"min=0"`
	TipoPrecio    string          `json:"tipo_precio"    validate:"omitempty,oneof=ninguno mayoreo especial vendedor"`
}

type ActualizarClienteRequest struct {
	Nombre        *string          `json:"nombre"         validate:"omitempty,min=2,max=120"`
	Telefono      *string          `json:"telefono"       validate:"omitempty,max=30"`
	Email         *string          `json:"email"          validate:"omitempty,email"`
	Direccion     *string          `json:"direccion"      validate:"omitempty,max=200"`
	RFC           *string          `json:"rfc"            validate:"omitempty,min=12,max=13"`
	LimiteCredito *decimal.Decimal `json:"limite_credito" validate:"omitempty,min=0"`
	TipoPrecio    *string          `json:"tipo_precio"    validate:"omitempty,oneof=ninguno mayoreo especial vendedor"`
}

type ClienteFilter struct {
	Nombre string `form:"nombre"`
	Page   int    `form:"page,default=1"   validate:"min=1"`
	Limit  int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ── Response DTOs ─────────────────────────────────────────────────────────────

type ClienteResponse struct {
	ID            string          `json:"id"`
	Nombre        string          `json:"nombre"`
	Telefono      *string         `json:"telefono"`
	Email         *string         `json:"email"`
	Direccion     *string         `json:"direccion"`
	RFC           *string         `json:"rfc"`
	LimiteCredito decimal.Decimal `json:"limite_credito"`
	TipoPrecio    string          `json:"tipo_precio"`
	Activo        bool            `json:"activo"`
}

type ClienteListResponse struct {
	Data  []ClienteResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ── Request DTOs ──────────────────────────────────────────────────────────────

type CrearCategoriaRequest struct {
	Nombre       string          `json:"nombre"        validate:"required,min=2,max=100"`
	DescuentoPct decimal.Decimal `json:"descuento_pct" validate:"min=0,max=100"`
}

type ActualizarCategoriaRequest struct {
	Nombre       *string          `json:"nombre"        validate:"omitempty,min=2,max=100"`
	DescuentoPct *decimal.Decimal `json:"descuento_pct" validate:"omitempty,min=0,max=100"`
	Activo       *bool            `json:"activo"`
}

// ── Response DTOs ─────────────────────────────────────────────────────────────

type CategoriaResponse struct {
	ID           uuid.UUID       `json:"id"`
	Nombre       string          `json:"nombre"`
	DescuentoPct decimal.Decimal `json:"descuento_pct"`
	Activo       bool            `json:"activo"`
}

package dto

import "encoding/json"

type SnapshotFilter struct {
	Tipo         string `form:"tipo" validate:"omitempty,oneof=ticket precios"`
	ReferenciaID string `form:"referencia_id" validate:"omitempty,uuid"`
	Page         int    `form:"page,default=1"   validate:"min=1"`
	Limit        int    `form:"limit,default=20" validate:"min=1,max=100"`
}

type SnapshotResponse struct {
	ID           string          `json:"id"`
	Tipo         string          `json:"tipo"`
	ReferenciaID *string         `json:"referencia_id"`
	Descripcion  string          `json:"descripcion"`
	Bytes        int             `json:"bytes,omitempty"`
	CreatedAt    string          `json:"created_at"`
	Datos        json.RawMessage `json:"datos,omitempty"`
}

type SnapshotListResponse struct {
	Data  []SnapshotResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

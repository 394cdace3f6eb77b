package dto

// ── Request DTOs ──────────────────────────────────────────────────────────────

type CrearSucursalRequest struct {
	Nombre    string `json:"nombre"    validate:"required,min=2,max=100"`
	Direccion string `json:"direccion" validate:"max=200"`
	Telefono  string `json:"telefono"  validate:"max=30"`
}

type ActualizarSucursalRequest struct {
	Nombre    *string `json:"nombre"    validate:"omitempty,min=2,max=100"`
	Direccion *string `json:"direccion" validate:"omitempty,max=200"`
	Telefono  *string `json:"telefono"  validate:"omitempty,max=30"`
	Activo    *bool   `json:"activo"`
}

// ── Response DTOs ─────────────────────────────────────────────────────────────

type SucursalResponse struct {
	ID        string `json:"id"`
	Nombre    string `json:"nombre"`
	Direccion string `json:"direccion"`
	Telefono  string `json:"telefono"`
	Activo    bool   `json:"activo"`
}

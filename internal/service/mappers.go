package service

import (
	"fmt"

	"casaceja/internal/dto"
	"casaceja/internal/model"
)

// ── model → dto ───────────────────────────────────────────────────────────────

func itemToResponse(it model.LineaItem) dto.ItemResponse {
	return dto.ItemResponse{
		ProductoID:            it.ProductoID.String(),
		Nombre:                it.Nombre,
		Cantidad:              it.Cantidad,
		PrecioLista:           it.PrecioLista,
		PrecioUnitario:        it.PrecioUnitario,
		Importe:               it.Importe,
		TipoPrecio:            string(it.TipoPrecio),
		DescuentoCategoriaPct: it.DescuentoCategoriaPct,
	}
}

func pagosToResponse(pagos []model.Pago) []dto.PagoResponse {
	out := make([]dto.PagoResponse, 0, len(pagos))
	for _, p := range pagos {
		out = append(out, dto.PagoResponse{Metodo: p.Metodo, Monto: p.Monto})
	}
	return out
}

func ventaToResponse(v *model.Venta) *dto.VentaResponse {
	resp := &dto.VentaResponse{
		ID:         v.ID.String(),
		Folio:      v.Folio,
		SucursalID: v.SucursalID.String(),
		CorteID:    v.CorteID.String(),
		Subtotal:   v.Subtotal,
		Descuento:  v.Descuento,
		Total:      v.Total,
		Pagos:      pagosToResponse(v.Breakdown()),
		Recibido:   v.Recibido,
		Cambio:     v.Cambio,
		Estado:     v.Estado,
		Fecha:      iso(v.Fecha),
	}
	if v.ClienteID != nil {
		id := v.ClienteID.String()
		resp.ClienteID = &id
	}
	for _, it := range v.Items {
		resp.Items = append(resp.Items, itemToResponse(it.LineaItem))
	}
	return resp
}

func abonoToResponse(a *model.Abono) dto.AbonoResponse {
	return dto.AbonoResponse{
		ID:            a.ID.String(),
		Folio:         a.Folio,
		Tipo:          a.Tipo,
		ReferenciaID:  a.ReferenciaID.String(),
		CorteID:       a.CorteID.String(),
		Monto:         a.Monto,
		SaldoAnterior: a.SaldoAnterior,
		SaldoNuevo:    a.SaldoNuevo,
		Pagos:         pagosToResponse(a.Breakdown()),
		Fecha:         iso(a.Fecha),
	}
}

func abonosToResponse(abonos []model.Abono) []dto.AbonoResponse {
	out := make([]dto.AbonoResponse, 0, len(abonos))
	for i := range abonos {
		out = append(out, abonoToResponse(&abonos[i]))
	}
	return out
}

func creditoToResponse(c *model.Credito, abonos []model.Abono) *dto.CuentaResponse {
	resp := &dto.CuentaResponse{
		ID:         c.ID.String(),
		Tipo:       model.AbonoCredito,
		Folio:      c.Folio,
		SucursalID: c.SucursalID.String(),
		ClienteID:  c.ClienteID.String(),
		Total:      c.Total,
		Saldo:      c.Saldo,
		Estado:     c.Estado,
		Fecha:      iso(c.Fecha),
		Abonos:     abonosToResponse(abonos),
	}
	for _, it := range c.Items {
		resp.Items = append(resp.Items, itemToResponse(it.LineaItem))
	}
	return resp
}

func apartadoToResponse(a *model.Apartado, abonos []model.Abono) *dto.CuentaResponse {
	resp := &dto.CuentaResponse{
		ID:          a.ID.String(),
		Tipo:        model.AbonoApartado,
		Folio:       a.Folio,
		SucursalID:  a.SucursalID.String(),
		ClienteID:   a.ClienteID.String(),
		Total:       a.Total,
		Saldo:       a.Saldo,
		Estado:      a.Estado,
		FechaLimite: isoPtr(&a.FechaLimite),
		Fecha:       iso(a.Fecha),
		Abonos:      abonosToResponse(abonos),
	}
	for _, it := range a.Items {
		resp.Items = append(resp.Items, itemToResponse(it.LineaItem))
	}
	return resp
}

func usuarioToResponse(u *model.Usuario) dto.UsuarioResponse {
	resp := dto.UsuarioResponse{
		ID:       u.ID.String(),
		Username: u.Username,
		Nombre:   u.Nombre,
		Email:    u.Email,
		Rol:      u.Rol,
		Activo:   u.Activo,
	}
	if u.SucursalID != nil {
		s := u.SucursalID.String()
		resp.SucursalID = &s
	}
	return resp
}

// ── Folios ────────────────────────────────────────────────────────────────────

// Display prefixes of each folio sequence.
const (
	PrefijoVenta    = "V"
	PrefijoCredito  = "CR"
	PrefijoApartado = "AP"
	PrefijoAbono    = "AB"
	PrefijoCorte    = "CC"
)

func folioDoc(prefijo string, n int) string { return fmt.Sprintf("%s-%06d", prefijo, n) }

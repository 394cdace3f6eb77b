package service

import (
	"context"
	"fmt"

	"casaceja/internal/dto"
	"casaceja/internal/model"
	"casaceja/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var cien = decimal.NewFromInt(100)

// precioPorTier picks the unit price of p for a line of cantidad units.
// An explicit tier wins when the product offers it; otherwise the wholesale
// price kicks in automatically once the line reaches CantidadMayoreo.
func precioPorTier(p *model.Producto, cantidad int, pedido model.TipoPrecio) (decimal.Decimal, model.TipoPrecio) {
	switch pedido {
	case model.PrecioEspecial:
		if p.PrecioEspecial.IsPositive() {
			return p.PrecioEspecial, model.PrecioEspecial
		}
	case model.PrecioVendedor:
		if p.PrecioVendedor.IsPositive() {
			return p.PrecioVendedor, model.PrecioVendedor
		}
	case model.PrecioMayoreo:
		if p.PrecioMayoreo.IsPositive() {
			return p.PrecioMayoreo, model.PrecioMayoreo
		}
	}
	if p.PrecioMayoreo.IsPositive() && p.CantidadMayoreo > 0 && cantidad >= p.CantidadMayoreo {
		return p.PrecioMayoreo, model.PrecioMayoreo
	}
	return p.Precio, model.PrecioNormal
}

// descuentoCategoria returns the active category discount of p, or nil.
func descuentoCategoria(p *model.Producto) *decimal.Decimal {
	if p.Categoria == nil || !p.Categoria.Activo || !p.Categoria.DescuentoPct.IsPositive() {
		return nil
	}
	pct := p.Categoria.DescuentoPct
	return &pct
}

func aplicarDescuento(precio decimal.Decimal, pct *decimal.Decimal) decimal.Decimal {
	if pct == nil {
		return precio
	}
	return precio.Mul(cien.Sub(*pct)).Div(cien).Round(2)
}

// cotizarLinea prices one line: tier first, then the category discount on top.
func cotizarLinea(p *model.Producto, cantidad int, pedido model.TipoPrecio) model.LineaItem {
	precio, tier := precioPorTier(p, cantidad, pedido)
	pct := descuentoCategoria(p)
	unitario := aplicarDescuento(precio, pct)
	return model.LineaItem{
		ProductoID:            p.ID,
		Nombre:                p.Nombre,
		Cantidad:              cantidad,
		PrecioLista:           p.Precio,
		PrecioUnitario:        unitario,
		Importe:               unitario.Mul(decimal.NewFromInt(int64(cantidad))).Round(2),
		TipoPrecio:            tier,
		DescuentoCategoriaPct: pct,
	}
}

// cotizacion is a fully priced list of lines.
type cotizacion struct {
	lineas    []model.LineaItem
	subtotal  decimal.Decimal // at list price
	descuento decimal.Decimal
	total     decimal.Decimal
	// piezas per product, to move stock once per product
	piezas map[uuid.UUID]int
}

// cotizar loads the requested products and prices every line. tierCliente is
// used for lines that do not ask for a tier explicitly.
func cotizar(ctx context.Context, repo repository.ProductoRepository, items []dto.ItemRequest, tierCliente model.TipoPrecio) (*cotizacion, error) {
	ids := make([]uuid.UUID, 0, len(items))
	for _, it := range items {
		id, err := uuid.Parse(it.ProductoID)
		if err != nil {
			return nil, fmt.Errorf("producto_id invalido: %w", err)
		}
		ids = append(ids, id)
	}
	productos, err := repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	porID := make(map[uuid.UUID]*model.Producto, len(productos))
	for i := range productos {
		porID[productos[i].ID] = &productos[i]
	}

	c := &cotizacion{
		subtotal:  decimal.Zero,
		descuento: decimal.Zero,
		total:     decimal.Zero,
		piezas:    make(map[uuid.UUID]int),
	}
	for i, it := range items {
		p, ok := porID[ids[i]]
		if !ok {
			return nil, fmt.Errorf("producto %s: %w", it.ProductoID, ErrNotFound)
		}
		if !p.Activo {
			return nil, fmt.Errorf("%s: %w", p.Nombre, ErrProductoInactivo)
		}
		pedido := model.TipoPrecio(it.TipoPrecio)
		if pedido == "" {
			pedido = tierCliente
		}
		l := cotizarLinea(p, it.Cantidad, pedido)
		c.lineas = append(c.lineas, l)
		c.subtotal = c.subtotal.Add(l.PrecioLista.Mul(decimal.NewFromInt(int64(l.Cantidad))))
		c.total = c.total.Add(l.Importe)
		c.piezas[p.ID] += l.Cantidad
	}
	c.descuento = c.subtotal.Sub(c.total)
	return c, nil
}

// ── Payments ──────────────────────────────────────────────────────────────────

// cobro is a payment breakdown applied to an amount due.
type cobro struct {
	pagos    []model.Pago // applied amounts, change already deducted
	recibido decimal.Decimal
	cambio   decimal.Decimal
}

func normalizarPagos(req []dto.PagoRequest) []model.Pago {
	out := make([]model.Pago, 0, len(req))
	for _, p := range req {
		metodo, _ := model.NormalizarMetodo(p.Metodo)
		out = append(out, model.Pago{Metodo: metodo, Monto: p.Monto.Round(2)})
	}
	return out
}

// cobrar applies the tendered breakdown to total. The customer may hand over
// more than the total only in cash: the change is taken back from the cash
// entries, last one first.
func cobrar(req []dto.PagoRequest, total decimal.Decimal) (cobro, error) {
	pagos := normalizarPagos(req)
	recibido := model.SumPagos(pagos)
	if recibido.LessThan(total) {
		return cobro{}, fmt.Errorf("%w: recibido %s, total %s", ErrPagoInsuficiente, recibido.StringFixed(2), total.StringFixed(2))
	}
	cambio := recibido.Sub(total)
	if model.EfectivoDe(pagos).LessThan(cambio) {
		return cobro{}, ErrCambioSinEfectivo
	}

	resto := cambio
	for i := len(pagos) - 1; i >= 0 && resto.IsPositive(); i-- {
		if pagos[i].Metodo != model.MetodoEfectivo {
			continue
		}
		quita := decimal.Min(pagos[i].Monto, resto)
		pagos[i].Monto = pagos[i].Monto.Sub(quita)
		resto = resto.Sub(quita)
	}

	aplicados := pagos[:0]
	for _, p := range pagos {
		if p.Monto.IsPositive() {
			aplicados = append(aplicados, p)
		}
	}
	return cobro{pagos: aplicados, recibido: recibido, cambio: cambio}, nil
}

// abonar applies a payment against an outstanding balance. Paying more than
// the balance is rejected rather than turned into change.
func abonar(req []dto.PagoRequest, saldo decimal.Decimal) ([]model.Pago, decimal.Decimal, error) {
	pagos := normalizarPagos(req)
	monto := model.SumPagos(pagos)
	if monto.GreaterThan(saldo) {
		return nil, decimal.Zero, fmt.Errorf("%w: abono %s, saldo %s", ErrAbonoExcedeSaldo, monto.StringFixed(2), saldo.StringFixed(2))
	}
	return pagos, monto, nil
}

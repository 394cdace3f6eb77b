package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"casaceja/internal/corte"
	"casaceja/internal/model"
	"casaceja/internal/repository"
	"casaceja/internal/ticket"
	"casaceja/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// Printable document types, as carried by print jobs.
const (
	DocVenta               = "venta"
	DocCredito             = "credito"
	DocApartado            = "apartado"
	DocAbono               = "abono"
	DocCorte               = "corte"
	DocReimpresionCredito  = "reimpresion_credito"
	DocReimpresionApartado = "reimpresion_apartado"
)

var errColaNoDisponible = errors.New("cola de impresion no disponible")

// TicketService renders stored documents as ticket text. It also satisfies
// worker.TicketRenderer so the print worker can render by (tipo, id).
type TicketService interface {
	Venta(ctx context.Context, id uuid.UUID) (string, error)
	Credito(ctx context.Context, id uuid.UUID) (string, error)
	Apartado(ctx context.Context, id uuid.UUID) (string, error)
	Abono(ctx context.Context, id uuid.UUID) (string, error)
	Corte(ctx context.Context, id uuid.UUID) (string, error)
	// Reimprimir renders a credit or layaway with its full abono history.
	Reimprimir(ctx context.Context, tipo string, id uuid.UUID) (string, error)

	RenderTicket(ctx context.Context, tipo string, id uuid.UUID) (string, error)
	// Imprimir queues the document for the printer; email, when set, also
	// receives it as a PDF.
	Imprimir(ctx context.Context, tipo string, id uuid.UUID, email string) error
	LineWidth() int
}

type ticketService struct {
	cfg        ticket.Config
	ventas     repository.VentaRepository
	creditos   repository.CreditoRepository
	cortesRepo repository.CorteRepository
	cortes     CorteService
	sucursales repository.SucursalRepository
	usuarios   repository.UsuarioRepository
	clientes   repository.ClienteRepository
	queue      PrintQueue
}

var _ worker.TicketRenderer = (*ticketService)(nil)

func NewTicketService(
	cfg ticket.Config,
	ventas repository.VentaRepository,
	creditos repository.CreditoRepository,
	cortesRepo repository.CorteRepository,
	cortes CorteService,
	sucursales repository.SucursalRepository,
	usuarios repository.UsuarioRepository,
	clientes repository.ClienteRepository,
	queue PrintQueue,
) TicketService {
	return &ticketService{
		cfg:        cfg,
		ventas:     ventas,
		creditos:   creditos,
		cortesRepo: cortesRepo,
		cortes:     cortes,
		sucursales: sucursales,
		usuarios:   usuarios,
		clientes:   clientes,
		queue:      queue,
	}
}

func (s *ticketService) LineWidth() int { return s.cfg.Width() }

// encolarImpresion queues a print job after the document is committed.
// Printing is best effort: failures are logged, never returned.
func encolarImpresion(ctx context.Context, q PrintQueue, tipo string, id uuid.UUID) {
	if q == nil {
		return
	}
	if err := q.EnqueueImpresion(ctx, worker.ImpresionPayload{Tipo: tipo, ID: id}); err != nil {
		log.Error().Err(err).Str("tipo", tipo).Str("id", id.String()).Msg("no se pudo encolar la impresion")
	}
}

func (s *ticketService) Imprimir(ctx context.Context, tipo string, id uuid.UUID, email string) error {
	if !docValido(tipo) {
		return fmt.Errorf("%w: %s", ErrTipoDocumento, tipo)
	}
	if s.queue == nil {
		return errColaNoDisponible
	}
	p := worker.ImpresionPayload{Tipo: tipo, ID: id, Email: email}
	if email != "" {
		p.Subject = fmt.Sprintf("%s %s", s.cfg.BusinessName, tipo)
	}
	return s.queue.EnqueueImpresion(ctx, p)
}

func docValido(tipo string) bool {
	switch tipo {
	case DocVenta, DocCredito, DocApartado, DocAbono, DocCorte, DocReimpresionCredito, DocReimpresionApartado:
		return true
	}
	return false
}

func (s *ticketService) RenderTicket(ctx context.Context, tipo string, id uuid.UUID) (string, error) {
	switch tipo {
	case DocVenta:
		return s.Venta(ctx, id)
	case DocCredito:
		return s.Credito(ctx, id)
	case DocApartado:
		return s.Apartado(ctx, id)
	case DocAbono:
		return s.Abono(ctx, id)
	case DocCorte:
		return s.Corte(ctx, id)
	case DocReimpresionCredito:
		return s.Reimprimir(ctx, model.AbonoCredito, id)
	case DocReimpresionApartado:
		return s.Reimprimir(ctx, model.AbonoApartado, id)
	}
	return "", fmt.Errorf("%w: %s", ErrTipoDocumento, tipo)
}

// ── Documents ─────────────────────────────────────────────────────────────────

func (s *ticketService) Venta(ctx context.Context, id uuid.UUID) (string, error) {
	v, err := s.ventas.FindByID(ctx, id)
	if err != nil {
		return "", notFound(err, "venta")
	}
	lineas := make([]model.LineaItem, 0, len(v.Items))
	for _, it := range v.Items {
		lineas = append(lineas, it.LineaItem)
	}
	d := ticket.Data{
		Kind:      ticket.KindVenta,
		Header:    s.header(ctx, v.SucursalID, v.UsuarioID, v.ClienteID, folioDoc(PrefijoVenta, v.Folio), v.Fecha),
		Items:     ticketItems(lineas),
		Subtotal:  v.Subtotal,
		Descuento: v.Descuento,
		Total:     v.Total,
		Pagos:     v.Breakdown(),
		Recibido:  v.Recibido,
		Cambio:    v.Cambio,
	}
	return ticket.RenderVenta(s.cfg, d), nil
}

func (s *ticketService) Credito(ctx context.Context, id uuid.UUID) (string, error) {
	c, err := s.creditos.FindCredito(ctx, id)
	if err != nil {
		return "", notFound(err, "credito")
	}
	d, err := s.cuenta(ctx, ticket.KindCredito, model.AbonoCredito, c.ID, c.Total, c.Fecha)
	if err != nil {
		return "", err
	}
	d.Header = s.header(ctx, c.SucursalID, c.UsuarioID, &c.ClienteID, folioDoc(PrefijoCredito, c.Folio), c.Fecha)
	d.Items = ticketItems(creditoLineas(c))
	return ticket.RenderCredito(s.cfg, d), nil
}

func (s *ticketService) Apartado(ctx context.Context, id uuid.UUID) (string, error) {
	a, err := s.creditos.FindApartado(ctx, id)
	if err != nil {
		return "", notFound(err, "apartado")
	}
	d, err := s.cuenta(ctx, ticket.KindApartado, model.AbonoApartado, a.ID, a.Total, a.Fecha)
	if err != nil {
		return "", err
	}
	d.Header = s.header(ctx, a.SucursalID, a.UsuarioID, &a.ClienteID, folioDoc(PrefijoApartado, a.Folio), a.Fecha)
	d.Items = ticketItems(apartadoLineas(a))
	limite := a.FechaLimite
	d.FechaLimite = &limite
	return ticket.RenderApartado(s.cfg, d), nil
}

// cuenta builds the opening document of an account: the saldo and payment
// shown are the ones at creation, taken from the down payment abono.
func (s *ticketService) cuenta(ctx context.Context, kind ticket.Kind, tipo string, id uuid.UUID, total decimal.Decimal, fecha time.Time) (ticket.Data, error) {
	abonos, err := s.creditos.ListAbonos(ctx, tipo, id)
	if err != nil {
		return ticket.Data{}, err
	}
	d := ticket.Data{Kind: kind, Total: total, Saldo: total}
	if len(abonos) > 0 && esAnticipo(&abonos[0], total, fecha) {
		d.Pagos = abonos[0].Breakdown()
		d.Saldo = abonos[0].SaldoNuevo
	}
	return d, nil
}

func esAnticipo(a *model.Abono, total decimal.Decimal, fecha time.Time) bool {
	return a.Fecha.Equal(fecha) && a.SaldoAnterior.Equal(total)
}

func (s *ticketService) Abono(ctx context.Context, id uuid.UUID) (string, error) {
	a, err := s.creditos.FindAbono(ctx, id)
	if err != nil {
		return "", notFound(err, "abono")
	}

	var clienteID *uuid.UUID
	var referencia string
	switch a.Tipo {
	case model.AbonoCredito:
		if c, err := s.creditos.FindCredito(ctx, a.ReferenciaID); err == nil {
			clienteID = &c.ClienteID
			referencia = folioDoc(PrefijoCredito, c.Folio)
		}
	case model.AbonoApartado:
		if ap, err := s.creditos.FindApartado(ctx, a.ReferenciaID); err == nil {
			clienteID = &ap.ClienteID
			referencia = folioDoc(PrefijoApartado, ap.Folio)
		}
	}

	d := ticket.Data{
		Kind:          ticket.KindAbono,
		Header:        s.header(ctx, a.SucursalID, a.UsuarioID, clienteID, folioDoc(PrefijoAbono, a.Folio), a.Fecha),
		Referencia:    referencia,
		Total:         a.Monto,
		Pagos:         a.Breakdown(),
		SaldoAnterior: a.SaldoAnterior,
		Saldo:         a.SaldoNuevo,
	}
	if len(d.Pagos) == 0 {
		// legacy abonos carry no breakdown and were always cash
		d.MetodoRaw = model.MetodoEfectivo
	}
	return ticket.RenderAbono(s.cfg, d), nil
}

func (s *ticketService) Reimprimir(ctx context.Context, tipo string, id uuid.UUID) (string, error) {
	var d ticket.Data
	switch tipo {
	case model.AbonoCredito:
		c, err := s.creditos.FindCredito(ctx, id)
		if err != nil {
			return "", notFound(err, "credito")
		}
		d = ticket.Data{
			Original: ticket.KindCredito,
			Header:   s.header(ctx, c.SucursalID, c.UsuarioID, &c.ClienteID, folioDoc(PrefijoCredito, c.Folio), c.Fecha),
			Items:    ticketItems(creditoLineas(c)),
			Total:    c.Total,
			Saldo:    c.Saldo,
		}
	case model.AbonoApartado:
		a, err := s.creditos.FindApartado(ctx, id)
		if err != nil {
			return "", notFound(err, "apartado")
		}
		limite := a.FechaLimite
		d = ticket.Data{
			Original:    ticket.KindApartado,
			Header:      s.header(ctx, a.SucursalID, a.UsuarioID, &a.ClienteID, folioDoc(PrefijoApartado, a.Folio), a.Fecha),
			Items:       ticketItems(apartadoLineas(a)),
			Total:       a.Total,
			Saldo:       a.Saldo,
			FechaLimite: &limite,
		}
	default:
		return "", fmt.Errorf("%w: %s", ErrTipoDocumento, tipo)
	}
	d.Kind = ticket.KindReimpresion

	abonos, err := s.creditos.ListAbonos(ctx, tipo, id)
	if err != nil {
		return "", err
	}
	for _, a := range abonos {
		d.Abonos = append(d.Abonos, ticket.AbonoLinea{
			Folio: folioDoc(PrefijoAbono, a.Folio),
			Fecha: a.Fecha,
			Monto: a.Monto,
			Saldo: a.SaldoNuevo,
		})
	}
	return ticket.RenderReimpresion(s.cfg, d), nil
}

// Corte renders the shift report: a preview with live totals while the corte
// is open, the frozen close document afterwards.
func (s *ticketService) Corte(ctx context.Context, id uuid.UUID) (string, error) {
	c, err := s.cortesRepo.FindByID(ctx, id)
	if err != nil {
		return "", notFound(err, "corte")
	}
	totals, err := s.cortes.TotalesDe(ctx, c)
	if err != nil {
		return "", err
	}
	fecha := c.OpenedAt
	if c.ClosedAt != nil {
		fecha = *c.ClosedAt
	}
	d := ticket.CorteData{
		Header:       s.header(ctx, c.SucursalID, c.UsuarioID, nil, folioDoc(PrefijoCorte, c.Folio), fecha),
		FondoInicial: c.FondoInicial,
		Apertura:     c.OpenedAt,
		Cierre:       c.ClosedAt,
		Totals:       totals,
		Conciliacion: corte.Stored(c),
	}
	return ticket.RenderCorte(s.cfg, d), nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// header resolves names for the ticket header. A lookup that fails leaves its
// field blank rather than failing the print.
func (s *ticketService) header(ctx context.Context, sucursalID, usuarioID uuid.UUID, clienteID *uuid.UUID, folio string, fecha time.Time) ticket.Header {
	h := ticket.Header{Folio: folio, Fecha: fecha}
	if suc, err := s.sucursales.FindByID(ctx, sucursalID); err == nil {
		h.Sucursal = suc.Nombre
		h.Direccion = suc.Direccion
		h.Telefono = suc.Telefono
	} else {
		log.Debug().Err(err).Str("sucursal_id", sucursalID.String()).Msg("ticket header: sucursal")
	}
	if u, err := s.usuarios.FindByID(ctx, usuarioID); err == nil {
		h.Cajero = u.Nombre
	}
	if clienteID != nil {
		if c, err := s.clientes.FindByID(ctx, *clienteID); err == nil {
			h.Cliente = c.Nombre
		}
	}
	return h
}

func ticketItems(lineas []model.LineaItem) []ticket.Item {
	out := make([]ticket.Item, 0, len(lineas))
	for _, l := range lineas {
		out = append(out, ticket.Item{
			Nombre:                l.Nombre,
			Cantidad:              l.Cantidad,
			PrecioUnitario:        l.PrecioUnitario,
			PrecioLista:           l.PrecioLista,
			Importe:               l.Importe,
			Tier:                  l.TipoPrecio,
			DescuentoCategoriaPct: l.DescuentoCategoriaPct,
		})
	}
	return out
}

func creditoLineas(c *model.Credito) []model.LineaItem {
	out := make([]model.LineaItem, 0, len(c.Items))
	for _, it := range c.Items {
		out = append(out, it.LineaItem)
	}
	return out
}

func apartadoLineas(a *model.Apartado) []model.LineaItem {
	out := make([]model.LineaItem, 0, len(a.Items))
	for _, it := range a.Items {
		out = append(out, it.LineaItem)
	}
	return out
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"casaceja/internal/dto"
	"casaceja/internal/infra"
	"casaceja/internal/model"
	"casaceja/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// plazoApartado is the layaway term used when no fecha_limite is given.
const plazoApartado = 30 * 24 * time.Hour

// CreditoService handles credits (goods delivered now, paid later) and
// layaways (goods reserved until paid), and the abonos against both.
type CreditoService interface {
	CrearCredito(ctx context.Context, usuarioID, sucursalID uuid.UUID, req dto.CrearCuentaRequest) (*dto.CuentaResponse, error)
	CrearApartado(ctx context.Context, usuarioID, sucursalID uuid.UUID, req dto.CrearCuentaRequest) (*dto.CuentaResponse, error)
	// RegistrarAbono records a payment against the account; tipo is credito or apartado.
	RegistrarAbono(ctx context.Context, usuarioID, sucursalID uuid.UUID, tipo string, cuentaID uuid.UUID, req dto.AbonoRequest) (*dto.AbonoResponse, error)
	ObtenerCredito(ctx context.Context, id uuid.UUID) (*dto.CuentaResponse, error)
	ObtenerApartado(ctx context.Context, id uuid.UUID) (*dto.CuentaResponse, error)
	ListCreditos(ctx context.Context, filter dto.CuentaFilter) (*dto.CuentaListResponse, error)
	ListApartados(ctx context.Context, filter dto.CuentaFilter) (*dto.CuentaListResponse, error)
}

type creditoService struct {
	repo       repository.CreditoRepository
	productos  repository.ProductoRepository
	clientes   repository.ClienteRepository
	inventario InventarioService
	cortes     CorteService
	queue      PrintQueue
	now        func() time.Time
}

func NewCreditoService(
	repo repository.CreditoRepository,
	productos repository.ProductoRepository,
	clientes repository.ClienteRepository,
	inventario InventarioService,
	cortes CorteService,
	queue PrintQueue,
) CreditoService {
	return &creditoService{
		repo:       repo,
		productos:  productos,
		clientes:   clientes,
		inventario: inventario,
		cortes:     cortes,
		queue:      queue,
		now:        time.Now,
	}
}

// ── Apertura ──────────────────────────────────────────────────────────────────

// cuentaNueva is the priced, validated input shared by credits and layaways.
type cuentaNueva struct {
	usuarioID   uuid.UUID
	sucursalID  uuid.UUID
	cliente     *model.Cliente
	cot         *cotizacion
	anticipo    decimal.Decimal
	pagos       []model.Pago
	fechaLimite time.Time
}

func (s *creditoService) preparar(ctx context.Context, usuarioID, sucursalID uuid.UUID, req dto.CrearCuentaRequest) (*cuentaNueva, error) {
	clienteID, err := uuid.Parse(req.ClienteID)
	if err != nil {
		return nil, fmt.Errorf("cliente_id invalido: %w", err)
	}
	cliente, err := s.clientes.FindByID(ctx, clienteID)
	if err != nil {
		return nil, notFound(err, "cliente")
	}
	cot, err := cotizar(ctx, s.productos, req.Items, cliente.TipoPrecio)
	if err != nil {
		return nil, err
	}
	n := &cuentaNueva{usuarioID: usuarioID, sucursalID: sucursalID, cliente: cliente, cot: cot, anticipo: decimal.Zero}
	if len(req.Pagos) > 0 {
		if n.pagos, n.anticipo, err = abonar(req.Pagos, cot.total); err != nil {
			return nil, err
		}
	}
	return n, nil
}

// conCorte runs fn under the branch's open corte. Without a down payment the
// account does not touch the drawer, so a branch with no open corte is fine.
func (s *creditoService) conCorte(ctx context.Context, n *cuentaNueva, fn func(corteID *uuid.UUID) error) error {
	err := s.cortes.ConCorteAbierto(ctx, n.sucursalID, func(c *model.Corte) error {
		return fn(&c.ID)
	})
	if errors.Is(err, ErrShiftNotOpen) && n.anticipo.IsZero() {
		return fn(nil)
	}
	return err
}

func (s *creditoService) CrearCredito(ctx context.Context, usuarioID, sucursalID uuid.UUID, req dto.CrearCuentaRequest) (*dto.CuentaResponse, error) {
	n, err := s.preparar(ctx, usuarioID, sucursalID, req)
	if err != nil {
		return nil, err
	}

	var credito model.Credito
	var abonos []model.Abono
	err = s.conCorte(ctx, n, func(corteID *uuid.UUID) error {
		// the limit is checked under the lock so two terminals cannot both
		// spend the last of it
		if err := s.verificarLimite(ctx, n); err != nil {
			return err
		}
		return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
			folio, err := s.repo.NextFolio(ctx, tx, infra.SeqFolioCreditos)
			if err != nil {
				return err
			}
			saldo := n.cot.total.Sub(n.anticipo)
			credito = model.Credito{
				Folio:      folio,
				SucursalID: n.sucursalID,
				UsuarioID:  n.usuarioID,
				ClienteID:  n.cliente.ID,
				Total:      n.cot.total,
				Saldo:      saldo,
				Estado:     estadoPorSaldo(saldo),
				Fecha:      s.now(),
			}
			for i, l := range n.cot.lineas {
				credito.Items = append(credito.Items, model.CreditoItem{Orden: i, LineaItem: l})
			}
			if err := s.repo.CreateCredito(ctx, tx, &credito); err != nil {
				return err
			}

			ref := credito.ID
			if err := moverPiezas(ctx, s.inventario, tx, n.cot.piezas, -1, model.MovimientoStock{
				Tipo:         model.StockCredito,
				Motivo:       "Credito " + folioDoc(PrefijoCredito, folio),
				ReferenciaID: &ref,
				UsuarioID:    &n.usuarioID,
			}); err != nil {
				return err
			}

			ab, err := s.anticipo(ctx, tx, n, corteID, model.AbonoCredito, credito.ID, n.cot.total, credito.Fecha)
			if ab != nil {
				abonos = append(abonos, *ab)
			}
			return err
		})
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("credito_id", credito.ID.String()).
		Int("folio", credito.Folio).
		Str("cliente_id", credito.ClienteID.String()).
		Str("total", credito.Total.StringFixed(2)).
		Str("saldo", credito.Saldo.StringFixed(2)).
		Msg("credito creado")
	if req.Imprimir {
		encolarImpresion(ctx, s.queue, DocCredito, credito.ID)
	}
	return creditoToResponse(&credito, abonos), nil
}

// verificarLimite rejects a credit that would take the customer's outstanding
// balance over their limit. A zero limit means no limit.
func (s *creditoService) verificarLimite(ctx context.Context, n *cuentaNueva) error {
	limite := n.cliente.LimiteCredito
	if !limite.IsPositive() {
		return nil
	}
	actual, err := s.repo.SaldoCliente(ctx, n.cliente.ID)
	if err != nil {
		return err
	}
	nuevo := actual.Add(n.cot.total.Sub(n.anticipo))
	if nuevo.GreaterThan(limite) {
		return fmt.Errorf("%w: saldo %s, limite %s", ErrLimiteCredito, nuevo.StringFixed(2), limite.StringFixed(2))
	}
	return nil
}

func (s *creditoService) CrearApartado(ctx context.Context, usuarioID, sucursalID uuid.UUID, req dto.CrearCuentaRequest) (*dto.CuentaResponse, error) {
	fechaLimite, err := s.fechaLimite(req.FechaLimite)
	if err != nil {
		return nil, err
	}
	n, err := s.preparar(ctx, usuarioID, sucursalID, req)
	if err != nil {
		return nil, err
	}
	n.fechaLimite = fechaLimite

	var apartado model.Apartado
	var abonos []model.Abono
	err = s.conCorte(ctx, n, func(corteID *uuid.UUID) error {
		return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
			folio, err := s.repo.NextFolio(ctx, tx, infra.SeqFolioApartados)
			if err != nil {
				return err
			}
			saldo := n.cot.total.Sub(n.anticipo)
			apartado = model.Apartado{
				Folio:       folio,
				SucursalID:  n.sucursalID,
				UsuarioID:   n.usuarioID,
				ClienteID:   n.cliente.ID,
				Total:       n.cot.total,
				Saldo:       saldo,
				Estado:      estadoPorSaldo(saldo),
				FechaLimite: n.fechaLimite,
				Fecha:       s.now(),
			}
			for i, l := range n.cot.lineas {
				apartado.Items = append(apartado.Items, model.ApartadoItem{Orden: i, LineaItem: l})
			}
			if err := s.repo.CreateApartado(ctx, tx, &apartado); err != nil {
				return err
			}

			// reserved goods leave the shelf
			ref := apartado.ID
			if err := moverPiezas(ctx, s.inventario, tx, n.cot.piezas, -1, model.MovimientoStock{
				Tipo:         model.StockApartado,
				Motivo:       "Apartado " + folioDoc(PrefijoApartado, folio),
				ReferenciaID: &ref,
				UsuarioID:    &n.usuarioID,
			}); err != nil {
				return err
			}

			ab, err := s.anticipo(ctx, tx, n, corteID, model.AbonoApartado, apartado.ID, n.cot.total, apartado.Fecha)
			if ab != nil {
				abonos = append(abonos, *ab)
			}
			return err
		})
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("apartado_id", apartado.ID.String()).
		Int("folio", apartado.Folio).
		Str("cliente_id", apartado.ClienteID.String()).
		Str("total", apartado.Total.StringFixed(2)).
		Time("fecha_limite", apartado.FechaLimite).
		Msg("apartado creado")
	if req.Imprimir {
		encolarImpresion(ctx, s.queue, DocApartado, apartado.ID)
	}
	return apartadoToResponse(&apartado, abonos), nil
}

// fechaLimite parses YYYY-MM-DD; the date must be later than today.
func (s *creditoService) fechaLimite(raw string) (time.Time, error) {
	now := s.now()
	if raw == "" {
		return now.Add(plazoApartado), nil
	}
	f, err := time.ParseInLocation("2006-01-02", raw, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("fecha_limite invalida: %w", err)
	}
	hoy := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if !f.After(hoy) {
		return time.Time{}, ErrFechaLimite
	}
	return f, nil
}

// anticipo records the down payment as the account's first abono, dated
// exactly like the account. It does nothing when no down payment was taken.
func (s *creditoService) anticipo(ctx context.Context, tx *gorm.DB, n *cuentaNueva, corteID *uuid.UUID, tipo string, cuentaID uuid.UUID, total decimal.Decimal, fecha time.Time) (*model.Abono, error) {
	if !n.anticipo.IsPositive() {
		return nil, nil
	}
	if corteID == nil {
		return nil, ErrShiftNotOpen
	}
	folio, err := s.repo.NextFolio(ctx, tx, infra.SeqFolioAbonos)
	if err != nil {
		return nil, err
	}
	ab := nuevoAbono(folio, tipo, cuentaID, n.sucursalID, n.usuarioID, *corteID, n.pagos, total, fecha)
	if err := s.repo.CreateAbono(ctx, tx, ab); err != nil {
		return nil, err
	}
	return ab, nil
}

func nuevoAbono(folio int, tipo string, cuentaID, sucursalID, usuarioID, corteID uuid.UUID, pagos []model.Pago, saldoAnterior decimal.Decimal, fecha time.Time) *model.Abono {
	monto := model.SumPagos(pagos)
	ab := &model.Abono{
		Folio:         folio,
		Tipo:          tipo,
		ReferenciaID:  cuentaID,
		SucursalID:    sucursalID,
		UsuarioID:     usuarioID,
		CorteID:       corteID,
		Monto:         monto,
		SaldoAnterior: saldoAnterior,
		SaldoNuevo:    saldoAnterior.Sub(monto),
		Fecha:         fecha,
	}
	for i, p := range pagos {
		ab.Pagos = append(ab.Pagos, model.AbonoPago{Orden: i, Pago: p})
	}
	return ab
}

func estadoPorSaldo(saldo decimal.Decimal) string {
	if saldo.IsPositive() {
		return model.CuentaActiva
	}
	return model.CuentaLiquidada
}

// ── RegistrarAbono ────────────────────────────────────────────────────────────

func (s *creditoService) RegistrarAbono(ctx context.Context, usuarioID, sucursalID uuid.UUID, tipo string, cuentaID uuid.UUID, req dto.AbonoRequest) (*dto.AbonoResponse, error) {
	if tipo != model.AbonoCredito && tipo != model.AbonoApartado {
		return nil, fmt.Errorf("%w: %s", ErrTipoDocumento, tipo)
	}

	var abono *model.Abono
	err := s.cortes.ConCorteAbierto(ctx, sucursalID, func(c *model.Corte) error {
		return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
			saldo, estado, err := s.bloquearCuenta(ctx, tx, tipo, cuentaID)
			if err != nil {
				return err
			}
			if estado != model.CuentaActiva {
				return ErrCuentaNoActiva
			}
			pagos, _, err := abonar(req.Pagos, saldo)
			if err != nil {
				return err
			}
			folio, err := s.repo.NextFolio(ctx, tx, infra.SeqFolioAbonos)
			if err != nil {
				return err
			}
			abono = nuevoAbono(folio, tipo, cuentaID, sucursalID, usuarioID, c.ID, pagos, saldo, s.now())
			if err := s.repo.CreateAbono(ctx, tx, abono); err != nil {
				return err
			}
			return s.repo.UpdateSaldo(ctx, tx, tipo, cuentaID, abono.SaldoNuevo, estadoPorSaldo(abono.SaldoNuevo))
		})
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("abono_id", abono.ID.String()).
		Str("tipo", tipo).
		Str("cuenta_id", cuentaID.String()).
		Str("monto", abono.Monto.StringFixed(2)).
		Str("saldo_nuevo", abono.SaldoNuevo.StringFixed(2)).
		Msg("abono registrado")
	if req.Imprimir {
		encolarImpresion(ctx, s.queue, DocAbono, abono.ID)
	}
	resp := abonoToResponse(abono)
	return &resp, nil
}

func (s *creditoService) bloquearCuenta(ctx context.Context, tx *gorm.DB, tipo string, id uuid.UUID) (decimal.Decimal, string, error) {
	if tipo == model.AbonoCredito {
		c, err := s.repo.LockCredito(ctx, tx, id)
		if err != nil {
			return decimal.Zero, "", notFound(err, "credito")
		}
		return c.Saldo, c.Estado, nil
	}
	a, err := s.repo.LockApartado(ctx, tx, id)
	if err != nil {
		return decimal.Zero, "", notFound(err, "apartado")
	}
	return a.Saldo, a.Estado, nil
}

// ── Queries ───────────────────────────────────────────────────────────────────

func (s *creditoService) ObtenerCredito(ctx context.Context, id uuid.UUID) (*dto.CuentaResponse, error) {
	c, err := s.repo.FindCredito(ctx, id)
	if err != nil {
		return nil, notFound(err, "credito")
	}
	abonos, err := s.repo.ListAbonos(ctx, model.AbonoCredito, id)
	if err != nil {
		return nil, err
	}
	return creditoToResponse(c, abonos), nil
}

func (s *creditoService) ObtenerApartado(ctx context.Context, id uuid.UUID) (*dto.CuentaResponse, error) {
	a, err := s.repo.FindApartado(ctx, id)
	if err != nil {
		return nil, notFound(err, "apartado")
	}
	abonos, err := s.repo.ListAbonos(ctx, model.AbonoApartado, id)
	if err != nil {
		return nil, err
	}
	return apartadoToResponse(a, abonos), nil
}

func (s *creditoService) ListCreditos(ctx context.Context, filter dto.CuentaFilter) (*dto.CuentaListResponse, error) {
	list, total, err := s.repo.ListCreditos(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.CuentaResponse, 0, len(list))
	for i := range list {
		data = append(data, *creditoToResponse(&list[i], nil))
	}
	return &dto.CuentaListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *creditoService) ListApartados(ctx context.Context, filter dto.CuentaFilter) (*dto.CuentaListResponse, error) {
	list, total, err := s.repo.ListApartados(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.CuentaResponse, 0, len(list))
	for i := range list {
		data = append(data, *apartadoToResponse(&list[i], nil))
	}
	return &dto.CuentaListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

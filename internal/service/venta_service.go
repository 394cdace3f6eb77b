package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"casaceja/internal/dto"
	"casaceja/internal/model"
	"casaceja/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type VentaService interface {
	RegistrarVenta(ctx context.Context, usuarioID, sucursalID uuid.UUID, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error)
	CancelarVenta(ctx context.Context, usuarioID, id uuid.UUID, motivo string) error
	ObtenerVenta(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error)
	ListVentas(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error)
}

type ventaService struct {
	repo       repository.VentaRepository
	productos  repository.ProductoRepository
	clientes   repository.ClienteRepository
	inventario InventarioService
	cortes     CorteService
	queue      PrintQueue
	now        func() time.Time
}

func NewVentaService(
	repo repository.VentaRepository,
	productos repository.ProductoRepository,
	clientes repository.ClienteRepository,
	inventario InventarioService,
	cortes CorteService,
	queue PrintQueue,
) VentaService {
	return &ventaService{
		repo:       repo,
		productos:  productos,
		clientes:   clientes,
		inventario: inventario,
		cortes:     cortes,
		queue:      queue,
		now:        time.Now,
	}
}

// ── RegistrarVenta ────────────────────────────────────────────────────────────
//   1. Price every line (tier + category discount) outside the lock
//   2. Apply the payment breakdown: it must cover the total, change from cash only
//   3. Under the branch lock with the open corte: BEGIN TX, nextval folio,
//      venta + items + pagos, stock out with ledger rows, COMMIT
//   4. (async) print job

func (s *ventaService) RegistrarVenta(ctx context.Context, usuarioID, sucursalID uuid.UUID, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error) {
	var clienteID *uuid.UUID
	tier := model.PrecioNormal
	if req.ClienteID != nil && *req.ClienteID != "" {
		id, err := uuid.Parse(*req.ClienteID)
		if err != nil {
			return nil, fmt.Errorf("cliente_id invalido: %w", err)
		}
		cliente, err := s.clientes.FindByID(ctx, id)
		if err != nil {
			return nil, notFound(err, "cliente")
		}
		clienteID = &cliente.ID
		tier = cliente.TipoPrecio
	}

	cot, err := cotizar(ctx, s.productos, req.Items, tier)
	if err != nil {
		return nil, err
	}
	pago, err := cobrar(req.Pagos, cot.total)
	if err != nil {
		return nil, err
	}

	var venta model.Venta
	err = s.cortes.ConCorteAbierto(ctx, sucursalID, func(c *model.Corte) error {
		return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
			folio, err := s.repo.NextFolio(ctx, tx)
			if err != nil {
				return err
			}
			venta = model.Venta{
				Folio:      folio,
				SucursalID: sucursalID,
				UsuarioID:  usuarioID,
				ClienteID:  clienteID,
				CorteID:    c.ID,
				Subtotal:   cot.subtotal,
				Descuento:  cot.descuento,
				Total:      cot.total,
				Recibido:   pago.recibido,
				Cambio:     pago.cambio,
				Estado:     model.VentaCompletada,
				Fecha:      s.now(),
			}
			for i, l := range cot.lineas {
				venta.Items = append(venta.Items, model.VentaItem{Orden: i, LineaItem: l})
			}
			for i, p := range pago.pagos {
				venta.Pagos = append(venta.Pagos, model.VentaPago{Orden: i, Pago: p})
			}
			if err := s.repo.Create(ctx, tx, &venta); err != nil {
				return err
			}

			ref := venta.ID
			motivo := "Venta " + folioDoc(PrefijoVenta, folio)
			return moverPiezas(ctx, s.inventario, tx, cot.piezas, -1, model.MovimientoStock{
				Tipo:         model.StockVenta,
				Motivo:       motivo,
				ReferenciaID: &ref,
				UsuarioID:    &usuarioID,
			})
		})
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("venta_id", venta.ID.String()).
		Int("folio", venta.Folio).
		Str("total", venta.Total.StringFixed(2)).
		Msg("venta registrada")

	if req.Imprimir {
		encolarImpresion(ctx, s.queue, DocVenta, venta.ID)
	}
	return ventaToResponse(&venta), nil
}

// moverPiezas records one stock movement per product in piezas, in a stable
// order so concurrent transactions lock product rows in the same sequence.
// signo is -1 for goods leaving the store and +1 for goods coming back.
func moverPiezas(ctx context.Context, inv InventarioService, tx *gorm.DB, piezas map[uuid.UUID]int, signo int, base model.MovimientoStock) error {
	ids := make([]uuid.UUID, 0, len(piezas))
	for id := range piezas {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	for _, id := range ids {
		mov := base
		mov.ProductoID = id
		mov.Cantidad = signo * piezas[id]
		if _, err := inv.MoverStockTx(ctx, tx, mov); err != nil {
			return err
		}
	}
	return nil
}

// ── CancelarVenta ─────────────────────────────────────────────────────────────
// Only sales of the corte still open can be cancelled: a closed corte's
// totals are frozen.

func (s *ventaService) CancelarVenta(ctx context.Context, usuarioID, id uuid.UUID, motivo string) error {
	venta, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return notFound(err, "venta")
	}
	if venta.Estado == model.VentaCancelada {
		return ErrVentaCancelada
	}

	err = s.cortes.ConCorteAbierto(ctx, venta.SucursalID, func(c *model.Corte) error {
		if c.ID != venta.CorteID {
			return fmt.Errorf("la venta pertenece a otro corte: %w", ErrShiftAlreadyClosed)
		}
		return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
			if err := s.repo.Cancelar(ctx, tx, venta.ID, motivo); err != nil {
				return err
			}
			piezas := make(map[uuid.UUID]int, len(venta.Items))
			for _, it := range venta.Items {
				piezas[it.ProductoID] += it.Cantidad
			}
			ref := venta.ID
			return moverPiezas(ctx, s.inventario, tx, piezas, 1, model.MovimientoStock{
				Tipo:         model.StockCancelacion,
				Motivo:       fmt.Sprintf("Cancelacion %s: %s", folioDoc(PrefijoVenta, venta.Folio), motivo),
				ReferenciaID: &ref,
				UsuarioID:    &usuarioID,
			})
		})
	})
	if err != nil {
		return err
	}
	log.Info().Str("venta_id", venta.ID.String()).Int("folio", venta.Folio).Str("motivo", motivo).Msg("venta cancelada")
	return nil
}

// ── Queries ───────────────────────────────────────────────────────────────────

func (s *ventaService) ObtenerVenta(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error) {
	v, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "venta")
	}
	return ventaToResponse(v), nil
}

// ListVentas returns a paginated list of sales. Default filter: completed sales.
func (s *ventaService) ListVentas(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	ventas, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.VentaResponse, 0, len(ventas))
	for i := range ventas {
		data = append(data, *ventaToResponse(&ventas[i]))
	}
	return &dto.VentaListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

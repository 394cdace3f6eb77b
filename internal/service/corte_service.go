package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"casaceja/internal/corte"
	"casaceja/internal/dto"
	"casaceja/internal/infra"
	"casaceja/internal/model"
	"casaceja/internal/repository"
	"casaceja/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// PrintQueue is satisfied by *worker.Dispatcher.
type PrintQueue interface {
	EnqueueImpresion(ctx context.Context, p worker.ImpresionPayload) error
}

type CorteService interface {
	Abrir(ctx context.Context, usuarioID, sucursalID uuid.UUID, req dto.AbrirCorteRequest) (*dto.CorteResponse, error)
	RegistrarMovimiento(ctx context.Context, usuarioID, corteID uuid.UUID, req dto.MovimientoRequest) (*dto.MovimientoResponse, error)
	// ComputeTotals aggregates everything recorded for the corte since openedAt.
	// An unknown corte yields zero totals.
	ComputeTotals(ctx context.Context, corteID uuid.UUID, openedAt time.Time) (corte.Totals, error)
	Cerrar(ctx context.Context, corteID uuid.UUID, req dto.CerrarCorteRequest) (*dto.CorteResponse, error)
	ObtenerActivo(ctx context.Context, sucursalID uuid.UUID) (*dto.CorteResponse, error)
	ObtenerReporte(ctx context.Context, corteID uuid.UUID) (*dto.CorteResponse, error)
	Historial(ctx context.Context, filter dto.CorteFilter) (*dto.CorteListResponse, error)

	// ConCorteAbierto runs fn with the branch's open corte while holding the
	// branch lock, so no close can interleave with the money movement fn records.
	ConCorteAbierto(ctx context.Context, sucursalID uuid.UUID, fn func(c *model.Corte) error) error
	// TotalesDe returns live totals for an open corte and the frozen ones otherwise.
	TotalesDe(ctx context.Context, c *model.Corte) (corte.Totals, error)
}

type corteService struct {
	repo        repository.CorteRepository
	sucursales  repository.SucursalRepository
	ventas      repository.VentaRepository
	creditos    repository.CreditoRepository
	locker      infra.ShiftLocker
	queue       PrintQueue
	reportEmail string
	now         func() time.Time
}

func NewCorteService(
	repo repository.CorteRepository,
	sucursales repository.SucursalRepository,
	ventas repository.VentaRepository,
	creditos repository.CreditoRepository,
	locker infra.ShiftLocker,
	queue PrintQueue,
	reportEmail string,
) CorteService {
	return &corteService{
		repo:        repo,
		sucursales:  sucursales,
		ventas:      ventas,
		creditos:    creditos,
		locker:      locker,
		queue:       queue,
		reportEmail: reportEmail,
		now:         time.Now,
	}
}

// ── Locking ───────────────────────────────────────────────────────────────────

func lockKey(sucursalID uuid.UUID) string { return "sucursal:" + sucursalID.String() }

func (s *corteService) withLock(ctx context.Context, sucursalID uuid.UUID, fn func() error) error {
	unlock, err := s.locker.Lock(ctx, lockKey(sucursalID))
	if err != nil {
		return err
	}
	defer func() {
		if err := unlock(context.WithoutCancel(ctx)); err != nil {
			log.Warn().Err(err).Str("sucursal_id", sucursalID.String()).Msg("shift lock release failed")
		}
	}()
	return fn()
}

func (s *corteService) ConCorteAbierto(ctx context.Context, sucursalID uuid.UUID, fn func(c *model.Corte) error) error {
	return s.withLock(ctx, sucursalID, func() error {
		c, err := s.repo.FindAbierto(ctx, sucursalID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrShiftNotOpen
		}
		if err != nil {
			return err
		}
		return fn(c)
	})
}

// ── Abrir ─────────────────────────────────────────────────────────────────────

func (s *corteService) Abrir(ctx context.Context, usuarioID, sucursalID uuid.UUID, req dto.AbrirCorteRequest) (*dto.CorteResponse, error) {
	if _, err := s.sucursales.FindByID(ctx, sucursalID); err != nil {
		return nil, notFound(err, "sucursal")
	}

	var c *model.Corte
	err := s.withLock(ctx, sucursalID, func() error {
		existing, err := s.repo.FindAbierto(ctx, sucursalID)
		if err == nil && existing != nil {
			return ErrShiftAlreadyOpen
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		folio, err := s.repo.NextFolio(ctx)
		if err != nil {
			return err
		}
		c = &model.Corte{
			Folio:        folio,
			SucursalID:   sucursalID,
			UsuarioID:    usuarioID,
			FondoInicial: req.FondoInicial.Round(2),
			Estado:       model.CorteAbierto,
			OpenedAt:     s.now(),
		}
		if err := s.repo.Create(ctx, c); err != nil {
			// the partial unique index catches a concurrent open the lock missed
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrShiftAlreadyOpen
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("corte_id", c.ID.String()).
		Int("folio", c.Folio).
		Str("sucursal_id", sucursalID.String()).
		Str("fondo_inicial", c.FondoInicial.StringFixed(2)).
		Msg("corte abierto")
	return s.reporte(ctx, c)
}

// ── RegistrarMovimiento ───────────────────────────────────────────────────────
// Movements are immutable — no Update/Delete.

func (s *corteService) RegistrarMovimiento(ctx context.Context, usuarioID, corteID uuid.UUID, req dto.MovimientoRequest) (*dto.MovimientoResponse, error) {
	if !req.Monto.IsPositive() {
		return nil, ErrMontoInvalido
	}
	c, err := s.repo.FindByID(ctx, corteID)
	if err != nil {
		return nil, notFound(err, "corte")
	}

	var mov *model.MovimientoCaja
	err = s.withLock(ctx, c.SucursalID, func() error {
		// re-read under the lock: the corte may have been closed meanwhile
		c, err := s.repo.FindByID(ctx, corteID)
		if err != nil {
			return notFound(err, "corte")
		}
		if !c.Abierto() {
			return ErrShiftAlreadyClosed
		}
		mov = &model.MovimientoCaja{
			CorteID:   c.ID,
			Tipo:      req.Tipo,
			Concepto:  req.Concepto,
			Monto:     req.Monto.Round(2),
			UsuarioID: usuarioID,
			CreatedAt: s.now(),
		}
		return s.repo.CreateMovimiento(ctx, mov)
	})
	if err != nil {
		return nil, err
	}
	resp := movimientoToResponse(mov)
	return &resp, nil
}

// ── ComputeTotals ─────────────────────────────────────────────────────────────

func (s *corteService) ComputeTotals(ctx context.Context, corteID uuid.UUID, openedAt time.Time) (corte.Totals, error) {
	c, err := s.repo.FindByID(ctx, corteID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return corte.Empty(), nil
	}
	if err != nil {
		return corte.Totals{}, err
	}

	scope := corte.Scope{CorteID: c.ID, SucursalID: c.SucursalID, Desde: openedAt}
	var recs corte.Records
	if recs.Ventas, err = s.ventas.ListDesde(ctx, c.SucursalID, openedAt); err != nil {
		return corte.Totals{}, fmt.Errorf("ventas: %w", err)
	}
	if recs.Creditos, err = s.creditos.CreditosDesde(ctx, c.SucursalID, openedAt); err != nil {
		return corte.Totals{}, fmt.Errorf("creditos: %w", err)
	}
	if recs.Apartados, err = s.creditos.ApartadosDesde(ctx, c.SucursalID, openedAt); err != nil {
		return corte.Totals{}, fmt.Errorf("apartados: %w", err)
	}
	if recs.Abonos, err = s.creditos.AbonosDesde(ctx, c.SucursalID, openedAt); err != nil {
		return corte.Totals{}, fmt.Errorf("abonos: %w", err)
	}
	if recs.Movimientos, err = s.repo.ListMovimientos(ctx, c.ID); err != nil {
		return corte.Totals{}, fmt.Errorf("movimientos: %w", err)
	}
	return corte.Compute(scope, recs), nil
}

// ── Cerrar ────────────────────────────────────────────────────────────────────
// Blind count: the expected cash is only revealed in the response.

func (s *corteService) Cerrar(ctx context.Context, corteID uuid.UUID, req dto.CerrarCorteRequest) (*dto.CorteResponse, error) {
	c, err := s.repo.FindByID(ctx, corteID)
	if err != nil {
		return nil, notFound(err, "corte")
	}

	var r corte.Reconciliation
	err = s.withLock(ctx, c.SucursalID, func() error {
		fresh, err := s.repo.FindByID(ctx, corteID)
		if err != nil {
			return notFound(err, "corte")
		}
		c = fresh
		if !c.Abierto() {
			return ErrShiftAlreadyClosed
		}
		totals, err := s.ComputeTotals(ctx, c.ID, c.OpenedAt)
		if err != nil {
			return err
		}
		if r, err = corte.Close(c, totals, req.EfectivoDeclarado.Round(2), s.now()); err != nil {
			return err
		}
		c.Observaciones = req.Observaciones
		return s.repo.Update(ctx, c)
	})
	if err != nil {
		return nil, err
	}

	evt := log.Info()
	if r.Clasificacion == corte.VarianceCritico {
		evt = log.Warn()
	}
	evt.Str("corte_id", c.ID.String()).
		Int("folio", c.Folio).
		Str("esperado", r.Expected.StringFixed(2)).
		Str("declarado", r.Declared.StringFixed(2)).
		Str("diferencia", r.Surplus.StringFixed(2)).
		Str("clasificacion", r.Clasificacion).
		Msg("corte cerrado")

	s.encolarReporte(ctx, c, req.Imprimir)
	return s.reporte(ctx, c)
}

// encolarReporte queues the close document for printing and, when a report
// address is configured, for mailing. The corte is already closed, so a queue
// failure is only logged.
func (s *corteService) encolarReporte(ctx context.Context, c *model.Corte, imprimir bool) {
	if s.queue == nil || (!imprimir && s.reportEmail == "") {
		return
	}
	p := worker.ImpresionPayload{Tipo: DocCorte, ID: c.ID}
	if s.reportEmail != "" {
		p.Email = s.reportEmail
		p.Subject = "Corte de caja " + folioDoc(PrefijoCorte, c.Folio)
	}
	if err := s.queue.EnqueueImpresion(ctx, p); err != nil {
		log.Error().Err(err).Str("corte_id", c.ID.String()).Msg("no se pudo encolar el reporte de corte")
	}
}

// ── Queries ───────────────────────────────────────────────────────────────────

func (s *corteService) ObtenerActivo(ctx context.Context, sucursalID uuid.UUID) (*dto.CorteResponse, error) {
	c, err := s.repo.FindAbierto(ctx, sucursalID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrShiftNotOpen
	}
	if err != nil {
		return nil, err
	}
	return s.reporte(ctx, c)
}

func (s *corteService) ObtenerReporte(ctx context.Context, corteID uuid.UUID) (*dto.CorteResponse, error) {
	c, err := s.repo.FindByID(ctx, corteID)
	if err != nil {
		return nil, notFound(err, "corte")
	}
	return s.reporte(ctx, c)
}

func (s *corteService) Historial(ctx context.Context, filter dto.CorteFilter) (*dto.CorteListResponse, error) {
	list, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.CorteResponse, 0, len(list))
	for i := range list {
		resp, err := s.reporte(ctx, &list[i])
		if err != nil {
			return nil, err
		}
		data = append(data, *resp)
	}
	return &dto.CorteListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func (s *corteService) TotalesDe(ctx context.Context, c *model.Corte) (corte.Totals, error) {
	if c.Abierto() {
		return s.ComputeTotals(ctx, c.ID, c.OpenedAt)
	}
	if c.Movimientos == nil {
		movs, err := s.repo.ListMovimientos(ctx, c.ID)
		if err != nil {
			return corte.Totals{}, err
		}
		c.Movimientos = movs
	}
	return corte.Frozen(c), nil
}

func (s *corteService) reporte(ctx context.Context, c *model.Corte) (*dto.CorteResponse, error) {
	t, err := s.TotalesDe(ctx, c)
	if err != nil {
		return nil, err
	}
	return &dto.CorteResponse{
		ID:            c.ID.String(),
		Folio:         c.Folio,
		SucursalID:    c.SucursalID.String(),
		UsuarioID:     c.UsuarioID.String(),
		Estado:        c.Estado,
		FondoInicial:  c.FondoInicial,
		Totales:       t,
		TotalVentas:   t.TotalSales(),
		TotalDelCorte: t.TotalDelCorte(),
		Esperado:      t.ExpectedCash(c.FondoInicial),
		Conciliacion:  corte.Stored(c),
		Observaciones: c.Observaciones,
		OpenedAt:      iso(c.OpenedAt),
		ClosedAt:      isoPtr(c.ClosedAt),
	}, nil
}

func movimientoToResponse(m *model.MovimientoCaja) dto.MovimientoResponse {
	return dto.MovimientoResponse{
		ID:        m.ID.String(),
		CorteID:   m.CorteID.String(),
		Tipo:      m.Tipo,
		Concepto:  m.Concepto,
		Monto:     m.Monto,
		CreatedAt: iso(m.CreatedAt),
	}
}

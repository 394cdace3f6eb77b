package service

import (
	"context"
	"fmt"
	"time"

	"casaceja/internal/archive"
	"casaceja/internal/dto"
	"casaceja/internal/model"
	"casaceja/internal/repository"
	"casaceja/internal/worker"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// SnapshotService keeps the audit archive: a copy of every printed ticket and
// the nightly price list, stored compressed and never modified.
type SnapshotService interface {
	ArchivarTicket(ctx context.Context, tipo string, id uuid.UUID, texto string) error
	SnapshotPrecios(ctx context.Context) (*model.Snapshot, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.SnapshotResponse, error)
	Listar(ctx context.Context, filter dto.SnapshotFilter) (*dto.SnapshotListResponse, error)
}

type snapshotService struct {
	repo      repository.SnapshotRepository
	productos repository.ProductoRepository
	now       func() time.Time
}

var (
	_ worker.TicketArchiver   = (*snapshotService)(nil)
	_ worker.PriceSnapshotter = (*snapshotService)(nil)
)

func NewSnapshotService(repo repository.SnapshotRepository, productos repository.ProductoRepository) SnapshotService {
	return &snapshotService{repo: repo, productos: productos, now: time.Now}
}

type ticketArchivado struct {
	Tipo  string    `json:"tipo"`
	ID    uuid.UUID `json:"id"`
	Texto string    `json:"texto"`
}

type precioArchivado struct {
	ID              uuid.UUID       `json:"id"`
	CodigoBarras    string          `json:"codigo_barras"`
	Nombre          string          `json:"nombre"`
	Precio          decimal.Decimal `json:"precio"`
	PrecioMayoreo   decimal.Decimal `json:"precio_mayoreo"`
	CantidadMayoreo int             `json:"cantidad_mayoreo"`
	PrecioEspecial  decimal.Decimal `json:"precio_especial"`
	PrecioVendedor  decimal.Decimal `json:"precio_vendedor"`
	StockActual     int             `json:"stock_actual"`
}

func (s *snapshotService) ArchivarTicket(ctx context.Context, tipo string, id uuid.UUID, texto string) error {
	datos, err := archive.Encode(ticketArchivado{Tipo: tipo, ID: id, Texto: texto})
	if err != nil {
		return err
	}
	ref := id
	return s.repo.Create(ctx, &model.Snapshot{
		Tipo:         model.SnapshotTicket,
		ReferenciaID: &ref,
		Descripcion:  tipo,
		Datos:        datos,
	})
}

func (s *snapshotService) SnapshotPrecios(ctx context.Context) (*model.Snapshot, error) {
	productos, err := s.productos.ListActivos(ctx)
	if err != nil {
		return nil, err
	}
	lista := make([]precioArchivado, 0, len(productos))
	for _, p := range productos {
		lista = append(lista, precioArchivado{
			ID:              p.ID,
			CodigoBarras:    p.CodigoBarras,
			Nombre:          p.Nombre,
			Precio:          p.Precio,
			PrecioMayoreo:   p.PrecioMayoreo,
			CantidadMayoreo: p.CantidadMayoreo,
			PrecioEspecial:  p.PrecioEspecial,
			PrecioVendedor:  p.PrecioVendedor,
			StockActual:     p.StockActual,
		})
	}
	datos, err := archive.Encode(lista)
	if err != nil {
		return nil, err
	}
	snap := &model.Snapshot{
		Tipo:        model.SnapshotPrecios,
		Descripcion: fmt.Sprintf("%d productos al %s", len(lista), s.now().Format("2006-01-02")),
		Datos:       datos,
	}
	if err := s.repo.Create(ctx, snap); err != nil {
		return nil, err
	}
	log.Info().Str("snapshot_id", snap.ID.String()).Int("productos", len(lista)).Int("bytes", len(datos)).Msg("snapshot de precios")
	return snap, nil
}

func (s *snapshotService) Obtener(ctx context.Context, id uuid.UUID) (*dto.SnapshotResponse, error) {
	snap, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "snapshot")
	}
	raw, err := archive.Raw(snap.Datos)
	if err != nil {
		return nil, err
	}
	resp := snapshotToResponse(snap)
	resp.Datos = raw
	return &resp, nil
}

func (s *snapshotService) Listar(ctx context.Context, filter dto.SnapshotFilter) (*dto.SnapshotListResponse, error) {
	list, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.SnapshotResponse, 0, len(list))
	for i := range list {
		data = append(data, snapshotToResponse(&list[i]))
	}
	return &dto.SnapshotListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func snapshotToResponse(s *model.Snapshot) dto.SnapshotResponse {
	resp := dto.SnapshotResponse{
		ID:          s.ID.String(),
		Tipo:        s.Tipo,
		Descripcion: s.Descripcion,
		Bytes:       len(s.Datos),
		CreatedAt:   iso(s.CreatedAt),
	}
	if s.ReferenciaID != nil {
		ref := s.ReferenciaID.String()
		resp.ReferenciaID = &ref
	}
	return resp
}

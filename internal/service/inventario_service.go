package service

import (
	"context"
	"fmt"

	"casaceja/internal/dto"
	"casaceja/internal/model"
	"casaceja/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// InventarioService owns every stock change and its ledger entry.
type InventarioService interface {
	// MoverStockTx applies mov.Cantidad to the product's stock inside tx and
	// returns the recorded ledger row. Stock may go negative: a sale is never
	// blocked by it.
	MoverStockTx(ctx context.Context, tx *gorm.DB, mov model.MovimientoStock) (*model.MovimientoStock, error)
	AjustarStock(ctx context.Context, usuarioID, productoID uuid.UUID, req dto.AjustarStockRequest) (*dto.MovimientoStockResponse, error)
	ListarMovimientos(ctx context.Context, filter dto.MovimientoStockFilter) (*dto.MovimientoStockListResponse, error)
}

type inventarioService struct {
	productos   repository.ProductoRepository
	movimientos repository.MovimientoStockRepository
}

func NewInventarioService(productos repository.ProductoRepository, movimientos repository.MovimientoStockRepository) InventarioService {
	return &inventarioService{productos: productos, movimientos: movimientos}
}

func (s *inventarioService) MoverStockTx(ctx context.Context, tx *gorm.DB, mov model.MovimientoStock) (*model.MovimientoStock, error) {
	p, err := s.productos.LockTx(ctx, tx, mov.ProductoID)
	if err != nil {
		return nil, notFound(err, "producto")
	}
	if err := s.productos.UpdateStockTx(ctx, tx, mov.ProductoID, mov.Cantidad); err != nil {
		return nil, fmt.Errorf("stock de %s: %w", p.Nombre, err)
	}
	mov.StockAnterior = p.StockActual
	mov.StockNuevo = p.StockActual + mov.Cantidad
	if mov.StockNuevo < 0 {
		log.Warn().Str("producto", p.Nombre).Int("stock", mov.StockNuevo).Msg("stock negativo")
	}
	if err := s.movimientos.CreateTx(ctx, tx, &mov); err != nil {
		return nil, err
	}
	return &mov, nil
}

func (s *inventarioService) AjustarStock(ctx context.Context, usuarioID, productoID uuid.UUID, req dto.AjustarStockRequest) (*dto.MovimientoStockResponse, error) {
	var mov *model.MovimientoStock
	err := runTx(ctx, s.productos.DB(), func(tx *gorm.DB) error {
		var err error
		mov, err = s.MoverStockTx(ctx, tx, model.MovimientoStock{
			ProductoID: productoID,
			Tipo:       model.StockAjuste,
			Cantidad:   req.Delta,
			Motivo:     req.Motivo,
			UsuarioID:  &usuarioID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	log.Info().Str("producto_id", productoID.String()).Int("delta", req.Delta).Int("stock", mov.StockNuevo).Msg("ajuste de stock")
	resp := mapMovimientoStock(mov)
	return &resp, nil
}

func (s *inventarioService) ListarMovimientos(ctx context.Context, filter dto.MovimientoStockFilter) (*dto.MovimientoStockListResponse, error) {
	list, total, err := s.movimientos.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.MovimientoStockResponse, 0, len(list))
	for i := range list {
		data = append(data, mapMovimientoStock(&list[i]))
	}
	return &dto.MovimientoStockListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit}, nil
}

func mapMovimientoStock(m *model.MovimientoStock) dto.MovimientoStockResponse {
	resp := dto.MovimientoStockResponse{
		ID:            m.ID.String(),
		ProductoID:    m.ProductoID.String(),
		Tipo:          m.Tipo,
		Cantidad:      m.Cantidad,
		StockAnterior: m.StockAnterior,
		StockNuevo:    m.StockNuevo,
		Motivo:        m.Motivo,
		CreatedAt:     iso(m.CreatedAt),
	}
	if m.ReferenciaID != nil {
		ref := m.ReferenciaID.String()
		resp.ReferenciaID = &ref
	}
	return resp
}

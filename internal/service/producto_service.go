package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"casaceja/internal/dto"
	"casaceja/internal/model"
	"casaceja/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const precioCacheTTL = 4 * time.Hour

// ProductoService defines the business logic contract for products.
type ProductoService interface {
	Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)
	ObtenerPorBarcode(ctx context.Context, barcode string) (*dto.ProductoResponse, error)
	Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
	// ConsultarPrecio serves the public price check, cached in Redis by barcode.
	ConsultarPrecio(ctx context.Context, barcode string) (*dto.ConsultaPrecioResponse, error)
}

type productoService struct {
	repo repository.ProductoRepository
	rdb  redis.UniversalClient // nil disables the price cache
}

func NewProductoService(repo repository.ProductoRepository, rdb redis.UniversalClient) ProductoService {
	return &productoService{repo: repo, rdb: rdb}
}

func mapProducto(p *model.Producto) *dto.ProductoResponse {
	resp := &dto.ProductoResponse{
		ID:              p.ID.String(),
		CodigoBarras:    p.CodigoBarras,
		Nombre:          p.Nombre,
		Precio:          p.Precio,
		PrecioMayoreo:   p.PrecioMayoreo,
		CantidadMayoreo: p.CantidadMayoreo,
		PrecioEspecial:  p.PrecioEspecial,
		PrecioVendedor:  p.PrecioVendedor,
		StockActual:     p.StockActual,
		Activo:          p.Activo,
	}
	if p.CategoriaID != nil {
		id := p.CategoriaID.String()
		resp.CategoriaID = &id
	}
	if p.Categoria != nil {
		resp.Categoria = p.Categoria.Nombre
	}
	return resp
}

func parseCategoria(raw *string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, fmt.Errorf("categoria_id invalido: %w", err)
	}
	return &id, nil
}

func (s *productoService) Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	categoriaID, err := parseCategoria(req.CategoriaID)
	if err != nil {
		return nil, err
	}
	p := &model.Producto{
		CodigoBarras:    req.CodigoBarras,
		Nombre:          req.Nombre,
		CategoriaID:     categoriaID,
		Precio:          req.Precio,
		PrecioMayoreo:   req.PrecioMayoreo,
		CantidadMayoreo: req.CantidadMayoreo,
		PrecioEspecial:  req.PrecioEspecial,
		PrecioVendedor:  req.PrecioVendedor,
		StockActual:     req.StockActual,
		Activo:          true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, duplicado(err, "producto")
	}
	return mapProducto(p), nil
}

func (s *productoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "producto")
	}
	return mapProducto(p), nil
}

func (s *productoService) ObtenerPorBarcode(ctx context.Context, barcode string) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByBarcode(ctx, barcode)
	if err != nil {
		return nil, notFound(err, "producto")
	}
	return mapProducto(p), nil
}

func (s *productoService) Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error) {
	list, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	data := make([]dto.ProductoResponse, 0, len(list))
	for i := range list {
		data = append(data, *mapProducto(&list[i]))
	}
	pages := 0
	if filter.Limit > 0 {
		pages = int(math.Ceil(float64(total) / float64(filter.Limit)))
	}
	return &dto.ProductoListResponse{Data: data, Total: total, Page: filter.Page, Limit: filter.Limit, TotalPages: pages}, nil
}

func (s *productoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "producto")
	}
	if req.Nombre != nil {
		p.Nombre = *req.Nombre
	}
	if req.CategoriaID != nil {
		categoriaID, err := parseCategoria(req.CategoriaID)
		if err != nil {
			return nil, err
		}
		p.CategoriaID = categoriaID
		p.Categoria = nil
	}
	if req.Precio != nil {
		p.Precio = *req.Precio
	}
	if req.PrecioMayoreo != nil {
		p.PrecioMayoreo = *req.PrecioMayoreo
	}
	if req.CantidadMayoreo != nil {
		p.CantidadMayoreo = *req.CantidadMayoreo
	}
	if req.PrecioEspecial != nil {
		p.PrecioEspecial = *req.PrecioEspecial
	}
	if req.PrecioVendedor != nil {
		p.PrecioVendedor = *req.PrecioVendedor
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	s.invalidar(ctx, p.CodigoBarras)
	return mapProducto(p), nil
}

func (s *productoService) Desactivar(ctx context.Context, id uuid.UUID) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return notFound(err, "producto")
	}
	if err := s.repo.SetActivo(ctx, id, false); err != nil {
		return err
	}
	s.invalidar(ctx, p.CodigoBarras)
	return nil
}

// ── Price check ───────────────────────────────────────────────────────────────

func precioCacheKey(barcode string) string { return "precio:" + barcode }

func (s *productoService) ConsultarPrecio(ctx context.Context, barcode string) (*dto.ConsultaPrecioResponse, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, precioCacheKey(barcode)).Bytes(); err == nil {
			var resp dto.ConsultaPrecioResponse
			if json.Unmarshal(cached, &resp) == nil {
				return &resp, nil
			}
		}
	}

	p, err := s.repo.FindByBarcode(ctx, barcode)
	if err != nil {
		return nil, notFound(err, "producto")
	}
	linea := cotizarLinea(p, 1, model.PrecioNormal)
	resp := &dto.ConsultaPrecioResponse{
		CodigoBarras:    p.CodigoBarras,
		Nombre:          p.Nombre,
		Precio:          p.Precio,
		DescuentoPct:    linea.DescuentoCategoriaPct,
		PrecioFinal:     linea.PrecioUnitario,
		StockDisponible: p.StockActual,
	}
	if p.PrecioMayoreo.IsPositive() {
		mayoreo := aplicarDescuento(p.PrecioMayoreo, linea.DescuentoCategoriaPct)
		resp.PrecioMayoreo = &mayoreo
		resp.CantidadMayoreo = p.CantidadMayoreo
	}
	if p.Categoria != nil {
		resp.Categoria = p.Categoria.Nombre
	}

	// Best effort: a cache failure never fails the lookup.
	if s.rdb != nil {
		if b, err := json.Marshal(resp); err == nil {
			if err := s.rdb.Set(ctx, precioCacheKey(barcode), b, precioCacheTTL).Err(); err != nil {
				log.Debug().Err(err).Str("barcode", barcode).Msg("precio cache set failed")
			}
		}
	}
	return resp, nil
}

func (s *productoService) invalidar(ctx context.Context, barcode string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, precioCacheKey(barcode)).Err(); err != nil {
		log.Warn().Err(err).Str("barcode", barcode).Msg("precio cache invalidation failed")
	}
}

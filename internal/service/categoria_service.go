package service

import (
	"context"
	"errors"
	"fmt"

	"casaceja/internal/dto"
	"casaceja/internal/model"
	"casaceja/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CategoriaService defines business operations for product categories.
type CategoriaService interface {
	Crear(ctx context.Context, req dto.CrearCategoriaRequest) (dto.CategoriaResponse, error)
	Listar(ctx context.Context, soloActivas bool) ([]dto.CategoriaResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarCategoriaRequest) (dto.CategoriaResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
}

type categoriaService struct {
	repo repository.CategoriaRepository
}

func NewCategoriaService(repo repository.CategoriaRepository) CategoriaService {
	return &categoriaService{repo: repo}
}

// mapCategoria converts a model to a DTO response.
func mapCategoria(c model.Categoria) dto.CategoriaResponse {
	return dto.CategoriaResponse{
		ID:           c.ID,
		Nombre:       c.Nombre,
		DescuentoPct: c.DescuentoPct,
		Activo:       c.Activo,
	}
}

// nombreLibre fails with ErrDuplicado when another category already uses nombre.
func (s *categoriaService) nombreLibre(ctx context.Context, nombre string, propio uuid.UUID) error {
	existing, err := s.repo.FindByNombre(ctx, nombre)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != propio {
		return fmt.Errorf("categoria %q: %w", nombre, ErrDuplicado)
	}
	return nil
}

func (s *categoriaService) Crear(ctx context.Context, req dto.CrearCategoriaRequest) (dto.CategoriaResponse, error) {
	if err := s.nombreLibre(ctx, req.Nombre, uuid.Nil); err != nil {
		return dto.CategoriaResponse{}, err
	}
	c := &model.Categoria{
		Nombre:       req.Nombre,
		DescuentoPct: req.DescuentoPct.Round(2),
		Activo:       true,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return dto.CategoriaResponse{}, duplicado(err, "categoria")
	}
	return mapCategoria(*c), nil
}

func (s *categoriaService) Listar(ctx context.Context, soloActivas bool) ([]dto.CategoriaResponse, error) {
	list, err := s.repo.List(ctx, soloActivas)
	if err != nil {
		return nil, err
	}
	result := make([]dto.CategoriaResponse, 0, len(list))
	for _, c := range list {
		result = append(result, mapCategoria(c))
	}
	return result, nil
}

func (s *categoriaService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarCategoriaRequest) (dto.CategoriaResponse, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return dto.CategoriaResponse{}, notFound(err, "categoria")
	}
	if req.Nombre != nil && *req.Nombre != c.Nombre {
		if err := s.nombreLibre(ctx, *req.Nombre, c.ID); err != nil {
			return dto.CategoriaResponse{}, err
		}
		c.Nombre = *req.Nombre
	}
	if req.DescuentoPct != nil {
		c.DescuentoPct = req.DescuentoPct.Round(2)
	}
	if req.Activo != nil {
		c.Activo = *req.Activo
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return dto.CategoriaResponse{}, err
	}
	return mapCategoria(*c), nil
}

func (s *categoriaService) Desactivar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return notFound(err, "categoria")
	}
	return s.repo.SetActivo(ctx, id, false)
}

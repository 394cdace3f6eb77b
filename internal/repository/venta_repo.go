package repository

import (
	"context"
	"time"

	"casaceja/internal/dto"
	"casaceja/internal/infra"
	"casaceja/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type VentaRepository interface {
	Create(ctx context.Context, tx *gorm.DB, v *model.Venta) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error)
	Cancelar(ctx context.Context, tx *gorm.DB, id uuid.UUID, motivo string) error
	NextFolio(ctx context.Context, tx *gorm.DB) (int, error)
	// ListDesde loads every sale of a branch at or after desde, with its payments.
	ListDesde(ctx context.Context, sucursalID uuid.UUID, desde time.Time) ([]model.Venta, error)
	List(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error)
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type ventaRepo struct{ db *gorm.DB }

func NewVentaRepository(db *gorm.DB) VentaRepository { return &ventaRepo{db: db} }

func (r *ventaRepo) DB() *gorm.DB { return r.db }

func (r *ventaRepo) Create(ctx context.Context, tx *gorm.DB, v *model.Venta) error {
	return tx.WithContext(ctx).Create(v).Error
}

func ordenado(db *gorm.DB) *gorm.DB { return db.Order("orden ASC") }

func (r *ventaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Venta, error) {
	var v model.Venta
	err := r.db.WithContext(ctx).
		Preload("Items", ordenado).
		Preload("Pagos", ordenado).
		First(&v, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *ventaRepo) Cancelar(ctx context.Context, tx *gorm.DB, id uuid.UUID, motivo string) error {
	return tx.WithContext(ctx).Model(&model.Venta{}).
		Where("id = ?", id).
		Updates(map[string]any{"estado": model.VentaCancelada, "motivo_cancelacion": motivo}).Error
}

func (r *ventaRepo) NextFolio(ctx context.Context, tx *gorm.DB) (int, error) {
	return nextval(ctx, tx, infra.SeqFolioVentas)
}

func (r *ventaRepo) ListDesde(ctx context.Context, sucursalID uuid.UUID, desde time.Time) ([]model.Venta, error) {
	var ventas []model.Venta
	err := r.db.WithContext(ctx).
		Preload("Pagos", ordenado).
		Where("sucursal_id = ? AND fecha >= ?", sucursalID, desde).
		Order("fecha ASC").
		Find(&ventas).Error
	return ventas, err
}

func (r *ventaRepo) List(ctx context.Context, filter dto.VentaFilter) ([]model.Venta, int64, error) {
	var ventas []model.Venta
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Venta{})
	if filter.SucursalID != "" {
		q = q.Where("sucursal_id = ?", filter.SucursalID)
	}
	if filter.CorteID != "" {
		q = q.Where("corte_id = ?", filter.CorteID)
	}
	if filter.Estado != "" && filter.Estado != "all" {
		q = q.Where("estado = ?", filter.Estado)
	}
	if filter.Fecha != "" {
		q = q.Where("DATE(fecha) = ?", filter.Fecha)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Preload("Items", ordenado).Preload("Pagos", ordenado).
		Order("fecha DESC").
		Offset(offset(filter.Page, filter.Limit)).Limit(filter.Limit).
		Find(&ventas).Error

	return ventas, total, err
}

package repository

import (
	"context"
	"time"

	"casaceja/internal/dto"
	"casaceja/internal/infra"
	"casaceja/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CorteRepository interface {
	Create(ctx context.Context, c *model.Corte) error
	NextFolio(ctx context.Context) (int, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Corte, error)
	// FindAbierto returns gorm.ErrRecordNotFound when the branch has no open corte.
	FindAbierto(ctx context.Context, sucursalID uuid.UUID) (*model.Corte, error)
	Update(ctx context.Context, c *model.Corte) error
	List(ctx context.Context, filter dto.CorteFilter) ([]model.Corte, int64, error)

	// Movements are immutable: there is no Update/Delete.
	CreateMovimiento(ctx context.Context, m *model.MovimientoCaja) error
	ListMovimientos(ctx context.Context, corteID uuid.UUID) ([]model.MovimientoCaja, error)
}

type corteRepo struct{ db *gorm.DB }

func NewCorteRepository(db *gorm.DB) CorteRepository { return &corteRepo{db: db} }

func (r *corteRepo) Create(ctx context.Context, c *model.Corte) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(c).Error
}

func (r *corteRepo) NextFolio(ctx context.Context) (int, error) {
	return nextval(ctx, r.db, infra.SeqFolioCortes)
}

func (r *corteRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Corte, error) {
	var c model.Corte
	err := r.db.WithContext(ctx).
		Preload("Movimientos", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }).
		First(&c, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *corteRepo) FindAbierto(ctx context.Context, sucursalID uuid.UUID) (*model.Corte, error) {
	var c model.Corte
	err := r.db.WithContext(ctx).
		Where("sucursal_id = ? AND estado = ?", sucursalID, model.CorteAbierto).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *corteRepo) Update(ctx context.Context, c *model.Corte) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(c).Error
}

func (r *corteRepo) List(ctx context.Context, filter dto.CorteFilter) ([]model.Corte, int64, error) {
	var cortes []model.Corte
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Corte{})
	if filter.SucursalID != "" {
		q = q.Where("sucursal_id = ?", filter.SucursalID)
	}
	if filter.Estado != "" {
		q = q.Where("estado = ?", filter.Estado)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Order("opened_at DESC").
		Offset(offset(filter.Page, filter.Limit)).Limit(filter.Limit).
		Find(&cortes).Error
	return cortes, total, err
}

func (r *corteRepo) CreateMovimiento(ctx context.Context, m *model.MovimientoCaja) error {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *corteRepo) ListMovimientos(ctx context.Context, corteID uuid.UUID) ([]model.MovimientoCaja, error) {
	var movs []model.MovimientoCaja
	err := r.db.WithContext(ctx).Where("corte_id = ?", corteID).Order("created_at ASC").Find(&movs).Error
	return movs, err
}

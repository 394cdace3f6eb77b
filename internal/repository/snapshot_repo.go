package repository

import (
	"context"

	"casaceja/internal/dto"
	"casaceja/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SnapshotRepository is append-only.
type SnapshotRepository interface {
	Create(ctx context.Context, s *model.Snapshot) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Snapshot, error)
	// List omits the payload column.
	List(ctx context.Context, filter dto.SnapshotFilter) ([]model.Snapshot, int64, error)
}

type snapshotRepo struct{ db *gorm.DB }

func NewSnapshotRepository(db *gorm.DB) SnapshotRepository { return &snapshotRepo{db: db} }

func (r *snapshotRepo) Create(ctx context.Context, s *model.Snapshot) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *snapshotRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Snapshot, error) {
	var s model.Snapshot
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *snapshotRepo) List(ctx context.Context, filter dto.SnapshotFilter) ([]model.Snapshot, int64, error) {
	var list []model.Snapshot
	var total int64
	q := r.db.WithContext(ctx).Model(&model.Snapshot{})
	if filter.Tipo != "" {
		q = q.Where("tipo = ?", filter.Tipo)
	}
	if filter.ReferenciaID != "" {
		q = q.Where("referencia_id = ?", filter.ReferenciaID)
	}
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Omit("datos").
		Order("created_at DESC").
		Offset(offset(filter.Page, filter.Limit)).Limit(filter.Limit).
		Find(&list).Error
	return list, total, err
}

package repository

import (
	"context"
	"fmt"
	"time"

	"casaceja/internal/dto"
	"casaceja/internal/infra"
	"casaceja/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CreditoRepository covers both account types (credits and layaways) and the
// abonos paid against them.
type CreditoRepository interface {
	CreateCredito(ctx context.Context, tx *gorm.DB, c *model.Credito) error
	CreateApartado(ctx context.Context, tx *gorm.DB, a *model.Apartado) error
	CreateAbono(ctx context.Context, tx *gorm.DB, a *model.Abono) error
	NextFolio(ctx context.Context, tx *gorm.DB, seq string) (int, error)

	FindCredito(ctx context.Context, id uuid.UUID) (*model.Credito, error)
	FindApartado(ctx context.Context, id uuid.UUID) (*model.Apartado, error)
	FindAbono(ctx context.Context, id uuid.UUID) (*model.Abono, error)

	// Lock* read the row with SELECT ... FOR UPDATE; callers must pass the tx.
	LockCredito(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Credito, error)
	LockApartado(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Apartado, error)
	UpdateSaldo(ctx context.Context, tx *gorm.DB, tipo string, id uuid.UUID, saldo decimal.Decimal, estado string) error

	ListAbonos(ctx context.Context, tipo string, referenciaID uuid.UUID) ([]model.Abono, error)
	// SaldoCliente is the outstanding balance of the customer's active credits.
	SaldoCliente(ctx context.Context, clienteID uuid.UUID) (decimal.Decimal, error)
	ListCreditos(ctx context.Context, filter dto.CuentaFilter) ([]model.Credito, int64, error)
	ListApartados(ctx context.Context, filter dto.CuentaFilter) ([]model.Apartado, int64, error)

	// Shift loaders: every row of the branch at or after desde.
	CreditosDesde(ctx context.Context, sucursalID uuid.UUID, desde time.Time) ([]model.Credito, error)
	ApartadosDesde(ctx context.Context, sucursalID uuid.UUID, desde time.Time) ([]model.Apartado, error)
	AbonosDesde(ctx context.Context, sucursalID uuid.UUID, desde time.Time) ([]model.Abono, error)

	DB() *gorm.DB
}

type creditoRepo struct{ db *gorm.DB }

func NewCreditoRepository(db *gorm.DB) CreditoRepository { return &creditoRepo{db: db} }

func (r *creditoRepo) DB() *gorm.DB { return r.db }

func (r *creditoRepo) CreateCredito(ctx context.Context, tx *gorm.DB, c *model.Credito) error {
	return tx.WithContext(ctx).Create(c).Error
}

func (r *creditoRepo) CreateApartado(ctx context.Context, tx *gorm.DB, a *model.Apartado) error {
	return tx.WithContext(ctx).Create(a).Error
}

func (r *creditoRepo) CreateAbono(ctx context.Context, tx *gorm.DB, a *model.Abono) error {
	return tx.WithContext(ctx).Create(a).Error
}

func (r *creditoRepo) NextFolio(ctx context.Context, tx *gorm.DB, seq string) (int, error) {
	switch seq {
	case infra.SeqFolioCreditos, infra.SeqFolioApartados, infra.SeqFolioAbonos:
		return nextval(ctx, tx, seq)
	}
	return 0, fmt.Errorf("credito repo: unknown folio sequence %q", seq)
}

func (r *creditoRepo) FindCredito(ctx context.Context, id uuid.UUID) (*model.Credito, error) {
	var c model.Credito
	if err := r.db.WithContext(ctx).Preload("Items", ordenado).First(&c, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *creditoRepo) FindApartado(ctx context.Context, id uuid.UUID) (*model.Apartado, error) {
	var a model.Apartado
	if err := r.db.WithContext(ctx).Preload("Items", ordenado).First(&a, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *creditoRepo) FindAbono(ctx context.Context, id uuid.UUID) (*model.Abono, error) {
	var a model.Abono
	if err := r.db.WithContext(ctx).Preload("Pagos", ordenado).First(&a, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *creditoRepo) LockCredito(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Credito, error) {
	var c model.Credito
	err := tx.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&c, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *creditoRepo) LockApartado(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*model.Apartado, error) {
	var a model.Apartado
	err := tx.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&a, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *creditoRepo) UpdateSaldo(ctx context.Context, tx *gorm.DB, tipo string, id uuid.UUID, saldo decimal.Decimal, estado string) error {
	var target any = &model.Credito{}
	if tipo == model.AbonoApartado {
		target = &model.Apartado{}
	}
	return tx.WithContext(ctx).Model(target).
		Where("id = ?", id).
		Updates(map[string]any{"saldo": saldo, "estado": estado}).Error
}

func (r *creditoRepo) ListAbonos(ctx context.Context, tipo string, referenciaID uuid.UUID) ([]model.Abono, error) {
	var abonos []model.Abono
	err := r.db.WithContext(ctx).
		Preload("Pagos", ordenado).
		Where("tipo = ? AND referencia_id = ?", tipo, referenciaID).
		Order("fecha ASC, folio ASC").
		Find(&abonos).Error
	return abonos, err
}

func (r *creditoRepo) SaldoCliente(ctx context.Context, clienteID uuid.UUID) (decimal.Decimal, error) {
	var saldo decimal.NullDecimal
	err := r.db.WithContext(ctx).Model(&model.Credito{}).
		Select("SUM(saldo)").
		Where("cliente_id = ? AND estado = ?", clienteID, model.CuentaActiva).
		Scan(&saldo).Error
	if err != nil || !saldo.Valid {
		return decimal.Zero, err
	}
	return saldo.Decimal, nil
}

func cuentaQuery(q *gorm.DB, filter dto.CuentaFilter) *gorm.DB {
	if filter.SucursalID != "" {
		q = q.Where("sucursal_id = ?", filter.SucursalID)
	}
	if filter.ClienteID != "" {
		q = q.Where("cliente_id = ?", filter.ClienteID)
	}
	if filter.Estado != "" && filter.Estado != "all" {
		q = q.Where("estado = ?", filter.Estado)
	}
	return q
}

func (r *creditoRepo) ListCreditos(ctx context.Context, filter dto.CuentaFilter) ([]model.Credito, int64, error) {
	var list []model.Credito
	var total int64
	q := cuentaQuery(r.db.WithContext(ctx).Model(&model.Credito{}), filter)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("Items", ordenado).
		Order("fecha DESC").
		Offset(offset(filter.Page, filter.Limit)).Limit(filter.Limit).
		Find(&list).Error
	return list, total, err
}

func (r *creditoRepo) ListApartados(ctx context.Context, filter dto.CuentaFilter) ([]model.Apartado, int64, error) {
	var list []model.Apartado
	var total int64
	q := cuentaQuery(r.db.WithContext(ctx).Model(&model.Apartado{}), filter)
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	err := q.Preload("Items", ordenado).
		Order("fecha DESC").
		Offset(offset(filter.Page, filter.Limit)).Limit(filter.Limit).
		Find(&list).Error
	return list, total, err
}

func (r *creditoRepo) CreditosDesde(ctx context.Context, sucursalID uuid.UUID, desde time.Time) ([]model.Credito, error) {
	var list []model.Credito
	err := r.db.WithContext(ctx).
		Where("sucursal_id = ? AND fecha >= ?", sucursalID, desde).
		Order("fecha ASC").Find(&list).Error
	return list, err
}

func (r *creditoRepo) ApartadosDesde(ctx context.Context, sucursalID uuid.UUID, desde time.Time) ([]model.Apartado, error) {
	var list []model.Apartado
	err := r.db.WithContext(ctx).
		Where("sucursal_id = ? AND fecha >= ?", sucursalID, desde).
		Order("fecha ASC").Find(&list).Error
	return list, err
}

func (r *creditoRepo) AbonosDesde(ctx context.Context, sucursalID uuid.UUID, desde time.Time) ([]model.Abono, error) {
	var list []model.Abono
	err := r.db.WithContext(ctx).
		Preload("Pagos", ordenado).
		Where("sucursal_id = ? AND fecha >= ?", sucursalID, desde).
		Order("fecha ASC").Find(&list).Error
	return list, err
}

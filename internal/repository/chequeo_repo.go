package repository

import (
	"context"

	"github.com/dev-two-inmatmex/modulo-PyAP/internal/dto"
	"github.com/dev-two-inmatmex/modulo-PyAP/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChequeoRepository interface {
	// Insertar appends one ledger row. The unique index on
	// (empleado, fecha, tipo) surfaces concurrent duplicates as
	// gorm.ErrDuplicatedKey; callers treat that as a sequencing rejection.
	Insertar(ctx context.Context, tx *gorm.DB, r *model.RegistroChequeo) error
	ListarPorDia(ctx context.Context, empleadoID uuid.UUID, fecha string) ([]model.RegistroChequeo, error)
	ListarHistorial(ctx context.Context, empleadoID uuid.UUID, q dto.HistorialChequeosQuery) ([]model.RegistroChequeo, int64, error)
	// ListarDiaTodos returns every employee's rows for a date, for the daily report.
	ListarDiaTodos(ctx context.Context, fecha string) ([]model.RegistroChequeo, error)
	DB() *gorm.DB // exposes the DB for transaction creation in service layer
}

type chequeoRepo struct{ db *gorm.DB }

func NewChequeoRepository(db *gorm.DB) ChequeoRepository { return &chequeoRepo{db: db} }

func (r *chequeoRepo) DB() *gorm.DB { return r.db }

func (r *chequeoRepo) Insertar(ctx context.Context, tx *gorm.DB, reg *model.RegistroChequeo) error {
	return tx.WithContext(ctx).Create(reg).Error
}

func (r *chequeoRepo) ListarPorDia(ctx context.Context, empleadoID uuid.UUID, fecha string) ([]model.RegistroChequeo, error) {
	var regs []model.RegistroChequeo
	err := r.db.WithContext(ctx).
		Where("empleado_id = ? AND fecha = ?", empleadoID, fecha).
		Order("hora").
		Find(&regs).Error
	return regs, err
}

func (r *chequeoRepo) ListarHistorial(ctx context.Context, empleadoID uuid.UUID, q dto.HistorialChequeosQuery) ([]model.RegistroChequeo, int64, error) {
	var regs []model.RegistroChequeo
	var total int64

	qry := r.db.WithContext(ctx).Model(&model.RegistroChequeo{}).
		Where("empleado_id = ?", empleadoID)
	if q.Desde != "" {
		qry = qry.Where("fecha >= ?", q.Desde)
	}
	if q.Hasta != "" {
		qry = qry.Where("fecha <= ?", q.Hasta)
	}

	if err := qry.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := q.Limit
	if limit <= 0 {
		limit = 50
	}
	err := qry.Order("fecha DESC, hora DESC").
		Offset(q.Offset).Limit(limit).
		Find(&regs).Error
	return regs, total, err
}

func (r *chequeoRepo) ListarDiaTodos(ctx context.Context, fecha string) ([]model.RegistroChequeo, error) {
	var regs []model.RegistroChequeo
	err := r.db.WithContext(ctx).
		Preload("Empleado").
		Where("fecha = ?", fecha).
		Order("empleado_id, hora").
		Find(&regs).Error
	return regs, err
}

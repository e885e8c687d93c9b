package repository

import (
	"context"

	"myphone/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MovimientoStockFilter defines filters for listing stock movements.
type MovimientoStockFilter struct {
	StockItemID *uuid.UUID
	Tipo        string
	Page        int
	Limit       int
}

type MovimientoStockRepository interface {
	Create(ctx context.Context, m *model.StockMovimiento) error
	List(ctx context.Context, filter MovimientoStockFilter) ([]model.StockMovimiento, int64, error)
}

type movimientoStockRepo struct{ db *gorm.DB }

func NewMovimientoStockRepository(db *gorm.DB) MovimientoStockRepository {
	return &movimientoStockRepo{db: db}
}

func (r *movimientoStockRepo) Create(ctx context.Context, m *model.StockMovimiento) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *movimientoStockRepo) List(ctx context.Context, filter MovimientoStockFilter) ([]model.StockMovimiento, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.StockMovimiento{})
	if filter.StockItemID != nil {
		q = q.Where("stock_item_id = ?", *filter.StockItemID)
	}
	if filter.Tipo != "" {
		q = q.Where("tipo = ?", filter.Tipo)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, limit := normalizePage(filter.Page, filter.Limit, 100, 500)
	offset := (page - 1) * limit

	var movimientos []model.StockMovimiento
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&movimientos).Error
	return movimientos, total, err
}

func normalizePage(page, limit, def, maxLimit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > maxLimit {
		limit = def
	}
	return page, limit
}

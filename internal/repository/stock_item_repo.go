package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"myphone/internal/apierror"
	"myphone/internal/dto"
	"myphone/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// StockItemRepository is the record store for physical units.
// Every mutation is conditional on the caller's snapshot (version) and on the
// unit not being sold or sale-linked; a stale snapshot surfaces as a
// *apierror.StoreError, a missing row as gorm.ErrRecordNotFound.
type StockItemRepository interface {
	Create(ctx context.Context, it *model.StockItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.StockItem, error)
	List(ctx context.Context, filter dto.StockFilter) ([]model.StockItem, int64, error)

	UpdateState(ctx context.Context, it *model.StockItem, target model.StockState) error
	SetPromo(ctx context.Context, it *model.StockItem, on bool) error
	// MarkSold is the privileged sale path: state and sale_id are set together.
	MarkSold(ctx context.Context, it *model.StockItem, saleID uuid.UUID) error
}

type stockItemRepo struct {
	db  *gorm.DB
	now func() time.Time
}

func NewStockItemRepository(db *gorm.DB) StockItemRepository {
	return &stockItemRepo{db: db, now: time.Now}
}

func (r *stockItemRepo) Create(ctx context.Context, it *model.StockItem) error {
	if err := r.db.WithContext(ctx).Create(it).Error; err != nil {
		return classifyPgError(err, apierror.CodeDuplicado)
	}
	return nil
}

func (r *stockItemRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.StockItem, error) {
	var it model.StockItem
	err := r.db.WithContext(ctx).First(&it, "id = ?", id).Error
	return &it, err
}

func (r *stockItemRepo) List(ctx context.Context, filter dto.StockFilter) ([]model.StockItem, int64, error) {
	var items []model.StockItem
	var total int64

	q := r.db.WithContext(ctx).Model(&model.StockItem{})
	if filter.State != "" {
		q = q.Where("state = ?", filter.State)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Modelo != "" {
		q = q.Where("modelo ILIKE ?", "%"+filter.Modelo+"%")
	}
	if filter.IsPromo != nil {
		q = q.Where("is_promo = ?", *filter.IsPromo)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, limit := normalizePage(filter.Page, filter.Limit, 20, 100)
	offset := (page - 1) * limit
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&items).Error
	return items, total, err
}

func (r *stockItemRepo) UpdateState(ctx context.Context, it *model.StockItem, target model.StockState) error {
	err := r.conditionalUpdate(ctx, it, map[string]interface{}{
		"state":  target,
		"status": model.DeriveStatus(target),
	}, apierror.CodeStockConflict)
	if err != nil {
		return err
	}
	it.State = target
	it.Status = model.DeriveStatus(target)
	return nil
}

func (r *stockItemRepo) SetPromo(ctx context.Context, it *model.StockItem, on bool) error {
	err := r.conditionalUpdate(ctx, it, map[string]interface{}{
		"is_promo": on,
	}, apierror.CodePromoBlocked)
	if err != nil {
		return err
	}
	it.IsPromo = on
	return nil
}

func (r *stockItemRepo) MarkSold(ctx context.Context, it *model.StockItem, saleID uuid.UUID) error {
	err := r.conditionalUpdate(ctx, it, map[string]interface{}{
		"state":    model.StateSold,
		"status":   model.StatusSold,
		"sale_id":  saleID,
		"is_promo": false,
	}, apierror.CodeStockConflict)
	if err != nil {
		return err
	}
	it.State = model.StateSold
	it.Status = model.StatusSold
	it.SaleID = &saleID
	it.IsPromo = false
	return nil
}

// conditionalUpdate applies updates only if the row still matches the
// caller's version and is neither sold nor sale-linked. When nothing is
// updated the current row decides the code: soldCode if it is now sold or
// linked, stock_conflict if only the version moved.
func (r *stockItemRepo) conditionalUpdate(ctx context.Context, it *model.StockItem, updates map[string]interface{}, soldCode string) error {
	now := r.now()
	res := conditionalUpdateQuery(r.db.WithContext(ctx), it, updates, now)
	if res.Error != nil {
		return classifyPgError(res.Error, apierror.CodeStockConflict)
	}
	if res.RowsAffected == 0 {
		var cur model.StockItem
		if err := r.db.WithContext(ctx).Select("id", "state", "sale_id", "version").First(&cur, "id = ?", it.ID).Error; err != nil {
			return err
		}
		code := apierror.CodeStockConflict
		if cur.State == model.StateSold || cur.SaleID != nil {
			code = soldCode
		}
		return apierror.NewStoreError(code, fmt.Sprintf("stock item %s at version %d, snapshot %d", it.ID, cur.Version, it.Version))
	}
	it.Version++
	it.UpdatedAt = now
	return nil
}

// conditionalUpdateQuery runs the guarded UPDATE. Hooks are skipped, so
// updated_at is set here along with the version bump.
func conditionalUpdateQuery(tx *gorm.DB, it *model.StockItem, updates map[string]interface{}, now time.Time) *gorm.DB {
	updates["version"] = gorm.Expr("version + 1")
	updates["updated_at"] = now

	return tx.Session(&gorm.Session{SkipHooks: true}).
		Model(&model.StockItem{}).
		Where("id = ? AND version = ? AND state <> ? AND sale_id IS NULL", it.ID, it.Version, model.StateSold).
		Updates(updates)
}

// Postgres SQLSTATE codes treated as a lost race on the same unit.
const (
	pgUniqueViolation      = "23505"
	pgSerializationFailure = "40001"
)

// classifyPgError maps constraint and serialization failures to conflictCode;
// other errors pass through untouched.
func classifyPgError(err error, conflictCode string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation, pgSerializationFailure:
			return &apierror.StoreError{Code: conflictCode, Message: pgErr.Message, Err: err}
		}
	}
	return err
}

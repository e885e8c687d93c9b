package service_test

import (
	"context"
	"errors"
	"time"

	"myphone/internal/apierror"
	"myphone/internal/dto"
	"myphone/internal/model"
	"myphone/internal/repository"
	"myphone/internal/service"
	"myphone/internal/worker"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

// stubStockRepo is an in-memory StockItemRepository that applies the same
// version / sold checks as the gorm implementation.
type stubStockRepo struct {
	items   map[uuid.UUID]*model.StockItem
	writes  int
	failErr error
}

func newStubStockRepo(items ...*model.StockItem) *stubStockRepo {
	r := &stubStockRepo{items: make(map[uuid.UUID]*model.StockItem)}
	for _, it := range items {
		if it.ID == uuid.Nil {
			it.ID = uuid.New()
		}
		if it.Version == 0 {
			it.Version = 1
		}
		r.items[it.ID] = it
	}
	return r
}

func (r *stubStockRepo) Create(_ context.Context, it *model.StockItem) error {
	for _, existing := range r.items {
		if existing.IMEI == it.IMEI {
			return apierror.NewStoreError(apierror.CodeDuplicado, "imei duplicado")
		}
	}
	if it.ID == uuid.Nil {
		it.ID = uuid.New()
	}
	_ = it.BeforeSave(nil)
	cp := *it
	r.items[it.ID] = &cp
	return nil
}

func (r *stubStockRepo) FindByID(_ context.Context, id uuid.UUID) (*model.StockItem, error) {
	it, ok := r.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *it
	return &cp, nil
}

func (r *stubStockRepo) List(_ context.Context, filter dto.StockFilter) ([]model.StockItem, int64, error) {
	var out []model.StockItem
	for _, it := range r.items {
		if filter.State != "" && string(it.State) != filter.State {
			continue
		}
		out = append(out, *it)
	}
	return out, int64(len(out)), nil
}

func (r *stubStockRepo) apply(it *model.StockItem, soldCode string, fn func(stored *model.StockItem)) error {
	r.writes++
	if r.failErr != nil {
		return r.failErr
	}
	stored, ok := r.items[it.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if stored.State == model.StateSold || stored.SaleID != nil {
		return apierror.NewStoreError(soldCode, "sold")
	}
	if stored.Version != it.Version {
		return apierror.NewStoreError(apierror.CodeStockConflict, "stale")
	}
	fn(stored)
	stored.Version++
	*it = *stored
	return nil
}

func (r *stubStockRepo) UpdateState(_ context.Context, it *model.StockItem, target model.StockState) error {
	return r.apply(it, apierror.CodeStockConflict, func(s *model.StockItem) {
		s.State = target
		s.Status = model.DeriveStatus(target)
	})
}

func (r *stubStockRepo) SetPromo(_ context.Context, it *model.StockItem, on bool) error {
	return r.apply(it, apierror.CodePromoBlocked, func(s *model.StockItem) { s.IsPromo = on })
}

func (r *stubStockRepo) MarkSold(_ context.Context, it *model.StockItem, saleID uuid.UUID) error {
	return r.apply(it, apierror.CodeStockConflict, func(s *model.StockItem) {
		s.State = model.StateSold
		s.Status = model.StatusSold
		s.SaleID = &saleID
		s.IsPromo = false
	})
}

var _ repository.StockItemRepository = (*stubStockRepo)(nil)

// stubMovRepo returns canned movimientos.
type stubMovRepo struct {
	movs []model.StockMovimiento
}

func (r *stubMovRepo) Create(_ context.Context, m *model.StockMovimiento) error {
	r.movs = append(r.movs, *m)
	return nil
}

func (r *stubMovRepo) List(_ context.Context, f repository.MovimientoStockFilter) ([]model.StockMovimiento, int64, error) {
	var out []model.StockMovimiento
	for _, m := range r.movs {
		if f.StockItemID != nil && m.StockItemID != *f.StockItemID {
			continue
		}
		out = append(out, m)
	}
	return out, int64(len(out)), nil
}

var _ repository.MovimientoStockRepository = (*stubMovRepo)(nil)

// stubPublisher records enqueued events.
type stubPublisher struct {
	events []worker.StockEventoPayload
	err    error
}

func (p *stubPublisher) EnqueueStockEvento(_ context.Context, ev worker.StockEventoPayload) error {
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, ev)
	return nil
}

var _ service.StockEventPublisher = (*stubPublisher)(nil)

// stubRuleRepo is an in-memory RuleRepository.
type stubRuleRepo struct {
	pricing []model.PricingRule
	canje   []model.PlanCanjeRule
}

func (r *stubRuleRepo) ListPricingRules(_ context.Context, f dto.PricingRuleFilter) ([]model.PricingRule, error) {
	var out []model.PricingRule
	for _, p := range r.pricing {
		if f.CardBrand != "" && p.CardBrand != f.CardBrand {
			continue
		}
		if f.Installments > 0 && p.Installments != f.Installments {
			continue
		}
		if f.Channel != "" && string(p.Channel) != f.Channel {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *stubRuleRepo) CreatePricingRule(_ context.Context, rule *model.PricingRule) error {
	rule.ID = uuid.New()
	r.pricing = append(r.pricing, *rule)
	return nil
}

func (r *stubRuleRepo) DeletePricingRule(_ context.Context, id uuid.UUID) error {
	for i, p := range r.pricing {
		if p.ID == id {
			r.pricing = append(r.pricing[:i], r.pricing[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (r *stubRuleRepo) ListPlanCanje(_ context.Context, f dto.PlanCanjeFilter) ([]model.PlanCanjeRule, error) {
	var out []model.PlanCanjeRule
	for _, c := range r.canje {
		if f.Modelo != "" && c.Modelo != f.Modelo {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *stubRuleRepo) CreatePlanCanje(_ context.Context, rule *model.PlanCanjeRule) error {
	rule.ID = uuid.New()
	r.canje = append(r.canje, *rule)
	return nil
}

func (r *stubRuleRepo) DeletePlanCanje(_ context.Context, id uuid.UUID) error {
	for i, c := range r.canje {
		if c.ID == id {
			r.canje = append(r.canje[:i], r.canje[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

var _ repository.RuleRepository = (*stubRuleRepo)(nil)

// stubFX is a fixed FXRateSource.
type stubFX struct {
	rate decimal.Decimal
	err  error
}

func (s stubFX) Latest(context.Context) (decimal.Decimal, error) { return s.rate, s.err }

var errFXDown = errors.New("fx: no cached rate")

// ── helpers ──────────────────────────────────────────────────────────────────

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func intPtr(n int) *int { return &n }

func boolPtr(b bool) *bool { return &b }

func unidad(state model.StockState) *model.StockItem {
	return &model.StockItem{
		ID:        uuid.New(),
		IMEI:      uuid.NewString()[:15],
		Modelo:    "iPhone 13",
		State:     state,
		Status:    model.DeriveStatus(state),
		Version:   1,
		UpdatedAt: time.Now(),
	}
}

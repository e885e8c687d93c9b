package repository

import (
	"context"

	"myphone/internal/apierror"
	"myphone/internal/dto"
	"myphone/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RuleRepository is the read path for pricing and trade-in rules plus the
// admin writes that maintain them. Reads are plain snapshots; nothing is cached.
type RuleRepository interface {
	ListPricingRules(ctx context.Context, filter dto.PricingRuleFilter) ([]model.PricingRule, error)
	CreatePricingRule(ctx context.Context, r *model.PricingRule) error
	DeletePricingRule(ctx context.Context, id uuid.UUID) error

	ListPlanCanje(ctx context.Context, filter dto.PlanCanjeFilter) ([]model.PlanCanjeRule, error)
	CreatePlanCanje(ctx context.Context, r *model.PlanCanjeRule) error
	DeletePlanCanje(ctx context.Context, id uuid.UUID) error
}

type ruleRepo struct{ db *gorm.DB }

func NewRuleRepository(db *gorm.DB) RuleRepository { return &ruleRepo{db: db} }

func (r *ruleRepo) ListPricingRules(ctx context.Context, filter dto.PricingRuleFilter) ([]model.PricingRule, error) {
	var rules []model.PricingRule
	q := r.db.WithContext(ctx).Model(&model.PricingRule{})
	if filter.CardBrand != "" {
		q = q.Where("card_brand = ?", filter.CardBrand)
	}
	if filter.Installments > 0 {
		q = q.Where("installments = ?", filter.Installments)
	}
	if filter.Channel != "" {
		q = q.Where("channel = ?", filter.Channel)
	}
	err := q.Order("card_brand ASC, installments ASC, channel ASC").Find(&rules).Error
	return rules, err
}

func (r *ruleRepo) CreatePricingRule(ctx context.Context, rule *model.PricingRule) error {
	if err := r.db.WithContext(ctx).Create(rule).Error; err != nil {
		return classifyPgError(err, apierror.CodeDuplicado)
	}
	return nil
}

func (r *ruleRepo) DeletePricingRule(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, &model.PricingRule{}, id)
}

func (r *ruleRepo) ListPlanCanje(ctx context.Context, filter dto.PlanCanjeFilter) ([]model.PlanCanjeRule, error) {
	var rules []model.PlanCanjeRule
	q := r.db.WithContext(ctx).Model(&model.PlanCanjeRule{})
	if filter.Modelo != "" {
		q = q.Where("modelo = ?", filter.Modelo)
	}
	err := q.Order("modelo ASC, battery_min DESC").Find(&rules).Error
	return rules, err
}

func (r *ruleRepo) CreatePlanCanje(ctx context.Context, rule *model.PlanCanjeRule) error {
	if err := r.db.WithContext(ctx).Create(rule).Error; err != nil {
		return classifyPgError(err, apierror.CodeDuplicado)
	}
	return nil
}

func (r *ruleRepo) DeletePlanCanje(ctx context.Context, id uuid.UUID) error {
	return deleteByID(ctx, r.db, &model.PlanCanjeRule{}, id)
}

func deleteByID(ctx context.Context, db *gorm.DB, m interface{}, id uuid.UUID) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(m)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

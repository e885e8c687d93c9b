package service

import (
	"context"
	"errors"
	"fmt"

	"myphone/internal/apierror"
	"myphone/internal/dto"
	"myphone/internal/model"
	"myphone/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrReglaNoEncontrada = errors.New("regla no encontrada")
	// ErrReglaInvalida is wrapped with the concrete reason.
	ErrReglaInvalida = errors.New("regla inválida")
)

// ReglasService administers the rule sets read by the cotizador and canje.
type ReglasService interface {
	ListarPricing(ctx context.Context, filter dto.PricingRuleFilter) ([]dto.PricingRuleResponse, error)
	CrearPricing(ctx context.Context, req dto.CrearPricingRuleRequest) (*dto.PricingRuleResponse, error)
	EliminarPricing(ctx context.Context, id uuid.UUID) error
	ListarPlanCanje(ctx context.Context, filter dto.PlanCanjeFilter) ([]dto.PlanCanjeResponse, error)
	CrearPlanCanje(ctx context.Context, req dto.CrearPlanCanjeRequest) (*dto.PlanCanjeResponse, error)
	EliminarPlanCanje(ctx context.Context, id uuid.UUID) error
}

type reglasService struct {
	repo repository.RuleRepository
}

func NewReglasService(repo repository.RuleRepository) ReglasService {
	return &reglasService{repo: repo}
}

// ── Pricing ──────────────────────────────────────────────────────────────────

func (s *reglasService) ListarPricing(ctx context.Context, filter dto.PricingRuleFilter) ([]dto.PricingRuleResponse, error) {
	rules, err := s.repo.ListPricingRules(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PricingRuleResponse, 0, len(rules))
	for i := range rules {
		out = append(out, pricingRuleToResponse(&rules[i]))
	}
	return out, nil
}

// CrearPricing keeps (card_brand, installments, channel) unique so the
// matcher never sees two rules for the same exact key.
func (s *reglasService) CrearPricing(ctx context.Context, req dto.CrearPricingRuleRequest) (*dto.PricingRuleResponse, error) {
	channel := model.Channel(req.Channel)
	if !channel.Valid() {
		return nil, fmt.Errorf("%w: canal %q desconocido", ErrReglaInvalida, req.Channel)
	}
	if req.SurchargePct.IsNegative() {
		return nil, fmt.Errorf("%w: el recargo no puede ser negativo", ErrReglaInvalida)
	}

	existing, err := s.repo.ListPricingRules(ctx, dto.PricingRuleFilter{
		CardBrand:    req.CardBrand,
		Installments: req.Installments,
		Channel:      req.Channel,
	})
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, apierror.NewStoreError(apierror.CodeDuplicado,
			fmt.Sprintf("ya existe una regla para %s en %d cuotas (%s)", req.CardBrand, req.Installments, req.Channel))
	}

	rule := &model.PricingRule{
		CardBrand:    req.CardBrand,
		Installments: req.Installments,
		Channel:      channel,
		SurchargePct: req.SurchargePct,
	}
	if err := s.repo.CreatePricingRule(ctx, rule); err != nil {
		return nil, err
	}
	resp := pricingRuleToResponse(rule)
	return &resp, nil
}

func (s *reglasService) EliminarPricing(ctx context.Context, id uuid.UUID) error {
	return notFoundAs(s.repo.DeletePricingRule(ctx, id), ErrReglaNoEncontrada)
}

// ── Plan canje ───────────────────────────────────────────────────────────────

func (s *reglasService) ListarPlanCanje(ctx context.Context, filter dto.PlanCanjeFilter) ([]dto.PlanCanjeResponse, error) {
	rules, err := s.repo.ListPlanCanje(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PlanCanjeResponse, 0, len(rules))
	for i := range rules {
		out = append(out, planCanjeToResponse(&rules[i]))
	}
	return out, nil
}

// CrearPlanCanje rejects bands that could never produce a value and bands
// identical to an existing one. Overlapping bands are allowed; the matcher
// resolves them deterministically.
func (s *reglasService) CrearPlanCanje(ctx context.Context, req dto.CrearPlanCanjeRequest) (*dto.PlanCanjeResponse, error) {
	if req.BatteryMin > req.BatteryMax {
		return nil, fmt.Errorf("%w: battery_min (%d) mayor que battery_max (%d)", ErrReglaInvalida, req.BatteryMin, req.BatteryMax)
	}
	if !positive(req.ValueArs) && !positive(req.PctOfReference) {
		return nil, fmt.Errorf("%w: indique value_ars o pct_of_reference mayor a cero", ErrReglaInvalida)
	}

	existing, err := s.repo.ListPlanCanje(ctx, dto.PlanCanjeFilter{Modelo: req.Modelo})
	if err != nil {
		return nil, err
	}
	for _, r := range existing {
		if r.BatteryMin == req.BatteryMin && r.BatteryMax == req.BatteryMax && sameStorage(r.StorageGB, req.StorageGB) {
			return nil, apierror.NewStoreError(apierror.CodeDuplicado,
				fmt.Sprintf("ya existe una banda %d-%d%% para %s", req.BatteryMin, req.BatteryMax, req.Modelo))
		}
	}

	rule := &model.PlanCanjeRule{
		Modelo:     req.Modelo,
		StorageGB:  req.StorageGB,
		BatteryMin: req.BatteryMin,
		BatteryMax: req.BatteryMax,
	}
	if req.PctOfReference != nil {
		rule.PctOfReference = decimal.NewNullDecimal(*req.PctOfReference)
	}
	if req.ValueArs != nil {
		rule.ValueArs = decimal.NewNullDecimal(*req.ValueArs)
	}
	if err := s.repo.CreatePlanCanje(ctx, rule); err != nil {
		return nil, err
	}
	resp := planCanjeToResponse(rule)
	return &resp, nil
}

func (s *reglasService) EliminarPlanCanje(ctx context.Context, id uuid.UUID) error {
	return notFoundAs(s.repo.DeletePlanCanje(ctx, id), ErrReglaNoEncontrada)
}

// ── helpers ──────────────────────────────────────────────────────────────────

func notFoundAs(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}

func positive(d *decimal.Decimal) bool { return d != nil && d.IsPositive() }

func sameStorage(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func pricingRuleToResponse(r *model.PricingRule) dto.PricingRuleResponse {
	return dto.PricingRuleResponse{
		ID:           r.ID.String(),
		CardBrand:    r.CardBrand,
		Installments: r.Installments,
		Channel:      string(r.Channel),
		SurchargePct: r.SurchargePct,
	}
}

func planCanjeToResponse(r *model.PlanCanjeRule) dto.PlanCanjeResponse {
	return dto.PlanCanjeResponse{
		ID:             r.ID.String(),
		Modelo:         r.Modelo,
		StorageGB:      r.StorageGB,
		BatteryMin:     r.BatteryMin,
		BatteryMax:     r.BatteryMax,
		PctOfReference: r.PctOfReference,
		ValueArs:       r.ValueArs,
	}
}

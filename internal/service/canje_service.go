package service

import (
	"context"

	"myphone/internal/dto"
	"myphone/internal/repository"
	"myphone/internal/rules"
	"myphone/internal/valuation"

	"github.com/shopspring/decimal"
)

// Valuation methods reported to the seller.
const (
	MetodoValorFijo  = "valor_fijo"
	MetodoPorcentaje = "porcentaje"
	MetodoManual     = "manual"
)

// CanjeService suggests trade-in credit for a customer's device.
type CanjeService interface {
	Valuar(ctx context.Context, req dto.ValuarCanjeRequest) (*dto.ValuarCanjeResponse, error)
}

type canjeService struct {
	rules repository.RuleRepository
	fx    FXRateSource
}

func NewCanjeService(rules repository.RuleRepository, fx FXRateSource) CanjeService {
	return &canjeService{rules: rules, fx: fx}
}

func (s *canjeService) Valuar(ctx context.Context, req dto.ValuarCanjeRequest) (*dto.ValuarCanjeResponse, error) {
	reference := s.referencia(ctx, req)

	candidates, err := s.rules.ListPlanCanje(ctx, dto.PlanCanjeFilter{Modelo: req.Modelo})
	if err != nil {
		return nil, err
	}

	sug := valuation.Suggest(candidates, rules.ValuationLookup{
		Modelo:     req.Modelo,
		StorageGB:  req.StorageGB,
		BatteryPct: req.BatteryPct,
	}, reference)

	resp := &dto.ValuarCanjeResponse{
		ValorSugeridoArs: sug.ValueArs,
		ReferenciaArs:    reference,
		Metodo:           MetodoManual,
	}
	if sug.Rule != nil {
		id := sug.Rule.ID.String()
		resp.ReglaID = &id
	}
	if sug.ValueArs.Valid {
		if sug.Rule.ValueArs.Valid && sug.Rule.ValueArs.Decimal.IsPositive() {
			resp.Metodo = MetodoValorFijo
		} else {
			resp.Metodo = MetodoPorcentaje
		}
	}
	return resp, nil
}

// referencia is the device's ARS reference value. A USD reference with no
// known rate stays unknown so the valuation falls back to manual.
func (s *canjeService) referencia(ctx context.Context, req dto.ValuarCanjeRequest) decimal.NullDecimal {
	if req.ReferenciaArs != nil {
		return decimal.NewNullDecimal(*req.ReferenciaArs)
	}
	if req.ReferenciaUSD == nil {
		return decimal.NullDecimal{}
	}
	fx := resolveFX(ctx, s.fx, req.FxRate)
	if !fx.IsPositive() {
		return decimal.NullDecimal{}
	}
	return valuation.ReferenceFromUSD(decimal.NewNullDecimal(*req.ReferenciaUSD), fx)
}

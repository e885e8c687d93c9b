package service

import (
	"context"
	"errors"

	"myphone/internal/dto"
	"myphone/internal/model"
	"myphone/internal/pricing"
	"myphone/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var ErrPrecioRequerido = errors.New("indique precio_ars o precio_usd")

// FXRateSource returns the last known USD→ARS rate. *infra.FXCache
// satisfies it.
type FXRateSource interface {
	Latest(ctx context.Context) (decimal.Decimal, error)
}

// CotizadorService quotes a price across installment plans.
type CotizadorService interface {
	Cuotas(ctx context.Context, req dto.CuotasRequest) (*dto.CuotasResponse, error)
}

type cotizadorService struct {
	rules         repository.RuleRepository
	fx            FXRateSource
	defaultCuotas []int
}

func NewCotizadorService(rules repository.RuleRepository, fx FXRateSource, defaultCuotas []int) CotizadorService {
	if len(defaultCuotas) == 0 {
		defaultCuotas = pricing.DefaultInstallments
	}
	return &cotizadorService{rules: rules, fx: fx, defaultCuotas: defaultCuotas}
}

func (s *cotizadorService) Cuotas(ctx context.Context, req dto.CuotasRequest) (*dto.CuotasResponse, error) {
	if req.PrecioArs == nil && req.PrecioUSD == nil {
		return nil, ErrPrecioRequerido
	}

	channel := model.Channel(req.Channel)
	if channel == "" {
		channel = model.ChannelStandard
	}
	counts := req.Cuotas
	if len(counts) == 0 {
		counts = s.defaultCuotas
	}

	// An ARS price wins; a USD price is converted and a missing rate
	// degrades to a zero base.
	var base, fx decimal.Decimal
	if req.PrecioArs != nil {
		base = *req.PrecioArs
	} else {
		fx = resolveFX(ctx, s.fx, req.FxRate)
		base = pricing.BaseFromUSD(*req.PrecioUSD, fx)
	}

	candidates, err := s.rules.ListPricingRules(ctx, dto.PricingRuleFilter{CardBrand: req.CardBrand})
	if err != nil {
		return nil, err
	}

	rows := pricing.Table(candidates, base, req.CardBrand, channel, counts)
	filas := make([]dto.CuotaRow, 0, len(rows))
	for _, r := range rows {
		fila := dto.CuotaRow{
			Cuotas:     r.Installments,
			RecargoPct: r.SurchargePct,
			Total:      r.Total,
			ValorCuota: r.PerInstallment,
		}
		if r.Rule != nil {
			id := r.Rule.ID.String()
			ch := string(r.Rule.Channel)
			fila.ReglaID = &id
			fila.ReglaChannel = &ch
		}
		filas = append(filas, fila)
	}

	return &dto.CuotasResponse{
		BaseArs:   base,
		FxRate:    fx,
		CardBrand: req.CardBrand,
		Channel:   string(channel),
		Filas:     filas,
	}, nil
}

// resolveFX prefers the caller's rate, then the cached feed rate. With
// neither it returns zero.
func resolveFX(ctx context.Context, src FXRateSource, requested *decimal.Decimal) decimal.Decimal {
	if requested != nil {
		return *requested
	}
	if src == nil {
		return decimal.Zero
	}
	rate, err := src.Latest(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("cotizador: no fx rate available")
		return decimal.Zero
	}
	return rate
}

package dto

import "github.com/shopspring/decimal"

type CrearPricingRuleRequest struct {
	CardBrand    string          `json:"card_brand"    validate:"required,max=40"`
	Installments int             `json:"installments"  validate:"min=1,max=48"`
	Channel      string          `json:"channel"       validate:"required,oneof=standard mercado_pago"`
	SurchargePct decimal.Decimal `json:"surcharge_pct" validate:"min=0,max=500"`
}

type PricingRuleFilter struct {
	CardBrand    string `form:"card_brand"`
	Installments int    `form:"installments"`
	Channel      string `form:"channel"`
}

type PricingRuleResponse struct {
	ID           string          `json:"id"`
	CardBrand    string          `json:"card_brand"`
	Installments int             `json:"installments"`
	Channel      string          `json:"channel"`
	SurchargePct decimal.Decimal `json:"surcharge_pct"`
}

// CrearPlanCanjeRequest requires at least one of ValueArs / PctOfReference.
type CrearPlanCanjeRequest struct {
	Modelo         string           `json:"modelo"           validate:"required,max=80"`
	StorageGB      *int             `json:"storage_gb"       validate:"omitempty,min=1"`
	BatteryMin     int              `json:"battery_min"      validate:"min=0,max=100"`
	BatteryMax     int              `json:"battery_max"      validate:"min=0,max=100"`
	PctOfReference *decimal.Decimal `json:"pct_of_reference"`
	ValueArs       *decimal.Decimal `json:"value_ars"`
}

type PlanCanjeFilter struct {
	Modelo string `form:"modelo"`
}

type PlanCanjeResponse struct {
	ID             string              `json:"id"`
	Modelo         string              `json:"modelo"`
	StorageGB      *int                `json:"storage_gb"`
	BatteryMin     int                 `json:"battery_min"`
	BatteryMax     int                 `json:"battery_max"`
	PctOfReference decimal.NullDecimal `json:"pct_of_reference"`
	ValueArs       decimal.NullDecimal `json:"value_ars"`
}

package dto

import "github.com/shopspring/decimal"

// CuotasRequest asks for the installment table of a price. Either PrecioArs
// or PrecioUSD must be set; PrecioUSD is converted with FxRate, or with the
// cached feed rate when FxRate is absent.
type CuotasRequest struct {
	PrecioArs *decimal.Decimal `json:"precio_ars"`
	PrecioUSD *decimal.Decimal `json:"precio_usd"`
	FxRate    *decimal.Decimal `json:"fx_rate"`
	CardBrand string           `json:"card_brand"`
	Channel   string           `json:"channel"    validate:"omitempty,oneof=standard mercado_pago"`
	Cuotas    []int            `json:"cuotas"     validate:"max=24,dive,min=0,max=48"`
}

type CuotaRow struct {
	Cuotas       int             `json:"cuotas"`
	RecargoPct   decimal.Decimal `json:"recargo_pct"`
	Total        decimal.Decimal `json:"total"`
	ValorCuota   decimal.Decimal `json:"valor_cuota"`
	ReglaID      *string         `json:"regla_id"`
	ReglaChannel *string         `json:"regla_channel"`
}

type CuotasResponse struct {
	BaseArs   decimal.Decimal `json:"base_ars"`
	FxRate    decimal.Decimal `json:"fx_rate"`
	CardBrand string          `json:"card_brand"`
	Channel   string          `json:"channel"`
	Filas     []CuotaRow      `json:"filas"`
}

package dto

import "github.com/shopspring/decimal"

// ValuarCanjeRequest describes the customer's device. The reference value is
// either ReferenciaArs or ReferenciaUSD × FxRate (cached feed rate when absent).
type ValuarCanjeRequest struct {
	Modelo        string           `json:"modelo"         validate:"required"`
	StorageGB     *int             `json:"storage_gb"     validate:"omitempty,min=1"`
	BatteryPct    int              `json:"battery_pct"    validate:"min=0,max=100"`
	ReferenciaArs *decimal.Decimal `json:"referencia_ars"`
	ReferenciaUSD *decimal.Decimal `json:"referencia_usd"`
	FxRate        *decimal.Decimal `json:"fx_rate"`
}

// ValuarCanjeResponse.ValorSugeridoArs is null when no value is computable;
// the seller must then enter one by hand.
type ValuarCanjeResponse struct {
	ValorSugeridoArs decimal.NullDecimal `json:"valor_sugerido_ars"`
	ReferenciaArs    decimal.NullDecimal `json:"referencia_ars"`
	ReglaID          *string             `json:"regla_id"`
	Metodo           string              `json:"metodo"` // "valor_fijo" | "porcentaje" | "manual"
}

package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

// CrearStockItemRequest is the intake of a new unit. Intake can never start
// in "sold".
type CrearStockItemRequest struct {
	IMEI         string          `json:"imei"          validate:"required,min=14,max=17"`
	Modelo       string          `json:"modelo"        validate:"required,min=2,max=80"`
	StorageGB    *int            `json:"storage_gb"    validate:"omitempty,min=1"`
	BatteryPct   *int            `json:"battery_pct"   validate:"omitempty,min=0,max=100"`
	Color        string          `json:"color"`
	State        string          `json:"state"         validate:"required,oneof=new outlet used_premium reserved deposit drawer service_tech"`
	IsPromo      bool            `json:"is_promo"`
	PurchaseArs  decimal.Decimal `json:"purchase_ars"`
	PurchaseUSD  decimal.Decimal `json:"purchase_usd"`
	SalePriceArs decimal.Decimal `json:"sale_price_ars"`
	SalePriceUSD decimal.Decimal `json:"sale_price_usd"`
	FxRateUsed   decimal.Decimal `json:"fx_rate_used"`
}

// CambiarEstadoRequest asks for a lifecycle move. "sold" is accepted by the
// validator so the guard, not the binder, answers for sold items.
// Version, when present, is the snapshot the client acted on; the store
// rejects the mutation if the item moved since.
type CambiarEstadoRequest struct {
	State   string `json:"state"   validate:"required,oneof=new outlet used_premium reserved deposit drawer service_tech sold"`
	Motivo  string `json:"motivo"  validate:"max=200"`
	Version *int   `json:"version" validate:"omitempty,min=1"`
}

type CambiarPromoRequest struct {
	IsPromo *bool `json:"is_promo" validate:"required"`
	Version *int  `json:"version"  validate:"omitempty,min=1"`
}

// VenderRequest links the unit to the sale that consumed it.
type VenderRequest struct {
	SaleID  string `json:"sale_id" validate:"required,uuid"`
	Version *int   `json:"version" validate:"omitempty,min=1"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type StockFilter struct {
	State   string `form:"state"`
	Status  string `form:"status"` // legacy callers filter by coarse status
	Modelo  string `form:"modelo"`
	IsPromo *bool  `form:"is_promo"`
	Page    int    `form:"page,default=1"   validate:"min=1"`
	Limit   int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type StockItemResponse struct {
	ID           string          `json:"id"`
	IMEI         string          `json:"imei"`
	Modelo       string          `json:"modelo"`
	StorageGB    *int            `json:"storage_gb"`
	BatteryPct   *int            `json:"battery_pct"`
	Color        string          `json:"color"`
	State        string          `json:"state"`
	Status       string          `json:"status"`
	SaleID       *string         `json:"sale_id"`
	IsPromo      bool            `json:"is_promo"`
	Version      int             `json:"version"`
	PurchaseArs  decimal.Decimal `json:"purchase_ars"`
	PurchaseUSD  decimal.Decimal `json:"purchase_usd"`
	SalePriceArs decimal.Decimal `json:"sale_price_ars"`
	SalePriceUSD decimal.Decimal `json:"sale_price_usd"`
	FxRateUsed   decimal.Decimal `json:"fx_rate_used"`
	UpdatedAt    string          `json:"updated_at"`

	// Guard verdicts so the UI can disable actions without a round-trip.
	PuedeCambiarEstado bool `json:"puede_cambiar_estado"`
	PuedeCambiarPromo  bool `json:"puede_cambiar_promo"`
}

type StockListResponse struct {
	Data       []StockItemResponse `json:"data"`
	Total      int64               `json:"total"`
	Page       int                 `json:"page"`
	Limit      int                 `json:"limit"`
	TotalPages int                 `json:"total_pages"`
}

type MovimientoStockItem struct {
	ID             string  `json:"id"`
	Tipo           string  `json:"tipo"`
	EstadoAnterior string  `json:"estado_anterior,omitempty"`
	EstadoNuevo    string  `json:"estado_nuevo,omitempty"`
	PromoAnterior  *bool   `json:"promo_anterior,omitempty"`
	PromoNuevo     *bool   `json:"promo_nuevo,omitempty"`
	Motivo         string  `json:"motivo"`
	ReferenciaID   *string `json:"referencia_id,omitempty"`
	CreatedAt      string  `json:"created_at"`
}

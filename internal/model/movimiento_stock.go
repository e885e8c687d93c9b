package model

import (
	"time"

	"github.com/google/uuid"
)

// StockMovimiento records every lifecycle change of a stock item.
// Rows are append-only; they are written by the worker pool from stock events.
type StockMovimiento struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	StockItemID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	Tipo           string     `gorm:"not null"` // "cambio_estado" | "promo" | "venta" | "alta"
	EstadoAnterior StockState `gorm:"type:varchar(20)"`
	EstadoNuevo    StockState `gorm:"type:varchar(20)"`
	PromoAnterior  *bool
	PromoNuevo     *bool
	Motivo         string
	ReferenciaID   *uuid.UUID `gorm:"type:uuid"` // sale_id when Tipo == "venta"
	UsuarioID      *uuid.UUID `gorm:"type:uuid"`
	CreatedAt      time.Time
}

// TableName overrides GORM's default pluralization (stock_movimientos → movimientos_stock).
func (StockMovimiento) TableName() string { return "movimientos_stock" }

package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StockState is the authoritative lifecycle state of a physical unit.
type StockState string

const (
	StateNew         StockState = "new"
	StateOutlet      StockState = "outlet"
	StateUsedPremium StockState = "used_premium"
	StateReserved    StockState = "reserved"
	StateDeposit     StockState = "deposit"
	StateDrawer      StockState = "drawer"
	StateServiceTech StockState = "service_tech"
	StateSold        StockState = "sold"
)

// StockStates lists every lifecycle state in display order.
var StockStates = []StockState{
	StateNew, StateOutlet, StateUsedPremium, StateReserved,
	StateDeposit, StateDrawer, StateServiceTech, StateSold,
}

// Valid reports whether s is one of the known lifecycle states.
func (s StockState) Valid() bool {
	for _, st := range StockStates {
		if s == st {
			return true
		}
	}
	return false
}

// LegacyStatus is the coarse projection of StockState still read by older
// call sites (listings, exports). It is never stored independently.
type LegacyStatus string

const (
	StatusAvailable   LegacyStatus = "available"
	StatusReserved    LegacyStatus = "reserved"
	StatusSold        LegacyStatus = "sold"
	StatusDrawer      LegacyStatus = "drawer"
	StatusServiceTech LegacyStatus = "service_tech"
)

// DeriveStatus maps a lifecycle state to its legacy status.
// sold and reserved map one-to-one; drawer and service_tech keep their own
// status; everything else still in inventory is "available".
func DeriveStatus(s StockState) LegacyStatus {
	switch s {
	case StateSold:
		return StatusSold
	case StateReserved:
		return StatusReserved
	case StateDrawer:
		return StatusDrawer
	case StateServiceTech:
		return StatusServiceTech
	default:
		return StatusAvailable
	}
}

// StockItem is one physical phone tracked in inventory.
// SaleID is only non-nil once State == sold (enforced by a CHECK constraint).
type StockItem struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	IMEI       string     `gorm:"uniqueIndex;not null"`
	Modelo     string     `gorm:"index;not null"`
	StorageGB  *int
	BatteryPct *int
	Color      string
	State      StockState `gorm:"type:varchar(20);not null;index"`
	// Status is the legacy projection, written only by BeforeSave.
	Status  LegacyStatus `gorm:"type:varchar(20);not null"`
	SaleID  *uuid.UUID   `gorm:"type:uuid"`
	IsPromo bool         `gorm:"not null;default:false"`
	// Version is bumped on every mutation; conditional updates match on it.
	Version int `gorm:"not null;default:1"`

	// Pricing fields are informational to the lifecycle rules.
	PurchaseArs  decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	PurchaseUSD  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	SalePriceArs decimal.Decimal `gorm:"type:decimal(14,2);not null;default:0"`
	SalePriceUSD decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	FxRateUsed   decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName keeps the table name stable regardless of GORM pluralization.
func (StockItem) TableName() string { return "stock_items" }

// LegacyStatus returns the coarse status derived from State.
func (i *StockItem) LegacyStatus() LegacyStatus { return DeriveStatus(i.State) }

// BeforeSave keeps the legacy status column in lockstep with State.
func (i *StockItem) BeforeSave(_ *gorm.DB) error {
	i.Status = DeriveStatus(i.State)
	return nil
}

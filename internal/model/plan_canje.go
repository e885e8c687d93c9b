package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PlanCanjeRule is one trade-in valuation band: a model (optionally a
// storage size) within an inclusive battery percentage range maps to either
// a fixed ARS value or a percentage of the device's reference value.
// ValueArs wins over PctOfReference when both are set.
type PlanCanjeRule struct {
	ID             uuid.UUID           `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Modelo         string              `gorm:"not null;index"`
	StorageGB      *int                // nil = any storage
	BatteryMin     int                 `gorm:"not null;default:0"`
	BatteryMax     int                 `gorm:"not null;default:100"`
	PctOfReference decimal.NullDecimal `gorm:"type:decimal(6,2)"`
	ValueArs       decimal.NullDecimal `gorm:"type:decimal(14,2)"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (PlanCanjeRule) TableName() string { return "plan_canje" }

// BatteryWidth is the size of the battery band; narrower bands are more specific.
func (r PlanCanjeRule) BatteryWidth() int { return r.BatteryMax - r.BatteryMin }

package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Channel is the payment channel an installment surcharge applies to.
type Channel string

const (
	ChannelStandard    Channel = "standard"
	ChannelMercadoPago Channel = "mercado_pago"
)

// Valid reports whether c is a known channel.
func (c Channel) Valid() bool {
	return c == ChannelStandard || c == ChannelMercadoPago
}

// PricingRule maps (card brand, installments, channel) to a surcharge
// percentage. (CardBrand, Installments, Channel) is unique.
type PricingRule struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CardBrand    string          `gorm:"not null;index"`
	Installments int             `gorm:"not null"`
	Channel      Channel         `gorm:"type:varchar(20);not null;default:'standard'"`
	SurchargePct decimal.Decimal `gorm:"type:decimal(6,2);not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (PricingRule) TableName() string { return "pricing_rules" }

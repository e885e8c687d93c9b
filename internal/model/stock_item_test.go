package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveStatus(t *testing.T) {
	cases := map[StockState]LegacyStatus{
		StateNew:         StatusAvailable,
		StateOutlet:      StatusAvailable,
		StateUsedPremium: StatusAvailable,
		StateDeposit:     StatusAvailable,
		StateReserved:    StatusReserved,
		StateSold:        StatusSold,
		StateDrawer:      StatusDrawer,
		StateServiceTech: StatusServiceTech,
	}
	for state, want := range cases {
		assert.Equal(t, want, DeriveStatus(state), state)
	}
}

func TestBeforeSaveSyncsStatus(t *testing.T) {
	it := &StockItem{State: StateReserved, Status: StatusAvailable}
	assert.NoError(t, it.BeforeSave(nil))
	assert.Equal(t, StatusReserved, it.Status)

	it.State = StateSold
	assert.NoError(t, it.BeforeSave(nil))
	assert.Equal(t, StatusSold, it.Status)
	assert.Equal(t, StatusSold, it.LegacyStatus())
}

func TestStockStateValid(t *testing.T) {
	assert.True(t, StateUsedPremium.Valid())
	assert.False(t, StockState("available").Valid())
	assert.False(t, StockState("").Valid())
	assert.True(t, ChannelMercadoPago.Valid())
	assert.False(t, Channel("visa").Valid())
}

package pricing

import (
	"testing"

	"myphone/internal/model"
	"myphone/internal/rules"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestComputeInstallmentRow(t *testing.T) {
	row := ComputeInstallmentRow(d("100000"), 6, d("10"))
	assert.True(t, row.Total.Equal(d("110000")), row.Total.String())
	assert.Equal(t, "18333.33", row.PerInstallment.StringFixed(2))
	assert.Equal(t, 6, row.Installments)
}

func TestComputeInstallmentRowZeroInstallments(t *testing.T) {
	row := ComputeInstallmentRow(d("100000"), 0, decimal.Zero)
	assert.True(t, row.Total.Equal(d("100000")))
	assert.True(t, row.PerInstallment.Equal(row.Total))

	row = ComputeInstallmentRow(d("5000"), -3, d("20"))
	assert.True(t, row.PerInstallment.Equal(d("6000")))
}

func TestComputeInstallmentRowDoesNotRound(t *testing.T) {
	row := ComputeInstallmentRow(d("100"), 3, decimal.Zero)
	assert.True(t, row.PerInstallment.GreaterThan(d("33.33")))
	assert.True(t, row.PerInstallment.LessThan(d("33.34")))
}

func TestBaseFromUSD(t *testing.T) {
	assert.True(t, BaseFromUSD(d("850"), d("1215.5")).Equal(d("1033175")))
	base := BaseFromUSD(d("850"), decimal.Zero)
	assert.True(t, base.IsZero())

	row := ComputeInstallmentRow(base, 6, d("10"))
	assert.True(t, row.Total.IsZero())
	assert.True(t, row.PerInstallment.IsZero())
}

func TestQuoteWithoutRuleIsZeroSurcharge(t *testing.T) {
	row := Quote(nil, d("200000"), rules.PricingLookup{CardBrand: "naranja", Installments: 3, Channel: model.ChannelStandard})
	assert.Nil(t, row.Rule)
	assert.True(t, row.SurchargePct.IsZero())
	assert.True(t, row.Total.Equal(d("200000")))
}

func TestTable(t *testing.T) {
	set := []model.PricingRule{
		{ID: uuid.New(), CardBrand: "visa", Installments: 3, Channel: model.ChannelStandard, SurchargePct: d("9")},
		{ID: uuid.New(), CardBrand: "visa", Installments: 6, Channel: model.ChannelStandard, SurchargePct: d("18")},
		{ID: uuid.New(), CardBrand: "visa", Installments: 6, Channel: model.ChannelMercadoPago, SurchargePct: d("25")},
	}

	rows := Table(set, d("100000"), "visa", model.ChannelMercadoPago, nil)
	require.Len(t, rows, len(DefaultInstallments))

	assert.Equal(t, 1, rows[0].Installments)
	assert.Nil(t, rows[0].Rule)
	assert.True(t, rows[0].Total.Equal(d("100000")))

	require.NotNil(t, rows[1].Rule)
	assert.True(t, rows[1].Total.Equal(d("109000")), "3 cuotas fall back to the standard rule")

	require.NotNil(t, rows[2].Rule)
	assert.Equal(t, model.ChannelMercadoPago, rows[2].Rule.Channel)
	assert.True(t, rows[2].Total.Equal(d("125000")))

	assert.Nil(t, rows[3].Rule)
}

package rules

import (
	"math/rand"
	"testing"

	"myphone/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pr(brand string, cuotas int, ch model.Channel, pct float64) model.PricingRule {
	return model.PricingRule{
		ID:           uuid.New(),
		CardBrand:    brand,
		Installments: cuotas,
		Channel:      ch,
		SurchargePct: decimal.NewFromFloat(pct),
	}
}

func gb(n int) *int { return &n }

func plan(modelo string, storage *int, lo, hi int) model.PlanCanjeRule {
	return model.PlanCanjeRule{ID: uuid.New(), Modelo: modelo, StorageGB: storage, BatteryMin: lo, BatteryMax: hi}
}

func shuffled[T any](in []T, seed int64) []T {
	out := append([]T(nil), in...)
	rnd := rand.New(rand.NewSource(seed))
	rnd.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

func TestMatchPricingRulePrefersExactChannel(t *testing.T) {
	std := pr("visa", 6, model.ChannelStandard, 18)
	mp := pr("visa", 6, model.ChannelMercadoPago, 24)
	set := []model.PricingRule{std, mp, pr("visa", 3, model.ChannelMercadoPago, 9)}

	got, ok := MatchPricingRule(set, PricingLookup{CardBrand: "visa", Installments: 6, Channel: model.ChannelMercadoPago})
	require.True(t, ok)
	assert.Equal(t, mp.ID, got.ID)

	got, ok = MatchPricingRule(set, PricingLookup{CardBrand: "visa", Installments: 6, Channel: model.ChannelStandard})
	require.True(t, ok)
	assert.Equal(t, std.ID, got.ID)
}

func TestMatchPricingRuleFallsBackToAnyChannel(t *testing.T) {
	mp := pr("master", 12, model.ChannelMercadoPago, 35)
	got, ok := MatchPricingRule([]model.PricingRule{mp}, PricingLookup{CardBrand: "master", Installments: 12, Channel: model.ChannelStandard})
	require.True(t, ok)
	assert.Equal(t, mp.ID, got.ID)
}

func TestMatchPricingRuleBrandIsCaseSensitive(t *testing.T) {
	set := []model.PricingRule{pr("Visa", 3, model.ChannelStandard, 8)}
	_, ok := MatchPricingRule(set, PricingLookup{CardBrand: "visa", Installments: 3, Channel: model.ChannelStandard})
	assert.False(t, ok)
}

func TestMatchPricingRuleNoMatch(t *testing.T) {
	set := []model.PricingRule{pr("visa", 3, model.ChannelStandard, 8)}
	got, ok := MatchPricingRule(set, PricingLookup{CardBrand: "naranja", Installments: 3, Channel: model.ChannelStandard})
	assert.False(t, ok)
	assert.True(t, got.SurchargePct.IsZero())

	_, ok = MatchPricingRule(nil, PricingLookup{Installments: 1})
	assert.False(t, ok)
}

func TestMatchPricingRuleEmptyBrandIsDeterministic(t *testing.T) {
	set := []model.PricingRule{
		pr("visa", 6, model.ChannelMercadoPago, 20),
		pr("amex", 6, model.ChannelMercadoPago, 30),
		pr("master", 6, model.ChannelStandard, 15),
		pr("amex", 6, model.ChannelStandard, 12),
		pr("visa", 3, model.ChannelStandard, 9),
	}
	key := PricingLookup{Installments: 6, Channel: model.ChannelStandard}

	first, ok := MatchPricingRule(set, key)
	require.True(t, ok)
	assert.Equal(t, "amex", first.CardBrand)
	assert.Equal(t, model.ChannelStandard, first.Channel)

	for seed := int64(0); seed < 25; seed++ {
		got, ok := MatchPricingRule(shuffled(set, seed), key)
		require.True(t, ok)
		assert.Equal(t, first.ID, got.ID)
	}
}

func TestMatchPricingRuleFallbackIsDeterministic(t *testing.T) {
	// No mercado_pago rule: two rules on other channels compete.
	set := []model.PricingRule{
		pr("visa", 6, model.ChannelStandard, 18),
		pr("visa", 6, model.Channel("legacy"), 40),
	}
	key := PricingLookup{CardBrand: "visa", Installments: 6, Channel: model.ChannelMercadoPago}
	for seed := int64(0); seed < 10; seed++ {
		got, ok := MatchPricingRule(shuffled(set, seed), key)
		require.True(t, ok)
		assert.Equal(t, model.ChannelStandard, got.Channel)
	}
}

func TestMatchValuationRuleInclusiveBounds(t *testing.T) {
	band := plan("iPhone 12", nil, 80, 89)
	set := []model.PlanCanjeRule{band}

	for _, pct := range []int{80, 85, 89} {
		_, ok := MatchValuationRule(set, ValuationLookup{Modelo: "iPhone 12", BatteryPct: pct})
		assert.True(t, ok, pct)
	}
	for _, pct := range []int{79, 90} {
		_, ok := MatchValuationRule(set, ValuationLookup{Modelo: "iPhone 12", BatteryPct: pct})
		assert.False(t, ok, pct)
	}
	_, ok := MatchValuationRule(set, ValuationLookup{Modelo: "iPhone 12 Pro", BatteryPct: 85})
	assert.False(t, ok)
}

func TestMatchValuationRuleStorage(t *testing.T) {
	g128 := plan("iPhone 13", gb(128), 0, 100)
	g256 := plan("iPhone 13", gb(256), 0, 100)
	set := []model.PlanCanjeRule{g128, g256}

	got, ok := MatchValuationRule(set, ValuationLookup{Modelo: "iPhone 13", StorageGB: gb(256), BatteryPct: 90})
	require.True(t, ok)
	assert.Equal(t, g256.ID, got.ID)

	_, ok = MatchValuationRule(set, ValuationLookup{Modelo: "iPhone 13", StorageGB: gb(512), BatteryPct: 90})
	assert.False(t, ok)

	generic := plan("iPhone 13", nil, 0, 100)
	got, ok = MatchValuationRule([]model.PlanCanjeRule{generic}, ValuationLookup{Modelo: "iPhone 13", StorageGB: gb(512), BatteryPct: 90})
	require.True(t, ok)
	assert.Equal(t, generic.ID, got.ID)
}

func TestMatchValuationRuleNarrowestBandWins(t *testing.T) {
	wide := plan("iPhone 11", nil, 70, 100)
	narrow := plan("iPhone 11", nil, 85, 95)
	specific := plan("iPhone 11", gb(64), 70, 100)
	set := []model.PlanCanjeRule{wide, narrow, specific}
	key := ValuationLookup{Modelo: "iPhone 11", StorageGB: gb(64), BatteryPct: 90}

	for seed := int64(0); seed < 25; seed++ {
		got, ok := MatchValuationRule(shuffled(set, seed), key)
		require.True(t, ok)
		assert.Equal(t, narrow.ID, got.ID)
	}

	// Same width: the storage-specific band beats the generic one.
	got, ok := MatchValuationRule(shuffled([]model.PlanCanjeRule{wide, specific}, 3), key)
	require.True(t, ok)
	assert.Equal(t, specific.ID, got.ID)
}

func TestMatchValuationRuleFixedValueWins(t *testing.T) {
	pct := plan("iPhone 12", nil, 85, 90)
	pct.PctOfReference = decimal.NewNullDecimal(decimal.NewFromInt(70))
	fixed := plan("iPhone 12", nil, 0, 100)
	fixed.ValueArs = decimal.NewNullDecimal(decimal.NewFromInt(50000))
	zero := plan("iPhone 12", nil, 88, 88)
	zero.ValueArs = decimal.NewNullDecimal(decimal.Zero)

	key := ValuationLookup{Modelo: "iPhone 12", BatteryPct: 88}
	for seed := int64(0); seed < 25; seed++ {
		got, ok := MatchValuationRule(shuffled([]model.PlanCanjeRule{pct, fixed, zero}, seed), key)
		require.True(t, ok)
		assert.Equal(t, fixed.ID, got.ID)
	}
}
